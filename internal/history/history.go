// Package history implements the bounded undo/redo stack for the builder.
//
// Only the tracked subset of session state participates: the layout template
// plus a human-readable action description. Selection, clipboard, zoom and
// the other ephemeral interaction fields are excluded, so undo/redo never
// perturbs UI focus.
package history

import (
	"time"

	"pagebuilder/internal/domain"
)

// MaxEntries bounds the undo stack. When the past exceeds it, the oldest
// entry is evicted first.
const MaxEntries = 50

// Snapshot is one tracked-state entry: a deep copy of the template plus the
// description of the action that produced it. Snapshots are exclusively
// owned by the History — they never alias live editable state.
type Snapshot struct {
	Template    *domain.LayoutTemplate `json:"template"`
	Description string                 `json:"description"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Tracked is the projection from full session state to the snapshot type.
// Keeping it as a single named function keeps the tracked-subset policy in
// one testable place. The template is deep-copied on the way in.
func Tracked(t *domain.LayoutTemplate, description string) Snapshot {
	return Snapshot{
		Template:    t.Clone(),
		Description: description,
		Timestamp:   time.Now(),
	}
}

// History holds the past/present/future snapshot stacks.
// past runs oldest to newest; future runs nearest-undo to farthest-redo.
type History struct {
	past    []Snapshot
	present Snapshot
	future  []Snapshot
}

// New creates a History seeded with the initial tracked state.
func New(initial Snapshot) *History {
	return &History{present: initial}
}

// Record pushes the present onto the past, makes s the new present, and
// clears the redo future. A new edit always invalidates pending redos.
func (h *History) Record(s Snapshot) {
	h.past = append(h.past, h.present)
	if len(h.past) > MaxEntries {
		h.past = h.past[1:]
	}
	h.present = s
	h.future = nil
}

// Undo steps the present back one entry. Returns false when the past is
// empty — the initial state is the terminal state for undo, not an error.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]Snapshot{h.present}, h.future...)
	h.present = last
	return true
}

// Redo steps the present forward one entry. Returns false when the future is
// empty.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Present returns a deep copy of the current tracked state. Restores must
// never hand out an aliased snapshot: a later live edit would otherwise
// mutate history.
func (h *History) Present() Snapshot {
	s := h.present
	s.Template = s.Template.Clone()
	return s
}

// Depth returns the number of undoable entries.
func (h *History) Depth() int { return len(h.past) }
