// Package session ties the layout engine, history manager, and interaction
// state together into one editing session per open document.
//
// A Session is an explicit context object: created when a document is
// opened, dropped when it closes. There is no package-level state, so tests
// and multi-document hosts can run any number of independent sessions.
// All access is serialized through an internal mutex — the MCP surface, the
// autosave scheduler, and the document watcher share one open document from
// separate goroutines.
package session

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/history"
	"pagebuilder/internal/layout"
	"pagebuilder/internal/registry"
)

// Session owns the live template of one open document plus its undo history
// and interaction state.
type Session struct {
	mu       sync.Mutex
	template *domain.LayoutTemplate
	hist     *history.History
	state    InteractionState
	registry *registry.Registry
}

// New opens an editing session over a template. The template is deep-copied
// in, so the caller's value stays detached from the session's live document.
func New(t *domain.LayoutTemplate, reg *registry.Registry) *Session {
	live := t.Clone()
	return &Session{
		template: live,
		hist:     history.New(history.Tracked(live, "Open document")),
		state:    newInteractionState(),
		registry: reg,
	}
}

// Template returns a deep copy of the live document for rendering and
// serialization. The session's own copy never escapes, so a concurrent
// mutation can never reach a document a reader is holding.
func (s *Session) Template() *domain.LayoutTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template.Clone()
}

// State returns a copy of the current interaction state.
func (s *Session) State() InteractionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs one structural mutation through the engine, snapshots the
// result into history, and marks the document dirty. Mutations that leave
// the document structurally unchanged (stale ids, invalid indices) record
// nothing and return false.
func (s *Session) Apply(description string, mutate func(*domain.LayoutTemplate) *domain.LayoutTemplate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(description, mutate)
}

// applyLocked is Apply without the lock, for callers already holding it.
func (s *Session) applyLocked(description string, mutate func(*domain.LayoutTemplate) *domain.LayoutTemplate) bool {
	next := mutate(s.template)
	if reflect.DeepEqual(next, s.template) {
		return false
	}
	s.template = next
	s.hist.Record(history.Tracked(next, description))
	s.state.IsDirty = true
	return true
}

// ── Structural mutations ───────────────────────────────────

// AddComponent inserts a component into a zone. Empty zoneID targets the
// first zone; negative index appends.
func (s *Session) AddComponent(c domain.PlacedComponent, zoneID string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(fmt.Sprintf("Add %s", c.Type), func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.AddComponent(t, c, zoneID, index)
	})
}

// UpdateComponentProps shallow-merges partial props into a component.
func (s *Session) UpdateComponentProps(componentID string, partial map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked("Update properties", func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.UpdateComponentProps(t, componentID, partial)
	})
}

// UpdateComponentDataSource replaces a component's data source wholesale.
func (s *Session) UpdateComponentDataSource(componentID string, ds *domain.DataSourceConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked("Update data source", func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.UpdateComponentDataSource(t, componentID, ds)
	})
}

// DeleteComponent removes a component and clears any selection or hover
// referencing it.
func (s *Session) DeleteComponent(componentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.applyLocked("Delete component", func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.DeleteComponent(t, componentID)
	})
	if changed {
		if s.state.SelectedComponentID == componentID {
			s.state.SelectedComponentID = ""
		}
		if s.state.HoveredComponentID == componentID {
			s.state.HoveredComponentID = ""
		}
	}
	return changed
}

// ReorderComponent moves a component to a new index within its zone.
func (s *Session) ReorderComponent(zoneID string, oldIndex, newIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked("Reorder components", func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.ReorderComponent(t, zoneID, oldIndex, newIndex)
	})
}

// MoveComponent relocates a component across zones. Negative index appends.
func (s *Session) MoveComponent(componentID, sourceZoneID, targetZoneID string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked("Move component", func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.MoveComponent(t, componentID, sourceZoneID, targetZoneID, index)
	})
}

// SetLayout replaces the whole document, bypassing the incremental engine.
// Used by load/import paths. Records a single history entry with the
// caller-supplied description and marks the session dirty.
func (s *Session) SetLayout(t *domain.LayoutTemplate, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = t.Clone()
	s.hist.Record(history.Tracked(s.template, description))
	s.state.IsDirty = true
}

// ── History ────────────────────────────────────────────────

// Undo restores the previous tracked state. Interaction state other than the
// dirty flag is left alone. Returns false when there is nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hist.Undo() {
		return false
	}
	s.template = s.hist.Present().Template
	s.state.IsDirty = true
	return true
}

// Redo restores the next tracked state. Returns false when there is nothing
// to redo.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hist.Redo() {
		return false
	}
	s.template = s.hist.Present().Template
	s.state.IsDirty = true
	return true
}

// CanUndo reports whether undo is available, for disabling the affordance.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether redo is available.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// LastAction returns the description of the action that produced the current
// tracked state.
func (s *Session) LastAction() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Present().Description
}

// ── Interaction state ──────────────────────────────────────

// SelectComponent sets or clears the selection. The id is not validated:
// transient references may go stale and are resolved defensively by
// consumers.
func (s *Session) SelectComponent(componentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedComponentID = componentID
}

// HoverComponent sets or clears the hovered component id.
func (s *Session) HoverComponent(componentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HoveredComponentID = componentID
}

// CopyComponent stores a detached deep copy of the component in the
// clipboard. Returns false when the id does not exist in the document.
func (s *Session) CopyComponent(componentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, _, _ := s.template.FindComponent(componentID)
	if c == nil {
		return false
	}
	clone := c.Clone()
	s.state.Clipboard = &clone
	return true
}

// PasteComponent inserts a copy of the clipboard into a zone with a freshly
// generated id — paste never reuses the copied id. Empty zoneID targets the
// first zone; negative index appends. Returns nil when the clipboard is
// empty. The pasted component becomes the selection.
func (s *Session) PasteComponent(zoneID string, index int) *domain.PlacedComponent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Clipboard == nil {
		return nil
	}
	c := s.state.Clipboard.Clone()
	c.ID = uuid.NewString()
	ok := s.applyLocked(fmt.Sprintf("Add %s", c.Type), func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.AddComponent(t, c, zoneID, index)
	})
	if !ok {
		return nil
	}
	s.state.SelectedComponentID = c.ID
	return &c
}

// SetMode switches between edit and preview.
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = m
}

// SetZoom stores the zoom level, clamped to [MinZoom, MaxZoom].
func (s *Session) SetZoom(z int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Zoom = clampZoom(z)
}

// ToggleGrid flips grid visibility.
func (s *Session) ToggleGrid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GridEnabled = !s.state.GridEnabled
}

// ToggleSnapToGrid flips grid snapping.
func (s *Session) ToggleSnapToGrid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SnapToGrid = !s.state.SnapToGrid
}

// SetDirty sets the dirty flag explicitly. A successful save clears it.
func (s *Session) SetDirty(dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsDirty = dirty
}
