package session

import (
	"fmt"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/layout"
)

// Drop resolution: the contract between the external drag surface and the
// mutation engine. The surface computes the (zone, index) insertion point
// from drop geometry; the engine takes it verbatim and does no geometric
// reasoning of its own.

// DropPayload identifies what is being dragged: a new component type from
// the palette (ComponentType set) or an existing instance being relocated
// (ComponentID and SourceZoneID set).
type DropPayload struct {
	ComponentType string `json:"componentType,omitempty"`
	ComponentID   string `json:"componentId,omitempty"`
	SourceZoneID  string `json:"sourceZoneId,omitempty"`
}

// DropTarget is the resolved insertion point. A nil target means the drop
// missed every valid zone.
type DropTarget struct {
	ZoneID string `json:"zoneId"`
	Index  int    `json:"index"`
}

// ResolveDrop translates a completed drag gesture into a structural
// mutation. A drop that fails resolution — nil target, unknown zone, unknown
// payload — leaves the document entirely unchanged; the protocol never
// applies a partial edit. Returns whether the document changed.
func (s *Session) ResolveDrop(payload DropPayload, target *DropTarget) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target == nil || s.template.Zone(target.ZoneID) == nil {
		return false
	}

	// Palette drop: construct a fresh instance, insert, select it.
	if payload.ComponentType != "" {
		c, err := s.registry.NewComponent(payload.ComponentType)
		if err != nil {
			return false
		}
		ok := s.applyLocked(fmt.Sprintf("Add %s", c.Type), func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
			return layout.AddComponent(t, c, target.ZoneID, target.Index)
		})
		if !ok {
			return false
		}
		s.state.SelectedComponentID = c.ID
		return true
	}

	if payload.ComponentID == "" {
		return false
	}

	// Existing instance: same zone is a reorder, different zone is a move.
	if payload.SourceZoneID == target.ZoneID {
		src := s.template.Zone(payload.SourceZoneID)
		oldIndex := -1
		for i := range src.Components {
			if src.Components[i].ID == payload.ComponentID {
				oldIndex = i
				break
			}
		}
		if oldIndex < 0 {
			return false
		}
		// The surface computes the insertion slot over n+1 positions. Once
		// the dragged component is removed the sequence has n-1 slots left,
		// so the last insertion slot maps to index n-1.
		newIndex := target.Index
		if n := len(src.Components); newIndex >= n {
			newIndex = n - 1
		}
		return s.applyLocked("Reorder components", func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
			return layout.ReorderComponent(t, target.ZoneID, oldIndex, newIndex)
		})
	}
	return s.applyLocked("Move component", func(t *domain.LayoutTemplate) *domain.LayoutTemplate {
		return layout.MoveComponent(t, payload.ComponentID, payload.SourceZoneID, target.ZoneID, target.Index)
	})
}
