package session

import "pagebuilder/internal/domain"

// Mode is the editor surface mode.
type Mode string

const (
	ModeEdit    Mode = "edit"
	ModePreview Mode = "preview"
)

// Zoom bounds, percent.
const (
	MinZoom     = 25
	MaxZoom     = 200
	DefaultZoom = 100
)

// InteractionState is the ephemeral UI state of an editing session:
// selection, hover, clipboard, zoom, grid flags, dirty flag. None of it
// participates in undo/redo — its lifecycle is independent of history.
type InteractionState struct {
	Mode                Mode                    `json:"mode"`
	SelectedComponentID string                  `json:"selectedComponentId,omitempty"`
	HoveredComponentID  string                  `json:"hoveredComponentId,omitempty"`
	Clipboard           *domain.PlacedComponent `json:"-"`
	IsDirty             bool                    `json:"isDirty"`
	Zoom                int                     `json:"zoom"`
	GridEnabled         bool                    `json:"gridEnabled"`
	SnapToGrid          bool                    `json:"snapToGrid"`
}

func newInteractionState() InteractionState {
	return InteractionState{
		Mode:        ModeEdit,
		Zoom:        DefaultZoom,
		GridEnabled: true,
		SnapToGrid:  true,
	}
}

// clampZoom forces z into [MinZoom, MaxZoom]. Out-of-range input is clamped
// silently, never rejected.
func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
