package domain

import "time"

// LayoutStructure is the archetype tag describing how a template's zones
// are arranged by the rendering surface.
type LayoutStructure string

const (
	StructureSingleColumn  LayoutStructure = "single-column"
	StructureSidebarLeft   LayoutStructure = "sidebar-left"
	StructureSidebarRight  LayoutStructure = "sidebar-right"
	StructureHeaderSidebar LayoutStructure = "header-sidebar"
	StructureTwoColumn     LayoutStructure = "two-column"
)

// LayoutTemplate is the root document of the builder: an ordered set of
// zones, each holding placed components. Every structural mutation produces
// a brand-new template value; nested structures are never shared with a
// prior value.
type LayoutTemplate struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Structure LayoutStructure `json:"structure"`
	Zones     []Zone          `json:"zones"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Zone is a named drop target. Component order is render order and is
// preserved exactly by every mutation except explicit reorder/move.
type Zone struct {
	ID         string            `json:"id"`
	Components []PlacedComponent `json:"components"`
}

// PlacedComponent is one instance of a registered component type bound into
// a zone. ID and Type are immutable once created: retyping an instance is
// not supported, it must be deleted and re-added.
type PlacedComponent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"` // component registry key
	Props      map[string]any    `json:"props"`
	DataSource *DataSourceConfig `json:"dataSource,omitempty"`
	GridSpan   int               `json:"gridSpan"`
}

// Clone returns a deep copy of the template. Zones, component slices, props
// maps, and data source configs are all freshly allocated so the copy shares
// no mutable substructure with the receiver.
func (t *LayoutTemplate) Clone() *LayoutTemplate {
	if t == nil {
		return nil
	}
	out := *t
	out.Zones = make([]Zone, len(t.Zones))
	for i := range t.Zones {
		out.Zones[i] = t.Zones[i].Clone()
	}
	return &out
}

// Clone returns a deep copy of the zone and its component sequence.
func (z Zone) Clone() Zone {
	out := z
	out.Components = make([]PlacedComponent, len(z.Components))
	for i := range z.Components {
		out.Components[i] = z.Components[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the component, including props and data source.
func (c PlacedComponent) Clone() PlacedComponent {
	out := c
	out.Props = cloneProps(c.Props)
	out.DataSource = c.DataSource.Clone()
	return out
}

// Zone returns the zone with the given id, or nil if it does not exist.
func (t *LayoutTemplate) Zone(zoneID string) *Zone {
	for i := range t.Zones {
		if t.Zones[i].ID == zoneID {
			return &t.Zones[i]
		}
	}
	return nil
}

// FindComponent returns the first component with the given id across all
// zones, along with its zone id and index. Returns nil, "", -1 when absent.
func (t *LayoutTemplate) FindComponent(componentID string) (*PlacedComponent, string, int) {
	for zi := range t.Zones {
		for ci := range t.Zones[zi].Components {
			if t.Zones[zi].Components[ci].ID == componentID {
				return &t.Zones[zi].Components[ci], t.Zones[zi].ID, ci
			}
		}
	}
	return nil, "", -1
}

// ComponentCount returns the total number of placed components across all zones.
func (t *LayoutTemplate) ComponentCount() int {
	n := 0
	for i := range t.Zones {
		n += len(t.Zones[i].Components)
	}
	return n
}

// cloneProps deep-copies a props map. Nested maps and slices (the shapes
// JSON round-tripping produces) are copied recursively; scalar values are
// copied by assignment.
func cloneProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneProps(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}

// TemplateStore persists layout templates as whole documents.
type TemplateStore interface {
	CreateTemplate(t *LayoutTemplate) error
	GetTemplate(id string) (*LayoutTemplate, error)
	ListTemplates() ([]LayoutTemplate, error)
	UpdateTemplate(t *LayoutTemplate) error
	DeleteTemplate(id string) error
}
