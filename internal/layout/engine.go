// Package layout is the structural mutation engine of the builder.
//
// Every function takes the current template and returns a new one. Inputs
// are never mutated: each call clones the document first and mutates the
// clone locally, so no caller ever shares substructure with the result.
// Unknown zone or component ids are silent no-ops — an invalid drop target
// must not corrupt the document, and the editing surface has to stay usable
// even when a reference goes stale between a deletion and a pending UI event.
package layout

import "pagebuilder/internal/domain"

// AddComponent inserts c into the zone with zoneID at index. An empty zoneID
// targets the first zone. A negative or out-of-range index appends. The
// component is deep-copied on the way in so the caller keeps no alias into
// the returned document.
func AddComponent(t *domain.LayoutTemplate, c domain.PlacedComponent, zoneID string, index int) *domain.LayoutTemplate {
	out := touch(t)
	if len(out.Zones) == 0 {
		return out
	}
	if zoneID == "" {
		zoneID = out.Zones[0].ID
	}
	z := out.Zone(zoneID)
	if z == nil {
		return out
	}
	if index < 0 || index > len(z.Components) {
		index = len(z.Components)
	}
	z.Components = insertAt(z.Components, c.Clone(), index)
	return out
}

// UpdateComponentProps shallow-merges partial into the props of the component
// with componentID. Keys present in partial overwrite existing keys; other
// keys are kept. No-op if the component does not exist.
func UpdateComponentProps(t *domain.LayoutTemplate, componentID string, partial map[string]any) *domain.LayoutTemplate {
	out := touch(t)
	c, _, _ := out.FindComponent(componentID)
	if c == nil {
		return out
	}
	if c.Props == nil {
		c.Props = make(map[string]any, len(partial))
	}
	for k, v := range partial {
		c.Props[k] = v
	}
	return out
}

// UpdateComponentDataSource replaces the component's data source wholesale.
// A nil ds detaches the component from its data source.
func UpdateComponentDataSource(t *domain.LayoutTemplate, componentID string, ds *domain.DataSourceConfig) *domain.LayoutTemplate {
	out := touch(t)
	c, _, _ := out.FindComponent(componentID)
	if c == nil {
		return out
	}
	c.DataSource = ds.Clone()
	return out
}

// DeleteComponent removes the first component with componentID, searching all
// zones. No-op if not found. Callers owning selection state must clear any
// selection referencing the deleted id themselves.
func DeleteComponent(t *domain.LayoutTemplate, componentID string) *domain.LayoutTemplate {
	out := touch(t)
	_, zoneID, idx := out.FindComponent(componentID)
	if idx < 0 {
		return out
	}
	z := out.Zone(zoneID)
	z.Components = append(z.Components[:idx], z.Components[idx+1:]...)
	return out
}

// ReorderComponent removes the element at oldIndex within the zone and
// reinserts it at newIndex. No-op if the zone is unknown or either index is
// out of range.
func ReorderComponent(t *domain.LayoutTemplate, zoneID string, oldIndex, newIndex int) *domain.LayoutTemplate {
	out := touch(t)
	z := out.Zone(zoneID)
	if z == nil {
		return out
	}
	n := len(z.Components)
	if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return out
	}
	c := z.Components[oldIndex]
	z.Components = append(z.Components[:oldIndex], z.Components[oldIndex+1:]...)
	z.Components = insertAt(z.Components, c, newIndex)
	return out
}

// MoveComponent relocates the component with componentID from the source zone
// to the target zone. A negative index appends. No-op if the component is not
// in the source zone or either zone id does not exist.
func MoveComponent(t *domain.LayoutTemplate, componentID, sourceZoneID, targetZoneID string, index int) *domain.LayoutTemplate {
	out := touch(t)
	src := out.Zone(sourceZoneID)
	dst := out.Zone(targetZoneID)
	if src == nil || dst == nil {
		return out
	}
	idx := -1
	for i := range src.Components {
		if src.Components[i].ID == componentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return out
	}
	c := src.Components[idx]
	src.Components = append(src.Components[:idx], src.Components[idx+1:]...)
	if index < 0 || index > len(dst.Components) {
		index = len(dst.Components)
	}
	dst.Components = insertAt(dst.Components, c, index)
	return out
}

// touch clones the template. All mutations go through here so the returned
// document is always freshly owned, no-ops included. Timestamps are stamped
// by the storage layer on save, never by the engine.
func touch(t *domain.LayoutTemplate) *domain.LayoutTemplate {
	return t.Clone()
}

func insertAt(s []domain.PlacedComponent, c domain.PlacedComponent, i int) []domain.PlacedComponent {
	s = append(s, domain.PlacedComponent{})
	copy(s[i+1:], s[i:])
	s[i] = c
	return s
}
