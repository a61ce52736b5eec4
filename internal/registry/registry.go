// Package registry maps component type keys to their palette metadata and
// creation defaults. The layout engine itself stores only the type key and
// never looks inside a definition.
package registry

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// Definition describes one registered component type.
type Definition struct {
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Icon            string         `json:"icon"`
	Category        string         `json:"category"`
	DefaultProps    map[string]any `json:"defaultProps"`
	DefaultGridSpan int            `json:"defaultGridSpan"`
}

// Registry holds component definitions keyed by type.
type Registry struct {
	defs map[string]Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds or replaces a definition.
func (r *Registry) Register(def Definition) {
	r.defs[def.Type] = def
}

// Get returns the definition for a type key.
func (r *Registry) Get(componentType string) (Definition, bool) {
	def, ok := r.defs[componentType]
	return def, ok
}

// Definitions returns all definitions sorted by type key.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// NewComponent constructs a fresh PlacedComponent of the given type with a
// generated id and a deep copy of the type's default props. Errors when the
// type is not registered — palette drops of unknown types must never reach
// the document.
func (r *Registry) NewComponent(componentType string) (domain.PlacedComponent, error) {
	def, ok := r.defs[componentType]
	if !ok {
		return domain.PlacedComponent{}, fmt.Errorf("unknown component type: %s", componentType)
	}
	span := def.DefaultGridSpan
	if span <= 0 {
		span = 12
	}
	c := domain.PlacedComponent{
		ID:       uuid.NewString(),
		Type:     def.Type,
		Props:    map[string]any{},
		GridSpan: span,
	}
	for k, v := range def.DefaultProps {
		c.Props[k] = v
	}
	return c.Clone(), nil
}
