package layout_test

import (
	"reflect"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/layout"
)

func twoZones() *domain.LayoutTemplate {
	return &domain.LayoutTemplate{
		ID:        "t1",
		Structure: domain.StructureTwoColumn,
		Zones: []domain.Zone{
			{ID: "left", Components: []domain.PlacedComponent{
				{ID: "a", Type: "text", Props: map[string]any{"text": "a"}},
				{ID: "b", Type: "text", Props: map[string]any{"text": "b"}},
				{ID: "c", Type: "text", Props: map[string]any{"text": "c"}},
			}},
			{ID: "right", Components: []domain.PlacedComponent{
				{ID: "d", Type: "chart", Props: map[string]any{}},
			}},
		},
	}
}

func ids(z *domain.Zone) []string {
	out := make([]string, len(z.Components))
	for i := range z.Components {
		out[i] = z.Components[i].ID
	}
	return out
}

func TestAddComponent_Append(t *testing.T) {
	tpl := twoZones()
	next := layout.AddComponent(tpl, domain.PlacedComponent{ID: "x", Type: "metric"}, "left", -1)

	if got := ids(next.Zone("left")); !reflect.DeepEqual(got, []string{"a", "b", "c", "x"}) {
		t.Fatalf("expected append, got %v", got)
	}
	if len(tpl.Zones[0].Components) != 3 {
		t.Fatal("input template was mutated")
	}
}

func TestAddComponent_InsertShiftsRight(t *testing.T) {
	tpl := twoZones()
	next := layout.AddComponent(tpl, domain.PlacedComponent{ID: "x", Type: "metric"}, "left", 1)

	if got := ids(next.Zone("left")); !reflect.DeepEqual(got, []string{"a", "x", "b", "c"}) {
		t.Fatalf("expected insert at 1, got %v", got)
	}
}

func TestAddComponent_DefaultsToFirstZone(t *testing.T) {
	tpl := twoZones()
	next := layout.AddComponent(tpl, domain.PlacedComponent{ID: "x", Type: "metric"}, "", -1)

	if got := ids(next.Zone("left")); !reflect.DeepEqual(got, []string{"a", "b", "c", "x"}) {
		t.Fatalf("expected append to first zone, got %v", got)
	}
}

func TestAddComponent_UnknownZoneIsNoop(t *testing.T) {
	tpl := twoZones()
	next := layout.AddComponent(tpl, domain.PlacedComponent{ID: "x", Type: "metric"}, "nope", -1)

	if !reflect.DeepEqual(next, tpl) {
		t.Fatal("expected structurally unchanged template")
	}
	if next == tpl {
		t.Fatal("no-op must still return a fresh document")
	}
}

func TestAddComponent_CallerKeepsNoAlias(t *testing.T) {
	tpl := twoZones()
	c := domain.PlacedComponent{ID: "x", Type: "metric", Props: map[string]any{"label": "n"}}
	next := layout.AddComponent(tpl, c, "left", -1)

	c.Props["label"] = "mutated"
	placed, _, _ := next.FindComponent("x")
	if placed.Props["label"] != "n" {
		t.Fatal("caller's component aliases the document")
	}
}

func TestUpdateComponentProps_ShallowMerge(t *testing.T) {
	tpl := twoZones()
	next := layout.UpdateComponentProps(tpl, "b", map[string]any{"text": "B", "size": 14})

	c, _, _ := next.FindComponent("b")
	if c.Props["text"] != "B" || c.Props["size"] != 14 {
		t.Fatalf("merge failed: %v", c.Props)
	}
	if orig, _, _ := tpl.FindComponent("b"); orig.Props["text"] != "b" {
		t.Fatal("input template was mutated")
	}
}

func TestUpdateComponentProps_UnknownIDIsNoop(t *testing.T) {
	tpl := twoZones()
	next := layout.UpdateComponentProps(tpl, "ghost", map[string]any{"x": 1})
	if !reflect.DeepEqual(next, tpl) {
		t.Fatal("expected unchanged template")
	}
}

func TestUpdateComponentDataSource_ReplacesWholesale(t *testing.T) {
	tpl := twoZones()
	first := layout.UpdateComponentDataSource(tpl, "a", &domain.DataSourceConfig{
		Kind: "query", Driver: domain.DataSourceDriverMySQL, Query: "SELECT 1",
		Options: map[string]any{"timeout": 5},
	})
	second := layout.UpdateComponentDataSource(first, "a", &domain.DataSourceConfig{
		Kind: "query", Driver: domain.DataSourceDriverPostgres, Query: "SELECT 2",
	})

	c, _, _ := second.FindComponent("a")
	if c.DataSource.Driver != domain.DataSourceDriverPostgres {
		t.Fatalf("expected replacement, got %+v", c.DataSource)
	}
	if c.DataSource.Options != nil {
		t.Fatal("old options survived a wholesale replace")
	}

	detached := layout.UpdateComponentDataSource(second, "a", nil)
	c, _, _ = detached.FindComponent("a")
	if c.DataSource != nil {
		t.Fatal("expected detached data source")
	}
}

func TestDeleteComponent(t *testing.T) {
	tpl := twoZones()
	next := layout.DeleteComponent(tpl, "b")

	if got := ids(next.Zone("left")); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("expected b removed, got %v", got)
	}
	if next.ComponentCount() != 3 {
		t.Fatalf("expected 3 components, got %d", next.ComponentCount())
	}
}

func TestDeleteComponent_UnknownIDIsNoop(t *testing.T) {
	tpl := twoZones()
	next := layout.DeleteComponent(tpl, "ghost")
	if !reflect.DeepEqual(next, tpl) {
		t.Fatal("expected unchanged template")
	}
}

func TestReorderComponent(t *testing.T) {
	tpl := twoZones()
	next := layout.ReorderComponent(tpl, "left", 0, 2)

	if got := ids(next.Zone("left")); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("expected a moved to end, got %v", got)
	}
}

func TestReorderComponent_InvalidIndexIsNoop(t *testing.T) {
	tpl := twoZones()
	for _, tc := range [][2]int{{-1, 0}, {0, 3}, {3, 0}} {
		next := layout.ReorderComponent(tpl, "left", tc[0], tc[1])
		if !reflect.DeepEqual(next, tpl) {
			t.Fatalf("reorder(%d,%d): expected no-op", tc[0], tc[1])
		}
	}
}

func TestMoveComponent_AcrossZones(t *testing.T) {
	tpl := twoZones()
	next := layout.MoveComponent(tpl, "b", "left", "right", 0)

	if got := ids(next.Zone("left")); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("expected b gone from left, got %v", got)
	}
	if got := ids(next.Zone("right")); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Fatalf("expected b at right[0], got %v", got)
	}
	// Conservation: total count unchanged
	if next.ComponentCount() != tpl.ComponentCount() {
		t.Fatalf("component count changed: %d → %d", tpl.ComponentCount(), next.ComponentCount())
	}
}

func TestMoveComponent_AppendWhenIndexOmitted(t *testing.T) {
	tpl := twoZones()
	next := layout.MoveComponent(tpl, "a", "left", "right", -1)

	if got := ids(next.Zone("right")); !reflect.DeepEqual(got, []string{"d", "a"}) {
		t.Fatalf("expected append, got %v", got)
	}
}

func TestMoveComponent_MissingPiecesAreNoops(t *testing.T) {
	tpl := twoZones()
	cases := []struct {
		name              string
		id, src, dst      string
	}{
		{"unknown component", "ghost", "left", "right"},
		{"component not in source", "d", "left", "right"},
		{"unknown source zone", "a", "nope", "right"},
		{"unknown target zone", "a", "left", "nope"},
	}
	for _, tc := range cases {
		next := layout.MoveComponent(tpl, tc.id, tc.src, tc.dst, 0)
		if !reflect.DeepEqual(next, tpl) {
			t.Fatalf("%s: expected no-op", tc.name)
		}
	}
}
