package session_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/registry"
	"pagebuilder/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	tpl := &domain.LayoutTemplate{
		ID:        "t1",
		Name:      "Landing",
		Structure: domain.StructureTwoColumn,
		Zones: []domain.Zone{
			{ID: "main", Components: []domain.PlacedComponent{}},
			{ID: "side", Components: []domain.PlacedComponent{}},
		},
	}
	return session.New(tpl, registry.Builtin())
}

func TestSession_AddUndoRedoRoundTrip(t *testing.T) {
	s := newSession(t)
	c := domain.PlacedComponent{ID: "c1", Type: "text", Props: map[string]any{"text": "hello"}}

	if !s.AddComponent(c, "main", -1) {
		t.Fatal("add failed")
	}
	after := s.Template().Clone()

	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if s.Template().ComponentCount() != 0 {
		t.Fatal("undo did not remove the component")
	}

	if !s.Redo() {
		t.Fatal("redo failed")
	}
	got, zoneID, _ := s.Template().FindComponent("c1")
	if got == nil || zoneID != "main" {
		t.Fatal("redo did not restore the component")
	}
	if !reflect.DeepEqual(got.Props, after.Zones[0].Components[0].Props) {
		t.Fatalf("props diverged after redo: %v", got.Props)
	}
}

func TestSession_NewEditClearsRedo(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "text"}, "main", -1)
	s.AddComponent(domain.PlacedComponent{ID: "c2", Type: "text"}, "main", -1)
	s.Undo()

	if !s.CanRedo() {
		t.Fatal("expected pending redo")
	}
	s.AddComponent(domain.PlacedComponent{ID: "c3", Type: "divider"}, "main", -1)
	if s.CanRedo() {
		t.Fatal("new edit must clear the redo stack")
	}
}

func TestSession_NoopMutationRecordsNothing(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "text"}, "main", -1)
	s.SetDirty(false)

	if s.UpdateComponentProps("ghost", map[string]any{"x": 1}) {
		t.Fatal("stale id must be a silent no-op")
	}
	if s.DeleteComponent("ghost") {
		t.Fatal("stale delete must be a silent no-op")
	}
	if s.MoveComponent("c1", "side", "main", 0) {
		t.Fatal("move from wrong source zone must be a silent no-op")
	}
	if s.State().IsDirty {
		t.Fatal("no-ops must not dirty the document")
	}
	if !s.Undo() {
		t.Fatal("expected exactly the one real edit on the undo stack")
	}
	if s.CanUndo() {
		t.Fatal("no-ops leaked history entries")
	}
}

func TestSession_DirtyFlagLifecycle(t *testing.T) {
	s := newSession(t)
	if s.State().IsDirty {
		t.Fatal("fresh session must be clean")
	}

	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "text"}, "main", -1)
	if !s.State().IsDirty {
		t.Fatal("mutation must dirty the session")
	}

	s.SetDirty(false)
	s.Undo()
	if !s.State().IsDirty {
		t.Fatal("undo changes tracked state and must dirty the session")
	}
}

func TestSession_DeleteClearsSelectionAndHover(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "text"}, "main", -1)
	s.SelectComponent("c1")
	s.HoverComponent("c1")

	s.DeleteComponent("c1")
	st := s.State()
	if st.SelectedComponentID != "" || st.HoveredComponentID != "" {
		t.Fatalf("deleting the referent must clear selection and hover, got %+v", st)
	}
}

func TestSession_DeleteKeepsUnrelatedSelection(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "text"}, "main", -1)
	s.AddComponent(domain.PlacedComponent{ID: "c2", Type: "text"}, "main", -1)
	s.SelectComponent("c1")

	s.DeleteComponent("c2")
	if s.State().SelectedComponentID != "c1" {
		t.Fatal("deleting another component must not touch the selection")
	}
}

func TestSession_CopyPasteRegeneratesID(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{
		ID: "c1", Type: "metric", Props: map[string]any{"label": "Sales", "value": 42},
	}, "main", -1)

	if !s.CopyComponent("c1") {
		t.Fatal("copy failed")
	}
	first := s.PasteComponent("side", -1)
	if first == nil {
		t.Fatal("paste returned nil")
	}
	if first.ID == "c1" || first.ID == "" {
		t.Fatalf("paste must generate a fresh id, got %q", first.ID)
	}
	if first.Type != "metric" || first.Props["label"] != "Sales" {
		t.Fatalf("paste must preserve type and props, got %+v", first)
	}
	if s.State().SelectedComponentID != first.ID {
		t.Fatal("pasted component must become the selection")
	}

	// Pasting again yields another distinct instance.
	second := s.PasteComponent("side", -1)
	if second == nil || second.ID == first.ID {
		t.Fatal("repeated paste must mint distinct ids")
	}
	if s.Template().ComponentCount() != 3 {
		t.Fatalf("expected 3 components, got %d", s.Template().ComponentCount())
	}
}

func TestSession_PasteIsolatedFromClipboard(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{
		ID: "c1", Type: "text", Props: map[string]any{"text": "original"},
	}, "main", -1)
	s.CopyComponent("c1")

	pasted := s.PasteComponent("main", -1)
	pasted.Props["text"] = "scribble"

	again := s.PasteComponent("main", -1)
	if again.Props["text"] != "original" {
		t.Fatal("clipboard was aliased by a previous paste")
	}
}

func TestSession_PasteWithEmptyClipboard(t *testing.T) {
	s := newSession(t)
	if s.PasteComponent("main", -1) != nil {
		t.Fatal("paste with empty clipboard must return nil")
	}
}

func TestSession_CopySurvivesSourceDeletion(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "button", Props: map[string]any{"label": "Go"}}, "main", -1)
	s.CopyComponent("c1")
	s.DeleteComponent("c1")

	pasted := s.PasteComponent("main", -1)
	if pasted == nil || pasted.Props["label"] != "Go" {
		t.Fatal("clipboard must outlive the copied instance")
	}
}

func TestSession_ZoomClamping(t *testing.T) {
	s := newSession(t)
	cases := []struct{ in, want int }{
		{10, session.MinZoom},
		{25, 25},
		{100, 100},
		{200, 200},
		{500, session.MaxZoom},
	}
	for _, tc := range cases {
		s.SetZoom(tc.in)
		if got := s.State().Zoom; got != tc.want {
			t.Fatalf("SetZoom(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSession_InteractionStateSurvivesUndo(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "text"}, "main", -1)
	s.SetZoom(150)
	s.SetMode(session.ModePreview)

	s.Undo()
	st := s.State()
	if st.Zoom != 150 || st.Mode != session.ModePreview {
		t.Fatalf("undo must not touch interaction state, got %+v", st)
	}
}

func TestSession_SetLayoutReplacesDocument(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{ID: "c1", Type: "text"}, "main", -1)

	replacement := &domain.LayoutTemplate{
		ID:        "t1",
		Name:      "Imported",
		Structure: domain.StructureSingleColumn,
		Zones: []domain.Zone{
			{ID: "main", Components: []domain.PlacedComponent{
				{ID: "x1", Type: "heading", Props: map[string]any{"text": "Hi"}},
			}},
		},
	}
	s.SetLayout(replacement, "Import layout")

	if s.Template().Name != "Imported" {
		t.Fatal("whole-document replace did not take effect")
	}
	if s.LastAction() != "Import layout" {
		t.Fatalf("last action = %q", s.LastAction())
	}

	// One history entry: a single undo restores the pre-import state.
	if !s.Undo() {
		t.Fatal("undo after SetLayout failed")
	}
	if _, zoneID, _ := s.Template().FindComponent("c1"); zoneID != "main" {
		t.Fatal("undo did not restore the previous document")
	}

	// The caller's template stays detached.
	replacement.Zones[0].Components[0].Props["text"] = "mutated"
	s.Redo()
	c, _, _ := s.Template().FindComponent("x1")
	if c.Props["text"] != "Hi" {
		t.Fatal("SetLayout aliased the caller's template")
	}
}

func TestSession_ConcurrentEditsAndSaves(t *testing.T) {
	s := newSession(t)
	const edits = 100

	// One goroutine edits while another does what the autosave loop does:
	// read the document and state, then clear the dirty flag. Run with the
	// race detector enabled.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < edits; i++ {
			s.AddComponent(domain.PlacedComponent{
				ID: fmt.Sprintf("c%d", i), Type: "text", Props: map[string]any{},
			}, "main", -1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < edits; i++ {
			_ = s.Template()
			_ = s.State()
			s.SetDirty(false)
		}
	}()
	wg.Wait()

	if got := s.Template().ComponentCount(); got != edits {
		t.Fatalf("expected %d components after concurrent edits, got %d", edits, got)
	}
}

func TestSession_TemplateIsDetached(t *testing.T) {
	s := newSession(t)
	s.AddComponent(domain.PlacedComponent{
		ID: "c1", Type: "text", Props: map[string]any{"text": "live"},
	}, "main", -1)

	snapshot := s.Template()
	snapshot.Zones[0].Components[0].Props["text"] = "scribble"

	c, _, _ := s.Template().FindComponent("c1")
	if c.Props["text"] != "live" {
		t.Fatal("Template handed out an aliased document")
	}
}

func TestSession_Toggles(t *testing.T) {
	s := newSession(t)
	st := s.State()
	if !st.GridEnabled || !st.SnapToGrid || st.Mode != session.ModeEdit || st.Zoom != session.DefaultZoom {
		t.Fatalf("unexpected defaults: %+v", st)
	}

	s.ToggleGrid()
	s.ToggleSnapToGrid()
	st = s.State()
	if st.GridEnabled || st.SnapToGrid {
		t.Fatalf("toggles did not flip: %+v", st)
	}
}
