package storage_test

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "pagebuilder.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fixture(id, name string) *domain.LayoutTemplate {
	return &domain.LayoutTemplate{
		ID:        id,
		Name:      name,
		Structure: domain.StructureSidebarLeft,
		Zones: []domain.Zone{
			{ID: "sidebar", Components: []domain.PlacedComponent{}},
			{ID: "main", Components: []domain.PlacedComponent{
				{ID: "c1", Type: "chart", Props: map[string]any{"chartType": "bar"}, GridSpan: 6,
					DataSource: &domain.DataSourceConfig{Kind: "query", Driver: domain.DataSourceDriverSQLite, Query: "SELECT 1"}},
			}},
		},
	}
}

func TestTemplateStore_RoundTrip(t *testing.T) {
	store := storage.NewTemplateStore(openDB(t))

	orig := fixture("t1", "Dashboard")
	if err := store.CreateTemplate(orig); err != nil {
		t.Fatalf("create: %v", err)
	}
	if orig.CreatedAt.IsZero() || orig.UpdatedAt.IsZero() {
		t.Fatal("create must stamp timestamps")
	}

	got, err := store.GetTemplate("t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Dashboard" || got.Structure != domain.StructureSidebarLeft {
		t.Fatalf("unexpected template: %+v", got)
	}
	c, zoneID, _ := got.FindComponent("c1")
	if c == nil || zoneID != "main" {
		t.Fatal("component lost in round trip")
	}
	if c.DataSource == nil || c.DataSource.Query != "SELECT 1" {
		t.Fatalf("data source lost in round trip: %+v", c.DataSource)
	}
	if c.Props["chartType"] != "bar" {
		t.Fatalf("props lost in round trip: %v", c.Props)
	}
}

func TestTemplateStore_UpdateAndList(t *testing.T) {
	store := storage.NewTemplateStore(openDB(t))
	for i := 1; i <= 3; i++ {
		if err := store.CreateTemplate(fixture(fmt.Sprintf("t%d", i), fmt.Sprintf("Page %d", i))); err != nil {
			t.Fatalf("create t%d: %v", i, err)
		}
	}

	upd := fixture("t1", "Renamed")
	if err := store.UpdateTemplate(upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := store.ListTemplates()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(all))
	}
	// Most recently updated comes first
	if all[0].ID != "t1" || all[0].Name != "Renamed" {
		t.Fatalf("expected t1 first after update, got %+v", all[0])
	}
}

func TestTemplateStore_UpdateMissing(t *testing.T) {
	store := storage.NewTemplateStore(openDB(t))
	err := store.UpdateTemplate(fixture("ghost", "x"))
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTemplateStore_DeleteCascadesRevisions(t *testing.T) {
	db := openDB(t)
	store := storage.NewTemplateStore(db)
	revisions := storage.NewRevisionStore(db)

	tpl := fixture("t1", "Doomed")
	if err := store.CreateTemplate(tpl); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := revisions.SaveRevision(tpl, "initial save"); err != nil {
		t.Fatalf("save revision: %v", err)
	}

	if err := store.DeleteTemplate("t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetTemplate("t1"); err == nil {
		t.Fatal("template survived delete")
	}
	revs, err := revisions.ListRevisions("t1")
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(revs) != 0 {
		t.Fatalf("revisions survived template delete: %d left", len(revs))
	}
}

func TestRevisionStore_SnapshotRoundTrip(t *testing.T) {
	db := openDB(t)
	store := storage.NewTemplateStore(db)
	revisions := storage.NewRevisionStore(db)

	tpl := fixture("t1", "Dashboard")
	if err := store.CreateTemplate(tpl); err != nil {
		t.Fatalf("create: %v", err)
	}
	rev, err := revisions.SaveRevision(tpl, "Add chart")
	if err != nil {
		t.Fatalf("save revision: %v", err)
	}
	if rev.ID == "" || rev.Description != "Add chart" {
		t.Fatalf("unexpected revision: %+v", rev)
	}

	snap, err := revisions.GetSnapshot(rev.ID)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snap.Name != "Dashboard" || snap.ComponentCount() != 1 {
		t.Fatalf("snapshot diverged: %+v", snap)
	}
}

func TestRevisionStore_PrunesOldest(t *testing.T) {
	db := openDB(t)
	store := storage.NewTemplateStore(db)
	revisions := storage.NewRevisionStore(db)

	tpl := fixture("t1", "Busy")
	if err := store.CreateTemplate(tpl); err != nil {
		t.Fatalf("create: %v", err)
	}
	total := storage.MaxRevisions + 5
	for i := 1; i <= total; i++ {
		if _, err := revisions.SaveRevision(tpl, fmt.Sprintf("save %d", i)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	revs, err := revisions.ListRevisions("t1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(revs) != storage.MaxRevisions {
		t.Fatalf("expected %d revisions after prune, got %d", storage.MaxRevisions, len(revs))
	}
	// Newest first, and the newest save must have survived.
	if revs[0].Description != fmt.Sprintf("save %d", total) {
		t.Fatalf("newest revision = %q", revs[0].Description)
	}
}
