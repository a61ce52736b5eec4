package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/session"
	"pagebuilder/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Template Service — document lifecycle for layout templates
// ─────────────────────────────────────────────────────────────

// structureZones maps each layout archetype to the zone ids it seeds.
var structureZones = map[domain.LayoutStructure][]string{
	domain.StructureSingleColumn:  {"main"},
	domain.StructureSidebarLeft:   {"sidebar", "main"},
	domain.StructureSidebarRight:  {"main", "sidebar"},
	domain.StructureHeaderSidebar: {"header", "sidebar", "main"},
	domain.StructureTwoColumn:     {"left", "right"},
}

// TemplateService manages the lifecycle of layout template documents.
type TemplateService struct {
	store     domain.TemplateStore
	revisions *storage.RevisionStore
	emitter   EventEmitter
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(store domain.TemplateStore, revisions *storage.RevisionStore, emitter EventEmitter) *TemplateService {
	return &TemplateService{store: store, revisions: revisions, emitter: emitter}
}

// CreateTemplate creates a new template with zones seeded from the structure
// archetype. Unknown structures fall back to single-column.
func (s *TemplateService) CreateTemplate(name string, structure domain.LayoutStructure) (*domain.LayoutTemplate, error) {
	zoneIDs, ok := structureZones[structure]
	if !ok {
		structure = domain.StructureSingleColumn
		zoneIDs = structureZones[structure]
	}

	t := &domain.LayoutTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Structure: structure,
	}
	for _, zid := range zoneIDs {
		t.Zones = append(t.Zones, domain.Zone{ID: zid, Components: []domain.PlacedComponent{}})
	}

	if err := s.store.CreateTemplate(t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

// GetTemplate returns a template by ID.
func (s *TemplateService) GetTemplate(id string) (*domain.LayoutTemplate, error) {
	return s.store.GetTemplate(id)
}

// ListTemplates returns all stored templates.
func (s *TemplateService) ListTemplates() ([]domain.LayoutTemplate, error) {
	return s.store.ListTemplates()
}

// DuplicateTemplate deep-copies a template under a new id. Every component
// id is regenerated so the copy never shares instance identity with the
// original.
func (s *TemplateService) DuplicateTemplate(id, name string) (*domain.LayoutTemplate, error) {
	src, err := s.store.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	t := src.Clone()
	t.ID = uuid.NewString()
	if name != "" {
		t.Name = name
	} else {
		t.Name = src.Name + " (copy)"
	}
	for zi := range t.Zones {
		for ci := range t.Zones[zi].Components {
			t.Zones[zi].Components[ci].ID = uuid.NewString()
		}
	}
	if err := s.store.CreateTemplate(t); err != nil {
		return nil, fmt.Errorf("duplicate template: %w", err)
	}
	return t, nil
}

// DeleteTemplate removes a template and its revisions.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.store.DeleteTemplate(id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	s.emitter.Emit(ctx, "template:deleted", map[string]string{"templateId": id})
	return nil
}

// SaveSession persists the session's live document, records a revision, and
// clears the dirty flag. Clearing dirty on save is the one external write to
// interaction state.
func (s *TemplateService) SaveSession(ctx context.Context, sess *session.Session) error {
	t := sess.Template()
	if err := s.store.UpdateTemplate(t); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	if _, err := s.revisions.SaveRevision(t, sess.LastAction()); err != nil {
		return fmt.Errorf("save revision: %w", err)
	}
	sess.SetDirty(false)
	s.emitter.Emit(ctx, "template:saved", map[string]string{"templateId": t.ID})
	return nil
}

// ExportTemplate writes a template to a JSON file for external editing.
func (s *TemplateService) ExportTemplate(t *domain.LayoutTemplate, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ListRevisions returns the persisted save points for a template.
func (s *TemplateService) ListRevisions(templateID string) ([]storage.Revision, error) {
	return s.revisions.ListRevisions(templateID)
}

// RestoreRevision loads a revision snapshot and replaces the session's
// document with it through the whole-document path, recording one history
// entry.
func (s *TemplateService) RestoreRevision(ctx context.Context, sess *session.Session, revisionID string) error {
	t, err := s.revisions.GetSnapshot(revisionID)
	if err != nil {
		return err
	}
	sess.SetLayout(t, fmt.Sprintf("Restore revision %s", revisionID))
	s.emitter.Emit(ctx, "template:restored", map[string]string{"templateId": t.ID, "revisionId": revisionID})
	return nil
}
