package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// MaxRevisions bounds how many saved revisions are kept per template.
const MaxRevisions = 20

// Revision is one persisted save point of a template. Unlike the in-memory
// undo history, revisions survive the editing session and let a document be
// rolled back to an earlier save.
type Revision struct {
	ID          string    `json:"id"`
	TemplateID  string    `json:"templateId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RevisionStore manages persisted template revisions in SQLite.
type RevisionStore struct {
	db *DB
}

func NewRevisionStore(db *DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// SaveRevision snapshots the template under a new revision id and prunes the
// oldest revisions beyond MaxRevisions.
func (s *RevisionStore) SaveRevision(t *domain.LayoutTemplate, description string) (*Revision, error) {
	snapshot, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	r := &Revision{
		ID:          uuid.NewString(),
		TemplateID:  t.ID,
		Description: description,
		CreatedAt:   time.Now(),
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO template_revisions (id, template_id, description, snapshot_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.TemplateID, r.Description, string(snapshot), r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}

	s.pruneIfNeeded(t.ID, MaxRevisions)
	return r, nil
}

// ListRevisions returns revision metadata for a template, newest first.
func (s *RevisionStore) ListRevisions(templateID string) ([]Revision, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, template_id, description, created_at
		 FROM template_revisions WHERE template_id = ? ORDER BY created_at DESC`, templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.TemplateID, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// GetSnapshot returns the full template stored under a revision id.
func (s *RevisionStore) GetSnapshot(revisionID string) (*domain.LayoutTemplate, error) {
	var snapshot string
	err := s.db.Conn().QueryRow(
		`SELECT snapshot_json FROM template_revisions WHERE id = ?`, revisionID,
	).Scan(&snapshot)
	if err != nil {
		return nil, fmt.Errorf("get revision: %w", err)
	}
	t := &domain.LayoutTemplate{}
	if err := json.Unmarshal([]byte(snapshot), t); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return t, nil
}

// pruneIfNeeded removes oldest revisions when count exceeds maxRevisions.
func (s *RevisionStore) pruneIfNeeded(templateID string, maxRevisions int) {
	var count int
	s.db.Conn().QueryRow(`SELECT COUNT(*) FROM template_revisions WHERE template_id = ?`, templateID).Scan(&count)
	if count <= maxRevisions {
		return
	}

	toDelete := count - maxRevisions

	// Collect IDs to delete first (close rows before doing any writes)
	rows, err := s.db.Conn().Query(
		`SELECT id FROM template_revisions WHERE template_id = ?
		 ORDER BY created_at ASC LIMIT ?`, templateID, toDelete,
	)
	if err != nil {
		return
	}
	var ids []string
	for rows.Next() {
		var id string
		if rows.Scan(&id) == nil {
			ids = append(ids, id)
		}
	}
	rows.Close()

	for _, id := range ids {
		s.db.Conn().Exec(`DELETE FROM template_revisions WHERE id = ?`, id)
	}
}
