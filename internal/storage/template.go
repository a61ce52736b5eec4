package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pagebuilder/internal/domain"
)

// TemplateStore implements domain.TemplateStore using SQLite. Zones are
// stored as one JSON document per template — the persisted form of a layout
// is the template tree itself, with no cycles.
type TemplateStore struct {
	db *DB
}

func NewTemplateStore(db *DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) CreateTemplate(t *domain.LayoutTemplate) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	zones, err := json.Marshal(t.Zones)
	if err != nil {
		return fmt.Errorf("marshal zones: %w", err)
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO templates (id, name, structure, zones_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Structure, string(zones), t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *TemplateStore) GetTemplate(id string) (*domain.LayoutTemplate, error) {
	t := &domain.LayoutTemplate{}
	var zones string
	err := s.db.Conn().QueryRow(
		`SELECT id, name, structure, zones_json, created_at, updated_at FROM templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Structure, &zones, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if err := json.Unmarshal([]byte(zones), &t.Zones); err != nil {
		return nil, fmt.Errorf("unmarshal zones: %w", err)
	}
	return t, nil
}

func (s *TemplateStore) ListTemplates() ([]domain.LayoutTemplate, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, structure, zones_json, created_at, updated_at FROM templates ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.LayoutTemplate
	for rows.Next() {
		var t domain.LayoutTemplate
		var zones string
		if err := rows.Scan(&t.ID, &t.Name, &t.Structure, &zones, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(zones), &t.Zones); err != nil {
			return nil, fmt.Errorf("unmarshal zones for %s: %w", t.ID, err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *TemplateStore) UpdateTemplate(t *domain.LayoutTemplate) error {
	t.UpdatedAt = time.Now()
	zones, err := json.Marshal(t.Zones)
	if err != nil {
		return fmt.Errorf("marshal zones: %w", err)
	}
	res, err := s.db.Conn().Exec(
		`UPDATE templates SET name = ?, structure = ?, zones_json = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Structure, string(zones), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *TemplateStore) DeleteTemplate(id string) error {
	if _, err := s.db.Conn().Exec(`DELETE FROM template_revisions WHERE template_id = ?`, id); err != nil {
		return fmt.Errorf("delete revisions: %w", err)
	}
	_, err := s.db.Conn().Exec(`DELETE FROM templates WHERE id = ?`, id)
	return err
}
