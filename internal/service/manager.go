package service

import (
	"fmt"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/registry"
	"pagebuilder/internal/session"
)

// SessionManager tracks the open editing sessions, one per document.
// The manager's mutex guards only the map; each Session serializes its own
// access, so concurrent hosts (MCP tools, autosave, the document watcher)
// can both look up and use sessions safely.
type SessionManager struct {
	store    domain.TemplateStore
	registry *registry.Registry

	mu       sync.Mutex
	sessions map[string]*session.Session // templateID → open session
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(store domain.TemplateStore, reg *registry.Registry) *SessionManager {
	return &SessionManager{
		store:    store,
		registry: reg,
		sessions: make(map[string]*session.Session),
	}
}

// Open returns the session for a template, loading the document and creating
// the session on first access.
func (m *SessionManager) Open(templateID string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[templateID]; ok {
		return sess, nil
	}
	t, err := m.store.GetTemplate(templateID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	sess := session.New(t, m.registry)
	m.sessions[templateID] = sess
	return sess, nil
}

// Get returns the open session for a template, if any.
func (m *SessionManager) Get(templateID string) (*session.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[templateID]
	return sess, ok
}

// Close drops the session for a template. Unsaved edits are discarded; the
// caller decides whether to save first.
func (m *SessionManager) Close(templateID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, templateID)
}

// Dirty returns the template ids of all open sessions with unsaved edits.
func (m *SessionManager) Dirty() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for id, sess := range m.sessions {
		if sess.State().IsDirty {
			ids = append(ids, id)
		}
	}
	return ids
}
