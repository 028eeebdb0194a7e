package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kiso-design/intake-cli/internal/model"
)

// Memory is an in-process Store for tests and the default CLI experience
// when no database is configured.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*model.SessionState
	projects map[string]model.FieldSet
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]*model.SessionState),
		projects: make(map[string]model.FieldSet),
	}
}

func (m *Memory) SaveSession(_ context.Context, session *model.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	cp.Fields = session.Fields.Clone()
	m.sessions[session.ID] = &cp
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*model.SessionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	cp.Fields = s.Fields.Clone()
	return &cp, nil
}

func (m *Memory) ListSessions(_ context.Context) ([]*model.SessionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.SessionState, 0, len(m.sessions))
	for _, s := range m.sessions {
		cp := *s
		cp.Fields = s.Fields.Clone()
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *Memory) SaveProject(_ context.Context, projectID string, fields model.FieldSet) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if projectID == "" {
		projectID = uuid.NewString()
	}
	m.projects[projectID] = fields.Clone()
	return projectID, nil
}

func (m *Memory) GetProject(_ context.Context, projectID string) (model.FieldSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.projects[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	return fields.Clone(), nil
}

func (m *Memory) Migrate(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
