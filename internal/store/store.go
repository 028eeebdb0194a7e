// Package store persists intake sessions and project field sets.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/kiso-design/intake-cli/internal/config"
	"github.com/kiso-design/intake-cli/internal/model"
)

// ErrNotFound indicates the requested session or project does not exist.
var ErrNotFound = eris.New("store: not found")

// Store is the persistence interface for sessions and projects. All writes
// are idempotent upserts keyed by ID.
type Store interface {
	// SaveSession upserts the session state.
	SaveSession(ctx context.Context, session *model.SessionState) error
	// GetSession loads a session by ID, or ErrNotFound.
	GetSession(ctx context.Context, id string) (*model.SessionState, error)
	// ListSessions returns all sessions, most recently updated first.
	ListSessions(ctx context.Context) ([]*model.SessionState, error)
	// SaveProject upserts a project's field set. An empty projectID
	// allocates a new one; the effective ID is returned either way.
	SaveProject(ctx context.Context, projectID string, fields model.FieldSet) (string, error)
	// GetProject loads a project's field set by ID, or ErrNotFound.
	GetProject(ctx context.Context, projectID string) (model.FieldSet, error)
	// Migrate creates or updates the backing schema.
	Migrate(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// New creates a Store for the configured driver.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite", "":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
