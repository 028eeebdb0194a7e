package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/kiso-design/intake-cli/internal/model"
)

// PgxIface is the subset of pgxpool.Pool the postgres store uses. Tests
// substitute a mock pool.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Postgres is a Store backed by PostgreSQL for shared deployments.
type Postgres struct {
	pool PgxIface
}

// NewPostgres connects to the database at url.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping postgres")
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool PgxIface) *Postgres {
	return &Postgres{pool: pool}
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL DEFAULT '',
	phase       TEXT NOT NULL,
	fields      JSONB NOT NULL,
	can_proceed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	fields     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return eris.Wrap(err, "store: migrate postgres schema")
	}
	return nil
}

func (p *Postgres) SaveSession(ctx context.Context, session *model.SessionState) error {
	fields, err := json.Marshal(session.Fields)
	if err != nil {
		return eris.Wrap(err, "store: marshal session fields")
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO sessions (id, project_id, phase, fields, can_proceed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			project_id = EXCLUDED.project_id,
			phase = EXCLUDED.phase,
			fields = EXCLUDED.fields,
			can_proceed = EXCLUDED.can_proceed,
			updated_at = EXCLUDED.updated_at`,
		session.ID, session.ProjectID, string(session.Phase), fields,
		session.CanProceed, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "store: save session %q", session.ID)
	}
	return nil
}

func (p *Postgres) GetSession(ctx context.Context, id string) (*model.SessionState, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, project_id, phase, fields, can_proceed, created_at, updated_at
		FROM sessions WHERE id = $1`, id)
	session, err := scanPgSession(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get session %q", id)
	}
	return session, nil
}

func (p *Postgres) ListSessions(ctx context.Context) ([]*model.SessionState, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, project_id, phase, fields, can_proceed, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list sessions")
	}
	defer rows.Close()

	var out []*model.SessionState
	for rows.Next() {
		session, err := scanPgSession(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan session row")
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate sessions")
	}
	return out, nil
}

func (p *Postgres) SaveProject(ctx context.Context, projectID string, fields model.FieldSet) (string, error) {
	if projectID == "" {
		projectID = uuid.NewString()
	}
	blob, err := json.Marshal(fields)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal project fields")
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO projects (id, fields, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			fields = EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at`,
		projectID, blob, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrapf(err, "store: save project %q", projectID)
	}
	return projectID, nil
}

func (p *Postgres) GetProject(ctx context.Context, projectID string) (model.FieldSet, error) {
	var blob []byte
	err := p.pool.QueryRow(ctx,
		`SELECT fields FROM projects WHERE id = $1`, projectID).Scan(&blob)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get project %q", projectID)
	}
	var fields model.FieldSet
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, eris.Wrapf(err, "store: unmarshal project %q", projectID)
	}
	return fields, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func scanPgSession(row pgx.Row) (*model.SessionState, error) {
	var (
		session    model.SessionState
		phase      string
		fieldsBlob []byte
	)
	if err := row.Scan(&session.ID, &session.ProjectID, &phase, &fieldsBlob,
		&session.CanProceed, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	session.Phase = model.Phase(phase)
	if err := json.Unmarshal(fieldsBlob, &session.Fields); err != nil {
		return nil, eris.Wrap(err, "unmarshal fields")
	}
	return &session, nil
}
