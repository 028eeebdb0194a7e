package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/kiso-design/intake-cli/internal/model"
)

// SQLite is a file-backed Store using the pure-Go sqlite driver. Field sets
// are stored as JSON blobs; queries are by ID only, so no field indexing is
// needed.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the database file at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open sqlite %q", path)
	}
	// The sqlite driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "store: set sqlite pragmas")
	}
	return &SQLite{db: db}, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL DEFAULT '',
	phase       TEXT NOT NULL,
	fields      TEXT NOT NULL,
	can_proceed INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	fields     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "store: migrate sqlite schema")
	}
	return nil
}

func (s *SQLite) SaveSession(ctx context.Context, session *model.SessionState) error {
	fields, err := json.Marshal(session.Fields)
	if err != nil {
		return eris.Wrap(err, "store: marshal session fields")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, project_id, phase, fields, can_proceed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			phase = excluded.phase,
			fields = excluded.fields,
			can_proceed = excluded.can_proceed,
			updated_at = excluded.updated_at`,
		session.ID, session.ProjectID, string(session.Phase), string(fields),
		boolToInt(session.CanProceed),
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
		session.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return eris.Wrapf(err, "store: save session %q", session.ID)
	}
	return nil
}

func (s *SQLite) GetSession(ctx context.Context, id string) (*model.SessionState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, phase, fields, can_proceed, created_at, updated_at
		FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get session %q", id)
	}
	return session, nil
}

func (s *SQLite) ListSessions(ctx context.Context) ([]*model.SessionState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, phase, fields, can_proceed, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list sessions")
	}
	defer rows.Close()

	var out []*model.SessionState
	for rows.Next() {
		session, err := scanSession(rows)
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

func (s *SQLite) SaveProject(ctx context.Context, projectID string, fields model.FieldSet) (string, error) {
	if projectID == "" {
		projectID = uuid.NewString()
	}
	blob, err := json.Marshal(fields)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal project fields")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, fields, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fields = excluded.fields,
			updated_at = excluded.updated_at`,
		projectID, string(blob), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", eris.Wrapf(err, "store: save project %q", projectID)
	}
	return projectID, nil
}

func (s *SQLite) GetProject(ctx context.Context, projectID string) (model.FieldSet, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM projects WHERE id = ?`, projectID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get project %q", projectID)
	}
	var fields model.FieldSet
	if err := json.Unmarshal([]byte(blob), &fields); err != nil {
		return nil, eris.Wrapf(err, "store: unmarshal project %q", projectID)
	}
	return fields, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.SessionState, error) {
	var (
		session              model.SessionState
		phase, fieldsBlob    string
		canProceed           int
		createdAt, updatedAt string
	)
	if err := row.Scan(&session.ID, &session.ProjectID, &phase, &fieldsBlob,
		&canProceed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	session.Phase = model.Phase(phase)
	session.CanProceed = canProceed != 0
	if err := json.Unmarshal([]byte(fieldsBlob), &session.Fields); err != nil {
		return nil, eris.Wrap(err, "unmarshal fields")
	}
	var err error
	if session.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, eris.Wrap(err, "parse created_at")
	}
	if session.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, eris.Wrap(err, "parse updated_at")
	}
	return &session, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
