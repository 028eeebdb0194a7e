package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiso-design/intake-cli/internal/model"
)

func newMockPostgres(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgres_Migrate(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sessions").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, p.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveSession(t *testing.T) {
	p, mock := newMockPostgres(t)
	session := sampleSession("s1")
	fields, err := json.Marshal(session.Fields)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(session.ID, session.ProjectID, string(session.Phase), fields,
			session.CanProceed, session.CreatedAt, session.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, p.SaveSession(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetSession(t *testing.T) {
	p, mock := newMockPostgres(t)
	now := time.Now().UTC()
	fields := []byte(`{"siteAddress":{"key":"siteAddress","label":"敷地住所","category":"site","value":"東京都港区六本木1-1-1","confidence":0.55,"source":"pattern","status":"extracted","required":true}}`)

	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "project_id", "phase", "fields", "can_proceed", "created_at", "updated_at"}).
			AddRow("s1", "proj-1", "p1", fields, true, now, now))

	got, err := p.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "proj-1", got.ProjectID)
	assert.Equal(t, model.PhaseBasicInfo, got.Phase)
	assert.True(t, got.CanProceed)
	assert.Equal(t, "東京都港区六本木1-1-1", got.Fields["siteAddress"].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetSessionNotFound(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := p.GetSession(context.Background(), "missing")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListSessions(t *testing.T) {
	p, mock := newMockPostgres(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM sessions ORDER BY updated_at DESC").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "project_id", "phase", "fields", "can_proceed", "created_at", "updated_at"}).
			AddRow("s1", "", "p1", []byte(`{}`), false, now, now).
			AddRow("s2", "", "p2", []byte(`{}`), true, now, now))

	sessions, err := p.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, model.PhaseTankSpec, sessions[1].Phase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveProjectAllocatesID(t *testing.T) {
	p, mock := newMockPostgres(t)
	fields := model.FieldSet{}

	mock.ExpectExec("INSERT INTO projects").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := p.SaveProject(context.Background(), "", fields)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetProjectNotFound(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectQuery("SELECT fields FROM projects").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := p.GetProject(context.Background(), "missing")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
