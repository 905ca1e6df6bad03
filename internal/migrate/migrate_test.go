package migrate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_labor_tables.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("labor_tables.sql")
	assert.Error(t, err)
	_, err = parseVersion("_x.sql")
	assert.Error(t, err)
}

func TestMigrations_Embedded(t *testing.T) {
	ms, err := migrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].version)
}

func TestApply_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, Apply(context.Background(), db, log))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RunsPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS labor_employees`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, Apply(context.Background(), db, log))
	require.NoError(t, mock.ExpectationsWereMet())
}
