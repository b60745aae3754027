package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurseconnect/lms/internal/db"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:connect_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer dbh.Close()

	for _, table := range []string{"students", "professors", "quizzes", "attempts", "read_materials", "event_log"} {
		var name string
		err := dbh.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=$1`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := db.Open(context.Background(), db.Driver("oracle"), "")
	require.Error(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:tx_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer dbh.Close()

	boom := errors.New("boom")
	err = db.WithTx(ctx, dbh, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO subjects (id, name) VALUES ('s1', 'Biology')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, dbh.QueryRowContext(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:unique_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer dbh.Close()

	_, err = dbh.ExecContext(ctx, `INSERT INTO subjects (id, name) VALUES ('s1', 'Biology')`)
	require.NoError(t, err)
	_, err = dbh.ExecContext(ctx, `INSERT INTO subjects (id, name) VALUES ('s2', 'Biology')`)
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err))

	require.False(t, db.IsUniqueViolation(nil))
	require.False(t, db.IsUniqueViolation(errors.New("other")))
}
