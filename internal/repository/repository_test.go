package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doomedramen/autopwn-sub010/internal/db"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a DB backed by sqlmock. Expectations are verified on
// cleanup.
func newMockDB(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})

	return db.NewDB(sqlDB), mock
}

var jobRowColumns = []string{
	"id", "batch_id", "filename", "status", "priority", "paused", "current_dictionary",
	"progress", "speed", "eta", "error_message", "logs", "created_at", "started_at", "completed_at",
}
