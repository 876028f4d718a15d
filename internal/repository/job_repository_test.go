package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doomedramen/autopwn-sub010/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCreate(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO jobs`).
		WithArgs("batch-1", "a.hc22000", models.JobStatusPending, 5, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	job := &models.Job{BatchID: "batch-1", Filename: "a.hc22000", Priority: 5}
	require.NoError(t, repo.Create(context.Background(), job))

	assert.Equal(t, int64(7), job.ID)
	assert.Equal(t, models.JobStatusPending, job.Status, "empty status defaults to pending")
	assert.Equal(t, now, job.CreatedAt)
}

func TestJobGetNextPending(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	rows := sqlmock.NewRows(jobRowColumns).AddRow(
		int64(3), "batch-1", "a.hc22000", "pending", 10, false, nil,
		nil, nil, nil, nil, nil, time.Now(), nil, nil,
	)
	mock.ExpectQuery(`WHERE status = 'pending' AND paused = FALSE\s+ORDER BY priority DESC, created_at ASC, id ASC\s+LIMIT 1`).
		WillReturnRows(rows)

	job, err := repo.GetNextPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), job.ID)
	assert.Equal(t, 10, job.Priority)
}

func TestJobGetNextPendingNone(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	mock.ExpectQuery(`WHERE status = 'pending'`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetNextPending(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobGetByIDNotFound(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	mock.ExpectQuery(`FROM jobs WHERE id = \$1`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobUpdateFieldsSortsColumns(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	// Columns are applied in sorted order regardless of map iteration
	mock.ExpectExec(`UPDATE jobs SET progress = \$1, speed = \$2, status = \$3 WHERE id = \$4`).
		WithArgs(42.5, "100 kH/s", "processing", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(context.Background(), 1, map[string]interface{}{
		"status":   "processing",
		"progress": 42.5,
		"speed":    "100 kH/s",
	})
	assert.NoError(t, err)
}

func TestJobUpdateFieldsRejectsUnknownColumn(t *testing.T) {
	database, _ := newMockDB(t)
	repo := NewJobRepository(database)

	err := repo.UpdateFields(context.Background(), 1, map[string]interface{}{"id": int64(2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not updatable")
}

func TestJobUpdateFieldsNotFound(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	mock.ExpectExec(`UPDATE jobs SET status = \$1 WHERE id = \$2`).
		WithArgs("failed", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFields(context.Background(), 99, map[string]interface{}{"status": "failed"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobUpdateFieldsEmptyMap(t *testing.T) {
	database, _ := newMockDB(t)
	repo := NewJobRepository(database)

	assert.NoError(t, repo.UpdateFields(context.Background(), 1, nil))
}

func TestJobAppendLog(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	mock.ExpectExec(`UPDATE jobs SET logs = COALESCE\(logs, ''\) \|\| \$1 WHERE id = \$2`).
		WithArgs("engine started\n", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.AppendLog(context.Background(), 1, "engine started"))
}

func TestJobSetPaused(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	mock.ExpectExec(`UPDATE jobs SET paused = \$1 WHERE id = \$2`).
		WithArgs(true, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetPaused(context.Background(), 4, true))
}

func TestJobList(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewJobRepository(database)

	rows := sqlmock.NewRows(jobRowColumns).
		AddRow(int64(2), "b", "b.hc22000", "pending", 0, false, nil, nil, nil, nil, nil, nil, time.Now(), nil, nil).
		AddRow(int64(1), "a", "a.hc22000", "completed", 0, false, nil, nil, nil, nil, nil, nil, time.Now(), nil, nil)
	mock.ExpectQuery(`FROM jobs ORDER BY created_at DESC, id DESC`).WillReturnRows(rows)

	jobs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, int64(2), jobs[0].ID)
}
