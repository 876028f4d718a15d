package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doomedramen/autopwn-sub010/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCreate(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewResultRepository(database)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO results`).
		WithArgs(int64(1), "HomeWifi", "Sup3rSecret", "capture-01.pcap").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), now))

	result := &models.Result{JobID: 1, ESSID: "HomeWifi", Password: "Sup3rSecret", PcapFilename: "capture-01.pcap"}
	require.NoError(t, repo.Create(context.Background(), result))

	assert.Equal(t, int64(9), result.ID)
	assert.Equal(t, now, result.CreatedAt)
}

func TestResultListByJob(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewResultRepository(database)

	rows := sqlmock.NewRows([]string{"id", "job_id", "essid", "password", "pcap_filename", "created_at"}).
		AddRow(int64(1), int64(4), "HomeWifi", "pw1", "capture-01.pcap", time.Now()).
		AddRow(int64(2), int64(4), "Office", "pw2", "", time.Now())
	mock.ExpectQuery(`WHERE job_id = \$1\s+ORDER BY id ASC`).
		WithArgs(int64(4)).
		WillReturnRows(rows)

	results, err := repo.ListByJob(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "HomeWifi", results[0].ESSID)
	assert.Empty(t, results[1].PcapFilename)
}

func TestResultList(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewResultRepository(database)

	rows := sqlmock.NewRows([]string{"id", "job_id", "essid", "password", "pcap_filename", "created_at"}).
		AddRow(int64(2), int64(1), "Office", "pw2", "", time.Now())
	mock.ExpectQuery(`FROM results\s+ORDER BY created_at DESC, id DESC`).WillReturnRows(rows)

	results, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
}
