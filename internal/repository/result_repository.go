package repository

import (
	"context"
	"fmt"

	"github.com/doomedramen/autopwn-sub010/internal/db"
	"github.com/doomedramen/autopwn-sub010/internal/models"
)

// ResultRepository handles database operations for recovered credentials
type ResultRepository struct {
	db *db.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *db.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create records one recovered credential
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	query := `
		INSERT INTO results (job_id, essid, password, pcap_filename)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		result.JobID, result.ESSID, result.Password, result.PcapFilename,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}

	return nil
}

// List retrieves all recovered credentials, newest first
func (r *ResultRepository) List(ctx context.Context) ([]models.Result, error) {
	return r.list(ctx, `
		SELECT id, job_id, essid, password, COALESCE(pcap_filename, ''), created_at
		FROM results
		ORDER BY created_at DESC, id DESC`)
}

// ListByJob retrieves the credentials recovered by one job
func (r *ResultRepository) ListByJob(ctx context.Context, jobID int64) ([]models.Result, error) {
	return r.list(ctx, `
		SELECT id, job_id, essid, password, COALESCE(pcap_filename, ''), created_at
		FROM results
		WHERE job_id = $1
		ORDER BY id ASC`, jobID)
}

func (r *ResultRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Result, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var res models.Result
		err := rows.Scan(&res.ID, &res.JobID, &res.ESSID, &res.Password, &res.PcapFilename, &res.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}

	return results, rows.Err()
}
