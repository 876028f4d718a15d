package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"github.com/doomedramen/autopwn-sub010/internal/db"
	"github.com/doomedramen/autopwn-sub010/internal/models"
)

const jobColumns = `
	id, batch_id, filename, status, priority, paused, current_dictionary,
	progress, speed, eta, error_message, logs, created_at, started_at, completed_at`

// jobUpdateColumns whitelists the columns accepted by UpdateFields
var jobUpdateColumns = map[string]bool{
	"status":             true,
	"priority":           true,
	"paused":             true,
	"current_dictionary": true,
	"progress":           true,
	"speed":              true,
	"eta":                true,
	"error_message":      true,
	"logs":               true,
	"started_at":         true,
	"completed_at":       true,
}

// JobRepository handles database operations for jobs
type JobRepository struct {
	db *db.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *db.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job in status pending
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}

	query := `
		INSERT INTO jobs (batch_id, filename, status, priority, paused)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		job.BatchID, job.Filename, job.Status, job.Priority, job.Paused,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	query := `SELECT` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// GetNextPending retrieves the single next-eligible pending job: highest
// priority first, oldest first within a priority, paused jobs excluded.
// Returns ErrNotFound when no job is eligible.
func (r *JobRepository) GetNextPending(ctx context.Context) (*models.Job, error) {
	query := `
		SELECT` + jobColumns + `
		FROM jobs
		WHERE status = 'pending' AND paused = FALSE
		ORDER BY priority DESC, created_at ASC, id ASC
		LIMIT 1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next pending job: %w", err)
	}

	return job, nil
}

// List retrieves all jobs, newest first
func (r *JobRepository) List(ctx context.Context) ([]models.Job, error) {
	query := `SELECT` + jobColumns + ` FROM jobs ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

// UpdateFields applies a partial field-map update to a job. Unknown columns
// are rejected. Updates are last-write-wins per field.
func (r *JobRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	// Sort columns so the generated SQL is deterministic
	columns := make([]string, 0, len(fields))
	for column := range fields {
		if !jobUpdateColumns[column] {
			return fmt.Errorf("column %q is not updatable", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	query := "UPDATE jobs SET "
	args := make([]interface{}, 0, len(fields)+1)
	for i, column := range columns {
		if i > 0 {
			query += ", "
		}
		query += column + " = $" + strconv.Itoa(i+1)
		args = append(args, fields[column])
	}
	query += " WHERE id = $" + strconv.Itoa(len(columns)+1)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendLog appends a line to the job's append-only log text
func (r *JobRepository) AppendLog(ctx context.Context, id int64, line string) error {
	query := `UPDATE jobs SET logs = COALESCE(logs, '') || $1 WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, line+"\n", id)
	if err != nil {
		return fmt.Errorf("failed to append job log: %w", err)
	}

	return nil
}

// SetPaused flips the paused flag. Pausing only affects selection; a job
// already processing finishes its current run.
func (r *JobRepository) SetPaused(ctx context.Context, id int64, paused bool) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"paused": paused})
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID, &job.BatchID, &job.Filename, &job.Status, &job.Priority, &job.Paused,
		&job.CurrentDictionary, &job.Progress, &job.Speed, &job.ETA,
		&job.ErrorMessage, &job.Logs, &job.CreatedAt, &job.StartedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
