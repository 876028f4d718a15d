package repository

import (
	"context"
	"fmt"

	"github.com/doomedramen/autopwn-sub010/internal/db"
	"github.com/doomedramen/autopwn-sub010/internal/models"
	"github.com/lib/pq"
)

// JobDictionaryRepository handles database operations for job-dictionary
// associations
type JobDictionaryRepository struct {
	db *db.DB
}

// NewJobDictionaryRepository creates a new job dictionary repository
func NewJobDictionaryRepository(db *db.DB) *JobDictionaryRepository {
	return &JobDictionaryRepository{db: db}
}

// Create assigns a dictionary to a job in status pending
func (r *JobDictionaryRepository) Create(ctx context.Context, jd *models.JobDictionary) error {
	if jd.Status == "" {
		jd.Status = models.JobDictionaryStatusPending
	}

	query := `
		INSERT INTO job_dictionaries (job_id, dictionary_name, status)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, jd.JobID, jd.DictionaryName, jd.Status).Scan(&jd.ID)
	if err != nil {
		return fmt.Errorf("failed to create job dictionary: %w", err)
	}

	return nil
}

// ListByJob retrieves a job's dictionary assignments in assignment order
func (r *JobDictionaryRepository) ListByJob(ctx context.Context, jobID int64) ([]models.JobDictionary, error) {
	query := `
		SELECT id, job_id, dictionary_name, status, attempted_at
		FROM job_dictionaries
		WHERE job_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job dictionaries: %w", err)
	}
	defer rows.Close()

	var assignments []models.JobDictionary
	for rows.Next() {
		var jd models.JobDictionary
		err := rows.Scan(&jd.ID, &jd.JobID, &jd.DictionaryName, &jd.Status, &jd.AttemptedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job dictionary: %w", err)
		}
		assignments = append(assignments, jd)
	}

	return assignments, rows.Err()
}

// UpdateStatus records the outcome of a dictionary attempt
func (r *JobDictionaryRepository) UpdateStatus(ctx context.Context, id int64, status models.JobDictionaryStatus) error {
	query := `
		UPDATE job_dictionaries
		SET status = $1, attempted_at = NOW()
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update job dictionary status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}

	return nil
}

// CountCoverage returns how many distinct jobs within the given id set have
// attempted the named dictionary. Analytics only; never used for scheduling.
func (r *JobDictionaryRepository) CountCoverage(ctx context.Context, jobIDs []int64, dictionaryName string) (int, error) {
	if len(jobIDs) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(DISTINCT job_id)
		FROM job_dictionaries
		WHERE job_id = ANY($1)
		  AND dictionary_name = $2
		  AND status != 'pending'`

	var count int
	err := r.db.QueryRowContext(ctx, query, pq.Array(jobIDs), dictionaryName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count dictionary coverage: %w", err)
	}

	return count, nil
}
