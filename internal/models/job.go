package models

import "time"

// JobStatus represents the lifecycle state of a cracking job.
// Transitions: pending -> processing -> completed | failed.
// A job with no assigned dictionaries moves pending -> failed directly.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents one cracking job against a single hash file.
// At most one job has status processing at any instant; only the scheduler
// transitions status. Jobs are never deleted.
type Job struct {
	ID                int64      `json:"id" db:"id"`
	BatchID           string     `json:"batch_id" db:"batch_id"`
	Filename          string     `json:"filename" db:"filename"`
	Status            JobStatus  `json:"status" db:"status"`
	Priority          int        `json:"priority" db:"priority"`
	Paused            bool       `json:"paused" db:"paused"`
	CurrentDictionary *string    `json:"current_dictionary" db:"current_dictionary"`
	Progress          *float64   `json:"progress" db:"progress"`
	Speed             *string    `json:"speed" db:"speed"`
	ETA               *string    `json:"eta" db:"eta"`
	ErrorMessage      *string    `json:"error_message" db:"error_message"`
	Logs              *string    `json:"logs" db:"logs"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	StartedAt         *time.Time `json:"started_at" db:"started_at"`
	CompletedAt       *time.Time `json:"completed_at" db:"completed_at"`
}

// JobDictionaryStatus represents the outcome of one dictionary attempt
type JobDictionaryStatus string

const (
	JobDictionaryStatusPending   JobDictionaryStatus = "pending"
	JobDictionaryStatusCompleted JobDictionaryStatus = "completed"
	JobDictionaryStatusFailed    JobDictionaryStatus = "failed"
)

// JobDictionary associates a job with one assigned wordlist and records the
// outcome of its attempt. Assignment order is id ASC. Dictionaries never
// attempted (because an earlier one recovered the credential) stay pending.
type JobDictionary struct {
	ID             int64               `json:"id" db:"id"`
	JobID          int64               `json:"job_id" db:"job_id"`
	DictionaryName string              `json:"dictionary_name" db:"dictionary_name"`
	Status         JobDictionaryStatus `json:"status" db:"status"`
	AttemptedAt    *time.Time          `json:"attempted_at" db:"attempted_at"`
}
