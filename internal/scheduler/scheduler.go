package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/doomedramen/autopwn-sub010/internal/hashcat"
	"github.com/doomedramen/autopwn-sub010/internal/models"
	"github.com/doomedramen/autopwn-sub010/internal/repository"
	"github.com/doomedramen/autopwn-sub010/pkg/debug"
	"github.com/doomedramen/autopwn-sub010/pkg/fsutil"
)

const defaultPollInterval = 2 * time.Second

// errNoDictionaries fails a job before any engine process is launched
var errNoDictionaries = errors.New("no dictionaries assigned")

// JobStore is the subset of job persistence the scheduler needs
type JobStore interface {
	GetNextPending(ctx context.Context) (*models.Job, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	AppendLog(ctx context.Context, id int64, line string) error
}

// AssignmentStore handles a job's dictionary associations
type AssignmentStore interface {
	ListByJob(ctx context.Context, jobID int64) ([]models.JobDictionary, error)
	UpdateStatus(ctx context.Context, id int64, status models.JobDictionaryStatus) error
}

// DictionaryStore resolves assigned dictionary names to files on disk
type DictionaryStore interface {
	GetByName(ctx context.Context, name string) (*models.Dictionary, error)
}

// ResultStore records recovered credentials
type ResultStore interface {
	Create(ctx context.Context, result *models.Result) error
}

// CaptureResolver attributes a recovered ESSID back to a capture file
type CaptureResolver interface {
	ResolveCapture(ctx context.Context, essid, batchID string) (string, error)
}

// AttackHandle is one running engine attack; satisfied by *hashcat.Attack
type AttackHandle interface {
	Updates() <-chan hashcat.Update
	Outcome() hashcat.Outcome
	Stop()
}

// AttackRunner launches engine attacks
type AttackRunner interface {
	Start(ctx context.Context, hashFile, dictionary string) AttackHandle
}

// engineRunner adapts *hashcat.Runner to the AttackRunner interface
type engineRunner struct {
	runner *hashcat.Runner
}

func (e engineRunner) Start(ctx context.Context, hashFile, dictionary string) AttackHandle {
	return e.runner.Start(ctx, hashFile, dictionary)
}

// NewEngineRunner wraps a hashcat runner for use by the scheduler
func NewEngineRunner(r *hashcat.Runner) AttackRunner {
	return engineRunner{runner: r}
}

// CrackNotifier is notified whenever a credential is recovered. Optional.
type CrackNotifier interface {
	NotifyCracked(ctx context.Context, essid, password, filename string) error
}

// ProgressPublisher pushes live events to connected dashboards. Optional.
type ProgressPublisher interface {
	Broadcast(v interface{})
}

// Event is the payload broadcast to dashboards
type Event struct {
	Type       string  `json:"type"` // progress | cracked | job_status
	JobID      int64   `json:"job_id"`
	Filename   string  `json:"filename"`
	Status     string  `json:"status,omitempty"`
	Dictionary string  `json:"dictionary,omitempty"`
	Progress   float64 `json:"progress,omitempty"`
	Speed      string  `json:"speed,omitempty"`
	ETA        string  `json:"eta,omitempty"`
	ESSID      string  `json:"essid,omitempty"`
}

// Config holds scheduler settings
type Config struct {
	HashesDir    string
	PollInterval time.Duration
}

// Scheduler runs the single-worker polling loop: it selects the next
// eligible pending job, drives it through its assigned dictionaries via the
// runner and persists every state transition. At most one job is in flight
// at any time.
type Scheduler struct {
	cfg         Config
	jobs        JobStore
	assignments AssignmentStore
	dicts       DictionaryStore
	results     ResultStore
	captures    CaptureResolver
	runner      AttackRunner
	notifier    CrackNotifier
	publisher   ProgressPublisher

	mu      sync.Mutex
	current *models.Job
	active  AttackHandle
}

// New creates a scheduler. notifier and publisher may be nil.
func New(
	cfg Config,
	jobs JobStore,
	assignments AssignmentStore,
	dicts DictionaryStore,
	results ResultStore,
	captures CaptureResolver,
	runner AttackRunner,
	notifier CrackNotifier,
	publisher ProgressPublisher,
) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Scheduler{
		cfg:         cfg,
		jobs:        jobs,
		assignments: assignments,
		dicts:       dicts,
		results:     results,
		captures:    captures,
		runner:      runner,
		notifier:    notifier,
		publisher:   publisher,
	}
}

// Run executes the polling loop until ctx is cancelled. One job failing
// never stops the loop; failures are recorded on the job and scanning
// resumes on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	debug.Info("Job scheduler started, poll interval %v", s.cfg.PollInterval)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			debug.Info("Job scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// Current returns the job currently in flight, or nil
func (s *Scheduler) Current() *models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// StopCurrent kills the engine process of the in-flight attempt, if any.
// The stop surfaces as a no-match outcome, never as a scheduler failure.
func (s *Scheduler) StopCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Stop()
	}
}

// runCycle selects and fully processes at most one job
func (s *Scheduler) runCycle(ctx context.Context) {
	job, err := s.jobs.GetNextPending(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if err != nil {
		debug.Error("Failed to select next pending job: %v", err)
		return
	}

	s.setCurrent(job)
	defer s.setCurrent(nil)

	if err := s.processJob(ctx, job); err != nil {
		debug.Error("Job %d failed: %v", job.ID, err)
		s.failJob(ctx, job, err)
	}
}

// processJob drives one job through its assigned dictionaries. Any error
// return or panic is caught at this boundary by runCycle and recorded on
// the job.
func (s *Scheduler) processJob(ctx context.Context, job *models.Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while processing job: %v", p)
		}
	}()

	debug.Info("Processing job %d (%s), priority %d", job.ID, job.Filename, job.Priority)

	err = s.jobs.UpdateFields(ctx, job.ID, map[string]interface{}{
		"status":        models.JobStatusProcessing,
		"started_at":    time.Now(),
		"error_message": nil,
	})
	if err != nil {
		return fmt.Errorf("failed to mark job processing: %w", err)
	}
	job.Status = models.JobStatusProcessing
	s.publishStatus(job)

	assignments, err := s.assignments.ListByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to list dictionary assignments: %w", err)
	}
	if len(assignments) == 0 {
		return errNoDictionaries
	}

	cracked := 0
	for _, assignment := range assignments {
		if ctx.Err() != nil {
			break
		}

		n, attemptErr := s.attemptDictionary(ctx, job, assignment)
		cracked += n

		switch {
		case attemptErr != nil:
			// Tool failure: recorded on the association and the job,
			// then the loop advances to the next dictionary
			debug.Warning("Dictionary %s failed for job %d: %v", assignment.DictionaryName, job.ID, attemptErr)
			s.markAssignment(ctx, assignment, models.JobDictionaryStatusFailed)
			s.jobs.UpdateFields(ctx, job.ID, map[string]interface{}{"error_message": attemptErr.Error()})
			s.jobs.AppendLog(ctx, job.ID, fmt.Sprintf("dictionary %s: %v", assignment.DictionaryName, attemptErr))
		case n > 0:
			s.markAssignment(ctx, assignment, models.JobDictionaryStatusCompleted)
		default:
			// Exhausted without a match; advance
			s.markAssignment(ctx, assignment, models.JobDictionaryStatusCompleted)
		}

		if n > 0 {
			break
		}
	}

	return s.finishJob(ctx, job, cracked)
}

// attemptDictionary runs the engine against one assigned dictionary and
// drains its update stream, persisting progress and recording credentials
func (s *Scheduler) attemptDictionary(ctx context.Context, job *models.Job, assignment models.JobDictionary) (int, error) {
	dict, err := s.dicts.GetByName(ctx, assignment.DictionaryName)
	if err != nil {
		return 0, fmt.Errorf("dictionary %s not registered: %w", assignment.DictionaryName, err)
	}

	debug.Info("Job %d: attacking with dictionary %s", job.ID, dict.Name)

	hashFile := filepath.Join(s.cfg.HashesDir, job.Filename)
	if !fsutil.FileExists(hashFile) {
		return 0, fmt.Errorf("hash file %s does not exist", hashFile)
	}

	s.jobs.UpdateFields(ctx, job.ID, map[string]interface{}{"current_dictionary": dict.Name})

	attack := s.runner.Start(ctx, hashFile, dict.Path)
	s.setActive(attack)
	defer s.setActive(nil)

	cracked := 0
	for update := range attack.Updates() {
		if update.Line != "" {
			if err := s.jobs.AppendLog(ctx, job.ID, update.Line); err != nil {
				debug.Error("Failed to append log for job %d: %v", job.ID, err)
			}
		}
		if update.Status != nil {
			s.persistProgress(ctx, job, dict.Name, update.Status)
		}
		if update.Cracked != nil {
			s.recordCredential(ctx, job, *update.Cracked)
			cracked++
		}
	}

	outcome := attack.Outcome()
	return cracked, outcome.Err
}

func (s *Scheduler) persistProgress(ctx context.Context, job *models.Job, dictionary string, status *hashcat.StatusUpdate) {
	fields := map[string]interface{}{}
	if status.Progress > 0 {
		fields["progress"] = status.Progress
	}
	if status.Speed != "" {
		fields["speed"] = status.Speed
	}
	if status.ETA != "" {
		fields["eta"] = status.ETA
	}
	if len(fields) > 0 {
		if err := s.jobs.UpdateFields(ctx, job.ID, fields); err != nil {
			debug.Error("Failed to persist progress for job %d: %v", job.ID, err)
		}
	}

	if s.publisher != nil {
		s.publisher.Broadcast(Event{
			Type:       "progress",
			JobID:      job.ID,
			Filename:   job.Filename,
			Dictionary: dictionary,
			Progress:   status.Progress,
			Speed:      status.Speed,
			ETA:        status.ETA,
		})
	}
}

// recordCredential writes a Result for one recovered credential and fires
// the optional notification hooks. Best-effort: a persistence error is
// logged but does not abort the attempt, since the engine's potfile can
// reproduce the credential on a re-run.
func (s *Scheduler) recordCredential(ctx context.Context, job *models.Job, cred hashcat.Credential) {
	pcap, err := s.captures.ResolveCapture(ctx, cred.ESSID, job.BatchID)
	if err != nil {
		debug.Warning("Failed to resolve capture for essid %s: %v", cred.ESSID, err)
	}

	debug.Info("Job %d recovered credential for %s (capture: %s)", job.ID, cred.ESSID, pcap)

	result := &models.Result{
		JobID:        job.ID,
		ESSID:        cred.ESSID,
		Password:     cred.Password,
		PcapFilename: pcap,
	}
	if err := s.results.Create(ctx, result); err != nil {
		debug.Error("Failed to record result for job %d: %v", job.ID, err)
		s.jobs.AppendLog(ctx, job.ID, fmt.Sprintf("failed to record result for %s: %v", cred.ESSID, err))
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyCracked(ctx, cred.ESSID, cred.Password, job.Filename); err != nil {
			debug.Warning("Crack notification failed: %v", err)
		}
	}
	if s.publisher != nil {
		s.publisher.Broadcast(Event{
			Type:     "cracked",
			JobID:    job.ID,
			Filename: job.Filename,
			ESSID:    cred.ESSID,
		})
	}
}

// finishJob persists the terminal status: completed iff at least one
// credential was recovered, failed otherwise
func (s *Scheduler) finishJob(ctx context.Context, job *models.Job, cracked int) error {
	status := models.JobStatusFailed
	if cracked > 0 {
		status = models.JobStatusCompleted
	}

	err := s.jobs.UpdateFields(ctx, job.ID, map[string]interface{}{
		"status":       status,
		"progress":     float64(100),
		"completed_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to finalize job: %w", err)
	}

	debug.Info("Job %d finished: %s (%d credential(s))", job.ID, status, cracked)
	job.Status = status
	s.publishStatus(job)
	return nil
}

// failJob records a job-boundary failure
func (s *Scheduler) failJob(ctx context.Context, job *models.Job, jobErr error) {
	err := s.jobs.UpdateFields(ctx, job.ID, map[string]interface{}{
		"status":        models.JobStatusFailed,
		"error_message": jobErr.Error(),
		"completed_at":  time.Now(),
	})
	if err != nil {
		debug.Error("Failed to mark job %d failed: %v", job.ID, err)
		return
	}
	job.Status = models.JobStatusFailed
	s.publishStatus(job)
}

func (s *Scheduler) publishStatus(job *models.Job) {
	if s.publisher == nil {
		return
	}
	s.publisher.Broadcast(Event{
		Type:     "job_status",
		JobID:    job.ID,
		Filename: job.Filename,
		Status:   string(job.Status),
	})
}

func (s *Scheduler) markAssignment(ctx context.Context, assignment models.JobDictionary, status models.JobDictionaryStatus) {
	if err := s.assignments.UpdateStatus(ctx, assignment.ID, status); err != nil {
		debug.Error("Failed to update dictionary %s status for job %d: %v",
			assignment.DictionaryName, assignment.JobID, err)
	}
}

func (s *Scheduler) setCurrent(job *models.Job) {
	s.mu.Lock()
	s.current = job
	s.mu.Unlock()
}

func (s *Scheduler) setActive(attack AttackHandle) {
	s.mu.Lock()
	s.active = attack
	s.mu.Unlock()
}
