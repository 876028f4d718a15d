package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/doomedramen/autopwn-sub010/internal/models"
	"github.com/doomedramen/autopwn-sub010/internal/repository"
	"github.com/doomedramen/autopwn-sub010/internal/version"
	"github.com/doomedramen/autopwn-sub010/pkg/debug"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type handler struct {
	deps Deps
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			debug.Error("Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Get(),
	})
}

func (h *handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.deps.Jobs.List(r.Context())
	if err != nil {
		debug.Error("Failed to list jobs: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// createJobRequest creates one pending job with its dictionary assignments
type createJobRequest struct {
	Filename     string   `json:"filename"`
	Priority     int      `json:"priority"`
	Dictionaries []string `json:"dictionaries"`
}

func (h *handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	job := &models.Job{
		BatchID:  uuid.NewString(),
		Filename: req.Filename,
		Priority: req.Priority,
	}
	if err := h.deps.Jobs.Create(r.Context(), job); err != nil {
		debug.Error("Failed to create job: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	for _, name := range req.Dictionaries {
		jd := &models.JobDictionary{JobID: job.ID, DictionaryName: name}
		if err := h.deps.JobDictionaries.Create(r.Context(), jd); err != nil {
			debug.Error("Failed to assign dictionary %s to job %d: %v", name, job.ID, err)
			respondError(w, http.StatusInternalServerError, "failed to assign dictionaries")
			return
		}
	}

	respondJSON(w, http.StatusCreated, job)
}

func (h *handler) currentJob(w http.ResponseWriter, r *http.Request) {
	job := h.deps.Scheduler.Current()
	if job == nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

func (h *handler) getJob(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	job, err := h.deps.Jobs.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		debug.Error("Failed to get job %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	assignments, err := h.deps.JobDictionaries.ListByJob(r.Context(), id)
	if err != nil {
		debug.Error("Failed to list assignments for job %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job":          job,
		"dictionaries": assignments,
	})
}

func (h *handler) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	id := pathID(r)

	err := h.deps.Jobs.SetPaused(r.Context(), id, paused)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		debug.Error("Failed to set paused=%v on job %d: %v", paused, id, err)
		respondError(w, http.StatusInternalServerError, "failed to update job")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "paused": paused})
}

func (h *handler) pauseJob(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

func (h *handler) resumeJob(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

// stopJob kills the engine process if the targeted job is the one in
// flight. Stopping is external-only; the scheduler records the attempt as
// a no-match outcome.
func (h *handler) stopJob(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	current := h.deps.Scheduler.Current()
	if current == nil || current.ID != id {
		respondError(w, http.StatusConflict, "job is not currently processing")
		return
	}

	h.deps.Scheduler.StopCurrent()
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "stopped": true})
}

func (h *handler) jobResults(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	results, err := h.deps.Results.ListByJob(r.Context(), id)
	if err != nil {
		debug.Error("Failed to list results for job %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *handler) listResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.deps.Results.List(r.Context())
	if err != nil {
		debug.Error("Failed to list results: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *handler) listDictionaries(w http.ResponseWriter, r *http.Request) {
	dicts, err := h.deps.Dictionaries.List(r.Context())
	if err != nil {
		debug.Error("Failed to list dictionaries: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list dictionaries")
		return
	}
	respondJSON(w, http.StatusOK, dicts)
}

// dictionaryCoverage reports how many of the given jobs have attempted a
// dictionary, e.g. /api/dictionaries/coverage?name=rockyou.txt&job_ids=1,2,3
func (h *handler) dictionaryCoverage(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	var jobIDs []int64
	if raw := r.URL.Query().Get("job_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid job_ids")
				return
			}
			jobIDs = append(jobIDs, id)
		}
	}

	count, err := h.deps.JobDictionaries.CountCoverage(r.Context(), jobIDs, name)
	if err != nil {
		debug.Error("Failed to compute coverage for %s: %v", name, err)
		respondError(w, http.StatusInternalServerError, "failed to compute coverage")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dictionary": name,
		"jobs":       len(jobIDs),
		"attempted":  count,
	})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
