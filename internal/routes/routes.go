// Package routes exposes the read-only status API consumed by external
// dashboards, plus pause/resume and job creation. The dashboard itself
// lives outside this service.
package routes

import (
	"net/http"

	"github.com/doomedramen/autopwn-sub010/internal/repository"
	"github.com/doomedramen/autopwn-sub010/internal/scheduler"
	"github.com/doomedramen/autopwn-sub010/internal/ws"
	"github.com/gorilla/mux"
)

// Deps holds everything the API handlers need
type Deps struct {
	Jobs            *repository.JobRepository
	JobDictionaries *repository.JobDictionaryRepository
	Dictionaries    *repository.DictionaryRepository
	Results         *repository.ResultRepository
	Scheduler       *scheduler.Scheduler
	Hub             *ws.Hub
}

// NewRouter builds the HTTP router
func NewRouter(deps Deps) *mux.Router {
	h := &handler{deps: deps}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/jobs", h.listJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs", h.createJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/current", h.currentJob).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id:[0-9]+}", h.getJob).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id:[0-9]+}/pause", h.pauseJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id:[0-9]+}/resume", h.resumeJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id:[0-9]+}/stop", h.stopJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id:[0-9]+}/results", h.jobResults).Methods(http.MethodGet)
	api.HandleFunc("/results", h.listResults).Methods(http.MethodGet)
	api.HandleFunc("/dictionaries", h.listDictionaries).Methods(http.MethodGet)
	api.HandleFunc("/dictionaries/coverage", h.dictionaryCoverage).Methods(http.MethodGet)

	if deps.Hub != nil {
		r.Handle("/ws", deps.Hub)
	}

	return r
}
