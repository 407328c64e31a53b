package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/repometa/internal/github"
	"github.com/dgallion1/repometa/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type enrichRequest struct {
	Owner string              `json:"owner"`
	Repos []github.Descriptor `json:"repos"`
}

// handleEnrich accepts a batch: an explicit repository list, or just an
// owner to discover through the lister.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)

	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Owner == "" {
		req.Owner = s.cfg.GithubOwner
	}
	if req.Owner == "" {
		jsonError(w, "owner is required", http.StatusBadRequest)
		return
	}

	descriptors := req.Repos
	if len(descriptors) == 0 {
		if s.lister == nil {
			jsonError(w, "repos are required (no lister configured)", http.StatusBadRequest)
			return
		}
		var err error
		descriptors, err = s.lister.ListRepositories(r.Context(), req.Owner)
		if err != nil {
			s.log.Error("repository discovery failed", "owner", req.Owner, "error", err)
			jsonError(w, "repository discovery failed", http.StatusBadGateway)
			return
		}
	}
	if len(descriptors) == 0 {
		jsonError(w, "no repositories to enrich", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(req.Owner, descriptors)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     job.ID,
		"status":     job.Status,
		"repos":      len(descriptors),
		"status_url": fmt.Sprintf("/api/enrich/%s/status", job.ID),
	})
}

func (s *Server) handleEnrichStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleEnrichResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":  job.ID,
		"owner":   job.Owner,
		"records": job.Records(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
