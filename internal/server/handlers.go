package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rekrytera/jobad-publisher/internal/publish"
	"github.com/rekrytera/jobad-publisher/internal/types"
)

// ResolveResponse represents the response for /jobs/{id}/resolve
type ResolveResponse struct {
	JobID    string   `json:"job_id"`
	Resolved []string `json:"resolved"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateResponse represents the response for /jobs/{id}/validate
type ValidateResponse struct {
	JobID      string           `json:"job_id"`
	Valid      bool             `json:"valid"`
	Violations types.Violations `json:"violations,omitempty"`
}

// PublishResponse represents the response for /jobs/{id}/publish
type PublishResponse struct {
	JobID      string             `json:"job_id"`
	Status     publish.Status     `json:"status"`
	RemoteAdID string             `json:"remote_ad_id,omitempty"`
	Violations types.Violations   `json:"violations,omitempty"`
	LastError  *types.RemoteError `json:"last_error,omitempty"`
}

// SyncStatusResponse represents the response for /jobs/{id}/sync
type SyncStatusResponse struct {
	JobID        string             `json:"job_id"`
	SyncState    types.SyncState    `json:"sync_state"`
	RemoteAdID   *string            `json:"remote_ad_id,omitempty"`
	LastError    *types.RemoteError `json:"last_error,omitempty"`
	LastSyncedAt *string            `json:"last_synced_at,omitempty"`
}

// RefreshResponse represents the response for /taxonomy/refresh
type RefreshResponse struct {
	Counts map[types.ConceptType]int    `json:"counts"`
	Errors map[types.ConceptType]string `json:"errors,omitempty"`
}

func (s *Server) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid job id")
		return uuid.Nil, false
	}
	return id, true
}

// handleResolve fills unresolved concept fields on a job
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	outcome, err := s.publisher.ResolveJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ResolveResponse{
		JobID:    id.String(),
		Resolved: outcome.Resolved,
		Warnings: outcome.Warnings,
	})
}

// handleValidate runs the compliance rule set over a job
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	violations, err := s.publisher.ValidateJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ValidateResponse{
		JobID:      id.String(),
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// handlePublish publishes or updates a job against the remote exchange
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	result, err := s.publisher.PublishJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := PublishResponse{
		JobID:      id.String(),
		Status:     result.Status,
		RemoteAdID: result.RemoteAdID,
		Violations: result.Violations,
	}
	if result.Outcome != nil {
		resp.LastError = result.Outcome.RemoteError()
	}

	status := http.StatusOK
	if result.Status == publish.StatusBlocked {
		status = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, status, resp)
}

// handleSyncStatus returns the persisted sync state of a job
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	job, err := s.jobs.GetJobAd(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "job ad not found")
		return
	}

	resp := SyncStatusResponse{
		JobID:      id.String(),
		SyncState:  job.SyncState,
		RemoteAdID: job.RemoteAdID,
		LastError:  job.LastError,
	}
	if job.LastSyncedAt != nil {
		ts := job.LastSyncedAt.Format(time.RFC3339)
		resp.LastSyncedAt = &ts
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleTaxonomyRefresh replaces the stored vocabularies type by type
func (s *Server) handleTaxonomyRefresh(w http.ResponseWriter, r *http.Request) {
	result := s.refresher.RefreshAll(r.Context())

	resp := RefreshResponse{Counts: result.Counts}
	if result.Failed() {
		resp.Errors = make(map[types.ConceptType]string, len(result.Errors))
		for typ, err := range result.Errors {
			resp.Errors[typ] = err.Error()
		}
	}

	// Partial refresh is still a multi-status worth reporting.
	status := http.StatusOK
	if result.Failed() {
		status = http.StatusMultiStatus
	}
	s.jsonResponse(w, status, resp)
}
