package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resumeline/constants"
)

// jobProjection is the polling contract for GET /api/jobs/{jobID}.
type jobProjection struct {
	JobID          string              `json:"jobId"`
	ResumeID       string              `json:"resumeId"`
	Status         constants.JobStatus `json:"status"`
	TotalRoles     int                 `json:"total_roles"`
	CompletedRoles int                 `json:"completed_roles"`
	LastError      *string             `json:"last_error"`
	JobLink        *string             `json:"job_link,omitempty"`
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := s.jobs.Get(r.Context(), jobID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, jobProjection{
		JobID:          job.ID,
		ResumeID:       job.ResumeID,
		Status:         job.Status,
		TotalRoles:     job.TotalRoles,
		CompletedRoles: job.CompletedRoles,
		LastError:      job.LastError,
		JobLink:        job.JobLink,
	})
}
