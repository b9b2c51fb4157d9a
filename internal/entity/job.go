package entity

import (
	"time"

	"resumeline/constants"
)

// Job represents one enrichment job for data transfer between layers.
// A job tracks progress over the roles of exactly one resume.
type Job struct {
	ID             string              `json:"id"`
	ResumeID       string              `json:"resume_id"`
	JobLink        *string             `json:"job_link,omitempty"`
	Status         constants.JobStatus `json:"status"`
	TotalRoles     int                 `json:"total_roles"`
	CompletedRoles int                 `json:"completed_roles"`
	LastError      *string             `json:"last_error,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Done reports whether every expected role has been counted.
func (j *Job) Done() bool {
	return j.CompletedRoles >= j.TotalRoles
}
