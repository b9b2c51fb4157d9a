package entity

import "time"

// Resume represents an ingested candidate profile for data transfer between layers.
type Resume struct {
	ID            string    `json:"id"`
	CandidateName *string   `json:"candidate_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ResumeSnapshot is the polling projection: the resume plus its roles in
// ordinal order, with whatever enrichment fields are currently populated.
type ResumeSnapshot struct {
	ResumeID      string  `json:"resumeId"`
	CandidateName *string `json:"candidateName"`
	Roles         []*Role `json:"roles"`
}
