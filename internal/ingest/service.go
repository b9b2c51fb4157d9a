// Package ingest creates the resume + job + roles bundle from a parsed resume
// payload. Creation is all-or-nothing: validation rejects the request before
// any row is written, and the repository commits the bundle in one transaction.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resumeline/constants"
	"resumeline/internal/common"
	"resumeline/internal/entity"
	"resumeline/internal/repository"
)

// RoleInput is one parsed role as submitted by the client. The star/metric
// slots may arrive pre-filled (e.g. re-ingesting an exported resume); they are
// stored as-is and the enrichment heuristic decides whether to skip them.
type RoleInput struct {
	Ordinal         int     `json:"ordinal"`
	CompanyName     string  `json:"company_name"`
	CompanySize     *string `json:"company_size"`
	CompanyIndustry *string `json:"company_industry"`
	RoleTitle       string  `json:"role_title"`
	RoleIndustry    *string `json:"role_industry"`
	RoleSeniority   *string `json:"role_seniority"`
	RoleDuration    *int    `json:"role_duration"`
	RoleDescription string  `json:"role_description"`
	RoleStar1       *string `json:"role_star_1"`
	RoleStar2       *string `json:"role_star_2"`
	RoleStar3       *string `json:"role_star_3"`
	Metric1         *string `json:"metric_1"`
	Metric2         *string `json:"metric_2"`
	Metric3         *string `json:"metric_3"`
}

// Request is the ingestion payload.
type Request struct {
	CandidateName *string     `json:"candidate_name"`
	JobLink       *string     `json:"job_link"`
	Roles         []RoleInput `json:"roles"`
}

// Result carries the two identifiers the client polls with.
type Result struct {
	ResumeID string `json:"resumeId"`
	JobID    string `json:"jobId"`
}

// Ingestor is the boundary the transport layer calls.
type Ingestor interface {
	IngestResume(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	resumes repository.ResumeRepository
	log     *slog.Logger
}

func NewService(resumes repository.ResumeRepository, log *slog.Logger) Ingestor {
	if log == nil {
		log = slog.Default()
	}
	return &service{resumes: resumes, log: log}
}

func (s *service) IngestResume(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		s.log.Warn("ingest rejected", "error", err)
		return nil, err
	}

	now := time.Now().UTC()
	resume := &entity.Resume{
		ID:            newID("resume"),
		CandidateName: req.CandidateName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	job := &entity.Job{
		ID:             newID("job"),
		ResumeID:       resume.ID,
		JobLink:        req.JobLink,
		Status:         constants.JobStatusPending,
		TotalRoles:     len(req.Roles),
		CompletedRoles: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	roles := make([]*entity.Role, 0, len(req.Roles))
	for _, in := range req.Roles {
		roles = append(roles, &entity.Role{
			ID:              newID("role"),
			ResumeID:        resume.ID,
			Ordinal:         in.Ordinal,
			CompanyName:     in.CompanyName,
			CompanySize:     in.CompanySize,
			CompanyIndustry: in.CompanyIndustry,
			RoleTitle:       in.RoleTitle,
			RoleIndustry:    in.RoleIndustry,
			RoleSeniority:   in.RoleSeniority,
			RoleDuration:    in.RoleDuration,
			RoleDescription: in.RoleDescription,
			RoleStar1:       in.RoleStar1,
			RoleStar2:       in.RoleStar2,
			RoleStar3:       in.RoleStar3,
			Metric1:         in.Metric1,
			Metric2:         in.Metric2,
			Metric3:         in.Metric3,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if err := s.resumes.CreateBundle(ctx, resume, job, roles); err != nil {
		return nil, common.WrapError(err, "creating resume bundle")
	}

	s.log.Info("resume ingested", "resume_id", resume.ID, "job_id", job.ID, "roles", len(roles))
	return &Result{ResumeID: resume.ID, JobID: job.ID}, nil
}

func validate(req Request) error {
	v := common.NewValidator()
	if len(req.Roles) == 0 {
		v.Fail("roles", nil, "must contain at least one role")
	}

	seen := make(map[int]bool, len(req.Roles))
	for i, role := range req.Roles {
		prefix := fmt.Sprintf("roles[%d].", i)
		v.Field(prefix+"company_name", role.CompanyName, common.Required)
		v.Field(prefix+"role_title", role.RoleTitle, common.Required)
		v.Field(prefix+"role_description", role.RoleDescription,
			common.Required, common.MaxLen(constants.MaxDescriptionLength))
		v.Field(prefix+"ordinal", role.Ordinal, common.NonNegative)
		v.Field(prefix+"role_duration", role.RoleDuration, common.NonNegative)
		if seen[role.Ordinal] {
			v.Fail(prefix+"ordinal", role.Ordinal, "duplicates another role's ordinal")
		}
		seen[role.Ordinal] = true
	}
	return v.Error()
}

func newID(kind string) string {
	return fmt.Sprintf("%s_%d_%s", kind, time.Now().UnixMilli(), uuid.New().String())
}
