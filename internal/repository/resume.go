package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"resumeline/internal/common"
	"resumeline/internal/entity"
)

// ResumeRepository creates the resume/job/roles bundle atomically and serves
// the snapshot projection for polling clients.
type ResumeRepository interface {
	CreateBundle(ctx context.Context, resume *entity.Resume, job *entity.Job, roles []*entity.Role) error
	Get(ctx context.Context, resumeID string) (*entity.Resume, error)
	Snapshot(ctx context.Context, resumeID string) (*entity.ResumeSnapshot, error)
}

type resumeRepo struct {
	db    *DB
	roles RoleRepository
	log   *slog.Logger
}

func NewResumeRepository(db *DB, roles RoleRepository, log *slog.Logger) ResumeRepository {
	if log == nil {
		log = slog.Default()
	}
	return &resumeRepo{db: db, roles: roles, log: log}
}

// CreateBundle inserts the resume, its pending job, and every role in one
// transaction. Either all rows land or none do.
func (r *resumeRepo) CreateBundle(ctx context.Context, resume *entity.Resume, job *entity.Job, roles []*entity.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Error("begin ingest transaction failed", "err", err)
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resumes (id, candidate_name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		resume.ID, nullable(resume.CandidateName), resume.CreatedAt, resume.UpdatedAt)
	if err != nil {
		r.log.Error("resume insert failed", "resume_id", resume.ID, "err", err)
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO jobs (id, resume_id, job_link, status, total_roles, completed_roles, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.ResumeID, nullable(job.JobLink), string(job.Status),
		job.TotalRoles, job.CompletedRoles, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		r.log.Error("job insert failed", "job_id", job.ID, "err", err)
		return err
	}

	for _, role := range roles {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO roles (
				id, resume_id, ordinal,
				company_name, company_size, company_industry,
				role_title, role_industry, role_seniority,
				role_duration, role_description,
				role_star_1, role_star_2, role_star_3,
				metric_1, metric_2, metric_3,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			role.ID, role.ResumeID, role.Ordinal,
			role.CompanyName, nullable(role.CompanySize), nullable(role.CompanyIndustry),
			role.RoleTitle, nullable(role.RoleIndustry), nullable(role.RoleSeniority),
			nullableInt(role.RoleDuration), role.RoleDescription,
			nullable(role.RoleStar1), nullable(role.RoleStar2), nullable(role.RoleStar3),
			nullable(role.Metric1), nullable(role.Metric2), nullable(role.Metric3),
			role.CreatedAt, role.UpdatedAt)
		if err != nil {
			r.log.Error("role insert failed", "resume_id", resume.ID, "ordinal", role.Ordinal, "err", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.log.Error("ingest transaction commit failed", "resume_id", resume.ID, "err", err)
		return err
	}
	r.log.Info("resume bundle created", "resume_id", resume.ID, "job_id", job.ID, "roles", len(roles))
	return nil
}

func (r *resumeRepo) Get(ctx context.Context, resumeID string) (*entity.Resume, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, candidate_name, created_at, updated_at FROM resumes WHERE id = $1`, resumeID)

	var res entity.Resume
	var name sql.NullString
	err := row.Scan(&res.ID, &name, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resume %s: %w", resumeID, common.ErrNotFound)
		}
		r.log.Error("resume get failed", "resume_id", resumeID, "err", err)
		return nil, err
	}
	res.CandidateName = strPtr(name)
	return &res, nil
}

// Snapshot returns the resume and its roles in ordinal order. Partially
// enriched roles come back as-is; unpopulated slots stay null.
func (r *resumeRepo) Snapshot(ctx context.Context, resumeID string) (*entity.ResumeSnapshot, error) {
	resume, err := r.Get(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	roles, err := r.roles.ListForResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	return &entity.ResumeSnapshot{
		ResumeID:      resume.ID,
		CandidateName: resume.CandidateName,
		Roles:         roles,
	}, nil
}

func nullable(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
