package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resumeline/internal/common"
	"resumeline/internal/entity"
	"resumeline/internal/llm"
)

const roleColumns = `id, resume_id, ordinal, company_name, company_size, company_industry,
	role_title, role_industry, role_seniority, role_duration, role_description,
	role_star_1, role_star_2, role_star_3, metric_1, metric_2, metric_3,
	enriched_at, created_at, updated_at`

// RoleRepository reads roles for the worker and the snapshot projection, and
// persists enrichment output. Roles are never deleted or reordered here.
type RoleRepository interface {
	ListForResume(ctx context.Context, resumeID string) ([]*entity.Role, error)
	Get(ctx context.Context, roleID string) (*entity.Role, error)
	SaveEnrichment(ctx context.Context, roleID string, enrichment llm.RoleEnrichment) error
}

type roleRepo struct {
	db  *DB
	log *slog.Logger
}

func NewRoleRepository(db *DB, log *slog.Logger) RoleRepository {
	if log == nil {
		log = slog.Default()
	}
	return &roleRepo{db: db, log: log}
}

func (r *roleRepo) ListForResume(ctx context.Context, resumeID string) ([]*entity.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE resume_id = $1 ORDER BY ordinal ASC`, resumeID)
	if err != nil {
		r.log.Error("role list failed", "resume_id", resumeID, "err", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *roleRepo) Get(ctx context.Context, roleID string) (*entity.Role, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1`, roleID)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role %s: %w", roleID, common.ErrNotFound)
		}
		r.log.Error("role get failed", "role_id", roleID, "err", err)
		return nil, err
	}
	return role, nil
}

// SaveEnrichment overwrites the enrichment slots and stamps enriched_at.
// At-least-once delivery with idempotent overwrite: re-running a role simply
// rewrites the same columns.
func (r *roleRepo) SaveEnrichment(ctx context.Context, roleID string, enrichment llm.RoleEnrichment) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE roles SET
			role_description = $1,
			role_star_1 = $2, role_star_2 = $3, role_star_3 = $4,
			metric_1 = $5, metric_2 = $6, metric_3 = $7,
			enriched_at = $8, updated_at = $9
		WHERE id = $10`,
		enrichment.RoleDescription,
		slot(enrichment.StarStories, 0), slot(enrichment.StarStories, 1), slot(enrichment.StarStories, 2),
		slot(enrichment.Metrics, 0), slot(enrichment.Metrics, 1), slot(enrichment.Metrics, 2),
		now, now, roleID)
	if err != nil {
		r.log.Error("role enrichment update failed", "role_id", roleID, "err", err)
		return err
	}
	r.log.Info("role enrichment saved", "role_id", roleID,
		"stories", len(enrichment.StarStories), "metrics", len(enrichment.Metrics))
	return nil
}

// slot maps list index i to a nullable column value.
func slot(list []string, i int) any {
	if i < len(list) && list[i] != "" {
		return list[i]
	}
	return nil
}

func scanRole(row rowScanner) (*entity.Role, error) {
	var (
		role            entity.Role
		companySize     sql.NullString
		companyIndustry sql.NullString
		roleIndustry    sql.NullString
		roleSeniority   sql.NullString
		roleDuration    sql.NullInt64
		star1, star2    sql.NullString
		star3           sql.NullString
		m1, m2, m3      sql.NullString
		enrichedAt      sql.NullTime
	)
	err := row.Scan(&role.ID, &role.ResumeID, &role.Ordinal, &role.CompanyName, &companySize,
		&companyIndustry, &role.RoleTitle, &roleIndustry, &roleSeniority, &roleDuration,
		&role.RoleDescription, &star1, &star2, &star3, &m1, &m2, &m3,
		&enrichedAt, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	role.CompanySize = strPtr(companySize)
	role.CompanyIndustry = strPtr(companyIndustry)
	role.RoleIndustry = strPtr(roleIndustry)
	role.RoleSeniority = strPtr(roleSeniority)
	if roleDuration.Valid {
		d := int(roleDuration.Int64)
		role.RoleDuration = &d
	}
	role.RoleStar1 = strPtr(star1)
	role.RoleStar2 = strPtr(star2)
	role.RoleStar3 = strPtr(star3)
	role.Metric1 = strPtr(m1)
	role.Metric2 = strPtr(m2)
	role.Metric3 = strPtr(m3)
	if enrichedAt.Valid {
		t := enrichedAt.Time
		role.EnrichedAt = &t
	}
	return &role, nil
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
