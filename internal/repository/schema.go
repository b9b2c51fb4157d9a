package repository

import "context"

// Schema DDL kept portable across postgres and sqlite; idempotent on purpose
// so every binary can call EnsureSchema at startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS resumes (
		id             TEXT PRIMARY KEY,
		candidate_name TEXT,
		created_at     TIMESTAMP NOT NULL,
		updated_at     TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id              TEXT PRIMARY KEY,
		resume_id       TEXT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
		job_link        TEXT,
		status          TEXT NOT NULL,
		total_roles     INTEGER NOT NULL,
		completed_roles INTEGER NOT NULL,
		last_error      TEXT,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id               TEXT PRIMARY KEY,
		resume_id        TEXT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
		ordinal          INTEGER NOT NULL,
		company_name     TEXT NOT NULL,
		company_size     TEXT,
		company_industry TEXT,
		role_title       TEXT NOT NULL,
		role_industry    TEXT,
		role_seniority   TEXT,
		role_duration    INTEGER,
		role_description TEXT NOT NULL,
		role_star_1      TEXT,
		role_star_2      TEXT,
		role_star_3      TEXT,
		metric_1         TEXT,
		metric_2         TEXT,
		metric_3         TEXT,
		enriched_at      TIMESTAMP,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_roles_resume_ordinal ON roles(resume_id, ordinal)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status_created ON jobs(status, created_at)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			d.log.Error("schema bootstrap failed", "error", err)
			return err
		}
	}
	d.log.Debug("schema ensured")
	return nil
}
