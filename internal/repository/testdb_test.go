package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"resumeline/constants"
	"resumeline/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDB opens a throwaway SQLite store under t.TempDir with the schema
// applied. The same repositories run against postgres in production; the
// queries are identical.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Config{DSN: filepath.Join(t.TempDir(), "test.db")}, testLogger())
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	return db
}

func seedResume(t *testing.T, db *DB, resumeID string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO resumes (id, candidate_name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		resumeID, "Test Candidate", now, now)
	if err != nil {
		t.Fatalf("seeding resume %s: %v", resumeID, err)
	}
}

func seedJob(t *testing.T, db *DB, jobID, resumeID string, status constants.JobStatus, total int, createdAt time.Time) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO jobs (id, resume_id, status, total_roles, completed_roles, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		jobID, resumeID, string(status), total, 0, createdAt, createdAt)
	if err != nil {
		t.Fatalf("seeding job %s: %v", jobID, err)
	}
}

func seedRole(t *testing.T, db *DB, role *entity.Role) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO roles (id, resume_id, ordinal, company_name, role_title, role_description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		role.ID, role.ResumeID, role.Ordinal, role.CompanyName, role.RoleTitle, role.RoleDescription, now, now)
	if err != nil {
		t.Fatalf("seeding role %s: %v", role.ID, err)
	}
}
