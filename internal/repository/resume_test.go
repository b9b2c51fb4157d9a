package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"resumeline/constants"
	"resumeline/internal/common"
	"resumeline/internal/entity"
)

func testBundle(resumeID, jobID string, ordinals ...int) (*entity.Resume, *entity.Job, []*entity.Role) {
	now := time.Now().UTC()
	name := "Jordan Tester"
	resume := &entity.Resume{ID: resumeID, CandidateName: &name, CreatedAt: now, UpdatedAt: now}
	job := &entity.Job{
		ID: jobID, ResumeID: resumeID, Status: constants.JobStatusPending,
		TotalRoles: len(ordinals), CreatedAt: now, UpdatedAt: now,
	}
	roles := make([]*entity.Role, 0, len(ordinals))
	for i, ord := range ordinals {
		roles = append(roles, &entity.Role{
			ID: jobID + "_role_" + string(rune('a'+i)), ResumeID: resumeID, Ordinal: ord,
			CompanyName: "Acme", RoleTitle: "Engineer", RoleDescription: "Built things.",
			CreatedAt: now, UpdatedAt: now,
		})
	}
	return resume, job, roles
}

func TestCreateBundleAndSnapshot(t *testing.T) {
	db := newTestDB(t)
	roleRepo := NewRoleRepository(db, testLogger())
	resumes := NewResumeRepository(db, roleRepo, testLogger())
	jobs := NewJobRepository(db, testLogger())
	ctx := context.Background()

	resume, job, roles := testBundle("resume_a", "job_a", 2, 0, 1)
	if err := resumes.CreateBundle(ctx, resume, job, roles); err != nil {
		t.Fatalf("create bundle: %v", err)
	}

	stored, err := jobs.Get(ctx, "job_a")
	if err != nil {
		t.Fatalf("job get: %v", err)
	}
	if stored.Status != constants.JobStatusPending || stored.TotalRoles != 3 || stored.CompletedRoles != 0 {
		t.Fatalf("job = %+v, want pending 0/3", stored)
	}

	snap, err := resumes.Snapshot(ctx, "resume_a")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.ResumeID != "resume_a" {
		t.Fatalf("snapshot resume id = %s", snap.ResumeID)
	}
	if snap.CandidateName == nil || *snap.CandidateName != "Jordan Tester" {
		t.Fatalf("candidate name = %v", snap.CandidateName)
	}
	if len(snap.Roles) != 3 {
		t.Fatalf("snapshot roles = %d, want 3", len(snap.Roles))
	}
	for i, role := range snap.Roles {
		if role.Ordinal != i {
			t.Fatalf("snapshot position %d has ordinal %d", i, role.Ordinal)
		}
		if role.EnrichedAt != nil {
			t.Fatalf("fresh role %d already enriched", i)
		}
	}
}

func TestCreateBundleRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	roleRepo := NewRoleRepository(db, testLogger())
	resumes := NewResumeRepository(db, roleRepo, testLogger())
	ctx := context.Background()

	resume, job, roles := testBundle("resume_a", "job_a", 0, 1)
	// Duplicate primary key forces the last insert to fail.
	roles[1].ID = roles[0].ID

	if err := resumes.CreateBundle(ctx, resume, job, roles); err == nil {
		t.Fatal("expected bundle create to fail")
	}

	if _, err := resumes.Get(ctx, "resume_a"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("resume should not exist after rollback, got %v", err)
	}
	list, err := roleRepo.ListForResume(ctx, "resume_a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("roles should not exist after rollback, got %d", len(list))
	}
}

func TestSnapshotNotFound(t *testing.T) {
	db := newTestDB(t)
	roleRepo := NewRoleRepository(db, testLogger())
	resumes := NewResumeRepository(db, roleRepo, testLogger())

	_, err := resumes.Snapshot(context.Background(), "resume_missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
