package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resumeline/constants"
	"resumeline/internal/common"
	"resumeline/internal/entity"
)

const jobColumns = `id, resume_id, job_link, status, total_roles, completed_roles, last_error, created_at, updated_at`

// JobRepository owns all job state transitions. ClaimNextPending is the only
// concurrency-sensitive operation: the conditional UPDATE is the serialization
// point that keeps two workers off the same job.
type JobRepository interface {
	ClaimNextPending(ctx context.Context) (*entity.Job, error)
	Get(ctx context.Context, jobID string) (*entity.Job, error)
	IncrementCompleted(ctx context.Context, jobID string, delta int) error
	MarkCompleted(ctx context.Context, jobID string) error
	MarkError(ctx context.Context, jobID string, message string) error
	ReconcileTotal(ctx context.Context, jobID string, actualTotal int) error
	SetStatus(ctx context.Context, jobID string, status constants.JobStatus) error
	CountByStatus(ctx context.Context) (map[constants.JobStatus]int, error)
}

type jobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewJobRepository(db *DB, log *slog.Logger) JobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &jobRepo{db: db, log: log}
}

// ClaimNextPending selects the oldest pending job and attempts the atomic
// pending->running flip. A lost race returns (nil, nil), same as an empty
// queue; the caller retries on its next poll cycle.
func (r *jobRepo) ClaimNextPending(ctx context.Context) (*entity.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at ASC, id ASC LIMIT 1`,
		string(constants.JobStatusPending))
	candidate, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("claim candidate query failed", "err", err)
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(constants.JobStatusRunning), time.Now().UTC(), candidate.ID, string(constants.JobStatusPending))
	if err != nil {
		r.log.Error("claim update failed", "job_id", candidate.ID, "err", err)
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected != 1 {
		r.log.Debug("claim lost race", "job_id", candidate.ID)
		return nil, nil
	}

	fresh, err := r.Get(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	r.log.Info("job claimed", "job_id", fresh.ID, "resume_id", fresh.ResumeID, "total_roles", fresh.TotalRoles)
	return fresh, nil
}

func (r *jobRepo) Get(ctx context.Context, jobID string) (*entity.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", jobID, common.ErrNotFound)
		}
		r.log.Error("job get failed", "job_id", jobID, "err", err)
		return nil, err
	}
	return job, nil
}

// IncrementCompleted atomically adds delta to completed_roles. The counter
// never decreases; counting each role exactly once per pass is the worker's
// responsibility.
func (r *jobRepo) IncrementCompleted(ctx context.Context, jobID string, delta int) error {
	if delta < 0 {
		return common.NewAppError("JOB_PROGRESS", "progress delta must not be negative", common.ErrInvalidInput)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET completed_roles = completed_roles + $1, updated_at = $2 WHERE id = $3`,
		delta, time.Now().UTC(), jobID)
	if err != nil {
		r.log.Error("job progress update failed", "job_id", jobID, "err", err)
	}
	return err
}

func (r *jobRepo) MarkCompleted(ctx context.Context, jobID string) error {
	if err := r.SetStatus(ctx, jobID, constants.JobStatusCompleted); err != nil {
		return err
	}
	r.log.Info("job completed", "job_id", jobID)
	return nil
}

func (r *jobRepo) MarkError(ctx context.Context, jobID string, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = $1, last_error = $2, updated_at = $3 WHERE id = $4`,
		string(constants.JobStatusError), common.Truncate(message, constants.MaxLastErrorLength),
		time.Now().UTC(), jobID)
	if err != nil {
		r.log.Error("job error update failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("job marked errored", "job_id", jobID, "error", message)
	return nil
}

// ReconcileTotal corrects total_roles when the stored value disagrees with the
// actual role count for the resume; other fields are left untouched.
func (r *jobRepo) ReconcileTotal(ctx context.Context, jobID string, actualTotal int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET total_roles = $1, updated_at = $2 WHERE id = $3 AND total_roles <> $4`,
		actualTotal, time.Now().UTC(), jobID, actualTotal)
	if err != nil {
		r.log.Error("job total reconcile failed", "job_id", jobID, "err", err)
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		r.log.Warn("job total reconciled", "job_id", jobID, "total_roles", actualTotal)
	}
	return nil
}

// SetStatus writes the status unconditionally. Used by MarkCompleted and by
// operators flipping a job externally; it is not part of the claim path.
func (r *jobRepo) SetStatus(ctx context.Context, jobID string, status constants.JobStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), jobID)
	if err != nil {
		r.log.Error("job status update failed", "job_id", jobID, "status", status, "err", err)
	}
	return err
}

func (r *jobRepo) CountByStatus(ctx context.Context) (map[constants.JobStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[constants.JobStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[constants.JobStatus(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var (
		j       entity.Job
		jobLink sql.NullString
		lastErr sql.NullString
		status  string
	)
	err := row.Scan(&j.ID, &j.ResumeID, &jobLink, &status, &j.TotalRoles, &j.CompletedRoles,
		&lastErr, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Status = constants.JobStatus(status)
	if jobLink.Valid {
		j.JobLink = &jobLink.String
	}
	if lastErr.Valid {
		j.LastError = &lastErr.String
	}
	return &j, nil
}
