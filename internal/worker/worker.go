// Package worker drives enrichment jobs: claim the oldest pending job, walk
// its roles in ordinal order, and finalize job state. One job at a time, one
// role at a time; multiple worker processes coordinate only through the
// conditional claim in the job repository.
package worker

import (
	"context"
	"log/slog"
	"time"

	"resumeline/constants"
	"resumeline/internal/enrich"
	"resumeline/internal/entity"
	"resumeline/internal/llm"
	"resumeline/internal/repository"
)

type Config struct {
	PollInterval time.Duration // sleep between claim attempts when idle
	RolePacing   time.Duration // delay between roles, bounds outbound request rate
}

type Worker struct {
	jobs    repository.JobRepository
	roles   repository.RoleRepository
	gateway *enrich.Gateway
	cfg     Config
	log     *slog.Logger
}

func New(jobs repository.JobRepository, roles repository.RoleRepository, gateway *enrich.Gateway, cfg Config, log *slog.Logger) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.RolePacing < 0 {
		cfg.RolePacing = 0
	}
	if log == nil {
		log = slog.Default()
	}
	return &Worker{jobs: jobs, roles: roles, gateway: gateway, cfg: cfg, log: log}
}

// Run is the claim-sleep-retry loop. It returns when ctx is cancelled; the
// stop signal is honored between jobs and between roles, never mid-role.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("enrichment worker started", "poll_interval", w.cfg.PollInterval, "role_pacing", w.cfg.RolePacing)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("enrichment worker shutting down")
			return nil
		default:
		}

		job, err := w.jobs.ClaimNextPending(ctx)
		if err != nil {
			w.log.Error("claim attempt failed", "err", err)
			w.pause(ctx, w.cfg.PollInterval)
			continue
		}
		if job == nil {
			w.pause(ctx, w.cfg.PollInterval)
			continue
		}

		w.RunJob(ctx, job)
	}
}

// RunJob processes one claimed job to completion or early stop. A failure to
// load the role list is the only whole-job fatal condition; everything at the
// per-role level is absorbed so the loop never aborts mid-job.
func (w *Worker) RunJob(ctx context.Context, job *entity.Job) {
	roles, err := w.roles.ListForResume(ctx, job.ResumeID)
	if err != nil {
		w.log.Error("loading roles failed", "job_id", job.ID, "resume_id", job.ResumeID, "err", err)
		if merr := w.jobs.MarkError(ctx, job.ID, "loading roles: "+err.Error()); merr != nil {
			w.log.Error("marking job errored failed", "job_id", job.ID, "err", merr)
		}
		return
	}

	if len(roles) == 0 {
		w.log.Warn("job has no roles; marking complete", "job_id", job.ID)
		if err := w.jobs.MarkCompleted(ctx, job.ID); err != nil {
			w.log.Error("marking empty job completed failed", "job_id", job.ID, "err", err)
		}
		return
	}

	// Ingestion and the role table can drift; trust the actual count.
	if err := w.jobs.ReconcileTotal(ctx, job.ID, len(roles)); err != nil {
		w.log.Error("reconciling total failed", "job_id", job.ID, "err", err)
	}

	// In-flight role work runs to completion even when the stop signal
	// arrives; cancellation is only observed between roles.
	jobCtx := context.WithoutCancel(ctx)

	for _, role := range roles {
		latest, err := w.jobs.Get(jobCtx, job.ID)
		if err != nil {
			w.log.Warn("job disappeared mid-run; aborting", "job_id", job.ID, "err", err)
			break
		}
		if latest.Status != constants.JobStatusRunning {
			w.log.Warn("job status changed mid-run; aborting enrichment loop",
				"job_id", job.ID, "status", latest.Status)
			break
		}

		w.processRole(jobCtx, job.ID, role)

		if ctx.Err() != nil {
			w.log.Info("stop requested; leaving job as-is", "job_id", job.ID)
			break
		}
		w.pause(ctx, w.cfg.RolePacing)
	}

	w.finalize(jobCtx, job.ID)
}

// processRole attempts enrichment for one role and advances progress exactly
// once, whether the attempt enriched, fell back, or failed to persist.
// Progress reflects attempts made, not roles fully enriched.
func (w *Worker) processRole(ctx context.Context, jobID string, role *entity.Role) {
	if alreadyEnriched(role) {
		w.log.Info("role already enriched; skipping", "job_id", jobID, "role_id", role.ID, "ordinal", role.Ordinal)
	} else {
		w.attemptEnrichment(ctx, jobID, role)
	}

	if err := w.jobs.IncrementCompleted(ctx, jobID, 1); err != nil {
		w.log.Error("advancing progress failed", "job_id", jobID, "role_id", role.ID, "err", err)
	}
}

func (w *Worker) attemptEnrichment(ctx context.Context, jobID string, role *entity.Role) {
	// Per-role boundary: a panic here must not take down the job loop.
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Error("role enrichment panicked", "job_id", jobID, "role_id", role.ID, "panic", rec)
		}
	}()

	w.log.Info("enriching role",
		"job_id", jobID, "role_id", role.ID, "ordinal", role.Ordinal,
		"title", role.RoleTitle, "company", role.CompanyName)

	enrichment := w.gateway.Enrich(ctx, roleContext(role))

	if err := w.roles.SaveEnrichment(ctx, role.ID, enrichment); err != nil {
		// Fields stay unchanged; progress still advances so the UI doesn't stall.
		w.log.Error("persisting enrichment failed", "job_id", jobID, "role_id", role.ID, "err", err)
	}
}

// finalize re-reads the job and completes it only when every role was counted
// and nothing external changed the status. An early-stopped job stays running:
// a stuck job is a detectable symptom, not something to hide.
func (w *Worker) finalize(ctx context.Context, jobID string) {
	final, err := w.jobs.Get(ctx, jobID)
	if err != nil {
		w.log.Warn("final job read failed", "job_id", jobID, "err", err)
		return
	}
	if final.Status != constants.JobStatusRunning {
		return
	}
	if final.Done() {
		if err := w.jobs.MarkCompleted(ctx, jobID); err != nil {
			w.log.Error("marking job completed failed", "job_id", jobID, "err", err)
			return
		}
		w.log.Info("job finished", "job_id", jobID,
			"completed_roles", final.CompletedRoles, "total_roles", final.TotalRoles)
		return
	}
	w.log.Warn("job loop ended but job is not complete",
		"job_id", jobID, "completed_roles", final.CompletedRoles, "total_roles", final.TotalRoles)
}

func (w *Worker) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// alreadyEnriched is a heuristic, not a strict completeness check: a non-null
// enriched_at plus at least one story and one metric. Kept loose on purpose;
// tightening it changes re-processing behavior on retries.
func alreadyEnriched(role *entity.Role) bool {
	return role.EnrichedAt != nil && len(role.StarStories()) > 0 && len(role.Metrics()) > 0
}

func roleContext(role *entity.Role) llm.RoleContext {
	return llm.RoleContext{
		CompanyName:     role.CompanyName,
		RoleTitle:       role.RoleTitle,
		RoleDescription: role.RoleDescription,
		RoleDuration:    role.RoleDuration,
		CompanyIndustry: deref(role.CompanyIndustry),
		RoleIndustry:    deref(role.RoleIndustry),
		RoleSeniority:   deref(role.RoleSeniority),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
