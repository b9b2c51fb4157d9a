// Package enrich wraps an llm.Enricher with the fallback policy: Enrich never
// fails from the caller's perspective. The only externally visible difference
// between a genuine enrichment and a fallback is content quality.
package enrich

import (
	"context"
	"log/slog"
	"time"

	"resumeline/constants"
	"resumeline/internal/llm"
)

type Gateway struct {
	enricher llm.Enricher
	timeout  time.Duration
	log      *slog.Logger
}

// NewGateway builds a gateway over the given strategy (live adapter or
// deterministic stub). timeout bounds a single backend call; <=0 disables the
// per-call deadline.
func NewGateway(enricher llm.Enricher, timeout time.Duration, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{enricher: enricher, timeout: timeout, log: log}
}

// Enrich returns a structurally valid enrichment for any role context. Backend
// errors, timeouts, and unusable output all resolve to the deterministic
// fallback; partial output keeps what validated and backfills the rest.
func (g *Gateway) Enrich(ctx context.Context, role llm.RoleContext) llm.RoleEnrichment {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	fallback := llm.BuildFallback(role)

	result, _, err := g.enricher.EnrichRole(ctx, role)
	if err != nil {
		g.log.Warn("enrichment backend failed; using fallback",
			"company", role.CompanyName, "title", role.RoleTitle, "error", err)
		return fallback
	}

	return merge(result, fallback)
}

// merge caps the lists at their slot limits and backfills missing slots from
// the fallback rather than leaving them empty.
func merge(result, fallback llm.RoleEnrichment) llm.RoleEnrichment {
	if result.RoleDescription == "" {
		result.RoleDescription = fallback.RoleDescription
	}
	result.StarStories = fill(result.StarStories, fallback.StarStories, constants.MaxStarStories)
	result.Metrics = fill(result.Metrics, fallback.Metrics, constants.MaxMetrics)
	return result
}

func fill(got, backup []string, limit int) []string {
	if len(got) > limit {
		got = got[:limit]
	}
	for i := len(got); i < limit && i < len(backup); i++ {
		got = append(got, backup[i])
	}
	return got
}
