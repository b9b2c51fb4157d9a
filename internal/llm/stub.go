package llm

import (
	"context"
	"log/slog"
)

// StubEnricher is the no-backend implementation of Enricher: deterministic
// fallback output, no network. Selected at construction time when no API key
// is configured.
type StubEnricher struct {
	log *slog.Logger
}

func NewStubEnricher(log *slog.Logger) *StubEnricher {
	if log == nil {
		log = slog.Default()
	}
	return &StubEnricher{log: log}
}

func (s *StubEnricher) EnrichRole(_ context.Context, role RoleContext) (RoleEnrichment, []byte, error) {
	s.log.Debug("llm.enrich.stub", "company", role.CompanyName, "title", role.RoleTitle)
	return BuildFallback(role), nil, nil
}
