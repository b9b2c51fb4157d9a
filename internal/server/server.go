// Package server is the HTTP transport: ingestion, the two polling
// projections, and the XLSX export. Handlers stay thin; domain work lives in
// the services and repositories they delegate to.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"resumeline/internal/export"
	"resumeline/internal/ingest"
	"resumeline/internal/repository"
)

type Server struct {
	db       *repository.DB
	ingestor ingest.Ingestor
	jobs     repository.JobRepository
	resumes  repository.ResumeRepository
	exporter *export.Service
	log      *slog.Logger
}

func New(db *repository.DB, ingestor ingest.Ingestor, jobs repository.JobRepository,
	resumes repository.ResumeRepository, exporter *export.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		db:       db,
		ingestor: ingestor,
		jobs:     jobs,
		resumes:  resumes,
		exporter: exporter,
		log:      log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/api/resumes", s.handleIngestResume)
	r.Get("/api/jobs/{jobID}", s.handleGetJob)
	r.Get("/api/resumes/{resumeID}/snapshot", s.handleGetSnapshot)
	r.Get("/api/resumes/{resumeID}/export", s.handleExportResume)
	r.Get("/healthz", s.handleHealth)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"req_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.HealthCheck(r.Context(), 3*time.Second); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
