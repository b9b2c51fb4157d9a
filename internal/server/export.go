package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	resumeID := chi.URLParam(r, "resumeID")

	data, err := s.exporter.ExportResumeXLSX(r.Context(), resumeID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resumeID+"_roles.xlsx"))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error("export write failed", "resume_id", resumeID, "error", err)
	}
}
