package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	resumeID := chi.URLParam(r, "resumeID")

	snap, err := s.resumes.Snapshot(r.Context(), resumeID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, snap)
}
