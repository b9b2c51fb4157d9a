package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"resumeline/internal/common"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.log.Warn("request failed",
		"req_id", middleware.GetReqID(r.Context()),
		"status", status,
		"message", message,
	)
	s.writeJSON(w, status, map[string]string{"message": message})
}

// writeDomainError maps the common error sentinels onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrInvalidInput):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("internal error", "req_id", middleware.GetReqID(r.Context()), "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
