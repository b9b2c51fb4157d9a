package server

import (
	"encoding/json"
	"net/http"

	"resumeline/internal/ingest"
)

const maxIngestBodyBytes = 5 << 20 // 5MB cap on ingest payloads

// handleIngestResume accepts a parsed resume payload, creates the
// resume/job/roles bundle atomically, and returns the two identifiers the
// client polls with.
func (s *Server) handleIngestResume(w http.ResponseWriter, r *http.Request) {
	var req ingest.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.ingestor.IngestResume(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, result)
}
