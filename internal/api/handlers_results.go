package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleGetAnalysis returns a persisted analysis result by id.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.orchestrator.Result(r.Context(), id)
	if err != nil {
		s.analysisError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Analysis-Kind", rec.Kind)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Payload)
}
