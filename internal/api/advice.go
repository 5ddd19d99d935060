package api

import (
	"net/http"

	"loan-advisor/internal/common/validation"
)

type adviceRequest struct {
	Message string `json:"message"`
}

// handleAdvice always answers 200; provider trouble shows up as
// source "fallback".
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := s.decode(r, validation.SchemaAdvice, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.advisor.Advise(r.Context(), req.Message))
}
