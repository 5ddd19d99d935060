package api

import (
	"net/http"

	"loan-advisor/internal/common/validation"
	"loan-advisor/internal/intake"
	"loan-advisor/internal/models"
)

type startSessionRequest struct {
	Flow models.Flow `json:"flow"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type turnResponse struct {
	SessionID string      `json:"sessionId"`
	Flow      models.Flow `json:"flow"`
	Step      models.Step `json:"step"`
	Reply     string      `json:"reply"`
	Outcome   string      `json:"outcome"`
	Complete  bool        `json:"complete"`
}

func newTurnResponse(res *intake.TurnResult) turnResponse {
	return turnResponse{
		SessionID: res.Session.ID,
		Flow:      res.Session.State.Flow,
		Step:      res.Session.State.Step,
		Reply:     res.Reply,
		Outcome:   res.Outcome,
		Complete:  res.Session.State.IsComplete(),
	}
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := s.decode(r, validation.SchemaChatStart, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.intake.Start(r.Context(), req.Flow)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTurnResponse(res))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := s.decode(r, validation.SchemaChatMessage, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.intake.Turn(r.Context(), r.PathValue("id"), req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTurnResponse(res))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.intake.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": session.ID,
		"flow":      session.State.Flow,
		"step":      session.State.Step,
		"question":  intake.Question(session.State),
		"complete":  session.State.IsComplete(),
		"turns":     session.State.Turns,
		"updatedAt": session.UpdatedAt,
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.intake.End(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
