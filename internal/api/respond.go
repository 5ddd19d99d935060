package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	apperrors "loan-advisor/internal/common/errors"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(stdErr)

	fields := map[string]interface{}{
		"path":      r.URL.Path,
		"status":    status,
		"errorCode": stdErr.Code,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(stdErr.Message, fields)
	} else {
		s.logger.Debug(stdErr.Message, fields)
	}

	payload := errorPayload{Code: stdErr.Code, Message: stdErr.Message}
	if status < http.StatusInternalServerError {
		payload.Details = stdErr.Details
	}
	writeJSON(w, status, errorBody{Error: payload})
}

// decode reads the body, checks it against the named schema and unmarshals
// it into out. An empty body is treated as {}.
func (s *Server) decode(r *http.Request, schema string, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return apperrors.NewInvalidPayloadError("read body: " + err.Error())
	}
	if len(body) > maxBodyBytes {
		return apperrors.NewInvalidPayloadError("request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	if err := s.validator.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewInvalidPayloadError(err.Error())
	}
	return nil
}
