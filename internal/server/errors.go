package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/entigraph/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidEvent,
		errors.ErrCodeInvalidFormat, errors.ErrCodeUnknownNode:
		return http.StatusBadRequest
	case errors.ErrCodeSessionNotFound, errors.ErrCodeNoGraph:
		return http.StatusNotFound
	case errors.ErrCodeRequestPending:
		return http.StatusConflict
	case errors.ErrCodeExtraction:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
