package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/usamakj/auth-app-be/internal/apperr"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with the given status code.
func Fail(w http.ResponseWriter, status int, message string, fieldErrors ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Message: message, Errors: fieldErrors})
}

// Error maps an application error to its HTTP status and writes the failure
// envelope. Unexpected errors are logged and surfaced as a generic 500.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Msg("Unhandled error reached the API boundary")
		Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		Fail(w, http.StatusBadRequest, appErr.Message, appErr.Fields...)
	case apperr.KindUnauthorized:
		Fail(w, http.StatusUnauthorized, appErr.Message)
	case apperr.KindForbidden:
		Fail(w, http.StatusForbidden, appErr.Message)
	case apperr.KindNotFound:
		Fail(w, http.StatusNotFound, appErr.Message)
	case apperr.KindConflict:
		Fail(w, http.StatusConflict, appErr.Message)
	default:
		log.Error().Err(appErr.Err).Msg(appErr.Message)
		Fail(w, http.StatusInternalServerError, appErr.Message)
	}
}
