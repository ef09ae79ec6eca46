package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/apperr"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrConflict:
		return http.StatusConflict
	case apperr.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError logs err under op and writes the matching error body.
func WriteServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	status := StatusFor(err)
	msg := apperr.Message(err)
	if status >= http.StatusInternalServerError {
		log.Error(op+": database error", slog.String("error", err.Error()))
	} else {
		var e *apperr.Error
		if errors.As(err, &e) {
			log.Warn(op+": "+e.Error())
		} else {
			log.Warn(op + ": rejected")
		}
	}
	WriteError(w, status, msg, nil)
}
