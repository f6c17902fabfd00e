// File: internal/handlers/responses.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mobile-messenger/backend/internal/apperrors"
	"github.com/mobile-messenger/backend/internal/dtos"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps a service error onto its HTTP status. Storage
// errors keep their cause out of the response body.
func writeServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	switch appErr.Kind {
	case apperrors.KindInvalidInput, apperrors.KindMalformedIdentifier:
		writeError(w, appErr.Message, http.StatusBadRequest)
	case apperrors.KindUnauthorized:
		writeError(w, appErr.Message, http.StatusUnauthorized)
	case apperrors.KindForbidden:
		writeError(w, appErr.Message, http.StatusForbidden)
	case apperrors.KindNotFound:
		writeError(w, appErr.Message, http.StatusNotFound)
	case apperrors.KindConflict:
		writeError(w, appErr.Message, http.StatusConflict)
	default:
		writeError(w, "internal server error", http.StatusInternalServerError)
	}
}

// decodeBody parses a JSON request body into dst and runs tag validation.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := dtos.Validate(dst); err != nil {
		return errors.New("request failed validation")
	}
	return nil
}
