package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"itinera/internal/core"
	"itinera/internal/services"
	"itinera/internal/storage"
)

type errorEnvelope struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeError maps service errors onto HTTP status codes: not-found is
// 404, validation failures are 422, everything else is 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case isValidationError(err):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}
	writeJSON(w, status, errorEnvelope{Error: err.Error()})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyTitle) ||
		errors.Is(err, core.ErrUnknownCategory) ||
		errors.Is(err, core.ErrItemSumMismatch) ||
		errors.Is(err, core.ErrEmptyMemberName) ||
		errors.Is(err, core.ErrInvalidDayNumber) ||
		errors.Is(err, services.ErrEmptyTripName) ||
		errors.Is(err, services.ErrNoMembers)
}
