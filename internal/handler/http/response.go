package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// writeJSON serializes a response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeAppError maps any error to the flat {name, status, message} failure
// body. Unstructured errors are hidden behind an unhandled 500.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var srvErr *apperrors.ServerError
	if !errors.As(err, &srvErr) {
		srvErr = apperrors.Unhandled(err)
	}

	if srvErr.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, srvErr.Status, srvErr)
}

// writeValidationError serializes field validation failures as invalid input.
func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, apperrors.InvalidInput(err.Error()))
}
