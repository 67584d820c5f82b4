package handler

// RESPONSE HELPERS:
// Every API response shares one of two envelope shapes:
//
//	success: {"success": true, ...payload fields...}
//	failure: {"error": "human-readable message"}
//
// writeError is the single place where domain errors from the service layer
// get translated to HTTP status codes. The service returns
// apperror.ErrValidation, apperror.ErrNotFound, etc.; this maps them to
// 400, 404 and so on. The service layer itself never sees a status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/chronicle/internal/apperror"
)

// errorResponse is the standard failure envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the first body write, hence the fixed ordering here.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone — all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status and sends
// the failure envelope.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUpstream):
			// Generation failures are the upstream's problem surfaced to
			// the client as ours; the Message is already client-safe.
			status = http.StatusInternalServerError
		}

		writeJSON(w, status, errorResponse{Error: appErr.Message})
		return
	}

	// Unknown error — never leak internals (SQL, file paths) to the client.
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "an internal error occurred",
	})
}
