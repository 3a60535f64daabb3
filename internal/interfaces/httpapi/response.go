package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/rucktrack/rucktrack/internal/usecase"
)

// errorEnvelope is the error shape clients parse: a human-readable
// message plus the underlying detail.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// messageEnvelope is used for acknowledgement responses such as deletes.
type messageEnvelope struct {
	Message string `json:"message"`
	Deleted *int   `json:"deleted,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, messageEnvelope{Message: message})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	status, message := mapError(err)
	writeJSON(ctx, w, status, errorEnvelope{
		Message: message,
		Error:   err.Error(),
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope{
		Message: "internal server error",
	})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
