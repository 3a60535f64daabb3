package httpapi

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	})
}

func (h *Handler) HealthDB(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.HealthDB")
	defer span.End()

	if h.db == nil {
		writeJSON(ctx, w, http.StatusOK, map[string]string{
			"status":  "ok",
			"storage": "memory",
		})
		return
	}

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database ping failed", "error", err)
		writeJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"storage": "postgres",
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": "postgres",
	})
}

// HealthMatches verifies the matches collection is readable end to end.
func (h *Handler) HealthMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.HealthMatches")
	defer span.End()

	matches, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "matches health check failed", "error", err)
		writeJSON(ctx, w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"status":  "ok",
		"matches": len(matches),
	})
}
