package httpapi

import (
	"net/http"
	"time"

	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

type RouterConfig struct {
	APIKey             string
	CORSAllowedOrigins []string
	RateLimitWindow    time.Duration
	RateLimitMax       int
}

func NewRouter(handler *Handler, cfg RouterConfig, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerGameRoutes(mux, handler, cfg.APIKey)
	registerMatchRoutes(mux, handler, cfg.APIKey)

	chain := recoverPanic(logger, mux)
	chain = RateLimit(cfg.RateLimitWindow, cfg.RateLimitMax, chain)
	chain = CORS(cfg.CORSAllowedOrigins, chain)
	chain = RequestLogging(logger, chain)
	return RequestTracing(chain)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
