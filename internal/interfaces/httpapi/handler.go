package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/rucktrack/rucktrack/internal/platform/logging"
	"github.com/rucktrack/rucktrack/internal/usecase"
)

type Handler struct {
	gameService  *usecase.GameService
	matchService *usecase.MatchService
	db           *sqlx.DB
	logger       *logging.Logger
	validator    *validator.Validate
	startedAt    time.Time
}

// NewHandler wires the API handlers. db may be nil when the service runs
// on the in-memory repositories; /health/db reports that state.
func NewHandler(
	gameService *usecase.GameService,
	matchService *usecase.MatchService,
	db *sqlx.DB,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameService:  gameService,
		matchService: matchService,
		db:           db,
		logger:       logger,
		validator:    validator.New(),
		startedAt:    time.Now(),
	}
}

// NotFound is the catch-all for unmatched routes so clients always get a
// JSON body back.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NotFound")
	defer span.End()

	writeJSON(ctx, w, http.StatusNotFound, errorEnvelope{
		Message: "route not found",
		Error:   r.Method + " " + r.URL.Path,
	})
}

func (h *Handler) decodeBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
