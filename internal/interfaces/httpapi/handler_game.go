package httpapi

import (
	"net/http"
	"strings"

	"github.com/rucktrack/rucktrack/internal/domain/game"
)

type gameSidePayload struct {
	Name      string         `json:"name" validate:"required"`
	Score     int            `json:"score" validate:"min=0"`
	Breakdown game.Breakdown `json:"breakdown"`
}

type gamePayload struct {
	MatchID string            `json:"matchId"`
	Home    gameSidePayload   `json:"home"`
	Away    gameSidePayload   `json:"away"`
	Clock   string            `json:"clock"`
	Events  []game.ScoreEvent `json:"events"`
	Status  string            `json:"status" validate:"omitempty,oneof=active paused completed"`
}

func (p gamePayload) toDomain() game.Game {
	return game.Game{
		MatchID: strings.TrimSpace(p.MatchID),
		Home:    game.Side{Name: strings.TrimSpace(p.Home.Name), Score: p.Home.Score, Breakdown: p.Home.Breakdown},
		Away:    game.Side{Name: strings.TrimSpace(p.Away.Name), Score: p.Away.Score, Breakdown: p.Away.Breakdown},
		Clock:   p.Clock,
		Events:  p.Events,
		Status:  p.Status,
	}
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.gameService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, games)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	item, err := h.gameService.GetByID(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, item)
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req gamePayload
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.gameService.Create(ctx, req.toDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "create game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, created)
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	var req gamePayload
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.gameService.Update(ctx, gameID, req.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "update game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, updated)
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.gameService.Delete(ctx, gameID); err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "game deleted")
}

func (h *Handler) DeleteAllGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteAllGames")
	defer span.End()

	deleted, err := h.gameService.DeleteAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "delete all games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, messageEnvelope{
		Message: "all games deleted",
		Deleted: &deleted,
	})
}

func (h *Handler) GameStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GameStats")
	defer span.End()

	stats, err := h.gameService.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "game stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, stats)
}
