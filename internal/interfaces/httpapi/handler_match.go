package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/rucktrack/rucktrack/internal/domain/match"
)

type matchPayload struct {
	HomeTeam     string             `json:"homeTeam" validate:"required"`
	AwayTeam     string             `json:"awayTeam" validate:"required"`
	MatchType    string             `json:"matchType" validate:"omitempty,oneof=boys girls mixed"`
	TeamCategory string             `json:"teamCategory" validate:"omitempty,oneof=minis youths-boys girls seniors womens-tag"`
	AgeLevel     string             `json:"ageLevel"`
	KickoffAt    time.Time          `json:"kickoffAt"`
	Venue        string             `json:"venue"`
	VenueDetail  *match.VenueDetail `json:"venueDetail"`
	Competition  string             `json:"competition"`
	Status       string             `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	HomeScore    *int               `json:"homeScore" validate:"omitempty,min=0"`
	AwayScore    *int               `json:"awayScore" validate:"omitempty,min=0"`
	Events       []match.Event      `json:"events"`
}

func (p matchPayload) toDomain() match.Match {
	return match.Match{
		HomeTeam:     strings.TrimSpace(p.HomeTeam),
		AwayTeam:     strings.TrimSpace(p.AwayTeam),
		MatchType:    p.MatchType,
		TeamCategory: p.TeamCategory,
		AgeLevel:     strings.TrimSpace(p.AgeLevel),
		KickoffAt:    p.KickoffAt,
		Venue:        strings.TrimSpace(p.Venue),
		VenueDetail:  p.VenueDetail,
		Competition:  strings.TrimSpace(p.Competition),
		Status:       p.Status,
		HomeScore:    p.HomeScore,
		AwayScore:    p.AwayScore,
		Events:       p.Events,
	}
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matches)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.GetByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, item)
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req matchPayload
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, req.toDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, created)
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req matchPayload
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.Update(ctx, matchID, req.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, updated)
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	if err := h.matchService.Delete(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "match deleted")
}
