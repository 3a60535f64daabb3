package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	TypeBoys  = "boys"
	TypeGirls = "girls"
	TypeMixed = "mixed"
)

const (
	CategoryMinis      = "minis"
	CategoryYouthsBoys = "youths-boys"
	CategoryGirls      = "girls"
	CategorySeniors    = "seniors"
	CategoryWomensTag  = "womens-tag"
)

// SyncState mirrors game.SyncState for the matches collection.
type SyncState string

const (
	SyncStateLocal   SyncState = "local"
	SyncStatePending SyncState = "pending"
	SyncStateSynced  SyncState = "synced"
)

// VenueDetail is optional structured venue data captured at booking time.
type VenueDetail struct {
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
	PlaceID string  `json:"placeId,omitempty"`
}

// Event is one timeline entry recorded against a fixture.
type Event struct {
	Minute         int    `json:"minute"`
	Period         string `json:"period,omitempty"`
	Type           string `json:"type"`
	Team           string `json:"team,omitempty"`
	Description    string `json:"description,omitempty"`
	Player         string `json:"player,omitempty"`
	PointsSnapshot *int   `json:"pointsSnapshot,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Match is a scheduled or completed fixture, distinct from a live
// scoring session.
type Match struct {
	ID           string       `json:"id"`
	ServerID     string       `json:"serverId,omitempty"`
	SyncState    SyncState    `json:"syncState,omitempty"`
	Version      int          `json:"version"`
	HomeTeam     string       `json:"homeTeam"`
	AwayTeam     string       `json:"awayTeam"`
	MatchType    string       `json:"matchType,omitempty"`
	TeamCategory string       `json:"teamCategory,omitempty"`
	AgeLevel     string       `json:"ageLevel,omitempty"`
	KickoffAt    time.Time    `json:"kickoffAt"`
	Venue        string       `json:"venue,omitempty"`
	VenueDetail  *VenueDetail `json:"venueDetail,omitempty"`
	Competition  string       `json:"competition,omitempty"`
	Status       string       `json:"status"`
	HomeScore    *int         `json:"homeScore,omitempty"`
	AwayScore    *int         `json:"awayScore,omitempty"`
	Events       []Event      `json:"events,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Unsynced reports whether the match still lacks a confirmed server copy.
func (m *Match) Unsynced() bool {
	switch m.SyncState {
	case SyncStateSynced:
		return false
	case SyncStateLocal, SyncStatePending:
		return true
	}
	return m.ServerID == ""
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func ValidStatus(value string) bool {
	switch value {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func ValidMatchType(value string) bool {
	switch value {
	case "", TypeBoys, TypeGirls, TypeMixed:
		return true
	default:
		return false
	}
}

func ValidTeamCategory(value string) bool {
	switch value {
	case "", CategoryMinis, CategoryYouthsBoys, CategoryGirls, CategorySeniors, CategoryWomensTag:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a status change is allowed: completed and
// cancelled are terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return from == StatusScheduled && (to == StatusCompleted || to == StatusCancelled)
}
