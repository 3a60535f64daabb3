package game

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

const (
	TeamHome = "home"
	TeamAway = "away"
)

// Score event types and their rugby union point values.
const (
	EventTry        = "try"
	EventConversion = "conversion"
	EventPenalty    = "penalty"
	EventDropGoal   = "drop-goal"
	EventPenaltyTry = "penalty-try"
)

// SyncState records whether a game has a confirmed server copy. It is
// persisted with the record so sync status never has to be inferred from
// the identifier shape alone.
type SyncState string

const (
	SyncStateLocal   SyncState = "local"
	SyncStatePending SyncState = "pending"
	SyncStateSynced  SyncState = "synced"
)

// ScoreEvent is one scoring action inside a live session.
type ScoreEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Team        string    `json:"team"`
	Type        string    `json:"type"`
	Points      int       `json:"points"`
	Description string    `json:"description,omitempty"`
}

// Breakdown counts scoring events per type for one side.
type Breakdown struct {
	Tries        int `json:"tries"`
	Conversions  int `json:"conversions"`
	Penalties    int `json:"penalties"`
	DropGoals    int `json:"dropGoals"`
	PenaltyTries int `json:"penaltyTries"`
}

// Side holds one team's name, running score and breakdown.
type Side struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Game is a live rugby scoring session. The score of each side always
// equals the sum of that side's event points; ApplyEvent is the only
// mutation path that touches scores.
type Game struct {
	ID        string       `json:"id"`
	ServerID  string       `json:"serverId,omitempty"`
	SyncState SyncState    `json:"syncState,omitempty"`
	Version   int          `json:"version"`
	MatchID   string       `json:"matchId,omitempty"`
	Home      Side         `json:"home"`
	Away      Side         `json:"away"`
	Clock     string       `json:"clock"`
	Events    []ScoreEvent `json:"events"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// PointsFor returns the point value of a score event type.
func PointsFor(eventType string) (int, error) {
	switch eventType {
	case EventTry:
		return 5, nil
	case EventConversion:
		return 2, nil
	case EventPenalty, EventDropGoal:
		return 3, nil
	case EventPenaltyTry:
		return 7, nil
	default:
		return 0, fmt.Errorf("unknown score event type %q", eventType)
	}
}

// ApplyEvent records a scoring action: appends the event, bumps the
// side's breakdown counter and adds the points to its score.
func (g *Game) ApplyEvent(team, eventType, description string, at time.Time) error {
	points, err := PointsFor(eventType)
	if err != nil {
		return err
	}

	side, err := g.side(team)
	if err != nil {
		return err
	}

	switch eventType {
	case EventTry:
		side.Breakdown.Tries++
	case EventConversion:
		side.Breakdown.Conversions++
	case EventPenalty:
		side.Breakdown.Penalties++
	case EventDropGoal:
		side.Breakdown.DropGoals++
	case EventPenaltyTry:
		side.Breakdown.PenaltyTries++
	}
	side.Score += points

	g.Events = append(g.Events, ScoreEvent{
		Timestamp:   at,
		Team:        team,
		Type:        eventType,
		Points:      points,
		Description: description,
	})
	g.UpdatedAt = at

	return nil
}

func (g *Game) side(team string) (*Side, error) {
	switch team {
	case TeamHome:
		return &g.Home, nil
	case TeamAway:
		return &g.Away, nil
	default:
		return nil, fmt.Errorf("unknown team %q", team)
	}
}

// Unsynced reports whether the game still lacks a confirmed server copy.
// The persisted SyncState wins; records written by older clients fall back
// to checking for a server identifier.
func (g *Game) Unsynced() bool {
	switch g.SyncState {
	case SyncStateSynced:
		return false
	case SyncStateLocal, SyncStatePending:
		return true
	}
	return g.ServerID == ""
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusActive
	}
	return status
}

func ValidStatus(value string) bool {
	switch value {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a status change is allowed: completed is
// terminal, active and paused flip freely between each other.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusActive:
		return to == StatusPaused || to == StatusCompleted
	case StatusPaused:
		return to == StatusActive || to == StatusCompleted
	default:
		return false
	}
}
