package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/rucktrack/rucktrack/internal/domain/game"
)

// gameTableModel mirrors the games table. Breakdowns and the event log
// are stored as JSONB so the scoring history travels with the row.
type gameTableModel struct {
	ID            string         `db:"id"`
	MatchID       sql.NullString `db:"match_id"`
	HomeName      string         `db:"home_name"`
	HomeScore     int            `db:"home_score"`
	HomeBreakdown []byte         `db:"home_breakdown"`
	AwayName      string         `db:"away_name"`
	AwayScore     int            `db:"away_score"`
	AwayBreakdown []byte         `db:"away_breakdown"`
	Clock         string         `db:"clock"`
	Events        []byte         `db:"events"`
	Status        string         `db:"status"`
	Version       int            `db:"version"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func gameToTableModel(item game.Game) (gameTableModel, error) {
	homeBreakdown, err := sonic.Marshal(item.Home.Breakdown)
	if err != nil {
		return gameTableModel{}, fmt.Errorf("marshal home breakdown: %w", err)
	}
	awayBreakdown, err := sonic.Marshal(item.Away.Breakdown)
	if err != nil {
		return gameTableModel{}, fmt.Errorf("marshal away breakdown: %w", err)
	}

	events := item.Events
	if events == nil {
		events = []game.ScoreEvent{}
	}
	eventsJSON, err := sonic.Marshal(events)
	if err != nil {
		return gameTableModel{}, fmt.Errorf("marshal events: %w", err)
	}

	model := gameTableModel{
		ID:            item.ServerID,
		HomeName:      item.Home.Name,
		HomeScore:     item.Home.Score,
		HomeBreakdown: homeBreakdown,
		AwayName:      item.Away.Name,
		AwayScore:     item.Away.Score,
		AwayBreakdown: awayBreakdown,
		Clock:         item.Clock,
		Events:        eventsJSON,
		Status:        item.Status,
		Version:       item.Version,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.MatchID != "" {
		model.MatchID = sql.NullString{String: item.MatchID, Valid: true}
	}
	return model, nil
}

func (m gameTableModel) toDomain() (game.Game, error) {
	item := game.Game{
		ID:        m.ID,
		ServerID:  m.ID,
		SyncState: game.SyncStateSynced,
		Version:   m.Version,
		Home:      game.Side{Name: m.HomeName, Score: m.HomeScore},
		Away:      game.Side{Name: m.AwayName, Score: m.AwayScore},
		Clock:     m.Clock,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.MatchID.Valid {
		item.MatchID = m.MatchID.String
	}

	if len(m.HomeBreakdown) > 0 {
		if err := sonic.Unmarshal(m.HomeBreakdown, &item.Home.Breakdown); err != nil {
			return game.Game{}, fmt.Errorf("unmarshal home breakdown: %w", err)
		}
	}
	if len(m.AwayBreakdown) > 0 {
		if err := sonic.Unmarshal(m.AwayBreakdown, &item.Away.Breakdown); err != nil {
			return game.Game{}, fmt.Errorf("unmarshal away breakdown: %w", err)
		}
	}
	if len(m.Events) > 0 {
		if err := sonic.Unmarshal(m.Events, &item.Events); err != nil {
			return game.Game{}, fmt.Errorf("unmarshal events: %w", err)
		}
	}
	return item, nil
}
