package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/rucktrack/rucktrack/internal/domain/match"
)

type matchTableModel struct {
	ID           string         `db:"id"`
	HomeTeam     string         `db:"home_team"`
	AwayTeam     string         `db:"away_team"`
	MatchType    sql.NullString `db:"match_type"`
	TeamCategory sql.NullString `db:"team_category"`
	AgeLevel     sql.NullString `db:"age_level"`
	KickoffAt    time.Time      `db:"kickoff_at"`
	Venue        sql.NullString `db:"venue"`
	VenueDetail  []byte         `db:"venue_detail"`
	Competition  sql.NullString `db:"competition"`
	Status       string         `db:"status"`
	HomeScore    sql.NullInt64  `db:"home_score"`
	AwayScore    sql.NullInt64  `db:"away_score"`
	Events       []byte         `db:"events"`
	Version      int            `db:"version"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func matchToTableModel(item match.Match) (matchTableModel, error) {
	model := matchTableModel{
		ID:           item.ServerID,
		HomeTeam:     item.HomeTeam,
		AwayTeam:     item.AwayTeam,
		MatchType:    nullString(item.MatchType),
		TeamCategory: nullString(item.TeamCategory),
		AgeLevel:     nullString(item.AgeLevel),
		KickoffAt:    item.KickoffAt,
		Venue:        nullString(item.Venue),
		Competition:  nullString(item.Competition),
		Status:       item.Status,
		Version:      item.Version,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}

	if item.HomeScore != nil {
		model.HomeScore = sql.NullInt64{Int64: int64(*item.HomeScore), Valid: true}
	}
	if item.AwayScore != nil {
		model.AwayScore = sql.NullInt64{Int64: int64(*item.AwayScore), Valid: true}
	}

	if item.VenueDetail != nil {
		detailJSON, err := sonic.Marshal(item.VenueDetail)
		if err != nil {
			return matchTableModel{}, fmt.Errorf("marshal venue detail: %w", err)
		}
		model.VenueDetail = detailJSON
	}

	events := item.Events
	if events == nil {
		events = []match.Event{}
	}
	eventsJSON, err := sonic.Marshal(events)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("marshal match events: %w", err)
	}
	model.Events = eventsJSON

	return model, nil
}

func (m matchTableModel) toDomain() (match.Match, error) {
	item := match.Match{
		ID:           m.ID,
		ServerID:     m.ID,
		SyncState:    match.SyncStateSynced,
		Version:      m.Version,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		MatchType:    m.MatchType.String,
		TeamCategory: m.TeamCategory.String,
		AgeLevel:     m.AgeLevel.String,
		KickoffAt:    m.KickoffAt,
		Venue:        m.Venue.String,
		Competition:  m.Competition.String,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.HomeScore.Valid {
		v := int(m.HomeScore.Int64)
		item.HomeScore = &v
	}
	if m.AwayScore.Valid {
		v := int(m.AwayScore.Int64)
		item.AwayScore = &v
	}

	if len(m.VenueDetail) > 0 {
		var detail match.VenueDetail
		if err := sonic.Unmarshal(m.VenueDetail, &detail); err != nil {
			return match.Match{}, fmt.Errorf("unmarshal venue detail: %w", err)
		}
		item.VenueDetail = &detail
	}
	if len(m.Events) > 0 {
		if err := sonic.Unmarshal(m.Events, &item.Events); err != nil {
			return match.Match{}, fmt.Errorf("unmarshal match events: %w", err)
		}
	}
	return item, nil
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
