package localstore

import (
	"time"

	"go.etcd.io/bbolt"

	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/domain/match"
	"github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

// Storage keys for the two collections.
const (
	GamesBucket   = "rucktrack-games"
	MatchesBucket = "rucktrack-matches"
)

func NewGameCollection(db *bbolt.DB, gen id.Generator, logger *logging.Logger) (*Collection[game.Game], error) {
	return NewCollection(db, Config[game.Game]{
		Bucket: GamesBucket,
		ID:     func(g *game.Game) string { return g.ID },
		SetID:  func(g *game.Game, value string) { g.ID = value },
	}, gen, logger)
}

func NewMatchCollection(db *bbolt.DB, gen id.Generator, logger *logging.Logger) (*Collection[match.Match], error) {
	return NewCollection(db, Config[match.Match]{
		Bucket: MatchesBucket,
		Seed:   SeedMatches(),
		ID:     func(m *match.Match) string { return m.ID },
		SetID:  func(m *match.Match, value string) { m.ID = value },
	}, gen, logger)
}

// SeedMatches is the built-in fixture list written once when the store
// has no matches blob yet, so a fresh install is not empty.
func SeedMatches() []match.Match {
	nextSaturday := upcomingSaturday(time.Now())

	return []match.Match{
		{
			ID:           "seed-0001",
			HomeTeam:     "Home 1st XV",
			AwayTeam:     "Visitors RFC",
			MatchType:    match.TypeBoys,
			TeamCategory: match.CategorySeniors,
			KickoffAt:    nextSaturday.Add(14 * time.Hour),
			Venue:        "Main Pitch",
			Competition:  "League",
			Status:       match.StatusScheduled,
			SyncState:    match.SyncStateLocal,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		{
			ID:           "seed-0002",
			HomeTeam:     "Minis Festival",
			AwayTeam:     "Mixed Clubs",
			MatchType:    match.TypeMixed,
			TeamCategory: match.CategoryMinis,
			KickoffAt:    nextSaturday.Add(10 * time.Hour),
			Venue:        "Training Ground",
			Competition:  "Festival",
			Status:       match.StatusScheduled,
			SyncState:    match.SyncStateLocal,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
	}
}

func upcomingSaturday(from time.Time) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	offset := (int(time.Saturday) - int(day.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}
