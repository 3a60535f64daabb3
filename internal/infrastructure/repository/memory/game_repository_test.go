package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/domain/match"
)

func TestGameRepositoryListNewestFirst(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, serverID := range []string{"aaaaaaaaaaaaaaaaaaaaaaa1", "aaaaaaaaaaaaaaaaaaaaaaa2", "aaaaaaaaaaaaaaaaaaaaaaa3"} {
		if _, err := repo.Create(ctx, game.Game{
			ServerID:  serverID,
			Home:      game.Side{Name: "Home"},
			Away:      game.Side{Name: "Away"},
			Status:    game.StatusActive,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatalf("list is not newest first: %v before %v", items[i-1].CreatedAt, items[i].CreatedAt)
		}
	}
}

func TestGameRepositoryDeleteAllEmpty(t *testing.T) {
	repo := NewGameRepository()

	deleted, err := repo.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("deleted = %d, want 0", deleted)
	}
}

func TestGameRepositoryStats(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()

	fixtures := []game.Game{
		{ServerID: "bbbbbbbbbbbbbbbbbbbbbbb1", Status: game.StatusCompleted, Home: game.Side{Score: 10}, Away: game.Side{Score: 20}},
		{ServerID: "bbbbbbbbbbbbbbbbbbbbbbb2", Status: game.StatusActive, Home: game.Side{Score: 30}, Away: game.Side{Score: 0}},
	}
	for _, f := range fixtures {
		if _, err := repo.Create(ctx, f); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.Completed != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	// The active game's 30 home points must not drag the average; only
	// completed games count.
	if stats.AvgHomeScore != 10 || stats.AvgAwayScore != 20 {
		t.Fatalf("unexpected averages %+v", stats)
	}
	if stats.ByStatus[game.StatusActive] != 1 || stats.ByStatus[game.StatusCompleted] != 1 {
		t.Fatalf("unexpected status counts %+v", stats.ByStatus)
	}
}

func TestGameRepositoryReturnsCopies(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()

	seed := game.Game{
		ServerID: "ccccccccccccccccccccccc1",
		Events:   []game.ScoreEvent{{Type: game.EventTry, Points: 5}},
	}
	if _, err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, ok, err := repo.GetByID(ctx, seed.ServerID)
	if err != nil || !ok {
		t.Fatalf("GetByID: ok=%v err=%v", ok, err)
	}
	got.Events[0].Points = 99

	again, _, _ := repo.GetByID(ctx, seed.ServerID)
	if again.Events[0].Points != 5 {
		t.Fatal("mutating a returned game leaked into the store")
	}
}

func TestMatchRepositoryListChronological(t *testing.T) {
	repo := NewMatchRepository()
	ctx := context.Background()
	base := time.Date(2026, 4, 4, 14, 0, 0, 0, time.UTC)

	kicks := []time.Time{base.Add(48 * time.Hour), base, base.Add(24 * time.Hour)}
	for i, kick := range kicks {
		if _, err := repo.Create(ctx, match.Match{
			ServerID:  fmt.Sprintf("%024x", i+1),
			HomeTeam:  "Home",
			AwayTeam:  "Away",
			Status:    match.StatusScheduled,
			KickoffAt: kick,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i].KickoffAt.Before(items[i-1].KickoffAt) {
			t.Fatal("list is not in kickoff order")
		}
	}
}

func TestMatchRepositoryUpdateMissing(t *testing.T) {
	repo := NewMatchRepository()

	_, ok, err := repo.Update(context.Background(), "eeeeeeeeeeeeeeeeeeeeeee1", match.Match{HomeTeam: "X", AwayTeam: "Y"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing match")
	}
}
