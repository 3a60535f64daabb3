package localstore

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/domain/match"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

func openTestDB(t *testing.T) *bbolt.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "rucktrack.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestGames(t *testing.T, db *bbolt.DB) *Collection[game.Game] {
	t.Helper()

	games, err := NewGameCollection(db, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("new game collection: %v", err)
	}
	return games
}

func TestCollection_SaveThenGetAll(t *testing.T) {
	games := newTestGames(t, openTestDB(t))

	created := time.Date(2026, 4, 18, 15, 0, 0, 0, time.UTC)
	newID, err := games.Save(game.Game{
		Home:      game.Side{Name: "Lions"},
		Away:      game.Side{Name: "Tigers"},
		Status:    game.StatusActive,
		SyncState: game.SyncStateLocal,
		Clock:     "00:00",
		CreatedAt: created,
		UpdatedAt: created,
	})
	if err != nil {
		t.Fatalf("save game: %v", err)
	}
	if newID == "" {
		t.Fatalf("expected non-empty id")
	}

	items := games.GetAll()
	if len(items) != 1 {
		t.Fatalf("expected 1 game, got %d", len(items))
	}
	if items[0].ID != newID {
		t.Fatalf("expected id %q, got %q", newID, items[0].ID)
	}
	if items[0].Home.Name != "Lions" || items[0].Away.Name != "Tigers" {
		t.Fatalf("unexpected team names: %+v", items[0])
	}
}

func TestCollection_UpdateTouchesOnlyRequestedFields(t *testing.T) {
	games := newTestGames(t, openTestDB(t))

	newID, err := games.Save(game.Game{
		Home:   game.Side{Name: "Lions", Score: 5},
		Away:   game.Side{Name: "Tigers"},
		Clock:  "12:30",
		Status: game.StatusActive,
	})
	if err != nil {
		t.Fatalf("save game: %v", err)
	}

	if ok := games.Update(newID, func(g *game.Game) { g.Status = game.StatusPaused }); !ok {
		t.Fatalf("expected update to find the record")
	}

	items := games.GetAll()
	if items[0].Status != game.StatusPaused {
		t.Fatalf("expected paused, got %s", items[0].Status)
	}
	if items[0].Home.Score != 5 || items[0].Clock != "12:30" {
		t.Fatalf("unrelated fields changed: %+v", items[0])
	}

	if ok := games.Update("missing", func(g *game.Game) {}); ok {
		t.Fatalf("expected update of unknown id to report no match")
	}
}

func TestCollection_DeleteRemovesExactlyOne(t *testing.T) {
	games := newTestGames(t, openTestDB(t))

	first, _ := games.Save(game.Game{Home: game.Side{Name: "A"}})
	second, _ := games.Save(game.Game{Home: game.Side{Name: "B"}})

	if ok := games.Delete(first); !ok {
		t.Fatalf("expected delete to find the record")
	}

	items := games.GetAll()
	if len(items) != 1 {
		t.Fatalf("expected 1 game left, got %d", len(items))
	}
	if items[0].ID != second {
		t.Fatalf("wrong record deleted")
	}
	if ok := games.Delete(first); ok {
		t.Fatalf("expected second delete to report no match")
	}
}

func TestCollection_GetAllIsIdempotent(t *testing.T) {
	games := newTestGames(t, openTestDB(t))

	if _, err := games.Save(game.Game{Home: game.Side{Name: "A"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := games.Save(game.Game{Home: game.Side{Name: "B"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	first := games.GetAll()
	second := games.GetAll()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("consecutive reads differ:\n%+v\n%+v", first, second)
	}
}

func TestCollection_DatesSurviveRoundTrip(t *testing.T) {
	db := openTestDB(t)
	games := newTestGames(t, db)

	created := time.Date(2026, 4, 18, 15, 4, 5, 0, time.UTC)
	newID, err := games.Save(game.Game{
		Home:      game.Side{Name: "Lions"},
		CreatedAt: created,
		UpdatedAt: created,
		Events: []game.ScoreEvent{
			{Timestamp: created.Add(3 * time.Minute), Team: game.TeamHome, Type: game.EventTry, Points: 5},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Reload through a fresh collection over the same file.
	reloaded := newTestGames(t, db)
	items := reloaded.GetAll()
	if len(items) != 1 || items[0].ID != newID {
		t.Fatalf("unexpected reload result: %+v", items)
	}
	if !items[0].CreatedAt.Equal(created) {
		t.Fatalf("created at not reconstructed: %v", items[0].CreatedAt)
	}
	if !items[0].Events[0].Timestamp.Equal(created.Add(3 * time.Minute)) {
		t.Fatalf("event timestamp not reconstructed: %v", items[0].Events[0].Timestamp)
	}
}

func TestCollection_ReplaceAllAndSubscribe(t *testing.T) {
	games := newTestGames(t, openTestDB(t))

	feed, unsubscribe := games.Subscribe()
	defer unsubscribe()

	if err := games.ReplaceAll([]game.Game{{ID: "srv-1", Home: game.Side{Name: "Lions"}}}); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	select {
	case snapshot := <-feed:
		if len(snapshot) != 1 || snapshot[0].ID != "srv-1" {
			t.Fatalf("unexpected snapshot: %+v", snapshot)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a snapshot after ReplaceAll")
	}
}

func TestMatchCollection_SeedsOnce(t *testing.T) {
	db := openTestDB(t)

	matches, err := NewMatchCollection(db, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("new match collection: %v", err)
	}

	seeded := matches.GetAll()
	if len(seeded) == 0 {
		t.Fatalf("expected built-in seed matches on first open")
	}
	for _, m := range seeded {
		if m.Status != match.StatusScheduled {
			t.Fatalf("seed matches must be scheduled, got %s", m.Status)
		}
	}

	if ok := matches.Delete(seeded[0].ID); !ok {
		t.Fatalf("delete seed match")
	}

	// Reopening must not re-seed over user changes.
	again, err := NewMatchCollection(db, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen match collection: %v", err)
	}
	if len(again.GetAll()) != len(seeded)-1 {
		t.Fatalf("seed must only be written once")
	}
}

func TestMatchExtras_NotesAndPhotos(t *testing.T) {
	db := openTestDB(t)

	extras, err := NewMatchExtras(db)
	if err != nil {
		t.Fatalf("new extras: %v", err)
	}

	if err := extras.SaveNotes("m-1", "windy, wet pitch"); err != nil {
		t.Fatalf("save notes: %v", err)
	}
	notes, err := extras.Notes("m-1")
	if err != nil || notes != "windy, wet pitch" {
		t.Fatalf("notes round trip failed: %q err=%v", notes, err)
	}

	if err := extras.AddPhoto("m-1", Photo{Name: "lineup.jpg", Data: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("add photo: %v", err)
	}
	photos, err := extras.Photos("m-1")
	if err != nil || len(photos) != 1 || photos[0].Name != "lineup.jpg" {
		t.Fatalf("photos round trip failed: %+v err=%v", photos, err)
	}

	if err := extras.DeleteFor("m-1"); err != nil {
		t.Fatalf("delete extras: %v", err)
	}
	if notes, _ := extras.Notes("m-1"); notes != "" {
		t.Fatalf("expected notes removed, got %q", notes)
	}
}
