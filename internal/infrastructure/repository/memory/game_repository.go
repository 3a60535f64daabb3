package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rucktrack/rucktrack/internal/domain/game"
)

// GameRepository is an in-memory game store used when no database URL is
// configured and in tests.
type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{items: make(map[string]game.Game)}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneGame(item))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ServerID > out[j].ServerID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return game.Game{}, false, nil
	}
	return cloneGame(item), true, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ServerID] = cloneGame(item)
	return item, nil
}

func (r *GameRepository) Update(ctx context.Context, id string, item game.Game) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return game.Game{}, false, nil
	}
	item.ServerID = id
	r.items[id] = cloneGame(item)
	return item, true, nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *GameRepository) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.items)
	r.items = make(map[string]game.Game)
	return deleted, nil
}

func (r *GameRepository) Stats(ctx context.Context) (game.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := game.Stats{ByStatus: make(map[string]int)}
	var homeTotal, awayTotal int

	for _, item := range r.items {
		stats.Total++
		stats.ByStatus[item.Status]++
		if item.Status == game.StatusCompleted {
			stats.Completed++
			homeTotal += item.Home.Score
			awayTotal += item.Away.Score
		}
	}

	// Averages cover completed games only; in-progress scores are not final.
	if stats.Completed > 0 {
		stats.AvgHomeScore = float64(homeTotal) / float64(stats.Completed)
		stats.AvgAwayScore = float64(awayTotal) / float64(stats.Completed)
	}
	return stats, nil
}

// cloneGame deep-copies the events slice so callers cannot mutate stored
// state through a returned value.
func cloneGame(item game.Game) game.Game {
	if len(item.Events) > 0 {
		events := make([]game.ScoreEvent, len(item.Events))
		copy(events, item.Events)
		item.Events = events
	}
	return item
}
