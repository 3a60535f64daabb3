package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rucktrack/rucktrack/internal/domain/match"
)

// MatchRepository is the in-memory fixtures store.
type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Match)}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneMatch(item))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].ServerID < out[j].ServerID
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ServerID] = cloneMatch(item)
	return item, nil
}

func (r *MatchRepository) Update(ctx context.Context, id string, item match.Match) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return match.Match{}, false, nil
	}
	item.ServerID = id
	r.items[id] = cloneMatch(item)
	return item, true, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func cloneMatch(item match.Match) match.Match {
	if len(item.Events) > 0 {
		events := make([]match.Event, len(item.Events))
		copy(events, item.Events)
		item.Events = events
	}
	if item.VenueDetail != nil {
		detail := *item.VenueDetail
		item.VenueDetail = &detail
	}
	if item.HomeScore != nil {
		v := *item.HomeScore
		item.HomeScore = &v
	}
	if item.AwayScore != nil {
		v := *item.AwayScore
		item.AwayScore = &v
	}
	return item
}
