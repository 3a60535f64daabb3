package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rucktrack/rucktrack/internal/domain/match"
)

func (c *Client) ListMatches(ctx context.Context) ([]match.Match, error) {
	var items []match.Match
	if err := c.do(ctx, http.MethodGet, "/api/matches", nil, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ServerID = normalizeServerID(items[i].ID, items[i].ServerID)
	}
	return items, nil
}

func (c *Client) GetMatch(ctx context.Context, serverID string) (match.Match, error) {
	var item match.Match
	if err := c.do(ctx, http.MethodGet, "/api/matches/"+url.PathEscape(serverID), nil, &item); err != nil {
		return match.Match{}, err
	}
	item.ServerID = normalizeServerID(item.ID, item.ServerID)
	return item, nil
}

func (c *Client) CreateMatch(ctx context.Context, item match.Match) (match.Match, error) {
	var created match.Match
	if err := c.do(ctx, http.MethodPost, "/api/matches", item, &created); err != nil {
		return match.Match{}, err
	}
	created.ServerID = normalizeServerID(created.ID, created.ServerID)
	return created, nil
}

func (c *Client) UpdateMatch(ctx context.Context, serverID string, item match.Match) (match.Match, error) {
	var updated match.Match
	if err := c.do(ctx, http.MethodPut, "/api/matches/"+url.PathEscape(serverID), item, &updated); err != nil {
		return match.Match{}, err
	}
	updated.ServerID = normalizeServerID(updated.ID, updated.ServerID)
	return updated, nil
}

func (c *Client) DeleteMatch(ctx context.Context, serverID string) error {
	return c.do(ctx, http.MethodDelete, "/api/matches/"+url.PathEscape(serverID), nil, nil)
}

// Health probes the liveness endpoint; a nil error means the API is
// reachable and answering.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
