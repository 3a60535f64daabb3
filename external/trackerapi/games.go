package trackerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rucktrack/rucktrack/internal/domain/game"
)

func (c *Client) ListGames(ctx context.Context) ([]game.Game, error) {
	var items []game.Game
	if err := c.do(ctx, http.MethodGet, "/api/games", nil, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ServerID = normalizeServerID(items[i].ID, items[i].ServerID)
	}
	return items, nil
}

func (c *Client) GetGame(ctx context.Context, serverID string) (game.Game, error) {
	var item game.Game
	if err := c.do(ctx, http.MethodGet, "/api/games/"+url.PathEscape(serverID), nil, &item); err != nil {
		return game.Game{}, err
	}
	item.ServerID = normalizeServerID(item.ID, item.ServerID)
	return item, nil
}

func (c *Client) CreateGame(ctx context.Context, item game.Game) (game.Game, error) {
	var created game.Game
	if err := c.do(ctx, http.MethodPost, "/api/games", item, &created); err != nil {
		return game.Game{}, err
	}
	created.ServerID = normalizeServerID(created.ID, created.ServerID)
	return created, nil
}

func (c *Client) UpdateGame(ctx context.Context, serverID string, item game.Game) (game.Game, error) {
	var updated game.Game
	if err := c.do(ctx, http.MethodPut, "/api/games/"+url.PathEscape(serverID), item, &updated); err != nil {
		return game.Game{}, err
	}
	updated.ServerID = normalizeServerID(updated.ID, updated.ServerID)
	return updated, nil
}

func (c *Client) DeleteGame(ctx context.Context, serverID string) error {
	return c.do(ctx, http.MethodDelete, "/api/games/"+url.PathEscape(serverID), nil, nil)
}

// DeleteAllGames wipes the games collection; the response reports how
// many records the server removed.
func (c *Client) DeleteAllGames(ctx context.Context) (int, error) {
	var resp struct {
		Message string `json:"message"`
		Deleted int    `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/games", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *Client) GameStats(ctx context.Context) (game.Stats, error) {
	var stats game.Stats
	if err := c.do(ctx, http.MethodGet, "/api/games/stats", nil, &stats); err != nil {
		return game.Stats{}, err
	}
	return stats, nil
}
