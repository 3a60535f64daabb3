package game

import "context"

// Stats aggregates the games collection for the stats endpoint.
type Stats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	Completed    int            `json:"completed"`
	AvgHomeScore float64        `json:"avgHomeScore"`
	AvgAwayScore float64        `json:"avgAwayScore"`
}

// Repository exposes game persistence. List returns newest first.
type Repository interface {
	List(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, id string) (Game, bool, error)
	Create(ctx context.Context, item Game) (Game, error)
	Update(ctx context.Context, id string, item Game) (Game, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
}
