package match

import "context"

// Repository exposes match persistence. List returns chronological order
// by kickoff time.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	Create(ctx context.Context, item Match) (Match, error)
	Update(ctx context.Context, id string, item Match) (Match, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
