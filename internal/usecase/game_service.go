package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
	"github.com/rucktrack/rucktrack/internal/platform/resilience"
)

// GameService backs the server-side games resource.
type GameService struct {
	repo        game.Repository
	idGen       id.Generator
	logger      *logging.Logger
	now         func() time.Time
	statsFlight resilience.SingleFlight
}

func NewGameService(repo game.Repository, idGen id.Generator, logger *logging.Logger) *GameService {
	if idGen == nil {
		idGen = id.NewServerGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		repo:   repo,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

// List returns all games, newest first.
func (s *GameService) List(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return items, nil
}

func (s *GameService) GetByID(ctx context.Context, serverID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetByID")
	defer span.End()

	serverID = strings.TrimSpace(serverID)
	if serverID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, serverID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, serverID)
	}
	return item, nil
}

func (s *GameService) Create(ctx context.Context, item game.Game) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create")
	defer span.End()

	if err := validateGame(&item); err != nil {
		return game.Game{}, err
	}

	serverID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("assign game id: %w", err)
	}
	item.ServerID = serverID
	if strings.TrimSpace(item.ID) == "" {
		item.ID = serverID
	}

	now := s.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	item.SyncState = game.SyncStateSynced

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	s.logger.InfoContext(ctx, "game created", "server_id", created.ServerID, "home", created.Home.Name, "away", created.Away.Name)
	return created, nil
}

// Update replaces the stored game. Completed games cannot leave their
// terminal status through this path.
func (s *GameService) Update(ctx context.Context, serverID string, item game.Game) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Update")
	defer span.End()

	current, err := s.GetByID(ctx, serverID)
	if err != nil {
		return game.Game{}, err
	}

	if err := validateGame(&item); err != nil {
		return game.Game{}, err
	}
	if !game.CanTransition(current.Status, item.Status) {
		return game.Game{}, fmt.Errorf("%w: cannot change status %s to %s", ErrInvalidInput, current.Status, item.Status)
	}

	item.ServerID = current.ServerID
	if strings.TrimSpace(item.ID) == "" {
		item.ID = current.ID
	}
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = s.now()
	item.SyncState = game.SyncStateSynced

	updated, found, err := s.repo.Update(ctx, serverID, item)
	if err != nil {
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}
	if !found {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, serverID)
	}
	return updated, nil
}

func (s *GameService) Delete(ctx context.Context, serverID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete")
	defer span.End()

	serverID = strings.TrimSpace(serverID)
	if serverID == "" {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	found, err := s.repo.Delete(ctx, serverID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: game=%s", ErrNotFound, serverID)
	}
	return nil
}

// DeleteAll wipes the collection and reports how many records went.
// Deleting an already empty collection succeeds with zero.
func (s *GameService) DeleteAll(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.DeleteAll")
	defer span.End()

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all games: %w", err)
	}

	s.logger.InfoContext(ctx, "games collection wiped", "deleted", deleted)
	return deleted, nil
}

// Stats aggregates the collection. Concurrent identical requests share
// one repository scan.
func (s *GameService) Stats(ctx context.Context) (game.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Stats")
	defer span.End()

	value, err, _ := s.statsFlight.Do("game-stats", func() (any, error) {
		return s.repo.Stats(ctx)
	})
	if err != nil {
		return game.Stats{}, fmt.Errorf("aggregate game stats: %w", err)
	}
	return value.(game.Stats), nil
}

func validateGame(item *game.Game) error {
	if strings.TrimSpace(item.Home.Name) == "" {
		return fmt.Errorf("%w: home team name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(item.Away.Name) == "" {
		return fmt.Errorf("%w: away team name is required", ErrInvalidInput)
	}

	item.Status = game.NormalizeStatus(item.Status)
	if !game.ValidStatus(item.Status) {
		return fmt.Errorf("%w: unknown game status %q", ErrInvalidInput, item.Status)
	}
	if item.Home.Score < 0 || item.Away.Score < 0 {
		return fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}
	return nil
}
