package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rucktrack/rucktrack/internal/domain/match"
	"github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

// MatchService backs the server-side matches resource.
type MatchService struct {
	repo   match.Repository
	idGen  id.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewMatchService(repo match.Repository, idGen id.Generator, logger *logging.Logger) *MatchService {
	if idGen == nil {
		idGen = id.NewServerGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		repo:   repo,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

// List returns all matches in kickoff order.
func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) GetByID(ctx context.Context, serverID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	serverID = strings.TrimSpace(serverID)
	if serverID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, serverID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, serverID)
	}
	return item, nil
}

func (s *MatchService) Create(ctx context.Context, item match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	item.Status = match.NormalizeStatus(item.Status)
	if problems := match.Validate(item); len(problems) > 0 {
		return match.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	serverID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("assign match id: %w", err)
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
	item.SyncState = match.SyncStateSynced

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created", "server_id", created.ServerID, "home", created.HomeTeam, "away", created.AwayTeam)
	return created, nil
}

func (s *MatchService) Update(ctx context.Context, serverID string, item match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	current, err := s.GetByID(ctx, serverID)
	if err != nil {
		return match.Match{}, err
	}

	item.Status = match.NormalizeStatus(item.Status)
	if problems := match.Validate(item); len(problems) > 0 {
		return match.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	if !match.CanTransition(current.Status, item.Status) {
		return match.Match{}, fmt.Errorf("%w: cannot change status %s to %s", ErrInvalidInput, current.Status, item.Status)
	}

	item.ServerID = current.ServerID
	if strings.TrimSpace(item.ID) == "" {
		item.ID = current.ID
	}
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = s.now()
	item.SyncState = match.SyncStateSynced

	updated, found, err := s.repo.Update(ctx, serverID, item)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, serverID)
	}
	return updated, nil
}

// Delete validates the identifier shape before touching the repository,
// so malformed IDs answer 400 rather than 404.
func (s *MatchService) Delete(ctx context.Context, serverID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	serverID = strings.TrimSpace(serverID)
	if !id.LooksLikeServerID(serverID) {
		return fmt.Errorf("%w: malformed match id %q", ErrInvalidInput, serverID)
	}

	found, err := s.repo.Delete(ctx, serverID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: match=%s", ErrNotFound, serverID)
	}
	return nil
}
