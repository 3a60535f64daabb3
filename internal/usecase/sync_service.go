package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/domain/match"
	"github.com/rucktrack/rucktrack/internal/localstore"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
	"github.com/rucktrack/rucktrack/internal/platform/resilience"
)

// ErrSyncConflict marks a record whose server copy moved ahead of the
// local one. The local record is kept untouched and the conflict is
// surfaced in the sync report.
var ErrSyncConflict = errors.New("sync conflict: server copy is newer")

// RemoteStore is the slice of the tracker API the coordinator needs.
type RemoteStore interface {
	ListGames(ctx context.Context) ([]game.Game, error)
	GetGame(ctx context.Context, serverID string) (game.Game, error)
	CreateGame(ctx context.Context, item game.Game) (game.Game, error)
	UpdateGame(ctx context.Context, serverID string, item game.Game) (game.Game, error)
	DeleteGame(ctx context.Context, serverID string) error

	ListMatches(ctx context.Context) ([]match.Match, error)
	GetMatch(ctx context.Context, serverID string) (match.Match, error)
	CreateMatch(ctx context.Context, item match.Match) (match.Match, error)
	UpdateMatch(ctx context.Context, serverID string, item match.Match) (match.Match, error)
	DeleteMatch(ctx context.Context, serverID string) error

	Health(ctx context.Context) error
}

const (
	SyncOutcomeSynced   = "synced"
	SyncOutcomeConflict = "conflict"
	SyncOutcomeFailed   = "failed"
)

// SyncOutcome is the per-record result of a bulk sync run.
type SyncOutcome struct {
	LocalID  string `json:"localId"`
	ServerID string `json:"serverId,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// SyncReport aggregates one bulk sync run. Partial success is expected;
// there is no all-or-nothing guarantee.
type SyncReport struct {
	RunID     string        `json:"runId"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Synced    int           `json:"synced"`
	Conflicts int           `json:"conflicts"`
	Failed    int           `json:"failed"`
	Results   []SyncOutcome `json:"results"`
}

type SyncConfig struct {
	Workers        int
	CircuitEnabled bool
	FailureCount   int
	OpenTimeout    time.Duration
	HalfOpenMaxReq int
	// IsTransient classifies remote errors; nil treats every error as
	// permanent for reporting purposes.
	IsTransient func(error) bool
}

// SyncService is the synchronization coordinator: local-first writes with
// best-effort remote reconciliation. It never fails a user action because
// the server is unreachable.
type SyncService struct {
	games   *localstore.Collection[game.Game]
	matches *localstore.Collection[match.Match]
	extras  *localstore.MatchExtras
	remote  RemoteStore
	breaker *resilience.CircuitBreaker
	cfg     SyncConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewSyncService(
	games *localstore.Collection[game.Game],
	matches *localstore.Collection[match.Match],
	extras *localstore.MatchExtras,
	remote RemoteStore,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		games:   games,
		matches: matches,
		extras:  extras,
		remote:  remote,
		breaker: resilience.NewCircuitBreaker(cfg.FailureCount, cfg.OpenTimeout, cfg.HalfOpenMaxReq),
		cfg:     cfg,
		logger:  logger,
	}
}

// --- Games -----------------------------------------------------------

func (s *SyncService) GetAllGames() []game.Game {
	return s.games.GetAll()
}

// SaveGame persists the game locally and then attempts to push it. The
// local write is the operation; a push failure only leaves the record
// pending.
func (s *SyncService) SaveGame(ctx context.Context, item game.Game) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SaveGame")
	defer span.End()

	if strings.TrimSpace(item.Home.Name) == "" || strings.TrimSpace(item.Away.Name) == "" {
		return game.Game{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}

	now := s.clock()
	item.Status = game.NormalizeStatus(item.Status)
	if !game.ValidStatus(item.Status) {
		return game.Game{}, fmt.Errorf("%w: unknown game status %q", ErrInvalidInput, item.Status)
	}
	if item.Clock == "" {
		item.Clock = "00:00"
	}
	item.SyncState = game.SyncStateLocal
	item.Version = 1
	item.CreatedAt = now
	item.UpdatedAt = now

	localID, err := s.games.Save(item)
	if err != nil {
		return game.Game{}, fmt.Errorf("save game locally: %w", err)
	}
	item.ID = localID

	s.pushGame(ctx, item)
	return s.mustGame(localID), nil
}

// AddScoreEvent applies one scoring action to a game and pushes the
// updated record.
func (s *SyncService) AddScoreEvent(ctx context.Context, gameID, team, eventType, description string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.AddScoreEvent")
	defer span.End()

	var applyErr error
	found := s.games.Update(gameID, func(g *game.Game) {
		if g.Status == game.StatusCompleted {
			applyErr = fmt.Errorf("%w: game is completed", ErrInvalidInput)
			return
		}
		if err := g.ApplyEvent(team, eventType, description, s.clock()); err != nil {
			applyErr = fmt.Errorf("%w: %v", ErrInvalidInput, err)
			return
		}
		g.Version++
		if g.SyncState == game.SyncStateSynced {
			g.SyncState = game.SyncStatePending
		}
	})
	if !found {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if applyErr != nil {
		return game.Game{}, applyErr
	}

	updated := s.mustGame(gameID)
	s.pushGame(ctx, updated)
	return s.mustGame(gameID), nil
}

// UpdateGame applies a caller mutation, bumps the version and pushes.
func (s *SyncService) UpdateGame(ctx context.Context, gameID string, apply func(*game.Game)) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.UpdateGame")
	defer span.End()

	found := s.games.Update(gameID, func(g *game.Game) {
		apply(g)
		g.Version++
		g.UpdatedAt = s.clock()
		if g.SyncState == game.SyncStateSynced {
			g.SyncState = game.SyncStatePending
		}
	})
	if !found {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	updated := s.mustGame(gameID)
	s.pushGame(ctx, updated)
	return s.mustGame(gameID), nil
}

// DeleteGame removes the local record and best-effort deletes the server
// copy when one exists.
func (s *SyncService) DeleteGame(ctx context.Context, gameID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.DeleteGame")
	defer span.End()

	serverID := ""
	for _, g := range s.games.GetAll() {
		if g.ID == gameID {
			serverID = g.ServerID
			break
		}
	}

	if !s.games.Delete(gameID) {
		return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	if serverID != "" {
		if err := s.callRemote(func() error { return s.remote.DeleteGame(ctx, serverID) }); err != nil {
			s.logger.WarnContext(ctx, "remote game delete failed, server copy remains", "server_id", serverID, "error", err)
		}
	}
	return nil
}

func (s *SyncService) HasUnsyncedGames() bool {
	for _, g := range s.games.GetAll() {
		if g.Unsynced() {
			return true
		}
	}
	return false
}

// SyncAllUnsyncedGames pushes every unsynced game through a worker pool
// and reports per-record outcomes.
func (s *SyncService) SyncAllUnsyncedGames(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncAllUnsyncedGames")
	defer span.End()

	var pending []game.Game
	for _, g := range s.games.GetAll() {
		if g.Unsynced() {
			pending = append(pending, g)
		}
	}

	return s.runBulk(ctx, len(pending), func(i int) SyncOutcome {
		return s.syncOneGame(ctx, pending[i])
	})
}

// PullAllGames replaces the local games collection with the server copy.
// Whoever runs last wins; there is no merge.
func (s *SyncService) PullAllGames(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.PullAllGames")
	defer span.End()

	var items []game.Game
	err := s.callRemote(func() error {
		var listErr error
		items, listErr = s.remote.ListGames(ctx)
		return listErr
	})
	if err != nil {
		return fmt.Errorf("pull games: %w", err)
	}

	for i := range items {
		items[i].SyncState = game.SyncStateSynced
	}
	if err := s.games.ReplaceAll(items); err != nil {
		return fmt.Errorf("replace local games: %w", err)
	}
	return nil
}

// AutosaveActiveGames touches every active session so the running clock
// state is flushed to durable storage. Driven by the 30s interval runner.
func (s *SyncService) AutosaveActiveGames(ctx context.Context) {
	_, span := startUsecaseSpan(ctx, "usecase.SyncService.AutosaveActiveGames")
	defer span.End()

	for _, g := range s.games.GetAll() {
		if g.Status != game.StatusActive {
			continue
		}
		s.games.Update(g.ID, func(item *game.Game) {
			item.UpdatedAt = s.clock()
		})
	}
}

func (s *SyncService) pushGame(ctx context.Context, item game.Game) {
	outcome := s.syncOneGame(ctx, item)
	if outcome.Status != SyncOutcomeSynced {
		s.logger.WarnContext(ctx, "game push failed, record kept locally",
			"local_id", item.ID, "status", outcome.Status, "reason", outcome.Message)
	}
}

func (s *SyncService) syncOneGame(ctx context.Context, item game.Game) SyncOutcome {
	outcome := SyncOutcome{LocalID: item.ID, ServerID: item.ServerID}

	if item.ServerID == "" {
		var created game.Game
		err := s.callRemote(func() error {
			var callErr error
			created, callErr = s.remote.CreateGame(ctx, item)
			return callErr
		})
		if err != nil {
			if s.transient(err) {
				s.markGamePending(item.ID)
			}
			outcome.Status = SyncOutcomeFailed
			outcome.Message = err.Error()
			return outcome
		}

		s.games.Update(item.ID, func(g *game.Game) {
			g.ServerID = created.ServerID
			g.SyncState = game.SyncStateSynced
		})
		outcome.ServerID = created.ServerID
		outcome.Status = SyncOutcomeSynced
		return outcome
	}

	var remote game.Game
	err := s.callRemote(func() error {
		var callErr error
		remote, callErr = s.remote.GetGame(ctx, item.ServerID)
		return callErr
	})
	if err == nil && remote.Version > item.Version {
		outcome.Status = SyncOutcomeConflict
		outcome.Message = fmt.Sprintf("%v: server version %d, local version %d", ErrSyncConflict, remote.Version, item.Version)
		return outcome
	}

	err = s.callRemote(func() error {
		_, callErr := s.remote.UpdateGame(ctx, item.ServerID, item)
		return callErr
	})
	if err != nil {
		if s.transient(err) {
			s.markGamePending(item.ID)
		}
		outcome.Status = SyncOutcomeFailed
		outcome.Message = err.Error()
		return outcome
	}

	s.games.Update(item.ID, func(g *game.Game) {
		g.SyncState = game.SyncStateSynced
	})
	outcome.Status = SyncOutcomeSynced
	return outcome
}

func (s *SyncService) markGamePending(gameID string) {
	s.games.Update(gameID, func(g *game.Game) {
		g.SyncState = game.SyncStatePending
	})
}

func (s *SyncService) mustGame(gameID string) game.Game {
	for _, g := range s.games.GetAll() {
		if g.ID == gameID {
			return g
		}
	}
	return game.Game{ID: gameID}
}

// --- Matches ---------------------------------------------------------

func (s *SyncService) GetAllMatches() []match.Match {
	return s.matches.GetAll()
}

func (s *SyncService) SaveMatch(ctx context.Context, item match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SaveMatch")
	defer span.End()

	item.Status = match.NormalizeStatus(item.Status)
	if problems := match.Validate(item); len(problems) > 0 {
		return match.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	now := s.clock()
	item.SyncState = match.SyncStateLocal
	item.Version = 1
	item.CreatedAt = now
	item.UpdatedAt = now

	localID, err := s.matches.Save(item)
	if err != nil {
		return match.Match{}, fmt.Errorf("save match locally: %w", err)
	}
	item.ID = localID

	s.pushMatch(ctx, item)
	return s.mustMatch(localID), nil
}

func (s *SyncService) UpdateMatch(ctx context.Context, matchID string, apply func(*match.Match)) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.UpdateMatch")
	defer span.End()

	var validationErr error
	found := s.matches.Update(matchID, func(m *match.Match) {
		candidate := *m
		apply(&candidate)
		candidate.Status = match.NormalizeStatus(candidate.Status)
		if problems := match.Validate(candidate); len(problems) > 0 {
			validationErr = fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
			return
		}
		if !match.CanTransition(m.Status, candidate.Status) {
			validationErr = fmt.Errorf("%w: cannot change status %s to %s", ErrInvalidInput, m.Status, candidate.Status)
			return
		}

		*m = candidate
		m.Version++
		m.UpdatedAt = s.clock()
		if m.SyncState == match.SyncStateSynced {
			m.SyncState = match.SyncStatePending
		}
	})
	if !found {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if validationErr != nil {
		return match.Match{}, validationErr
	}

	updated := s.mustMatch(matchID)
	s.pushMatch(ctx, updated)
	return s.mustMatch(matchID), nil
}

func (s *SyncService) DeleteMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.DeleteMatch")
	defer span.End()

	serverID := ""
	for _, m := range s.matches.GetAll() {
		if m.ID == matchID {
			serverID = m.ServerID
			break
		}
	}

	if !s.matches.Delete(matchID) {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	// Notes and photos live in side buckets keyed by the same ID and
	// would otherwise be orphaned.
	if s.extras != nil {
		if err := s.extras.DeleteFor(matchID); err != nil {
			s.logger.WarnContext(ctx, "delete match extras failed", "match_id", matchID, "error", err)
		}
	}

	if serverID != "" {
		if err := s.callRemote(func() error { return s.remote.DeleteMatch(ctx, serverID) }); err != nil {
			s.logger.WarnContext(ctx, "remote match delete failed, server copy remains", "server_id", serverID, "error", err)
		}
	}
	return nil
}

func (s *SyncService) HasUnsyncedMatches() bool {
	for _, m := range s.matches.GetAll() {
		if m.Unsynced() {
			return true
		}
	}
	return false
}

func (s *SyncService) SyncAllUnsyncedMatches(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncAllUnsyncedMatches")
	defer span.End()

	var pending []match.Match
	for _, m := range s.matches.GetAll() {
		if m.Unsynced() {
			pending = append(pending, m)
		}
	}

	return s.runBulk(ctx, len(pending), func(i int) SyncOutcome {
		return s.syncOneMatch(ctx, pending[i])
	})
}

// PullAllMatches replaces the local matches collection wholesale after a
// successful full server read.
func (s *SyncService) PullAllMatches(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.PullAllMatches")
	defer span.End()

	var items []match.Match
	err := s.callRemote(func() error {
		var listErr error
		items, listErr = s.remote.ListMatches(ctx)
		return listErr
	})
	if err != nil {
		return fmt.Errorf("pull matches: %w", err)
	}

	for i := range items {
		items[i].SyncState = match.SyncStateSynced
	}
	if err := s.matches.ReplaceAll(items); err != nil {
		return fmt.Errorf("replace local matches: %w", err)
	}
	return nil
}

func (s *SyncService) pushMatch(ctx context.Context, item match.Match) {
	outcome := s.syncOneMatch(ctx, item)
	if outcome.Status != SyncOutcomeSynced {
		s.logger.WarnContext(ctx, "match push failed, record kept locally",
			"local_id", item.ID, "status", outcome.Status, "reason", outcome.Message)
	}
}

func (s *SyncService) syncOneMatch(ctx context.Context, item match.Match) SyncOutcome {
	outcome := SyncOutcome{LocalID: item.ID, ServerID: item.ServerID}

	if item.ServerID == "" {
		var created match.Match
		err := s.callRemote(func() error {
			var callErr error
			created, callErr = s.remote.CreateMatch(ctx, item)
			return callErr
		})
		if err != nil {
			if s.transient(err) {
				s.markMatchPending(item.ID)
			}
			outcome.Status = SyncOutcomeFailed
			outcome.Message = err.Error()
			return outcome
		}

		s.matches.Update(item.ID, func(m *match.Match) {
			m.ServerID = created.ServerID
			m.SyncState = match.SyncStateSynced
		})
		outcome.ServerID = created.ServerID
		outcome.Status = SyncOutcomeSynced
		return outcome
	}

	var remote match.Match
	err := s.callRemote(func() error {
		var callErr error
		remote, callErr = s.remote.GetMatch(ctx, item.ServerID)
		return callErr
	})
	if err == nil && remote.Version > item.Version {
		outcome.Status = SyncOutcomeConflict
		outcome.Message = fmt.Sprintf("%v: server version %d, local version %d", ErrSyncConflict, remote.Version, item.Version)
		return outcome
	}

	err = s.callRemote(func() error {
		_, callErr := s.remote.UpdateMatch(ctx, item.ServerID, item)
		return callErr
	})
	if err != nil {
		if s.transient(err) {
			s.markMatchPending(item.ID)
		}
		outcome.Status = SyncOutcomeFailed
		outcome.Message = err.Error()
		return outcome
	}

	s.matches.Update(item.ID, func(m *match.Match) {
		m.SyncState = match.SyncStateSynced
	})
	outcome.Status = SyncOutcomeSynced
	return outcome
}

func (s *SyncService) markMatchPending(matchID string) {
	s.matches.Update(matchID, func(m *match.Match) {
		m.SyncState = match.SyncStatePending
	})
}

func (s *SyncService) mustMatch(matchID string) match.Match {
	for _, m := range s.matches.GetAll() {
		if m.ID == matchID {
			return m
		}
	}
	return match.Match{ID: matchID}
}

// --- Shared plumbing -------------------------------------------------

func (s *SyncService) runBulk(ctx context.Context, total int, syncAt func(int) SyncOutcome) (SyncReport, error) {
	report := SyncReport{
		RunID:     uuid.NewString(),
		StartedAt: s.clock(),
		Total:     total,
	}
	if total == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return SyncReport{}, fmt.Errorf("create sync worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan SyncOutcome, total)
	var synced, conflicts, failed atomic.Int32

	var workers sync.WaitGroup
	for i := 0; i < total; i++ {
		i := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			outcome := syncAt(i)
			switch outcome.Status {
			case SyncOutcomeSynced:
				synced.Add(1)
			case SyncOutcomeConflict:
				conflicts.Add(1)
			default:
				failed.Add(1)
			}
			results <- outcome
		}); err != nil {
			workers.Done()
			return SyncReport{}, fmt.Errorf("submit record to sync pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for outcome := range results {
		report.Results = append(report.Results, outcome)
	}
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].LocalID < report.Results[j].LocalID
	})

	report.Synced = int(synced.Load())
	report.Conflicts = int(conflicts.Load())
	report.Failed = int(failed.Load())
	report.Duration = s.clock().Sub(report.StartedAt)

	s.logger.InfoContext(ctx, "bulk sync finished",
		"run_id", report.RunID,
		"total", report.Total,
		"synced", report.Synced,
		"conflicts", report.Conflicts,
		"failed", report.Failed,
	)
	return report, nil
}

func (s *SyncService) callRemote(fn func() error) error {
	if s.remote == nil {
		return fmt.Errorf("%w: remote store is not configured", ErrDependencyUnavailable)
	}
	if !s.cfg.CircuitEnabled {
		return fn()
	}
	return s.breaker.Do(fn)
}

// transient reports whether err is worth retrying on a later sync run.
// A record hit by a permanent rejection keeps its state; a transient one
// is parked as pending.
func (s *SyncService) transient(err error) bool {
	if s.cfg.IsTransient == nil {
		return true
	}
	return s.cfg.IsTransient(err)
}

func (s *SyncService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
