package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rucktrack/rucktrack/external/trackerapi"
	"github.com/rucktrack/rucktrack/internal/config"
	"github.com/rucktrack/rucktrack/internal/localstore"
	"github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
	"github.com/rucktrack/rucktrack/internal/platform/schedule"
	"github.com/rucktrack/rucktrack/internal/usecase"
)

// The tracker daemon is the pitchside companion: it owns the local
// store, autosaves running sessions and periodically pushes anything
// the API has not seen yet.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	db, err := localstore.Open(cfg.StorePath)
	if err != nil {
		logger.Error("open local store", "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	gen := id.NewLocalGenerator()
	games, err := localstore.NewGameCollection(db, gen, logger)
	if err != nil {
		logger.Error("open games collection", "error", err)
		os.Exit(1)
	}
	matches, err := localstore.NewMatchCollection(db, gen, logger)
	if err != nil {
		logger.Error("open matches collection", "error", err)
		os.Exit(1)
	}
	extras, err := localstore.NewMatchExtras(db)
	if err != nil {
		logger.Error("open match extras", "error", err)
		os.Exit(1)
	}

	client := trackerapi.NewClient(trackerapi.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.APITimeout,
		Logger:  logger,
	})

	syncService := usecase.NewSyncService(games, matches, extras, client, usecase.SyncConfig{
		Workers:        cfg.SyncWorkers,
		CircuitEnabled: cfg.SyncCircuitEnabled,
		FailureCount:   cfg.SyncCircuitFailureCount,
		OpenTimeout:    cfg.SyncCircuitOpenTimeout,
		HalfOpenMaxReq: cfg.SyncCircuitHalfOpenReq,
		IsTransient:    trackerapi.IsTransient,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	autosave, err := schedule.NewIntervalRunner(cfg.AutosaveInterval, syncService.AutosaveActiveGames, logger)
	if err != nil {
		logger.Error("build autosave runner", "error", err)
		os.Exit(1)
	}
	autosave.Start(ctx)
	defer autosave.Stop()

	cronScheduler := schedule.NewCronScheduler(logger)
	if err := cronScheduler.AddJob(cfg.SyncCron, "sync-unsynced", func() {
		runBulkSync(ctx, syncService, logger)
	}); err != nil {
		logger.Error("register sync job", "cron", cfg.SyncCron, "error", err)
		os.Exit(1)
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Catch-up pass on boot so an offline session from yesterday is
	// pushed as soon as the daemon comes back up.
	go runBulkSync(ctx, syncService, logger)

	logger.Info("tracker daemon running",
		"store", cfg.StorePath,
		"api", cfg.APIBaseURL,
		"autosave", cfg.AutosaveInterval.String(),
		"sync_cron", cfg.SyncCron,
	)

	<-ctx.Done()
	logger.Info("tracker daemon stopping")
}

func runBulkSync(ctx context.Context, syncService *usecase.SyncService, logger *logging.Logger) {
	if !syncService.HasUnsyncedGames() && !syncService.HasUnsyncedMatches() {
		return
	}

	if report, err := syncService.SyncAllUnsyncedGames(ctx); err != nil {
		logger.WarnContext(ctx, "game sync run failed", "error", err)
	} else if report.Total > 0 {
		logger.InfoContext(ctx, "game sync run finished",
			"run_id", report.RunID, "synced", report.Synced, "conflicts", report.Conflicts, "failed", report.Failed)
	}

	if report, err := syncService.SyncAllUnsyncedMatches(ctx); err != nil {
		logger.WarnContext(ctx, "match sync run failed", "error", err)
	} else if report.Total > 0 {
		logger.InfoContext(ctx, "match sync run finished",
			"run_id", report.RunID, "synced", report.Synced, "conflicts", report.Conflicts, "failed", report.Failed)
	}
}
