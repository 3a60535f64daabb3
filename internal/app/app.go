package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rucktrack/rucktrack/internal/config"
	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/domain/match"
	"github.com/rucktrack/rucktrack/internal/infrastructure/repository/memory"
	"github.com/rucktrack/rucktrack/internal/infrastructure/repository/postgres"
	"github.com/rucktrack/rucktrack/internal/interfaces/httpapi"
	idgen "github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
	"github.com/rucktrack/rucktrack/internal/usecase"
)

// NewHTTPServer builds the API server. With DB_URL set it runs on
// postgres; without it the in-memory repositories serve everything,
// which is how local development and the test suite run. The returned
// cleanup closes the database handle.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var (
		db        *sqlx.DB
		gameRepo  game.Repository
		matchRepo match.Repository
	)

	if cfg.DBURL != "" {
		conn, err := otelsqlx.Connect("postgres", cfg.DBURL,
			otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
			otelsql.WithDBName("rucktrack"),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		db = conn
		gameRepo = postgres.NewGameRepository(db)
		matchRepo = postgres.NewMatchRepository(db)
		logger.Info("storage ready", "backend", "postgres")
	} else {
		gameRepo = memory.NewGameRepository()
		matchRepo = memory.NewMatchRepository()
		logger.Info("storage ready", "backend", "memory")
	}

	gen := idgen.NewServerGenerator()
	gameService := usecase.NewGameService(gameRepo, gen, logger)
	matchService := usecase.NewMatchService(matchRepo, gen, logger)

	handler := httpapi.NewHandler(gameService, matchService, db, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		APIKey:             cfg.APIKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitWindow:    cfg.RateLimitWindow,
		RateLimitMax:       cfg.RateLimitMax,
	}, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	return server, cleanup, nil
}
