// Package app wires configuration, the scraper and the stores into one
// ingest run.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/playoff-stats/external/bbref"
	"github.com/riskibarqy/playoff-stats/internal/config"
	"github.com/riskibarqy/playoff-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/playoff-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/playoff-stats/internal/platform/logging"
	"github.com/riskibarqy/playoff-stats/internal/platform/resilience"
	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

var tracer = otel.Tracer("playoff-stats/internal/app")

type Options struct {
	// DryRun keeps every write in process memory; no database is opened.
	DryRun bool
}

type App struct {
	service *usecase.PlayoffIngestionService
	db      *sqlx.DB
	store   *memory.Store
}

// New opens the store and builds the pipeline. A database that cannot be
// reached is returned as an error before anything is fetched.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	source := NewSource(cfg, logger)

	a := &App{}
	var uow usecase.UnitOfWork
	if opts.DryRun {
		a.store = memory.NewStore()
		uow = memory.NewUnitOfWork(a.store)
		logger.Info("dry run, writes stay in memory")
	} else {
		if err := config.ValidateDatabase(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
		}
		dsn := DatabaseURL(cfg)
		db, err := openDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		logger.Info("database connected", "dsn", redactDBURL(dsn))
		a.db = db
		uow = postgres.NewUnitOfWork(db)
	}

	a.service = usecase.NewPlayoffIngestionService(source, uow, logger)
	return a, nil
}

// NewSource builds the basketball-reference client from scraper settings.
func NewSource(cfg config.Config, logger *logging.Logger) *bbref.Client {
	return bbref.NewClient(bbref.ClientConfig{
		BaseURL:         cfg.ScraperBaseURL,
		League:          cfg.ScraperLeague,
		UserAgent:       cfg.ScraperUserAgent,
		Timeout:         cfg.ScraperTimeout,
		RequestInterval: cfg.ScraperRequestInterval,
		PageCacheTTL:    cfg.ScraperPageCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScraperCircuitEnabled,
			FailureThreshold: cfg.ScraperCircuitFailureCount,
			OpenTimeout:      cfg.ScraperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScraperCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})
}

func (a *App) Run(ctx context.Context, input usecase.RunInput) (usecase.RunReport, error) {
	ctx, span := tracer.Start(ctx, "ingest.run", trace.WithAttributes(
		attribute.Int("season.year", input.SeasonYear),
		attribute.Bool("dry_run", a.store != nil),
	))
	defer span.End()

	report, err := a.service.Run(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	span.SetAttributes(
		attribute.Int("teams.committed", report.TeamsCommitted),
		attribute.Int("teams.failed", report.TeamsFailed),
	)
	return report, nil
}

// Store is the in-memory store of a dry run, nil otherwise.
func (a *App) Store() *memory.Store {
	return a.store
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
