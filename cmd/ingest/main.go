package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/playoff-stats/internal/app"
	"github.com/riskibarqy/playoff-stats/internal/config"
	"github.com/riskibarqy/playoff-stats/internal/observability"
	"github.com/riskibarqy/playoff-stats/internal/platform/logging"
	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

const defaultSeasonYear = 2025

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("ingest", flag.ContinueOnError)
	year := flags.Int("year", defaultSeasonYear, "season end year, e.g. 2025 for the 2024-25 playoffs")
	season := flags.String("season", "", "season label stored with every stat row (default derived from -year)")
	dryRun := flags.Bool("dry-run", false, "scrape and reconcile in memory without touching the database")
	reportPath := flags.String("report", "", "write a JSON run report to this path")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("stop pyroscope", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, app.Options{DryRun: *dryRun})
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	report, runErr := application.Run(ctx, usecase.RunInput{SeasonYear: *year, SeasonLabel: *season})
	if *reportPath != "" {
		if err := app.WriteReportFile(*reportPath, report); err != nil {
			logger.Error("write run report", "path", *reportPath, "error", err)
			return 1
		}
		logger.Info("run report written", "path", *reportPath)
	}
	if runErr != nil {
		logger.Error("ingest run failed", "error", runErr)
		return 1
	}

	logger.Info("ingest run complete",
		"season", report.SeasonLabel,
		"teams_committed", report.TeamsCommitted,
		"teams_failed", report.TeamsFailed,
	)
	return 0
}
