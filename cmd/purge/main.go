// Command retention-purge runs one purge batch and exits. It is intended for
// cron or operator-driven runs.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eshop-ops/retention/internal/migrate"
	"github.com/eshop-ops/retention/internal/repository/postgres"
	"github.com/eshop-ops/retention/internal/service"
)

// main exits non-zero only when the batch cannot start at all (bad config,
// unreachable database). Per-account failures are logged and reported in the
// summary but still exit 0.
func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (defaults to DATABASE_URL)")
	inactiveDays := flag.Int("inactive-days", 365, "inactivity threshold in days")
	logFile := flag.String("log-file", "", "append logs to this file in addition to stderr")
	flag.Parse()

	cfg := zap.NewProductionConfig()
	if *logFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, *logFile)
	}
	logger, err := cfg.Build()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *dsn == "" {
		logger.Fatal("missing PostgreSQL DSN (--dsn or DATABASE_URL)")
	}
	if *inactiveDays <= 0 {
		logger.Fatal("inactive-days must be positive", zap.Int("inactive_days", *inactiveDays))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, *dsn); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, *dsn)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()
	if err := db.Pool.Ping(ctx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}

	purgeSvc := service.NewPurgeService(
		db,
		postgres.NewAccountRepo(db),
		postgres.NewOrderRepo(db),
		postgres.NewCartRepo(db),
		postgres.NewDeletionLogRepo(db),
		logger,
	)

	report, err := purgeSvc.Run(ctx, time.Duration(*inactiveDays)*24*time.Hour)
	if err != nil {
		logger.Fatal("purge batch failed to start", zap.Error(err))
	}

	logger.Info("purge run complete",
		zap.Int("eligible", report.Eligible),
		zap.Int("processed", report.Processed),
		zap.Int("errors", len(report.Errors)))
}
