// Command retention-server starts the HTTP API and the scheduled purge job.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eshop-ops/retention/internal/handler"
	"github.com/eshop-ops/retention/internal/limiter"
	"github.com/eshop-ops/retention/internal/migrate"
	"github.com/eshop-ops/retention/internal/repository/postgres"
	"github.com/eshop-ops/retention/internal/router"
	"github.com/eshop-ops/retention/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, starts the HTTP server and the
// nightly purge schedule.
func main() {
	// Flags
	addr := flag.String("addr", ":8080", "listen address")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (defaults to DATABASE_URL)")
	jwtKey := flag.String("jwt-key", "", "HS256 signing key (required)")
	accessTTL := flag.Duration("access-ttl", 15*time.Minute, "access token TTL")
	purgeSchedule := flag.String("purge-schedule", "0 4 * * *", "cron spec for the purge job (empty disables)")
	inactiveDays := flag.Int("inactive-days", 365, "inactivity threshold for scheduled purges, in days")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key)")
	}
	if *dsn == "" {
		logger.Fatal("missing PostgreSQL DSN (--dsn or DATABASE_URL)")
	}
	if *inactiveDays <= 0 {
		logger.Fatal("inactive-days must be positive", zap.Int("inactive_days", *inactiveDays))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, *dsn); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, *dsn)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()
	if err := db.Pool.Ping(ctx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}

	// Repositories
	accountRepo := postgres.NewAccountRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	cartRepo := postgres.NewCartRepo(db)
	deletionLog := postgres.NewDeletionLogRepo(db)

	lim := limiter.NewPGWithQuerier(db.Pool, 15*time.Minute, 5, 15*time.Minute)

	// Services
	authSvc := service.NewAuthService(accountRepo, []byte(*jwtKey), *accessTTL, lim)
	purgeSvc := service.NewPurgeService(db, accountRepo, orderRepo, cartRepo, deletionLog, logger)

	// Scheduled purge. SkipIfStillRunning keeps overlapping runs from racing
	// on the same accounts.
	sched := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))
	if *purgeSchedule != "" {
		threshold := time.Duration(*inactiveDays) * 24 * time.Hour
		_, err := sched.AddFunc(*purgeSchedule, func() {
			if _, err := purgeSvc.Run(ctx, threshold); err != nil {
				logger.Error("scheduled purge failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Fatal("invalid purge schedule", zap.String("spec", *purgeSchedule), zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("purge schedule armed",
			zap.String("spec", *purgeSchedule),
			zap.Int("inactive_days", *inactiveDays))
	}

	// HTTP server
	authHandler := handler.NewAuthHandler(authSvc, logger)
	purgeHandler := handler.NewPurgeHandler(purgeSvc, logger)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      router.SetupRoutes(authHandler, purgeHandler, []byte(*jwtKey), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
