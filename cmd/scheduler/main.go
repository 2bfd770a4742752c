package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	buyersrepo "yuvna_backend/internal/buyers/repository"
	buyersservice "yuvna_backend/internal/buyers/service"
	"yuvna_backend/internal/events"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/internal/notification"
	"yuvna_backend/internal/outreach"
	"yuvna_backend/internal/scheduler"
	"yuvna_backend/platform/cache"
	"yuvna_backend/platform/config"
	"yuvna_backend/platform/db"
	"yuvna_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	snapshotCache, err := cache.New(cfg.GetRedisURL())
	if err != nil {
		log.Warn("snapshot cache unavailable", "error", err)
		snapshotCache = nil
	} else {
		defer snapshotCache.Close()
	}

	policy, err := intelligence.LoadPolicy(cfg.GetPolicyPath())
	if err != nil {
		log.Error("failed to load scoring policy", "error", err)
		panic("failed to load scoring policy: " + err.Error())
	}
	engine := intelligence.NewEngine(policy)

	// Worker-side wiring; no HTTP handlers required.
	buyersSvc := buyersservice.New(buyersrepo.New(pool), engine, eventBus, snapshotCache, cfg.GetSnapshotTTL(), log)
	sender := notification.NewSender(cfg)
	outreachSvc := outreach.NewService(outreach.NewRepository(pool), sender, eventBus, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	sweeper := scheduler.NewSweeper(buyersSvc, client, engine.Policy().Decay.GraceDays, log)
	go sweeper.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, buyersSvc, outreachSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
