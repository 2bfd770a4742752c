package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yuvna_backend/internal/advisory"
	"yuvna_backend/internal/agents"
	"yuvna_backend/internal/buyers"
	"yuvna_backend/internal/conversations"
	"yuvna_backend/internal/deals"
	"yuvna_backend/internal/events"
	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/internal/http/router"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/internal/notification"
	"yuvna_backend/internal/outreach"
	"yuvna_backend/migrations"
	"yuvna_backend/platform/ai"
	"yuvna_backend/platform/cache"
	"yuvna_backend/platform/config"
	"yuvna_backend/platform/db"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Snapshot cache is optional: routing snapshots fall back to the
	// database when redis is unavailable.
	snapshotCache, err := cache.New(cfg.GetRedisURL())
	if err != nil {
		log.Warn("snapshot cache unavailable, serving snapshots uncached", "error", err)
		snapshotCache = nil
	} else {
		defer snapshotCache.Close()
	}

	// AI provider is optional: advisory falls back to canned text.
	provider, err := ai.FromConfig(ctx, cfg)
	if err != nil {
		log.Warn("ai provider unavailable, advisory running degraded", "error", err)
		provider = nil
	}

	policy, err := intelligence.LoadPolicy(cfg.GetPolicyPath())
	if err != nil {
		log.Error("failed to load scoring policy", "error", err)
		panic("failed to load scoring policy: " + err.Error())
	}
	engine := intelligence.NewEngine(policy)

	sender := notification.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	buyersModule := buyers.NewModule(pool, engine, eventBus, snapshotCache, cfg, val, log)
	dealsModule := deals.NewModule(pool, engine, eventBus, val, log)
	advisoryModule := advisory.NewModule(pool, provider, buyersModule.Service(), val, log)
	conversationsModule := conversations.NewModule(
		pool, engine,
		buyersModule.Service(), buyersModule.Service(), advisoryModule.Service(),
		eventBus, val, log,
	)
	outreachModule := outreach.NewModule(pool, sender, eventBus, val, log)
	agentsModule := agents.NewModule(pool, cfg, val, log)

	// Routing snapshot providers (breaks circular dependencies)
	buyersModule.Service().SetProviders(dealsModule.Service(), conversationsModule.Service())

	// Handoff alerting subscribes to escalation events (not HTTP-facing)
	notification.NewModule(cfg, sender, eventBus, handoffProfile(buyersModule), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:      cfg,
		Logger:      log,
		Health:      pool,
		AIProviders: ai.Configured(cfg),
		EventBus:    eventBus,
		Modules: []apphttp.Module{
			agentsModule,
			buyersModule,
			conversationsModule,
			dealsModule,
			advisoryModule,
			outreachModule,
		},
	}

	engineHTTP := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engineHTTP.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// handoffProfile resolves lead score and persona for handoff emails via the
// buyers module.
func handoffProfile(m *buyers.Module) notification.ProfileFunc {
	return func(ctx context.Context, buyerID uuid.UUID) (string, string, error) {
		buyer, err := m.Service().GetByID(ctx, buyerID)
		if err != nil {
			return "", "", err
		}
		persona := ""
		if buyer.Persona != nil {
			persona = *buyer.Persona
		}
		return buyer.LeadScore, persona, nil
	}
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
