// Package buyers provides the buyer profile bounded context module.
package buyers

import (
	"yuvna_backend/internal/buyers/handler"
	"yuvna_backend/internal/buyers/repository"
	"yuvna_backend/internal/buyers/service"
	"yuvna_backend/internal/events"
	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/cache"
	"yuvna_backend/platform/config"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the buyers bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

// NewModule creates and initializes the buyers module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	engine *intelligence.Engine,
	eventBus events.Bus,
	snapshotCache *cache.Cache,
	cfg config.CacheConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, engine, eventBus, snapshotCache, cfg.GetSnapshotTTL(), log)
	h := handler.New(svc, val)
	ph := handler.NewPublicHandler(svc, val)

	return &Module{handler: h, publicHandler: ph, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "buyers"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts buyer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Buyer-facing intake is public but rate limited.
	publicGroup := ctx.Public.Group("/buyers")
	publicGroup.Use(ctx.RateLimiter.RateLimit())
	m.publicHandler.RegisterRoutes(publicGroup)

	agentGroup := ctx.Agent.Group("/buyers")
	m.handler.RegisterRoutes(agentGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
