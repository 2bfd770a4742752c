// Package conversations provides the buyer chat bounded context module.
package conversations

import (
	"yuvna_backend/internal/conversations/handler"
	"yuvna_backend/internal/conversations/repository"
	"yuvna_backend/internal/conversations/service"
	"yuvna_backend/internal/events"
	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the conversations bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

// NewModule creates and initializes the conversations module.
func NewModule(
	pool *pgxpool.Pool,
	engine *intelligence.Engine,
	scores service.ScoreApplier,
	buyers service.BuyerDirectory,
	advisory service.AdvisoryGenerator,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, engine, scores, buyers, advisory, eventBus, log)
	h := handler.New(svc, val)
	ph := handler.NewPublicHandler(svc, val)

	return &Module{handler: h, publicHandler: ph, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "conversations"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts conversation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	publicGroup := ctx.Public.Group("/conversations")
	publicGroup.Use(ctx.RateLimiter.RateLimit())
	m.publicHandler.RegisterRoutes(publicGroup)

	agentGroup := ctx.Agent.Group("/conversations")
	m.handler.RegisterRoutes(agentGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
