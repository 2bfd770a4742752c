// Package deals provides the deal funnel bounded context module.
package deals

import (
	"yuvna_backend/internal/deals/handler"
	"yuvna_backend/internal/deals/repository"
	"yuvna_backend/internal/deals/service"
	"yuvna_backend/internal/events"
	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the deals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the deals module.
func NewModule(
	pool *pgxpool.Pool,
	engine *intelligence.Engine,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, engine, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "deals"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts deal routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	agentGroup := ctx.Agent.Group("/deals")
	m.handler.RegisterRoutes(agentGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
