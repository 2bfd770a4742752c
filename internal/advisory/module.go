// Package advisory provides the AI advisory bounded context: advisor chat
// text, property recommendations, and the ROI simulator.
package advisory

import (
	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/platform/ai"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the advisory bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the advisory module.
func NewModule(pool *pgxpool.Pool, provider ai.Provider, activity ActivityRecorder, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, provider, activity, log)
	h := NewHandler(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "advisory"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts advisory tool routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/advisory")
	group.Use(ctx.RateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
