// Package agents handles human agent authentication and the agent directory
// used for deal assignment.
package agents

import (
	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/platform/config"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the agents bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the agents module.
func NewModule(pool *pgxpool.Pool, cfg config.JWTConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, cfg, log)
	return &Module{handler: NewHandler(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agents"
}

// RegisterRoutes mounts login on the public group and the directory on the
// authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	auth := ctx.Public.Group("/auth")
	auth.Use(ctx.RateLimiter.RateLimit())
	m.handler.RegisterAuthRoutes(auth)

	m.handler.RegisterRoutes(ctx.Agent.Group("/agents"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
