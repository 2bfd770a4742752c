// Package outreach runs automated nurture sequences: persona-targeted step
// templates enrolled per buyer, dispatched on a day-offset schedule and
// stopped on reply or opt-out.
package outreach

import (
	"context"

	"yuvna_backend/internal/events"
	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the outreach bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates the outreach module and subscribes it to the events
// that stop running campaigns.
func NewModule(pool *pgxpool.Pool, sender StepSender, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, sender, eventBus, log)
	h := NewHandler(svc, val)

	if eventBus != nil {
		events.SubscribeTo(eventBus, func(ctx context.Context, event events.BuyerOptedOut) error {
			return svc.HandleOptOut(ctx, event.BuyerID)
		})
		events.SubscribeTo(eventBus, func(ctx context.Context, event events.MessageReceived) error {
			return svc.RecordReply(ctx, event.BuyerID)
		})
	}

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "outreach"
}

// Service returns the service layer for the scheduler worker.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts agent-facing outreach routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Agent.Group("/outreach"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
