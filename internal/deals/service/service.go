package service

import (
	"context"
	"fmt"
	"time"

	"yuvna_backend/internal/deals/repository"
	"yuvna_backend/internal/deals/transport"
	"yuvna_backend/internal/events"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/apperr"
	"yuvna_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for the deal funnel.
type Service struct {
	repo     *repository.Repository
	engine   *intelligence.Engine
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new deals service.
func New(repo *repository.Repository, engine *intelligence.Engine, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, engine: engine, eventBus: eventBus, log: log}
}

func (s *Service) Create(ctx context.Context, req transport.CreateDealRequest) (transport.DealResponse, error) {
	now := time.Now()
	deal, err := s.repo.Create(ctx, repository.Deal{
		ID:        uuid.New(),
		BuyerID:   req.BuyerID,
		Title:     req.Title,
		Stage:     string(intelligence.StageNew),
		AgentID:   req.AgentID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return transport.DealResponse{}, err
	}

	return mapDeal(deal, []repository.StageEntry{{Stage: deal.Stage, EnteredAt: now}}), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.DealResponse, error) {
	deal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DealResponse{}, err
	}

	history, err := s.repo.History(ctx, id)
	if err != nil {
		return transport.DealResponse{}, err
	}

	deal = s.healIfInconsistent(ctx, deal, history)
	return mapDeal(deal, history), nil
}

// MoveStage is operator-driven: it validates the requested transition,
// appends history, and emits DealStageChanged. Terminal stages absorb.
func (s *Service) MoveStage(ctx context.Context, id uuid.UUID, agentID uuid.UUID, req transport.MoveStageRequest) (transport.DealResponse, error) {
	deal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DealResponse{}, err
	}

	from := intelligence.Stage(deal.Stage)
	to := intelligence.Stage(req.Stage)
	if err := validateTransition(from, to); err != nil {
		return transport.DealResponse{}, err
	}

	if err := s.repo.MoveStage(ctx, id, string(from), string(to), time.Now()); err != nil {
		return transport.DealResponse{}, err
	}

	s.eventBus.Publish(ctx, events.DealStageChanged{
		BaseEvent: events.NewBaseEvent(),
		DealID:    id,
		BuyerID:   deal.BuyerID,
		From:      from,
		To:        to,
		AgentID:   agentID,
	})

	return s.Get(ctx, id)
}

// validateTransition enforces the funnel shape: terminal stages are
// absorbing, everything else may move to any other stage (operators can
// walk deals backward after a misjudged advance).
func validateTransition(from, to intelligence.Stage) error {
	if !to.Valid() {
		return apperr.Validation(fmt.Sprintf("unknown stage %q", to))
	}
	if from.Terminal() {
		return apperr.Conflict(fmt.Sprintf("deal is closed (%s) and cannot move", from))
	}
	if from == to {
		return apperr.Validation("deal is already in this stage")
	}
	return nil
}

func (s *Service) List(ctx context.Context, req transport.ListDealsRequest) ([]transport.DealSummaryResponse, error) {
	params := repository.ListParams{
		Stage:    req.Stage,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.AgentID != "" {
		agentID, err := uuid.Parse(req.AgentID)
		if err != nil {
			return nil, apperr.Validation("invalid agent id")
		}
		params.AgentID = &agentID
	}

	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]transport.DealSummaryResponse, 0, len(items))
	for _, item := range items {
		suggestion, days := s.suggestFor(item, now)
		out = append(out, transport.DealSummaryResponse{
			ID:          item.ID,
			BuyerID:     item.BuyerID,
			BuyerName:   item.BuyerName,
			Title:       item.Title,
			Stage:       item.Stage,
			Persona:     item.Persona,
			AgentID:     item.AgentID,
			DropOffRisk: string(suggestion.DropOffRisk),
			Action:      suggestion.Action,
			DaysInStage: days,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	return out, nil
}

// Suggest recomputes the next action and drop-off risk for one deal.
func (s *Service) Suggest(ctx context.Context, id uuid.UUID) (transport.SuggestionResponse, error) {
	deal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.SuggestionResponse{}, err
	}

	entry, err := s.repo.OpenStageEntry(ctx, id)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return transport.SuggestionResponse{}, err
		}
		entry = repository.StageEntry{Stage: deal.Stage, EnteredAt: deal.CreatedAt}
	}

	if entry.Stage != deal.Stage {
		deal = s.healFromEntry(ctx, deal, entry)
	}

	signalCount, err := s.repo.BuyerSignalCount(ctx, deal.BuyerID)
	if err != nil {
		return transport.SuggestionResponse{}, err
	}

	persona := intelligence.Persona("")
	if p, err := s.repo.BuyerPersona(ctx, deal.BuyerID); err == nil && p != nil {
		persona = intelligence.Persona(*p)
	}

	now := time.Now()
	days := daysSince(entry.EnteredAt, now)
	suggestion := s.engine.SuggestAction(intelligence.SuggestionInput{
		Stage:            intelligence.Stage(deal.Stage),
		Persona:          persona,
		DaysInStage:      days,
		BuyerSignalCount: signalCount,
	})

	return transport.SuggestionResponse{
		DealID:      deal.ID,
		Stage:       deal.Stage,
		Action:      suggestion.Action,
		DropOffRisk: string(suggestion.DropOffRisk),
		DaysInStage: days,
	}, nil
}

// PrimaryDealInfo implements the buyers snapshot provider.
func (s *Service) PrimaryDealInfo(ctx context.Context, buyerID uuid.UUID) (intelligence.Stage, intelligence.Risk, error) {
	deal, err := s.repo.PrimaryByBuyer(ctx, buyerID)
	if err != nil {
		return "", "", err
	}

	entry, err := s.repo.OpenStageEntry(ctx, deal.ID)
	if err != nil {
		entry = repository.StageEntry{Stage: deal.Stage, EnteredAt: deal.CreatedAt}
	}

	signalCount, err := s.repo.BuyerSignalCount(ctx, buyerID)
	if err != nil {
		signalCount = 0
	}

	suggestion := s.engine.SuggestAction(intelligence.SuggestionInput{
		Stage:            intelligence.Stage(deal.Stage),
		DaysInStage:      daysSince(entry.EnteredAt, time.Now()),
		BuyerSignalCount: signalCount,
	})
	return intelligence.Stage(deal.Stage), suggestion.DropOffRisk, nil
}

func (s *Service) suggestFor(item repository.DealSummary, now time.Time) (intelligence.Suggestion, int) {
	persona := intelligence.Persona("")
	if item.Persona != nil {
		persona = intelligence.Persona(*item.Persona)
	}
	days := daysSince(item.StageEnteredAt, now)
	return s.engine.SuggestAction(intelligence.SuggestionInput{
		Stage:            intelligence.Stage(item.Stage),
		Persona:          persona,
		DaysInStage:      days,
		BuyerSignalCount: item.BuyerSignalCount,
	}), days
}

// healIfInconsistent repairs a deal whose cached stage disagrees with the
// last history entry. History wins; the mismatch is logged.
func (s *Service) healIfInconsistent(ctx context.Context, deal repository.Deal, history []repository.StageEntry) repository.Deal {
	if len(history) == 0 {
		return deal
	}
	last := history[len(history)-1]
	if last.Stage == deal.Stage {
		return deal
	}
	return s.healFromEntry(ctx, deal, last)
}

func (s *Service) healFromEntry(ctx context.Context, deal repository.Deal, entry repository.StageEntry) repository.Deal {
	s.log.Error("deal stage inconsistent with history, healing",
		"dealId", deal.ID, "dealStage", deal.Stage, "historyStage", entry.Stage)

	if err := s.repo.HealStage(ctx, deal.ID, entry.Stage); err != nil {
		s.log.DatabaseError("heal deal stage", err)
		return deal
	}
	deal.Stage = entry.Stage
	return deal
}

func daysSince(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}
	return int(now.Sub(from).Hours() / 24)
}

func mapDeal(deal repository.Deal, history []repository.StageEntry) transport.DealResponse {
	entries := make([]transport.StageEntryResponse, 0, len(history))
	for _, e := range history {
		entries = append(entries, transport.StageEntryResponse{
			Stage:     e.Stage,
			EnteredAt: e.EnteredAt,
			ExitedAt:  e.ExitedAt,
		})
	}

	return transport.DealResponse{
		ID:           deal.ID,
		BuyerID:      deal.BuyerID,
		Title:        deal.Title,
		Stage:        deal.Stage,
		AgentID:      deal.AgentID,
		StageHistory: entries,
		CreatedAt:    deal.CreatedAt,
		UpdatedAt:    deal.UpdatedAt,
	}
}
