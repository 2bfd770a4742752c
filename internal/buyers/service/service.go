package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yuvna_backend/internal/buyers/repository"
	"yuvna_backend/internal/buyers/transport"
	"yuvna_backend/internal/events"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/apperr"
	"yuvna_backend/platform/cache"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/phone"
	"yuvna_backend/platform/sanitize"

	"github.com/google/uuid"
)

// DealInfoProvider supplies the routing snapshot with the buyer's primary
// deal position. Implemented by the deals module.
type DealInfoProvider interface {
	PrimaryDealInfo(ctx context.Context, buyerID uuid.UUID) (stage intelligence.Stage, dropOffRisk intelligence.Risk, err error)
}

// ConversationStateProvider supplies the buyer read paths with conversation
// state: the escalation state for the routing snapshot and the trailing
// message signal window the classifier honors. Implemented by the
// conversations module.
type ConversationStateProvider interface {
	EscalationState(ctx context.Context, buyerID uuid.UUID) (intelligence.EscalationState, error)
	RecentSignals(ctx context.Context, buyerIDs []uuid.UUID) (map[uuid.UUID][]intelligence.Signal, error)
}

// Service provides business logic for buyer profiles.
type Service struct {
	repo        *repository.Repository
	engine      *intelligence.Engine
	eventBus    events.Bus
	cache       *cache.Cache
	snapshotTTL time.Duration
	log         *logger.Logger

	deals         DealInfoProvider
	conversations ConversationStateProvider
}

// New creates a new buyers service. The deal and conversation providers are
// attached later via SetProviders because the modules are wired in order.
func New(repo *repository.Repository, engine *intelligence.Engine, eventBus events.Bus, snapshotCache *cache.Cache, snapshotTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		engine:      engine,
		eventBus:    eventBus,
		cache:       snapshotCache,
		snapshotTTL: snapshotTTL,
		log:         log,
	}
}

// SetProviders attaches the cross-module snapshot providers.
func (s *Service) SetProviders(deals DealInfoProvider, conversations ConversationStateProvider) {
	s.deals = deals
	s.conversations = conversations
}

func (s *Service) Create(ctx context.Context, req transport.CreateBuyerRequest) (transport.BuyerResponse, error) {
	now := time.Now()
	buyer := buildBuyer(req, now)

	persona, confidence := intelligence.AssignPersona(personaInput(buyer))
	if persona != "" {
		p := string(persona)
		buyer.Persona = &p
	}
	buyer.PersonaConfidence = confidence

	scores := intelligence.Scores{}
	if onboardingComplete(buyer) {
		scores = s.engine.ApplyActivity(scores, intelligence.ActivityOnboardingCompleted)
	}
	buyer.UrgencyScore = scores.Urgency
	buyer.EngagementScore = scores.Engagement
	buyer.LeadScore = string(s.engine.Classify(scores, nil))

	created, err := s.repo.Create(ctx, buyer)
	if err != nil {
		return transport.BuyerResponse{}, err
	}

	s.eventBus.Publish(ctx, events.BuyerCreated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   created.ID,
		Email:     created.Email,
		Persona:   persona,
		Source:    created.Source,
	})

	// A new buyer has no conversation yet, so the signal window is empty.
	return s.mapResponse(created, nil, now), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.BuyerResponse, error) {
	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BuyerResponse{}, err
	}
	return s.mapResponse(buyer, s.recentSignals(ctx, id), time.Now()), nil
}

// Identity returns the buyer's display name and email for notifications.
func (s *Service) Identity(ctx context.Context, id uuid.UUID) (string, string, error) {
	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return buyer.FullName, buyer.Email, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (transport.BuyerResponse, error) {
	buyer, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return transport.BuyerResponse{}, err
	}
	return s.mapResponse(buyer, s.recentSignals(ctx, buyer.ID), time.Now()), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateBuyerRequest) (transport.BuyerResponse, error) {
	update := repository.BuyerUpdate{
		ID:              id,
		FullName:        sanitize.TextPtr(req.FullName),
		Country:         trimmedPtr(req.Country),
		Language:        trimmedPtr(req.Language),
		Currency:        trimmedPtr(req.Currency),
		Timezone:        trimmedPtr(req.Timezone),
		Goal:            req.Goal,
		BudgetBand:      req.BudgetBand,
		RiskTolerance:   req.RiskTolerance,
		HorizonYears:    req.HorizonYears,
		EmailConsent:    req.EmailConsent,
		WhatsAppConsent: req.WhatsAppConsent,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		update.Phone = &normalized
	}

	updated, err := s.repo.Update(ctx, update)
	if err != nil {
		return transport.BuyerResponse{}, err
	}

	window := s.recentSignals(ctx, id)

	// Classification inputs may have changed; refresh the persona projection.
	if req.Goal != nil || req.BudgetBand != nil || req.RiskTolerance != nil {
		updated, err = s.reclassify(ctx, updated, window)
		if err != nil {
			return transport.BuyerResponse{}, err
		}
	}

	s.invalidateSnapshot(ctx, id)
	return s.mapResponse(updated, window, time.Now()), nil
}

// RecordActivity applies an engagement event to the buyer's scores and
// persists the reclassified projection.
func (s *Service) RecordActivity(ctx context.Context, id uuid.UUID, req transport.RecordActivityRequest) (transport.BuyerResponse, error) {
	kind := intelligence.ActivityKind(req.Kind)
	if !kind.Valid() {
		return transport.BuyerResponse{}, apperr.Validation(fmt.Sprintf("unknown activity kind %q", req.Kind))
	}

	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BuyerResponse{}, err
	}

	now := time.Now()
	before := intelligence.Category(buyer.LeadScore)

	window := s.recentSignals(ctx, id)

	// Settle decay up to now before adding the new event.
	scores := s.engine.Decayed(buyer.Scores(), buyer.LastActiveAt, now)
	scores = s.engine.ApplyActivity(scores, kind)
	buyer, err = s.persistScores(ctx, buyer, scores, window, now)
	if err != nil {
		return transport.BuyerResponse{}, err
	}

	s.eventBus.Publish(ctx, events.BuyerActivityRecorded{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   buyer.ID,
		Kind:      kind,
		Urgency:   buyer.UrgencyScore,
	})
	s.publishCategoryChange(ctx, buyer.ID, before, intelligence.Category(buyer.LeadScore))

	s.invalidateSnapshot(ctx, id)
	return s.mapResponse(buyer, window, now), nil
}

// RecordEngagement is the typed entry point other modules use to score an
// engagement event (e.g. an ROI simulation run).
func (s *Service) RecordEngagement(ctx context.Context, id uuid.UUID, kind intelligence.ActivityKind) error {
	_, err := s.RecordActivity(ctx, id, transport.RecordActivityRequest{Kind: string(kind)})
	return err
}

// ApplyMessageSignals settles decay, applies the deltas for the current
// message's signals, reclassifies against the trailing-message window, and
// persists. Called by the conversations module for each buyer message; the
// window includes the current message, which is not yet stored.
func (s *Service) ApplyMessageSignals(ctx context.Context, id uuid.UUID, signals, window []intelligence.Signal) (intelligence.Scores, intelligence.Category, error) {
	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return intelligence.Scores{}, "", err
	}

	now := time.Now()
	before := intelligence.Category(buyer.LeadScore)

	scores := s.engine.Decayed(buyer.Scores(), buyer.LastActiveAt, now)
	scores = s.engine.ApplySignals(scores, signals)
	buyer, err = s.persistScores(ctx, buyer, scores, window, now)
	if err != nil {
		return intelligence.Scores{}, "", err
	}

	category := intelligence.Category(buyer.LeadScore)
	s.publishCategoryChange(ctx, buyer.ID, before, category)
	s.invalidateSnapshot(ctx, id)
	return scores, category, nil
}

// RefreshScores settles decay for an inactive buyer without adding events.
// Used by the scheduled decay refresh so stored projections do not go stale.
func (s *Service) RefreshScores(ctx context.Context, id uuid.UUID) error {
	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	before := intelligence.Category(buyer.LeadScore)
	scores := s.engine.Decayed(buyer.Scores(), buyer.LastActiveAt, now)
	if scores == buyer.Scores() {
		return nil
	}

	persona, confidence := intelligence.AssignPersona(personaInput(buyer))
	update := repository.ScoreUpdate{
		ID:                buyer.ID,
		Persona:           personaPtr(persona),
		PersonaConfidence: confidence,
		LeadScore:         string(s.engine.Classify(scores, s.recentSignals(ctx, id))),
		UrgencyScore:      scores.Urgency,
		EngagementScore:   scores.Engagement,
		// Decay settlement is not activity; keep lastActiveAt untouched.
		LastActiveAt: buyer.LastActiveAt,
	}
	if err := s.repo.UpdateScores(ctx, update); err != nil {
		return err
	}

	s.publishCategoryChange(ctx, buyer.ID, before, intelligence.Category(update.LeadScore))
	s.invalidateSnapshot(ctx, id)
	return nil
}

// StaleBuyerIDs lists buyers needing a decay refresh.
func (s *Service) StaleBuyerIDs(ctx context.Context, inactiveFor time.Duration, limit int) ([]uuid.UUID, error) {
	buyers, err := s.repo.StaleActive(ctx, time.Now().Add(-inactiveFor), limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(buyers))
	for _, b := range buyers {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (s *Service) OptOut(ctx context.Context, id uuid.UUID, req transport.OptOutRequest) error {
	if err := s.repo.MarkOptedOut(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.BuyerOptedOut{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   id,
		Reason:    strings.TrimSpace(req.Reason),
	})
	s.invalidateSnapshot(ctx, id)
	return nil
}

func (s *Service) List(ctx context.Context, req transport.ListBuyersRequest) (transport.ListBuyersResponse, error) {
	result, err := s.repo.List(ctx, repository.ListParams{
		LeadScore: req.LeadScore,
		Persona:   req.Persona,
		Search:    strings.TrimSpace(req.Search),
		OptedOut:  req.OptedOut,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return transport.ListBuyersResponse{}, err
	}

	ids := make([]uuid.UUID, 0, len(result.Items))
	for _, b := range result.Items {
		ids = append(ids, b.ID)
	}
	windows := s.recentSignalsBatch(ctx, ids)

	now := time.Now()
	items := make([]transport.BuyerResponse, 0, len(result.Items))
	for _, b := range result.Items {
		items = append(items, s.mapResponse(b, windows[b.ID], now))
	}

	return transport.ListBuyersResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Snapshot assembles the routing projection for one buyer, served from
// redis when fresh.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (transport.RoutingSnapshot, error) {
	key := snapshotKey(id)

	var cached transport.RoutingSnapshot
	if s.cache != nil {
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RoutingSnapshot{}, err
	}

	now := time.Now()
	scores := s.engine.Decayed(buyer.Scores(), buyer.LastActiveAt, now)

	snapshot := transport.RoutingSnapshot{
		BuyerID:         buyer.ID,
		LeadScore:       string(s.engine.Classify(scores, s.recentSignals(ctx, id))),
		Persona:         buyer.Persona,
		UrgencyScore:    scores.Urgency,
		EscalationState: string(intelligence.EscalationNormal),
		DealStage:       string(intelligence.StageNew),
		DropOffRisk:     string(intelligence.RiskLow),
	}

	if s.conversations != nil {
		state, err := s.conversations.EscalationState(ctx, id)
		if err == nil {
			snapshot.EscalationState = string(state)
		}
	}
	if s.deals != nil {
		stage, risk, err := s.deals.PrimaryDealInfo(ctx, id)
		if err == nil {
			snapshot.DealStage = string(stage)
			snapshot.DropOffRisk = string(risk)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, snapshot, s.snapshotTTL); err != nil {
			s.log.Warn("snapshot cache write failed", "buyerId", id, "error", err)
		}
	}
	return snapshot, nil
}

func (s *Service) persistScores(ctx context.Context, buyer repository.Buyer, scores intelligence.Scores, recentSignals []intelligence.Signal, now time.Time) (repository.Buyer, error) {
	persona, confidence := intelligence.AssignPersona(personaInput(buyer))
	update := repository.ScoreUpdate{
		ID:                buyer.ID,
		Persona:           personaPtr(persona),
		PersonaConfidence: confidence,
		LeadScore:         string(s.engine.Classify(scores, recentSignals)),
		UrgencyScore:      scores.Urgency,
		EngagementScore:   scores.Engagement,
		LastActiveAt:      now,
	}
	if err := s.repo.UpdateScores(ctx, update); err != nil {
		return repository.Buyer{}, err
	}

	buyer.Persona = update.Persona
	buyer.PersonaConfidence = update.PersonaConfidence
	buyer.LeadScore = update.LeadScore
	buyer.UrgencyScore = update.UrgencyScore
	buyer.EngagementScore = update.EngagementScore
	buyer.LastActiveAt = update.LastActiveAt
	return buyer, nil
}

func (s *Service) reclassify(ctx context.Context, buyer repository.Buyer, recentSignals []intelligence.Signal) (repository.Buyer, error) {
	now := time.Now()
	scores := s.engine.Decayed(buyer.Scores(), buyer.LastActiveAt, now)
	return s.persistScores(ctx, buyer, scores, recentSignals, buyer.LastActiveAt)
}

func (s *Service) publishCategoryChange(ctx context.Context, id uuid.UUID, before, after intelligence.Category) {
	if before == after {
		return
	}
	s.eventBus.Publish(ctx, events.BuyerCategoryChanged{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   id,
		From:      before,
		To:        after,
	})
}

// recentSignals looks up one buyer's trailing-message signal window for
// read-path classification. Before the conversations provider is attached,
// or when the lookup fails, classification degrades to scores alone.
func (s *Service) recentSignals(ctx context.Context, id uuid.UUID) []intelligence.Signal {
	return s.recentSignalsBatch(ctx, []uuid.UUID{id})[id]
}

func (s *Service) recentSignalsBatch(ctx context.Context, ids []uuid.UUID) map[uuid.UUID][]intelligence.Signal {
	if s.conversations == nil || len(ids) == 0 {
		return nil
	}
	windows, err := s.conversations.RecentSignals(ctx, ids)
	if err != nil {
		s.log.Warn("recent signal lookup failed", "error", err)
		return nil
	}
	return windows
}

func (s *Service) invalidateSnapshot(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, snapshotKey(id)); err != nil {
		s.log.Warn("snapshot cache invalidation failed", "buyerId", id, "error", err)
	}
}

// mapResponse converts a stored buyer to the API shape, settling score decay
// at read time so the projection never looks fresher than it is. The
// classification keeps honoring the buyer's trailing-message signal window,
// not just the decayed scores, so a just-persisted ready-to-call does not
// flip back on the next read.
func (s *Service) mapResponse(b repository.Buyer, recentSignals []intelligence.Signal, now time.Time) transport.BuyerResponse {
	scores := s.engine.Decayed(b.Scores(), b.LastActiveAt, now)
	leadScore := string(s.engine.Classify(scores, recentSignals))

	return transport.BuyerResponse{
		ID:                b.ID,
		FullName:          b.FullName,
		Email:             b.Email,
		Phone:             b.Phone,
		Country:           b.Country,
		Language:          b.Language,
		Currency:          b.Currency,
		Timezone:          b.Timezone,
		Goal:              b.Goal,
		BudgetBand:        b.BudgetBand,
		RiskTolerance:     b.RiskTolerance,
		HorizonYears:      b.HorizonYears,
		Persona:           b.Persona,
		PersonaConfidence: b.PersonaConfidence,
		LeadScore:         leadScore,
		UrgencyScore:      scores.Urgency,
		EngagementScore:   scores.Engagement,
		EmailConsent:      b.EmailConsent,
		WhatsAppConsent:   b.WhatsAppConsent,
		OptedOut:          b.OptedOut,
		Source:            b.Source,
		LastActiveAt:      b.LastActiveAt,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func buildBuyer(req transport.CreateBuyerRequest, now time.Time) repository.Buyer {
	buyer := repository.Buyer{
		ID:              uuid.New(),
		FullName:        sanitize.Text(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Language:        defaultString(req.Language, "en"),
		Currency:        defaultString(strings.ToUpper(req.Currency), "AED"),
		EmailConsent:    req.EmailConsent,
		WhatsAppConsent: req.WhatsAppConsent,
		Source:          defaultString(req.Source, "onboarding"),
		LastActiveAt:    now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		buyer.Phone = &normalized
	}
	buyer.Country = optionalString(req.Country)
	buyer.Timezone = optionalString(req.Timezone)
	buyer.Goal = optionalString(req.Goal)
	buyer.BudgetBand = optionalString(req.BudgetBand)
	buyer.RiskTolerance = optionalString(req.RiskTolerance)
	buyer.HorizonYears = req.HorizonYears
	return buyer
}

func personaInput(b repository.Buyer) intelligence.PersonaInput {
	in := intelligence.PersonaInput{}
	if b.Goal != nil {
		in.Goal = intelligence.Goal(*b.Goal)
	}
	if b.BudgetBand != nil {
		in.BudgetBand = intelligence.BudgetBand(*b.BudgetBand)
	}
	if b.RiskTolerance != nil {
		in.RiskTolerance = intelligence.RiskTolerance(*b.RiskTolerance)
	}
	return in
}

// onboardingComplete reports whether the buyer finished the onboarding
// questionnaire and so earns the completion engagement delta.
func onboardingComplete(b repository.Buyer) bool {
	return b.Goal != nil && b.BudgetBand != nil && b.RiskTolerance != nil
}

func snapshotKey(id uuid.UUID) string {
	return "buyers:snapshot:" + id.String()
}

func personaPtr(p intelligence.Persona) *string {
	if p == "" {
		return nil
	}
	s := string(p)
	return &s
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func defaultString(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
