package service

import (
	"context"
	"time"

	"yuvna_backend/internal/conversations/repository"
	"yuvna_backend/internal/conversations/transport"
	"yuvna_backend/internal/events"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/ai"
	"yuvna_backend/platform/apperr"
	"yuvna_backend/platform/logger"
	"yuvna_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	statusActive    = "active"
	statusEscalated = "escalated"
	statusClosed    = "closed"
)

// ScoreApplier settles and persists score changes for a buyer. Implemented
// by the buyers service.
type ScoreApplier interface {
	ApplyMessageSignals(ctx context.Context, buyerID uuid.UUID, signals, window []intelligence.Signal) (intelligence.Scores, intelligence.Category, error)
}

// BuyerDirectory resolves buyer identity for escalation notifications.
type BuyerDirectory interface {
	Identity(ctx context.Context, buyerID uuid.UUID) (name, email string, err error)
}

// AdvisoryGenerator produces the advisor reply text. Implemented by the
// advisory module; must never return an error, only degraded fallback text.
type AdvisoryGenerator interface {
	GenerateAdvisory(ctx context.Context, buyerID uuid.UUID, history []ai.Message, userMessage string) (text string, degraded bool)
}

// Service provides business logic for buyer conversations.
type Service struct {
	repo     *repository.Repository
	engine   *intelligence.Engine
	scores   ScoreApplier
	buyers   BuyerDirectory
	advisory AdvisoryGenerator
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new conversations service.
func New(repo *repository.Repository, engine *intelligence.Engine, scores ScoreApplier, buyers BuyerDirectory, advisory AdvisoryGenerator, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		engine:   engine,
		scores:   scores,
		buyers:   buyers,
		advisory: advisory,
		eventBus: eventBus,
		log:      log,
	}
}

// Start opens a conversation for a buyer, reusing an active one if present.
func (s *Service) Start(ctx context.Context, req transport.StartConversationRequest) (transport.ConversationResponse, error) {
	if existing, err := s.repo.ActiveByBuyer(ctx, req.BuyerID); err == nil {
		return mapConversation(existing, nil), nil
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return transport.ConversationResponse{}, err
	}

	now := time.Now()
	conv, err := s.repo.CreateConversation(ctx, repository.Conversation{
		ID:              uuid.New(),
		BuyerID:         req.BuyerID,
		Status:          statusActive,
		EscalationState: string(intelligence.EscalationNormal),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return transport.ConversationResponse{}, err
	}
	return mapConversation(conv, nil), nil
}

// SendMessage runs the full intake pipeline for one buyer message:
// extract signals, settle and apply scores, classify, evaluate escalation,
// generate the advisor reply, and persist the exchange with its audit trail.
func (s *Service) SendMessage(ctx context.Context, convID uuid.UUID, req transport.SendMessageRequest) (transport.SendMessageResponse, error) {
	conv, err := s.repo.GetConversation(ctx, convID)
	if err != nil {
		return transport.SendMessageResponse{}, err
	}
	if conv.Status == statusClosed {
		return transport.SendMessageResponse{}, apperr.Conflict("conversation is closed")
	}

	content := sanitize.Text(req.Content)
	if content == "" {
		return transport.SendMessageResponse{}, apperr.Validation("message content is empty")
	}

	signals := s.extractSignals(convID, content)
	window := s.signalWindow(ctx, conv.BuyerID, signals)

	scores, category, err := s.scores.ApplyMessageSignals(ctx, conv.BuyerID, signals, window)
	if err != nil {
		return transport.SendMessageResponse{}, err
	}

	history, err := s.repo.Messages(ctx, convID, 10)
	if err != nil {
		s.log.Warn("conversation history unavailable for advisory", "conversationId", convID, "error", err)
		history = nil
	}

	advisorText, degraded := s.advisory.GenerateAdvisory(ctx, conv.BuyerID, historyTurns(history), content)

	now := time.Now()
	buyerMsg := repository.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		Role:           "buyer",
		Content:        content,
		Signals:        signalStrings(signals),
		CreatedAt:      now,
	}
	advisorMsg := repository.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		Role:           "advisor",
		Content:        advisorText,
		CreatedAt:      now.Add(time.Millisecond),
	}

	// The transition is decided under the per-conversation lock, against the
	// committed state, so overlapping sends see each other's escalations.
	var fromState intelligence.EscalationState
	newStateStr, triggered, err := s.repo.AppendExchange(ctx, convID, buyerMsg, advisorMsg, s.escalationDecider(signals, &fromState))
	if err != nil {
		return transport.SendMessageResponse{}, err
	}
	newState := intelligence.EscalationState(newStateStr)
	buyerMsg.EscalationTrigger = triggered

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.MessageReceived{
			BaseEvent:      events.NewBaseEvent(),
			ConversationID: convID,
			BuyerID:        conv.BuyerID,
			MessageID:      buyerMsg.ID,
			Signals:        signals,
		})
	}

	if triggered {
		s.log.EscalationEvent(convID.String(), string(fromState), string(newState), "signal match")
		s.publishEscalation(ctx, conv, signals, scores, content)
	}

	return transport.SendMessageResponse{
		ConversationID:      convID,
		BuyerMessage:        mapMessage(buyerMsg),
		AdvisorMessage:      mapMessage(advisorMsg),
		Signals:             signalStrings(signals),
		EscalationTriggered: triggered,
		EscalationState:     string(newState),
		LeadScore:           string(category),
		UrgencyScore:        scores.Urgency,
		Degraded:            degraded,
	}, nil
}

// extractSignals guards the pure extractor so a malformed message can never
// block the conversation; on panic the message simply carries no signals.
func (s *Service) extractSignals(convID uuid.UUID, content string) (signals []intelligence.Signal) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("signal extraction failed", "conversationId", convID, "panic", r)
			signals = nil
		}
	}()
	return intelligence.ExtractSignals(content)
}

// escalationDecider builds the callback AppendExchange evaluates under the
// per-conversation lock. It records the state the decision was made against
// in from, for the escalation audit log.
func (s *Service) escalationDecider(signals []intelligence.Signal, from *intelligence.EscalationState) repository.EscalationDecider {
	return func(current string) (string, bool) {
		*from = intelligence.EscalationState(current)
		next, triggered := s.engine.EvaluateEscalation(*from, signals)
		return string(next), triggered
	}
}

// Get returns a conversation with its message history.
func (s *Service) Get(ctx context.Context, convID uuid.UUID) (transport.ConversationResponse, error) {
	conv, err := s.repo.GetConversation(ctx, convID)
	if err != nil {
		return transport.ConversationResponse{}, err
	}
	history, err := s.history(ctx, convID, 100)
	if err != nil {
		return transport.ConversationResponse{}, err
	}
	return mapConversation(conv, history), nil
}

func (s *Service) List(ctx context.Context, req transport.ListConversationsRequest) ([]transport.ConversationSummaryResponse, error) {
	items, err := s.repo.List(ctx, repository.ListParams{
		Status:          req.Status,
		EscalationState: req.EscalationState,
		Page:            req.Page,
		PageSize:        req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	out := make([]transport.ConversationSummaryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, transport.ConversationSummaryResponse{
			ID:              item.ID,
			BuyerID:         item.BuyerID,
			BuyerName:       item.BuyerName,
			BuyerEmail:      item.BuyerEmail,
			Status:          item.Status,
			EscalationState: item.EscalationState,
			LeadScore:       item.LeadScore,
			UrgencyScore:    item.UrgencyScore,
			LastMessageAt:   item.LastMessageAt,
		})
	}
	return out, nil
}

// ConfirmEscalation records that a human handoff happened.
func (s *Service) ConfirmEscalation(ctx context.Context, convID uuid.UUID) error {
	return s.transition(ctx, convID, intelligence.ConfirmEscalation, statusEscalated)
}

// DismissEscalation returns a pending conversation to normal handling.
func (s *Service) DismissEscalation(ctx context.Context, convID uuid.UUID) error {
	return s.transition(ctx, convID, intelligence.DismissEscalation, statusActive)
}

// ResetEscalation re-arms automatic evaluation after a handled escalation.
func (s *Service) ResetEscalation(ctx context.Context, convID uuid.UUID) error {
	return s.transition(ctx, convID, intelligence.ResetEscalation, statusActive)
}

func (s *Service) transition(ctx context.Context, convID uuid.UUID, apply func(intelligence.EscalationState) (intelligence.EscalationState, error), status string) error {
	conv, err := s.repo.GetConversation(ctx, convID)
	if err != nil {
		return err
	}

	next, err := apply(intelligence.EscalationState(conv.EscalationState))
	if err != nil {
		return apperr.Conflict(err.Error())
	}

	if err := s.repo.UpdateEscalationState(ctx, convID, string(next), status); err != nil {
		return err
	}
	s.log.EscalationEvent(convID.String(), conv.EscalationState, string(next), "operator action")
	return nil
}

// EscalationState implements the buyers snapshot provider.
func (s *Service) EscalationState(ctx context.Context, buyerID uuid.UUID) (intelligence.EscalationState, error) {
	state, err := s.repo.LatestEscalationState(ctx, buyerID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return intelligence.EscalationNormal, nil
		}
		return "", err
	}
	return intelligence.EscalationState(state), nil
}

// RecentSignals implements the buyers read-path provider: per buyer, the
// signals observed on the trailing message window the classifier honors.
func (s *Service) RecentSignals(ctx context.Context, buyerIDs []uuid.UUID) (map[uuid.UUID][]intelligence.Signal, error) {
	raw, err := s.repo.RecentBuyerSignals(ctx, buyerIDs, s.engine.Policy().RecentMessageWindow)
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID][]intelligence.Signal, len(raw))
	for id, names := range raw {
		result[id] = parseSignals(names)
	}
	return result, nil
}

// signalWindow widens the current message's signals with those stored on the
// preceding messages, capped at the classifier's trailing-message window. The
// current message is not persisted yet, so it contributes directly and the
// lookup covers one message fewer.
func (s *Service) signalWindow(ctx context.Context, buyerID uuid.UUID, current []intelligence.Signal) []intelligence.Signal {
	windowSize := s.engine.Policy().RecentMessageWindow
	if windowSize <= 1 {
		return current
	}

	prev, err := s.repo.RecentBuyerSignals(ctx, []uuid.UUID{buyerID}, windowSize-1)
	if err != nil {
		s.log.Warn("recent signal lookup failed", "buyerId", buyerID, "error", err)
		return current
	}

	window := append([]intelligence.Signal(nil), current...)
	return append(window, parseSignals(prev[buyerID])...)
}

func (s *Service) history(ctx context.Context, convID uuid.UUID, limit int) ([]transport.MessageResponse, error) {
	messages, err := s.repo.Messages(ctx, convID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]transport.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, mapMessage(m))
	}
	return out, nil
}

func (s *Service) publishEscalation(ctx context.Context, conv repository.Conversation, signals []intelligence.Signal, scores intelligence.Scores, lastMessage string) {
	name, email, err := s.buyers.Identity(ctx, conv.BuyerID)
	if err != nil {
		s.log.Warn("buyer identity unavailable for escalation event", "buyerId", conv.BuyerID, "error", err)
	}

	s.eventBus.Publish(ctx, events.ConversationEscalated{
		BaseEvent:      events.NewBaseEvent(),
		ConversationID: conv.ID,
		BuyerID:        conv.BuyerID,
		BuyerName:      name,
		BuyerEmail:     email,
		Signals:        signals,
		Urgency:        scores.Urgency,
		LastMessage:    lastMessage,
	})
}

func mapConversation(conv repository.Conversation, messages []transport.MessageResponse) transport.ConversationResponse {
	return transport.ConversationResponse{
		ID:              conv.ID,
		BuyerID:         conv.BuyerID,
		Status:          conv.Status,
		EscalationState: conv.EscalationState,
		LastMessageAt:   conv.LastMessageAt,
		CreatedAt:       conv.CreatedAt,
		Messages:        messages,
	}
}

func mapMessage(m repository.Message) transport.MessageResponse {
	return transport.MessageResponse{
		ID:                m.ID,
		Role:              m.Role,
		Content:           m.Content,
		Signals:           m.Signals,
		EscalationTrigger: m.EscalationTrigger,
		CreatedAt:         m.CreatedAt,
	}
}

// historyTurns converts stored messages to provider turns. System messages
// are skipped; the advisory module owns the system prompt.
func historyTurns(messages []repository.Message) []ai.Message {
	turns := make([]ai.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "buyer":
			turns = append(turns, ai.Message{Role: ai.RoleUser, Content: m.Content})
		case "advisor":
			turns = append(turns, ai.Message{Role: ai.RoleAssistant, Content: m.Content})
		}
	}
	return turns
}

func signalStrings(signals []intelligence.Signal) []string {
	if len(signals) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(signals))
	for _, sig := range signals {
		out = append(out, string(sig))
	}
	return out
}

func parseSignals(names []string) []intelligence.Signal {
	if len(names) == 0 {
		return nil
	}
	out := make([]intelligence.Signal, 0, len(names))
	for _, n := range names {
		out = append(out, intelligence.Signal(n))
	}
	return out
}
