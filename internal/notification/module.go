package notification

import (
	"context"
	"time"

	"yuvna_backend/internal/events"
	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/config"
	"yuvna_backend/platform/logger"

	"github.com/google/uuid"
)

// ProfileFunc resolves the lead score and persona for a buyer at handoff
// time. Wired to the buyers service in main.
type ProfileFunc func(ctx context.Context, buyerID uuid.UUID) (leadScore, persona string, err error)

// Module listens for escalations and mails the handoff inbox. Delivery is
// best effort: the escalation itself is already persisted, so a mail failure
// only costs the alert, never the state change.
type Module struct {
	sender  Sender
	inbox   string
	profile ProfileFunc
	log     *logger.Logger
}

func NewModule(cfg config.EmailConfig, sender Sender, eventBus events.Bus, profile ProfileFunc, log *logger.Logger) *Module {
	m := &Module{
		sender:  sender,
		inbox:   cfg.GetHandoffInboxAddress(),
		profile: profile,
		log:     log,
	}

	if eventBus != nil {
		events.SubscribeTo(eventBus, m.onEscalated)
	}
	return m
}

func (m *Module) onEscalated(ctx context.Context, event events.ConversationEscalated) error {
	if m.inbox == "" {
		return nil
	}

	leadScore, persona := "", ""
	if m.profile != nil {
		var err error
		leadScore, persona, err = m.profile(ctx, event.BuyerID)
		if err != nil {
			m.log.Warn("handoff profile lookup failed", "buyer_id", event.BuyerID, "error", err)
		}
	}

	data := HandoffData{
		BuyerName:    event.BuyerName,
		BuyerEmail:   event.BuyerEmail,
		LeadScore:    leadScore,
		UrgencyScore: event.Urgency,
		Persona:      persona,
		Signals:      signalNames(event.Signals),
		LastMessage:  event.LastMessage,
		Opener:       handoffOpener(event.Signals),
		EscalatedAt:  time.Now(),
	}

	if err := m.sender.SendHandoffEmail(ctx, m.inbox, data); err != nil {
		m.log.Error("handoff email failed", "buyer_id", event.BuyerID, "error", err)
	}
	return nil
}

// handoffOpener suggests a first line for the agent based on the strongest
// intent signal in the message.
func handoffOpener(signals []intelligence.Signal) string {
	set := make(map[intelligence.Signal]bool, len(signals))
	for _, s := range signals {
		set[s] = true
	}

	switch {
	case set[intelligence.SignalCallRequest]:
		return "They asked to speak with someone. Offer a call slot today and confirm their preferred time."
	case set[intelligence.SignalBookingIntent]:
		return "They are ready to book. Lead with two concrete viewing times this week."
	case set[intelligence.SignalPlanningVisit]:
		return "They are planning a visit. Ask for their travel dates and propose an itinerary of viewings."
	default:
		return ""
	}
}

func signalNames(signals []intelligence.Signal) []string {
	names := make([]string, 0, len(signals))
	for _, s := range signals {
		names = append(names, string(s))
	}
	return names
}
