// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"context"

	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// SubscribeTo registers fn for T's event name, dropping deliveries whose
// concrete type does not match.
func SubscribeTo[T Event](bus Bus, fn func(ctx context.Context, event T) error) {
	events.SubscribeTo(bus, fn)
}

// =============================================================================
// Buyer Domain Events
// =============================================================================

// BuyerCreated is published when a new buyer profile is created, either
// through onboarding or a CSV import.
type BuyerCreated struct {
	BaseEvent
	BuyerID uuid.UUID            `json:"buyerId"`
	Email   string               `json:"email"`
	Persona intelligence.Persona `json:"persona,omitempty"`
	Source  string               `json:"source,omitempty"`
}

func (e BuyerCreated) EventName() string { return "buyers.buyer.created" }

// BuyerActivityRecorded is published after an engagement activity has been
// scored against a buyer profile.
type BuyerActivityRecorded struct {
	BaseEvent
	BuyerID uuid.UUID                 `json:"buyerId"`
	Kind    intelligence.ActivityKind `json:"kind"`
	Urgency int                       `json:"urgency"`
}

func (e BuyerActivityRecorded) EventName() string { return "buyers.activity.recorded" }

// BuyerCategoryChanged is published when scoring moves a buyer between
// lead-score categories.
type BuyerCategoryChanged struct {
	BaseEvent
	BuyerID uuid.UUID             `json:"buyerId"`
	From    intelligence.Category `json:"from"`
	To      intelligence.Category `json:"to"`
}

func (e BuyerCategoryChanged) EventName() string { return "buyers.category.changed" }

// BuyerOptedOut is published when a buyer withdraws outreach consent.
type BuyerOptedOut struct {
	BaseEvent
	BuyerID uuid.UUID `json:"buyerId"`
	Reason  string    `json:"reason,omitempty"`
}

func (e BuyerOptedOut) EventName() string { return "buyers.buyer.opted_out" }

// =============================================================================
// Conversation Domain Events
// =============================================================================

// MessageReceived is published for every inbound buyer message after signal
// extraction and scoring have completed.
type MessageReceived struct {
	BaseEvent
	ConversationID uuid.UUID             `json:"conversationId"`
	BuyerID        uuid.UUID             `json:"buyerId"`
	MessageID      uuid.UUID             `json:"messageId"`
	Signals        []intelligence.Signal `json:"signals,omitempty"`
}

func (e MessageReceived) EventName() string { return "conversations.message.received" }

// ConversationEscalated is published on the normal -> escalation-pending
// edge. Subscribers use it to alert human agents.
type ConversationEscalated struct {
	BaseEvent
	ConversationID uuid.UUID             `json:"conversationId"`
	BuyerID        uuid.UUID             `json:"buyerId"`
	BuyerName      string                `json:"buyerName"`
	BuyerEmail     string                `json:"buyerEmail"`
	Signals        []intelligence.Signal `json:"signals"`
	Urgency        int                   `json:"urgency"`
	LastMessage    string                `json:"lastMessage"`
}

func (e ConversationEscalated) EventName() string { return "conversations.escalated" }

// =============================================================================
// Deal Domain Events
// =============================================================================

// DealStageChanged is published when an agent moves a deal to a new funnel
// stage.
type DealStageChanged struct {
	BaseEvent
	DealID  uuid.UUID          `json:"dealId"`
	BuyerID uuid.UUID          `json:"buyerId"`
	From    intelligence.Stage `json:"from"`
	To      intelligence.Stage `json:"to"`
	AgentID uuid.UUID          `json:"agentId"`
}

func (e DealStageChanged) EventName() string { return "deals.stage.changed" }

// =============================================================================
// Outreach Domain Events
// =============================================================================

// OutreachStepSent is published when a campaign step has been delivered.
type OutreachStepSent struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
	BuyerID    uuid.UUID `json:"buyerId"`
	Step       int       `json:"step"`
	Channel    string    `json:"channel"`
}

func (e OutreachStepSent) EventName() string { return "outreach.step.sent" }

// OutreachReplied is published when a buyer responds to an outreach
// sequence; remaining steps stop.
type OutreachReplied struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
	BuyerID    uuid.UUID `json:"buyerId"`
}

func (e OutreachReplied) EventName() string { return "outreach.replied" }
