package transport

import (
	"time"

	"github.com/google/uuid"
)

type StartConversationRequest struct {
	BuyerID uuid.UUID `json:"buyerId" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

type ListConversationsRequest struct {
	Status          string `form:"status" validate:"omitempty,oneof=active escalated closed"`
	EscalationState string `form:"escalationState" validate:"omitempty,oneof=normal escalation-pending escalated"`
	Page            int    `form:"page" validate:"omitempty,gte=1"`
	PageSize        int    `form:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

type MessageResponse struct {
	ID                uuid.UUID `json:"id"`
	Role              string    `json:"role"`
	Content           string    `json:"content"`
	Signals           []string  `json:"signals,omitempty"`
	EscalationTrigger bool      `json:"escalationTrigger"`
	CreatedAt         time.Time `json:"createdAt"`
}

type ConversationResponse struct {
	ID              uuid.UUID         `json:"id"`
	BuyerID         uuid.UUID         `json:"buyerId"`
	Status          string            `json:"status"`
	EscalationState string            `json:"escalationState"`
	LastMessageAt   *time.Time        `json:"lastMessageAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	Messages        []MessageResponse `json:"messages,omitempty"`
}

// SendMessageResponse carries both sides of the exchange plus the
// classification outcome. Degraded is true when the advisor text is the
// fixed fallback because the provider call failed.
type SendMessageResponse struct {
	ConversationID      uuid.UUID       `json:"conversationId"`
	BuyerMessage        MessageResponse `json:"buyerMessage"`
	AdvisorMessage      MessageResponse `json:"advisorMessage"`
	Signals             []string        `json:"signals"`
	EscalationTriggered bool            `json:"escalationTriggered"`
	EscalationState     string          `json:"escalationState"`
	LeadScore           string          `json:"leadScore"`
	UrgencyScore        int             `json:"urgencyScore"`
	Degraded            bool            `json:"degraded"`
}

type ConversationSummaryResponse struct {
	ID              uuid.UUID  `json:"id"`
	BuyerID         uuid.UUID  `json:"buyerId"`
	BuyerName       string     `json:"buyerName"`
	BuyerEmail      string     `json:"buyerEmail"`
	Status          string     `json:"status"`
	EscalationState string     `json:"escalationState"`
	LeadScore       string     `json:"leadScore"`
	UrgencyScore    int        `json:"urgencyScore"`
	LastMessageAt   *time.Time `json:"lastMessageAt,omitempty"`
}
