package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateDealRequest struct {
	BuyerID uuid.UUID  `json:"buyerId" validate:"required"`
	Title   string     `json:"title" validate:"required,min=1,max=200"`
	AgentID *uuid.UUID `json:"agentId,omitempty"`
}

type MoveStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=new qualified advisory site-visit booking closed-won closed-lost"`
}

type ListDealsRequest struct {
	Stage    string `form:"stage" validate:"omitempty,oneof=new qualified advisory site-visit booking closed-won closed-lost"`
	AgentID  string `form:"agentId" validate:"omitempty,uuid"`
	Page     int    `form:"page" validate:"omitempty,gte=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,gte=1,lte=200"`
}

type StageEntryResponse struct {
	Stage     string     `json:"stage"`
	EnteredAt time.Time  `json:"enteredAt"`
	ExitedAt  *time.Time `json:"exitedAt,omitempty"`
}

type DealResponse struct {
	ID           uuid.UUID            `json:"id"`
	BuyerID      uuid.UUID            `json:"buyerId"`
	Title        string               `json:"title"`
	Stage        string               `json:"stage"`
	AgentID      *uuid.UUID           `json:"agentId,omitempty"`
	StageHistory []StageEntryResponse `json:"stageHistory,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// SuggestionResponse is the advisor's recommendation for one deal.
type SuggestionResponse struct {
	DealID      uuid.UUID `json:"dealId"`
	Stage       string    `json:"stage"`
	Action      string    `json:"action"`
	DropOffRisk string    `json:"dropOffRisk"`
	DaysInStage int       `json:"daysInStage"`
}

type DealSummaryResponse struct {
	ID          uuid.UUID  `json:"id"`
	BuyerID     uuid.UUID  `json:"buyerId"`
	BuyerName   string     `json:"buyerName"`
	Title       string     `json:"title"`
	Stage       string     `json:"stage"`
	Persona     *string    `json:"persona,omitempty"`
	AgentID     *uuid.UUID `json:"agentId,omitempty"`
	DropOffRisk string     `json:"dropOffRisk"`
	Action      string     `json:"action"`
	DaysInStage int        `json:"daysInStage"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
