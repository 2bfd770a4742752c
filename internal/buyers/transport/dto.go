package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateBuyerRequest struct {
	FullName      string `json:"fullName" validate:"required,min=1,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Country       string `json:"country,omitempty" validate:"omitempty,max=120"`
	Language      string `json:"language,omitempty" validate:"omitempty,max=10"`
	Currency      string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Timezone      string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Goal          string `json:"goal,omitempty" validate:"omitempty,oneof=investment lifestyle visa exploring"`
	BudgetBand    string `json:"budgetBand,omitempty" validate:"omitempty,oneof=under-500k 500k-1m 1m-2m 2m-5m 5m-plus"`
	RiskTolerance string `json:"riskTolerance,omitempty" validate:"omitempty,oneof=conservative moderate aggressive"`
	HorizonYears  *int   `json:"horizonYears,omitempty" validate:"omitempty,gte=0,lte=50"`
	EmailConsent  bool   `json:"emailConsent"`
	WhatsAppConsent bool `json:"whatsappConsent"`
	Source        string `json:"source,omitempty" validate:"omitempty,max=50"`
}

type UpdateBuyerRequest struct {
	FullName      *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=200"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Country       *string `json:"country,omitempty" validate:"omitempty,max=120"`
	Language      *string `json:"language,omitempty" validate:"omitempty,max=10"`
	Currency      *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Timezone      *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Goal          *string `json:"goal,omitempty" validate:"omitempty,oneof=investment lifestyle visa exploring"`
	BudgetBand    *string `json:"budgetBand,omitempty" validate:"omitempty,oneof=under-500k 500k-1m 1m-2m 2m-5m 5m-plus"`
	RiskTolerance *string `json:"riskTolerance,omitempty" validate:"omitempty,oneof=conservative moderate aggressive"`
	HorizonYears  *int    `json:"horizonYears,omitempty" validate:"omitempty,gte=0,lte=50"`
	EmailConsent  *bool   `json:"emailConsent,omitempty"`
	WhatsAppConsent *bool  `json:"whatsappConsent,omitempty"`
}

type RecordActivityRequest struct {
	Kind string `json:"kind" validate:"required,oneof=roi_simulation_run recommendations_viewed tool_used session_recorded onboarding_completed"`
}

type OptOutRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type ListBuyersRequest struct {
	LeadScore string `form:"leadScore" validate:"omitempty,oneof=cold warm hot ready-to-call"`
	Persona   string `form:"persona" validate:"omitempty,max=40"`
	Search    string `form:"search" validate:"omitempty,max=200"`
	OptedOut  *bool  `form:"optedOut"`
	Page      int    `form:"page" validate:"omitempty,gte=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

type BuyerResponse struct {
	ID                uuid.UUID `json:"id"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	Phone             *string   `json:"phone,omitempty"`
	Country           *string   `json:"country,omitempty"`
	Language          string    `json:"language"`
	Currency          string    `json:"currency"`
	Timezone          *string   `json:"timezone,omitempty"`
	Goal              *string   `json:"goal,omitempty"`
	BudgetBand        *string   `json:"budgetBand,omitempty"`
	RiskTolerance     *string   `json:"riskTolerance,omitempty"`
	HorizonYears      *int      `json:"horizonYears,omitempty"`
	Persona           *string   `json:"persona,omitempty"`
	PersonaConfidence int       `json:"personaConfidence"`
	LeadScore         string    `json:"leadScore"`
	UrgencyScore      int       `json:"urgencyScore"`
	EngagementScore   int       `json:"engagementScore"`
	EmailConsent      bool      `json:"emailConsent"`
	WhatsAppConsent   bool      `json:"whatsappConsent"`
	OptedOut          bool      `json:"optedOut"`
	Source            string    `json:"source,omitempty"`
	LastActiveAt      time.Time `json:"lastActiveAt"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ListBuyersResponse struct {
	Items      []BuyerResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// RoutingSnapshot is the compact projection the agent UI uses to route a
// buyer to the right view.
type RoutingSnapshot struct {
	BuyerID         uuid.UUID `json:"buyerId"`
	LeadScore       string    `json:"leadScore"`
	Persona         *string   `json:"persona,omitempty"`
	UrgencyScore    int       `json:"urgencyScore"`
	EscalationState string    `json:"escalationState"`
	DealStage       string    `json:"dealStage"`
	DropOffRisk     string    `json:"dropOffRisk"`
}

type ImportRowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
