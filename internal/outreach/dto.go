package outreach

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
)

type StepRequest struct {
	DayOffset    int    `json:"dayOffset" validate:"min=0,max=365"`
	Channel      string `json:"channel" validate:"required,oneof=email whatsapp sms"`
	Subject      string `json:"subject" validate:"max=200"`
	Content      string `json:"content" validate:"required,max=5000"`
	StopOnReply  bool   `json:"stopOnReply"`
	StopOnOptOut bool   `json:"stopOnOptOut"`
}

type CreateSequenceRequest struct {
	Name          string        `json:"name" validate:"required,min=2,max=120"`
	TargetPersona string        `json:"targetPersona" validate:"required,oneof=yield-investor capital-investor end-user visa-driven explorer"`
	TargetCountry *string       `json:"targetCountry" validate:"omitempty,len=2"`
	Steps         []StepRequest `json:"steps" validate:"required,min=1,max=20,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused completed"`
}

type EnrollRequest struct {
	SequenceID uuid.UUID `json:"sequenceId" validate:"required"`
	BuyerID    uuid.UUID `json:"buyerId" validate:"required"`
}

type StepResponse struct {
	ID           string `json:"id"`
	DayOffset    int    `json:"dayOffset"`
	Channel      string `json:"channel"`
	Subject      string `json:"subject,omitempty"`
	Content      string `json:"content"`
	StopOnReply  bool   `json:"stopOnReply"`
	StopOnOptOut bool   `json:"stopOnOptOut"`
}

type SequenceResponse struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	TargetPersona string         `json:"targetPersona"`
	TargetCountry *string        `json:"targetCountry,omitempty"`
	Steps         []StepResponse `json:"steps"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type CampaignResponse struct {
	ID            uuid.UUID  `json:"id"`
	SequenceID    uuid.UUID  `json:"sequenceId"`
	BuyerID       uuid.UUID  `json:"buyerId"`
	CurrentStep   int        `json:"currentStep"`
	Status        string     `json:"status"`
	StoppedReason *string    `json:"stoppedReason,omitempty"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func mapSequence(seq Sequence) SequenceResponse {
	steps := make([]StepResponse, 0, len(seq.Steps))
	for _, s := range seq.Steps {
		steps = append(steps, StepResponse{
			ID:           s.ID,
			DayOffset:    s.DayOffset,
			Channel:      s.Channel,
			Subject:      s.Subject,
			Content:      s.Content,
			StopOnReply:  s.StopOnReply,
			StopOnOptOut: s.StopOnOptOut,
		})
	}
	return SequenceResponse{
		ID:            seq.ID,
		Name:          seq.Name,
		TargetPersona: seq.TargetPersona,
		TargetCountry: seq.TargetCountry,
		Steps:         steps,
		Status:        seq.Status,
		CreatedAt:     seq.CreatedAt,
	}
}

func mapCampaign(c Campaign) CampaignResponse {
	return CampaignResponse{
		ID:            c.ID,
		SequenceID:    c.SequenceID,
		BuyerID:       c.BuyerID,
		CurrentStep:   c.CurrentStep,
		Status:        c.Status,
		StoppedReason: c.StoppedReason,
		StartedAt:     c.StartedAt,
		CompletedAt:   c.CompletedAt,
	}
}
