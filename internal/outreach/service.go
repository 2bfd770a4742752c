package outreach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yuvna_backend/internal/events"
	"yuvna_backend/platform/apperr"
	"yuvna_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
	StatusStopped   = "stopped"

	stopReasonReply     = "replied"
	stopReasonOptOut    = "opted-out"
	stopReasonNoConsent = "no-email-consent"

	dispatchConcurrency = 8
)

// StepSender delivers one outreach message over a channel. Only the email
// channel has a live transport today; whatsapp and sms steps are logged and
// skipped until those integrations land.
type StepSender interface {
	SendOutreachStep(ctx context.Context, to, name, subject, body string) error
}

type Service struct {
	repo     *Repository
	sender   StepSender
	eventBus events.Bus
	log      *logger.Logger
}

func NewService(repo *Repository, sender StepSender, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, eventBus: eventBus, log: log}
}

// CreateSequence validates and stores a new step template.
func (s *Service) CreateSequence(ctx context.Context, req CreateSequenceRequest) (SequenceResponse, error) {
	if err := validateSteps(req.Steps); err != nil {
		return SequenceResponse{}, err
	}

	seq := Sequence{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		TargetPersona: req.TargetPersona,
		TargetCountry: req.TargetCountry,
		Steps:         stepsFromRequest(req.Steps),
		Status:        StatusActive,
		CreatedAt:     time.Now(),
	}

	created, err := s.repo.CreateSequence(ctx, seq)
	if err != nil {
		return SequenceResponse{}, err
	}
	return mapSequence(created), nil
}

func (s *Service) ListSequences(ctx context.Context) ([]SequenceResponse, error) {
	sequences, err := s.repo.ListSequences(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SequenceResponse, 0, len(sequences))
	for _, seq := range sequences {
		out = append(out, mapSequence(seq))
	}
	return out, nil
}

func (s *Service) SetSequenceStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != StatusActive && status != StatusPaused && status != StatusCompleted {
		return apperr.Validation("invalid sequence status")
	}
	return s.repo.UpdateSequenceStatus(ctx, id, status)
}

// Enroll starts a campaign running a sequence against one buyer.
func (s *Service) Enroll(ctx context.Context, sequenceID, buyerID uuid.UUID) (CampaignResponse, error) {
	seq, err := s.repo.GetSequence(ctx, sequenceID)
	if err != nil {
		return CampaignResponse{}, err
	}
	if seq.Status != StatusActive {
		return CampaignResponse{}, apperr.Conflict("sequence is not active")
	}

	existing, err := s.repo.CampaignsByBuyer(ctx, buyerID)
	if err != nil {
		return CampaignResponse{}, err
	}
	for _, c := range existing {
		if c.SequenceID == sequenceID && c.Status == StatusActive {
			return CampaignResponse{}, apperr.Conflict("buyer is already enrolled in this sequence")
		}
	}

	campaign := Campaign{
		ID:         uuid.New(),
		SequenceID: sequenceID,
		BuyerID:    buyerID,
		Status:     StatusActive,
		StartedAt:  time.Now(),
	}
	created, err := s.repo.CreateCampaign(ctx, campaign)
	if err != nil {
		return CampaignResponse{}, err
	}
	return mapCampaign(created), nil
}

func (s *Service) CampaignsByBuyer(ctx context.Context, buyerID uuid.UUID) ([]CampaignResponse, error) {
	campaigns, err := s.repo.CampaignsByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	out := make([]CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, mapCampaign(c))
	}
	return out, nil
}

func (s *Service) SetCampaignStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != StatusActive && status != StatusPaused {
		return apperr.Validation("campaigns can only be paused or resumed")
	}
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if campaign.Status == StatusCompleted || campaign.Status == StatusStopped {
		return apperr.Conflict("campaign has already finished")
	}
	return s.repo.SetCampaignStatus(ctx, id, status)
}

// RecordReply stops every campaign whose pending step asks to stop on reply.
// Called when a buyer message arrives in a conversation.
func (s *Service) RecordReply(ctx context.Context, buyerID uuid.UUID) error {
	campaigns, err := s.repo.CampaignsByBuyer(ctx, buyerID)
	if err != nil {
		return err
	}

	for _, c := range campaigns {
		if c.Status != StatusActive {
			continue
		}
		seq, err := s.repo.GetSequence(ctx, c.SequenceID)
		if err != nil {
			return err
		}
		if !stopOnReply(seq.Steps, c.CurrentStep) {
			continue
		}
		if _, err := s.repo.StopCampaignsForBuyer(ctx, buyerID, stopReasonReply); err != nil {
			return err
		}
		s.publish(events.OutreachReplied{
			BaseEvent:  events.NewBaseEvent(),
			CampaignID: c.ID,
			BuyerID:    buyerID,
		})
		s.log.Info("outreach campaign stopped on reply", "campaign_id", c.ID, "buyer_id", buyerID)
		break
	}
	return nil
}

// HandleOptOut stops all campaigns for the buyer regardless of step flags.
// A global opt-out always wins over a step's stopOnOptOut setting.
func (s *Service) HandleOptOut(ctx context.Context, buyerID uuid.UUID) error {
	ids, err := s.repo.StopCampaignsForBuyer(ctx, buyerID, stopReasonOptOut)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		s.log.Info("outreach campaigns stopped on opt-out", "buyer_id", buyerID, "count", len(ids))
	}
	return nil
}

// DispatchDueSteps delivers every step whose day offset has elapsed. The
// scheduler invokes it on a fixed cadence; campaigns are processed
// concurrently and one failed delivery does not block the rest.
func (s *Service) DispatchDueSteps(ctx context.Context) (int, error) {
	campaigns, err := s.repo.ActiveCampaigns(ctx, 500)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)

	sent := make(chan int, len(campaigns))
	for _, campaign := range campaigns {
		campaign := campaign
		g.Go(func() error {
			n, err := s.dispatchCampaign(gctx, campaign)
			if err != nil {
				s.log.Error("outreach dispatch failed", "campaign_id", campaign.ID, "error", err)
				return nil
			}
			sent <- n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	close(sent)

	total := 0
	for n := range sent {
		total += n
	}
	return total, nil
}

func (s *Service) dispatchCampaign(ctx context.Context, campaign ActiveCampaign) (int, error) {
	seq, err := s.repo.GetSequence(ctx, campaign.SequenceID)
	if err != nil {
		return 0, err
	}
	if seq.Status != StatusActive {
		return 0, nil
	}

	sent := 0
	for campaign.CurrentStep < len(seq.Steps) {
		step := seq.Steps[campaign.CurrentStep]
		if !stepDue(campaign.StartedAt, step, time.Now()) {
			break
		}

		if campaign.OptedOut {
			_, err := s.repo.StopCampaignsForBuyer(ctx, campaign.BuyerID, stopReasonOptOut)
			return sent, err
		}
		if step.Channel == ChannelEmail && !campaign.EmailConsent {
			_, err := s.repo.StopCampaignsForBuyer(ctx, campaign.BuyerID, stopReasonNoConsent)
			return sent, err
		}

		if err := s.deliver(ctx, campaign, step); err != nil {
			return sent, err
		}
		if err := s.repo.RecordSend(ctx, campaign.ID, step.ID, time.Now()); err != nil {
			return sent, err
		}

		next := campaign.CurrentStep + 1
		completed := next >= len(seq.Steps)
		if err := s.repo.AdvanceCampaign(ctx, campaign.ID, next, completed); err != nil {
			return sent, err
		}
		sent++

		s.publish(events.OutreachStepSent{
			BaseEvent:  events.NewBaseEvent(),
			CampaignID: campaign.ID,
			BuyerID:    campaign.BuyerID,
			Step:       campaign.CurrentStep,
			Channel:    step.Channel,
		})
		campaign.CurrentStep = next

		if completed {
			break
		}
	}
	return sent, nil
}

func (s *Service) deliver(ctx context.Context, campaign ActiveCampaign, step Step) error {
	body := personalize(step.Content, campaign.BuyerName)
	subject := personalize(step.Subject, campaign.BuyerName)

	switch step.Channel {
	case ChannelEmail:
		if s.sender == nil {
			return fmt.Errorf("no email sender configured")
		}
		return s.sender.SendOutreachStep(ctx, campaign.BuyerEmail, campaign.BuyerName, subject, body)
	case ChannelWhatsApp, ChannelSMS:
		// No live transport yet; the step still advances so the sequence
		// timeline stays intact.
		s.log.Info("outreach step skipped, channel not wired",
			"campaign_id", campaign.ID, "channel", step.Channel, "step_id", step.ID)
		return nil
	default:
		return fmt.Errorf("unknown channel %q", step.Channel)
	}
}

func (s *Service) publish(event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(context.Background(), event)
}

// stepDue reports whether the step's day offset has elapsed since enrollment.
func stepDue(startedAt time.Time, step Step, now time.Time) bool {
	due := startedAt.AddDate(0, 0, step.DayOffset)
	return !now.Before(due)
}

// stopOnReply checks the most recently sent step, falling back to the first
// step when nothing has shipped yet.
func stopOnReply(steps []Step, currentStep int) bool {
	idx := currentStep - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(steps) {
		return false
	}
	return steps[idx].StopOnReply
}

func personalize(template, name string) string {
	first := name
	if i := strings.IndexByte(name, ' '); i > 0 {
		first = name[:i]
	}
	replacer := strings.NewReplacer(
		"{{name}}", name,
		"{{firstName}}", first,
	)
	return replacer.Replace(template)
}

func validateSteps(steps []StepRequest) error {
	if len(steps) == 0 {
		return apperr.Validation("a sequence needs at least one step")
	}
	last := -1
	for i, step := range steps {
		if step.DayOffset < last {
			return apperr.Validation("step day offsets must not decrease")
		}
		last = step.DayOffset
		if step.Channel == ChannelEmail && strings.TrimSpace(step.Subject) == "" {
			return apperr.Validation(fmt.Sprintf("step %d: email steps need a subject", i+1))
		}
	}
	return nil
}

func stepsFromRequest(reqs []StepRequest) []Step {
	steps := make([]Step, 0, len(reqs))
	for _, r := range reqs {
		steps = append(steps, Step{
			ID:           uuid.NewString(),
			DayOffset:    r.DayOffset,
			Channel:      r.Channel,
			Subject:      strings.TrimSpace(r.Subject),
			Content:      r.Content,
			StopOnReply:  r.StopOnReply,
			StopOnOptOut: r.StopOnOptOut,
		})
	}
	return steps
}
