// Package notification delivers outbound email: agent handoff alerts when a
// conversation escalates, and outreach campaign steps.
package notification

import (
	"context"
	"time"

	"yuvna_backend/platform/config"
)

// HandoffData carries everything an agent needs to pick up an escalated
// conversation.
type HandoffData struct {
	BuyerName    string
	BuyerEmail   string
	LeadScore    string
	UrgencyScore int
	Persona      string
	Signals      []string
	LastMessage  string
	Opener       string
	EscalatedAt  time.Time
}

type Sender interface {
	SendHandoffEmail(ctx context.Context, toEmail string, data HandoffData) error
	SendOutreachStep(ctx context.Context, toEmail, name, subject, body string) error
}

// NoopSender drops all mail. Used when EMAIL_ENABLED is off, which keeps
// local development from needing an SMTP server.
type NoopSender struct{}

func (NoopSender) SendHandoffEmail(ctx context.Context, toEmail string, data HandoffData) error {
	return nil
}

func (NoopSender) SendOutreachStep(ctx context.Context, toEmail, name, subject, body string) error {
	return nil
}

// NewSender picks the SMTP sender when email is enabled, the noop otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
