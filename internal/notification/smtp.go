package notification

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers notification email over a direct SMTP connection.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendHandoffEmail(ctx context.Context, toEmail string, data HandoffData) error {
	content, err := renderTemplate("handoff.html", handoffEmailData{
		Title:        "Lead handoff",
		BuyerName:    data.BuyerName,
		BuyerEmail:   data.BuyerEmail,
		LeadScore:    strings.ToUpper(data.LeadScore),
		UrgencyScore: data.UrgencyScore,
		Persona:      data.Persona,
		Signals:      strings.Join(data.Signals, ", "),
		LastMessage:  data.LastMessage,
		Opener:       data.Opener,
		EscalatedAt:  data.EscalatedAt.Format("Mon 2 Jan 15:04 MST"),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectHandoffFmt, data.BuyerName), content)
}

func (s *SMTPSender) SendOutreachStep(ctx context.Context, toEmail, name, subject, body string) error {
	content, err := renderTemplate("outreach.html", outreachEmailData{
		Title: subject,
		Name:  name,
		Body:  body,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
