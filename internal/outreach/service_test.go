package outreach

import (
	"context"
	"testing"
	"time"

	"yuvna_backend/internal/events"

	"github.com/google/uuid"
)

func TestStepDue(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		dayOffset int
		now       time.Time
		want      bool
	}{
		{"immediate step on enrollment day", 0, started, true},
		{"day three step too early", 3, started.AddDate(0, 0, 2), false},
		{"day three step exactly due", 3, started.AddDate(0, 0, 3), true},
		{"day three step overdue", 3, started.AddDate(0, 0, 7), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stepDue(started, Step{DayOffset: tt.dayOffset}, tt.now)
			if got != tt.want {
				t.Fatalf("stepDue(offset=%d) = %v, want %v", tt.dayOffset, got, tt.want)
			}
		})
	}
}

func TestStopOnReply(t *testing.T) {
	steps := []Step{
		{ID: "a", StopOnReply: false},
		{ID: "b", StopOnReply: true},
		{ID: "c", StopOnReply: false},
	}

	tests := []struct {
		name        string
		currentStep int
		want        bool
	}{
		{"nothing sent yet falls back to first step", 0, false},
		{"after first send checks step one", 1, false},
		{"after second send checks step two", 2, true},
		{"cursor past the end", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stopOnReply(steps, tt.currentStep); got != tt.want {
				t.Fatalf("stopOnReply(current=%d) = %v, want %v", tt.currentStep, got, tt.want)
			}
		})
	}
}

func TestPersonalize(t *testing.T) {
	got := personalize("Hi {{firstName}}, properties for {{name}}", "Ayesha Khan")
	want := "Hi Ayesha, properties for Ayesha Khan"
	if got != want {
		t.Fatalf("personalize() = %q, want %q", got, want)
	}

	// Single-word names keep the full name as first name.
	if got := personalize("Hi {{firstName}}", "Omar"); got != "Hi Omar" {
		t.Fatalf("personalize() = %q, want %q", got, "Hi Omar")
	}
}

func TestValidateSteps(t *testing.T) {
	tests := []struct {
		name    string
		steps   []StepRequest
		wantErr bool
	}{
		{
			name:    "empty sequence rejected",
			steps:   nil,
			wantErr: true,
		},
		{
			name: "ordered offsets accepted",
			steps: []StepRequest{
				{DayOffset: 0, Channel: ChannelEmail, Subject: "Welcome", Content: "hi"},
				{DayOffset: 3, Channel: ChannelWhatsApp, Content: "checking in"},
				{DayOffset: 3, Channel: ChannelSMS, Content: "same day is fine"},
			},
		},
		{
			name: "decreasing offsets rejected",
			steps: []StepRequest{
				{DayOffset: 5, Channel: ChannelEmail, Subject: "x", Content: "a"},
				{DayOffset: 2, Channel: ChannelEmail, Subject: "y", Content: "b"},
			},
			wantErr: true,
		},
		{
			name: "email step without subject rejected",
			steps: []StepRequest{
				{DayOffset: 0, Channel: ChannelEmail, Content: "no subject"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSteps(tt.steps)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStepsFromRequestAssignsIDs(t *testing.T) {
	steps := stepsFromRequest([]StepRequest{
		{DayOffset: 0, Channel: ChannelEmail, Subject: "  Welcome  ", Content: "hi", StopOnReply: true},
		{DayOffset: 7, Channel: ChannelWhatsApp, Content: "follow up", StopOnOptOut: true},
	})

	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].ID == "" || steps[1].ID == "" {
		t.Fatal("expected generated step ids")
	}
	if steps[0].ID == steps[1].ID {
		t.Fatal("step ids must be unique")
	}
	if steps[0].Subject != "Welcome" {
		t.Fatalf("subject not trimmed: %q", steps[0].Subject)
	}
	if !steps[0].StopOnReply || !steps[1].StopOnOptOut {
		t.Fatal("stop flags not carried over")
	}
}

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *captureBus) Subscribe(eventName string, handler events.Handler) {}

func TestPublishForwardsToBus(t *testing.T) {
	bus := &captureBus{}
	svc := &Service{eventBus: bus}

	svc.publish(events.OutreachReplied{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: uuid.New(),
		BuyerID:    uuid.New(),
	})

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.OutreachReplied); !ok {
		t.Fatalf("published event has type %T, want OutreachReplied", bus.published[0])
	}
}

func TestPublishWithoutBusIsNoop(t *testing.T) {
	svc := &Service{}
	svc.publish(events.OutreachReplied{BaseEvent: events.NewBaseEvent()})
}
