package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type campaignStopped struct {
	BaseEvent
	CampaignID string
}

func (campaignStopped) EventName() string { return "test.campaign.stopped" }

// shares campaignStopped's name to exercise the type-mismatch drop.
type impostorEvent struct {
	BaseEvent
}

func (impostorEvent) EventName() string { return "test.campaign.stopped" }

func TestSubscribeToDeliversTypedEvent(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var got campaignStopped
	SubscribeTo(bus, func(ctx context.Context, event campaignStopped) error {
		got = event
		return nil
	})

	event := campaignStopped{BaseEvent: NewBaseEvent(), CampaignID: "c-42"}
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}
	if got.CampaignID != "c-42" {
		t.Fatalf("handler received CampaignID %q, want %q", got.CampaignID, "c-42")
	}
}

func TestSubscribeToDropsMismatchedType(t *testing.T) {
	bus := NewInMemoryBus(nil)

	called := false
	SubscribeTo(bus, func(ctx context.Context, event campaignStopped) error {
		called = true
		return errors.New("should not run")
	})

	if err := bus.PublishSync(context.Background(), impostorEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}
	if called {
		t.Fatal("handler ran for an event of a different concrete type")
	}
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	wantErr := errors.New("campaign lookup failed")
	SubscribeTo(bus, func(ctx context.Context, event campaignStopped) error {
		return wantErr
	})
	SubscribeTo(bus, func(ctx context.Context, event campaignStopped) error {
		return nil
	})

	err := bus.PublishSync(context.Background(), campaignStopped{BaseEvent: BaseEvent{Timestamp: time.Now()}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("PublishSync() error = %v, want %v", err, wantErr)
	}
}
