package service

import (
	"testing"
	"time"

	"yuvna_backend/internal/conversations/repository"
	"yuvna_backend/internal/intelligence"

	"github.com/google/uuid"
)

func TestSignalStringsKeepsAuditTrailNonNil(t *testing.T) {
	// Messages without signals still persist an empty array, not NULL.
	if got := signalStrings(nil); got == nil || len(got) != 0 {
		t.Fatalf("signalStrings(nil) = %v, want empty slice", got)
	}

	got := signalStrings([]intelligence.Signal{intelligence.SignalCallRequest, intelligence.SignalPropertyInterest})
	if len(got) != 2 || got[0] != "call_request" || got[1] != "property_interest" {
		t.Fatalf("signalStrings = %v", got)
	}
}

func TestParseSignalsRoundTrip(t *testing.T) {
	if got := parseSignals(nil); got != nil {
		t.Fatalf("parseSignals(nil) = %v, want nil", got)
	}

	names := signalStrings([]intelligence.Signal{intelligence.SignalCallRequest, intelligence.SignalBookingIntent})
	got := parseSignals(names)
	if len(got) != 2 || got[0] != intelligence.SignalCallRequest || got[1] != intelligence.SignalBookingIntent {
		t.Fatalf("parseSignals = %v", got)
	}
}

func TestMapMessagePreservesAuditFields(t *testing.T) {
	now := time.Now()
	msg := repository.Message{
		ID:                uuid.New(),
		Role:              "buyer",
		Content:           "call me today",
		Signals:           []string{"call_request"},
		EscalationTrigger: true,
		CreatedAt:         now,
	}

	mapped := mapMessage(msg)
	if !mapped.EscalationTrigger {
		t.Fatal("escalation trigger flag lost in mapping")
	}
	if len(mapped.Signals) != 1 || mapped.Signals[0] != "call_request" {
		t.Fatalf("signals = %v", mapped.Signals)
	}
	if !mapped.CreatedAt.Equal(now) {
		t.Fatal("timestamp changed in mapping")
	}
}

func TestMapConversation(t *testing.T) {
	last := time.Now()
	conv := repository.Conversation{
		ID:              uuid.New(),
		BuyerID:         uuid.New(),
		Status:          statusActive,
		EscalationState: string(intelligence.EscalationPending),
		LastMessageAt:   &last,
	}

	mapped := mapConversation(conv, nil)
	if mapped.EscalationState != "escalation-pending" {
		t.Fatalf("escalation state = %s", mapped.EscalationState)
	}
	if mapped.LastMessageAt == nil || !mapped.LastMessageAt.Equal(last) {
		t.Fatal("last message timestamp lost")
	}
}

// Overlapping sends decide the escalation transition against the committed
// state, so the edge trigger fires exactly once per escalation.
func TestEscalationDeciderFiresOnceAcrossChainedSends(t *testing.T) {
	svc := &Service{engine: intelligence.NewEngine(intelligence.DefaultPolicy())}
	signals := []intelligence.Signal{intelligence.SignalCallRequest}

	var from intelligence.EscalationState
	decide := svc.escalationDecider(signals, &from)

	first, triggered := decide(string(intelligence.EscalationNormal))
	if !triggered {
		t.Fatal("first qualifying send did not trigger")
	}
	if first != string(intelligence.EscalationPending) {
		t.Fatalf("state after first send = %s, want escalation-pending", first)
	}
	if from != intelligence.EscalationNormal {
		t.Fatalf("recorded prior state = %s, want normal", from)
	}

	second, triggered := decide(first)
	if triggered {
		t.Fatal("second send re-fired the edge trigger")
	}
	if second != first {
		t.Fatalf("state after second send = %s, want %s", second, first)
	}
	if from != intelligence.EscalationPending {
		t.Fatalf("recorded prior state = %s, want escalation-pending", from)
	}
}
