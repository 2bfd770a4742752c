package intelligence

import (
	"testing"
	"time"
)

// TestBookingMessageLifecycle walks one buyer message through the full
// pipeline: extraction, scoring, classification, and escalation.
func TestBookingMessageLifecycle(t *testing.T) {
	e := testEngine()

	signals := ExtractSignals("I want to book a viewing next week")
	if !HasSignal(signals, SignalBookingIntent) {
		t.Fatalf("signals = %v, want booking_intent", signals)
	}

	// Warm buyer, already engaged.
	scores := Scores{Urgency: 62, Engagement: 40}
	scores = e.ApplySignals(scores, signals)
	if scores.Urgency < 80 {
		t.Fatalf("urgency = %d, want >= 80 after booking intent", scores.Urgency)
	}

	category := e.Classify(scores, signals)
	if category != CategoryReadyToCall {
		t.Fatalf("category = %s, want ready-to-call", category)
	}

	state, triggered := e.EvaluateEscalation(EscalationNormal, signals)
	if !triggered || state != EscalationPending {
		t.Fatalf("escalation = %s triggered=%v, want pending/true", state, triggered)
	}
}

// TestColdBuyerStaysCold: a browsing question moves scores a little but
// never trips escalation or the hot categories.
func TestColdBuyerStaysCold(t *testing.T) {
	e := testEngine()

	signals := ExtractSignals("which areas have the best options for families?")
	scores := e.ApplySignals(Scores{}, signals)

	if got := e.Classify(scores, signals); got != CategoryCold {
		t.Fatalf("category = %s, want cold", got)
	}
	if state, triggered := e.EvaluateEscalation(EscalationNormal, signals); triggered {
		t.Fatalf("property interest escalated to %s", state)
	}
}

// TestDecayDemotesCategory: a hot buyer that goes quiet drifts down the
// categories as lazy decay bites.
func TestDecayDemotesCategory(t *testing.T) {
	e := testEngine()

	lastActive := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	scores := Scores{Urgency: 70, Engagement: 50}

	if got := e.Classify(e.Decayed(scores, lastActive, lastActive), nil); got != CategoryHot {
		t.Fatalf("day 0 category = %s, want hot", got)
	}

	// 3 grace days, then 2 points/day: 10 days inactive = -14 urgency.
	now := lastActive.Add(10 * 24 * time.Hour)
	decayed := e.Decayed(scores, lastActive, now)
	if decayed.Urgency != 56 {
		t.Fatalf("urgency after 10 days = %d, want 56", decayed.Urgency)
	}
	if got := e.Classify(decayed, nil); got != CategoryWarm {
		t.Fatalf("decayed category = %s, want warm", got)
	}
}
