package intelligence

import (
	"errors"
	"testing"
)

func TestEscalationTriggersOnHighIntentSignals(t *testing.T) {
	e := testEngine()

	for _, s := range []Signal{SignalCallRequest, SignalBookingIntent, SignalPlanningVisit} {
		state, triggered := e.EvaluateEscalation(EscalationNormal, []Signal{s})
		if state != EscalationPending || !triggered {
			t.Fatalf("%s: got (%s, %v), want (escalation-pending, true)", s, state, triggered)
		}
	}
}

func TestEscalationIgnoresLowIntentSignals(t *testing.T) {
	e := testEngine()

	state, triggered := e.EvaluateEscalation(EscalationNormal, []Signal{SignalPropertyInterest, SignalPurchaseIntent})
	if state != EscalationNormal || triggered {
		t.Fatalf("got (%s, %v), want (normal, false)", state, triggered)
	}
}

func TestEscalationEdgeTriggered(t *testing.T) {
	e := testEngine()

	// Two consecutive call_request messages: the trigger fires exactly once.
	state := EscalationNormal
	fired := 0
	for i := 0; i < 2; i++ {
		var triggered bool
		state, triggered = e.EvaluateEscalation(state, []Signal{SignalCallRequest})
		if triggered {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("trigger fired %d times, want exactly 1", fired)
	}
	if state != EscalationPending {
		t.Fatalf("state = %s, want escalation-pending", state)
	}
}

func TestEscalatedConversationNotReEvaluated(t *testing.T) {
	e := testEngine()

	state, triggered := e.EvaluateEscalation(EscalationEscalated, []Signal{SignalCallRequest})
	if state != EscalationEscalated || triggered {
		t.Fatalf("escalated conversations must not auto-evaluate, got (%s, %v)", state, triggered)
	}
}

func TestConfirmDismissReset(t *testing.T) {
	state, err := ConfirmEscalation(EscalationPending)
	if err != nil || state != EscalationEscalated {
		t.Fatalf("Confirm(pending) = (%s, %v)", state, err)
	}

	state, err = DismissEscalation(EscalationPending)
	if err != nil || state != EscalationNormal {
		t.Fatalf("Dismiss(pending) = (%s, %v)", state, err)
	}

	state, err = ResetEscalation(EscalationEscalated)
	if err != nil || state != EscalationNormal {
		t.Fatalf("Reset(escalated) = (%s, %v)", state, err)
	}

	if _, err := ConfirmEscalation(EscalationNormal); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Confirm(normal) should be invalid, got %v", err)
	}
	if _, err := DismissEscalation(EscalationEscalated); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Dismiss(escalated) should be invalid, got %v", err)
	}
	if _, err := ResetEscalation(EscalationNormal); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Reset(normal) should be invalid, got %v", err)
	}
}
