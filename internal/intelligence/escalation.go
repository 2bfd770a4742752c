package intelligence

import "errors"

// ErrInvalidTransition is returned for escalation transitions outside the
// state machine.
var ErrInvalidTransition = errors.New("invalid escalation transition")

// EvaluateEscalation advances the per-conversation escalation state for one
// newly arrived message. The transition is edge-triggered: only the first
// qualifying message moves normal to escalation-pending, and a conversation
// already pending or escalated is never re-evaluated automatically.
// Returns the new state and whether this message fired the trigger.
func (e *Engine) EvaluateEscalation(state EscalationState, signals []Signal) (EscalationState, bool) {
	if state != EscalationNormal {
		return state, false
	}
	if intersects(signals, e.policy.EscalationSignals) {
		return EscalationPending, true
	}
	return EscalationNormal, false
}

// ConfirmEscalation records that the human handoff actually happened.
// Only valid from escalation-pending.
func ConfirmEscalation(state EscalationState) (EscalationState, error) {
	if state != EscalationPending {
		return state, ErrInvalidTransition
	}
	return EscalationEscalated, nil
}

// DismissEscalation records that the buyer declined the handoff prompt,
// returning the conversation to automatic evaluation.
func DismissEscalation(state EscalationState) (EscalationState, error) {
	if state != EscalationPending {
		return state, ErrInvalidTransition
	}
	return EscalationNormal, nil
}

// ResetEscalation is the human action that re-arms automatic evaluation
// after an escalation was handled.
func ResetEscalation(state EscalationState) (EscalationState, error) {
	if state != EscalationEscalated {
		return state, ErrInvalidTransition
	}
	return EscalationNormal, nil
}
