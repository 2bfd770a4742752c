package intelligence

import "strings"

// signalRule maps one signal to its trigger phrases. Matching is
// case-insensitive substring containment. A false call_request costs the
// buyer an unwanted phone call, so precision beats recall.
type signalRule struct {
	signal   Signal
	triggers []string
}

// vocabulary is evaluated in order, giving deterministic signal ordering.
var vocabulary = []signalRule{
	{SignalPlanningVisit, []string{"visit", "coming to dubai", "trip"}},
	{SignalPurchaseIntent, []string{"buy", "purchase", "ready to"}},
	{SignalCallRequest, []string{"call", "speak", "talk to", "contact"}},
	{SignalBookingIntent, []string{"book", "reserve", "hold"}},
	{SignalPropertyInterest, []string{"which", "recommend", "best", "options"}},
}

// ExtractSignals classifies one free-text message into intent signals.
// A message may produce zero, one, or many signals; an empty or
// unrecognized message yields an empty set. There are no error conditions.
func ExtractSignals(message string) []Signal {
	lower := strings.ToLower(message)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var signals []Signal
	for _, rule := range vocabulary {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				signals = append(signals, rule.signal)
				break
			}
		}
	}
	return signals
}

// HasSignal reports whether signals contains s.
func HasSignal(signals []Signal, s Signal) bool {
	for _, candidate := range signals {
		if candidate == s {
			return true
		}
	}
	return false
}

// intersects reports whether any signal appears in the trigger set.
func intersects(signals, triggers []Signal) bool {
	for _, s := range signals {
		for _, t := range triggers {
			if s == t {
				return true
			}
		}
	}
	return false
}
