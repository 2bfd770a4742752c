package intelligence

import "time"

// Scores are the per-buyer aggregates maintained by the engine.
// Both values are clamped to [0, 100].
type Scores struct {
	Urgency    int
	Engagement int
}

// ActivityKind is a non-message behavioral event worth points.
type ActivityKind string

const (
	ActivityROISimulationRun      ActivityKind = "roi_simulation_run"
	ActivityRecommendationsViewed ActivityKind = "recommendations_viewed"
	ActivityToolUsed              ActivityKind = "tool_used"
	ActivitySessionRecorded       ActivityKind = "session_recorded"
	ActivityOnboardingCompleted   ActivityKind = "onboarding_completed"
)

// Valid reports whether k is a known activity kind.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityROISimulationRun, ActivityRecommendationsViewed, ActivityToolUsed,
		ActivitySessionRecorded, ActivityOnboardingCompleted:
		return true
	}
	return false
}

// ApplySignals adds the point deltas for each observed signal.
// Repeated signals compound; a buyer who asks for a call twice is more
// urgent than one who asked once, so there is no de-duplication.
func (e *Engine) ApplySignals(scores Scores, signals []Signal) Scores {
	for _, s := range signals {
		delta, ok := e.policy.SignalDeltas[s]
		if !ok {
			continue
		}
		scores.Urgency += delta.Urgency
		scores.Engagement += delta.Engagement
	}
	return clampScores(scores)
}

// ApplyActivity adds the point delta for one behavioral event.
// Unknown kinds are ignored rather than rejected: the extractor vocabulary
// may grow ahead of the policy document.
func (e *Engine) ApplyActivity(scores Scores, kind ActivityKind) Scores {
	delta, ok := e.policy.ActivityDeltas[kind]
	if !ok {
		return scores
	}
	scores.Urgency += delta.Urgency
	scores.Engagement += delta.Engagement
	return clampScores(scores)
}

// Decayed returns the scores as of now, applying lazy urgency decay for
// inactivity beyond the grace period. Decay happens at read time, never via
// a background timer, so the result is a pure function of
// (stored scores, lastActiveAt, now). Stored state is not mutated.
func (e *Engine) Decayed(scores Scores, lastActiveAt, now time.Time) Scores {
	if !now.After(lastActiveAt) {
		return scores
	}

	inactiveDays := int(now.Sub(lastActiveAt).Hours() / 24)
	excess := inactiveDays - e.policy.Decay.GraceDays
	if excess <= 0 {
		return scores
	}

	scores.Urgency -= excess * e.policy.Decay.UrgencyPerDay
	return clampScores(scores)
}

func clampScores(s Scores) Scores {
	s.Urgency = clamp(s.Urgency)
	s.Engagement = clamp(s.Engagement)
	return s
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
