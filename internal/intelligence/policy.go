package intelligence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoreDelta is the point adjustment one event applies.
type ScoreDelta struct {
	Urgency    int `yaml:"urgency"`
	Engagement int `yaml:"engagement"`
}

// DecayPolicy controls lazy urgency decay for inactive buyers.
type DecayPolicy struct {
	// GraceDays of inactivity before decay starts.
	GraceDays int `yaml:"grace_days"`
	// UrgencyPerDay subtracted for each full day beyond the grace period.
	UrgencyPerDay int `yaml:"urgency_per_day"`
}

// Thresholds are the urgency cutoffs for lead-score categories.
// A score on a boundary takes the higher category.
type Thresholds struct {
	ReadyToCall int `yaml:"ready_to_call"`
	Hot         int `yaml:"hot"`
	Warm        int `yaml:"warm"`
}

// StagePolicy is the per-stage dwell expectation and suggested action.
type StagePolicy struct {
	MediumAfterDays int    `yaml:"medium_after_days"`
	HighAfterDays   int    `yaml:"high_after_days"`
	Action          string `yaml:"action"`
}

// Policy holds every tunable rule of the intelligence engine. The source's
// thresholds were implicit and inconsistent between views; here they are an
// explicit document so operators can adjust them without a deploy.
type Policy struct {
	SignalDeltas   map[Signal]ScoreDelta       `yaml:"signal_deltas"`
	ActivityDeltas map[ActivityKind]ScoreDelta `yaml:"activity_deltas"`

	Decay      DecayPolicy `yaml:"decay"`
	Thresholds Thresholds  `yaml:"thresholds"`

	// RecentMessageWindow is how many trailing messages are scanned for
	// explicit ready-to-call signals.
	RecentMessageWindow int `yaml:"recent_message_window"`

	// EscalationSignals trigger the normal -> escalation-pending transition.
	EscalationSignals []Signal `yaml:"escalation_signals"`

	Stages map[Stage]StagePolicy `yaml:"stages"`

	// NewStageSilenceDays: a new deal with zero buyer-initiated signals for
	// this many days is high risk regardless of dwell thresholds.
	NewStageSilenceDays int `yaml:"new_stage_silence_days"`
}

// DefaultPolicy returns the built-in rule set.
func DefaultPolicy() Policy {
	return Policy{
		SignalDeltas: map[Signal]ScoreDelta{
			SignalCallRequest:      {Urgency: 25},
			SignalBookingIntent:    {Urgency: 20},
			SignalPurchaseIntent:   {Urgency: 20},
			SignalPlanningVisit:    {Urgency: 15},
			SignalPropertyInterest: {Urgency: 5, Engagement: 5},
		},
		ActivityDeltas: map[ActivityKind]ScoreDelta{
			ActivityROISimulationRun:      {Engagement: 10},
			ActivityRecommendationsViewed: {Engagement: 5},
			ActivityToolUsed:              {Engagement: 5},
			ActivitySessionRecorded:       {Engagement: 3},
			ActivityOnboardingCompleted:   {Engagement: 10},
		},
		Decay: DecayPolicy{
			GraceDays:     3,
			UrgencyPerDay: 2,
		},
		Thresholds: Thresholds{
			ReadyToCall: 80,
			Hot:         65,
			Warm:        35,
		},
		RecentMessageWindow: 3,
		EscalationSignals:   []Signal{SignalCallRequest, SignalBookingIntent, SignalPlanningVisit},
		Stages: map[Stage]StagePolicy{
			StageNew:       {MediumAfterDays: 2, HighAfterDays: 5, Action: "Initial outreach call"},
			StageQualified: {MediumAfterDays: 5, HighAfterDays: 10, Action: "Schedule property viewing"},
			StageAdvisory:  {MediumAfterDays: 7, HighAfterDays: 14, Action: "Send market advisory follow-up"},
			StageSiteVisit: {MediumAfterDays: 5, HighAfterDays: 10, Action: "Prepare offer package"},
			StageBooking:   {MediumAfterDays: 3, HighAfterDays: 7, Action: "Confirm deposit transfer"},
		},
		NewStageSilenceDays: 2,
	}
}

// LoadPolicy reads a YAML policy document and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	return policy.withDefaults(), nil
}

// withDefaults fills any zero-valued field from the default policy so that
// a sparse document cannot disable whole rule groups by accident.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()

	if len(p.SignalDeltas) == 0 {
		p.SignalDeltas = def.SignalDeltas
	}
	if len(p.ActivityDeltas) == 0 {
		p.ActivityDeltas = def.ActivityDeltas
	}
	if p.Decay.GraceDays == 0 && p.Decay.UrgencyPerDay == 0 {
		p.Decay = def.Decay
	}
	if p.Thresholds == (Thresholds{}) {
		p.Thresholds = def.Thresholds
	}
	if p.RecentMessageWindow == 0 {
		p.RecentMessageWindow = def.RecentMessageWindow
	}
	if len(p.EscalationSignals) == 0 {
		p.EscalationSignals = def.EscalationSignals
	}
	if len(p.Stages) == 0 {
		p.Stages = def.Stages
	}
	if p.NewStageSilenceDays == 0 {
		p.NewStageSilenceDays = def.NewStageSilenceDays
	}
	return p
}
