package intelligence

// SuggestionInput describes a deal for the pipeline stage advisor.
type SuggestionInput struct {
	Stage       Stage
	Persona     Persona
	DaysInStage int
	// BuyerSignalCount is how many buyer-initiated signals exist across the
	// buyer's conversations. Zero on a fresh deal means nobody is talking.
	BuyerSignalCount int
}

// Suggestion is the advisor's output. The advisor only recommends; stage
// transitions stay operator-driven.
type Suggestion struct {
	Action      string
	DropOffRisk Risk
}

// SuggestAction computes the next best action and drop-off risk for a deal.
// Risk is recomputed on every read from dwell time, never stored.
func (e *Engine) SuggestAction(in SuggestionInput) Suggestion {
	if in.Stage.Terminal() {
		return Suggestion{Action: "", DropOffRisk: RiskLow}
	}

	stagePolicy, ok := e.policy.Stages[in.Stage]
	if !ok {
		return Suggestion{Action: "Review deal", DropOffRisk: RiskLow}
	}

	risk := RiskLow
	switch {
	case in.DaysInStage > stagePolicy.HighAfterDays:
		risk = RiskHigh
	case in.DaysInStage > stagePolicy.MediumAfterDays:
		risk = RiskMedium
	}

	// A silent new deal is at risk no matter what the dwell table says.
	if in.Stage == StageNew && in.BuyerSignalCount == 0 && in.DaysInStage >= e.policy.NewStageSilenceDays {
		risk = RiskHigh
	}

	return Suggestion{
		Action:      qualifyAction(stagePolicy.Action, in.Stage, in.Persona),
		DropOffRisk: risk,
	}
}

// qualifyAction tailors the per-stage action to the buyer's persona.
func qualifyAction(action string, stage Stage, persona Persona) string {
	if stage != StageAdvisory {
		return action
	}
	switch persona {
	case PersonaVisaDriven:
		return "Follow up on Golden Visa requirements"
	case PersonaYieldInvestor:
		return action + " with rental yield comparison"
	case PersonaCapitalInvestor:
		return action + " with appreciation outlook"
	default:
		return action
	}
}
