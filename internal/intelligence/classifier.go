package intelligence

// Classify maps aggregated scores plus recent explicit signals to a lead
// category. Boundary values take the higher category. Engagement does not
// gate the category: a buyer asking for a call is ready-to-call however
// little they browsed.
func (e *Engine) Classify(scores Scores, recentSignals []Signal) Category {
	t := e.policy.Thresholds

	if scores.Urgency >= t.ReadyToCall || intersects(recentSignals, []Signal{SignalCallRequest, SignalBookingIntent}) {
		return CategoryReadyToCall
	}
	if scores.Urgency >= t.Hot {
		return CategoryHot
	}
	if scores.Urgency >= t.Warm {
		return CategoryWarm
	}
	return CategoryCold
}

// PersonaInput are the onboarding fields contributing to persona assignment.
// Any field may be empty; missing fields lower confidence, never error.
type PersonaInput struct {
	Goal          Goal
	BudgetBand    BudgetBand
	RiskTolerance RiskTolerance
}

// AssignPersona derives a buyer archetype from declared onboarding answers.
// Returns the persona and a confidence of 0, 33, 66 or 100 reflecting how
// many of the three contributing fields are present. Without a declared
// goal there is no persona and confidence is 0.
func AssignPersona(in PersonaInput) (Persona, int) {
	if in.Goal == "" {
		return "", 0
	}

	var persona Persona
	switch in.Goal {
	case GoalInvestment:
		if in.RiskTolerance == RiskAggressive {
			persona = PersonaCapitalInvestor
		} else {
			persona = PersonaYieldInvestor
		}
	case GoalVisa:
		persona = PersonaVisaDriven
	case GoalLifestyle:
		persona = PersonaLifestyle
	case GoalExploring:
		persona = PersonaExplorer
	default:
		return "", 0
	}

	present := 1 // goal
	if in.BudgetBand != "" {
		present++
	}
	if in.RiskTolerance != "" {
		present++
	}

	confidence := map[int]int{1: 33, 2: 66, 3: 100}[present]
	return persona, confidence
}
