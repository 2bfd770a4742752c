package intelligence

import "testing"

func TestClassifyThresholds(t *testing.T) {
	e := testEngine()

	cases := []struct {
		name    string
		urgency int
		want    Category
	}{
		{"zero", 0, CategoryCold},
		{"just under warm", 34, CategoryCold},
		{"warm boundary", 35, CategoryWarm},
		{"just under hot", 64, CategoryWarm},
		{"hot boundary", 65, CategoryHot},
		{"just under ready", 79, CategoryHot},
		{"ready boundary", 80, CategoryReadyToCall},
		{"max", 100, CategoryReadyToCall},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Classify(Scores{Urgency: tc.urgency}, nil)
			if got != tc.want {
				t.Fatalf("Classify(urgency=%d) = %s, want %s", tc.urgency, got, tc.want)
			}
		})
	}
}

func TestClassifyReadyToCallIgnoresEngagement(t *testing.T) {
	e := testEngine()
	for _, engagement := range []int{0, 50, 100} {
		got := e.Classify(Scores{Urgency: 85, Engagement: engagement}, nil)
		if got != CategoryReadyToCall {
			t.Fatalf("urgency 85, engagement %d: got %s, want ready-to-call", engagement, got)
		}
	}
}

func TestClassifyExplicitSignalOverridesScore(t *testing.T) {
	e := testEngine()

	got := e.Classify(Scores{Urgency: 10}, []Signal{SignalCallRequest})
	if got != CategoryReadyToCall {
		t.Fatalf("call_request in recent window: got %s, want ready-to-call", got)
	}

	got = e.Classify(Scores{Urgency: 10}, []Signal{SignalBookingIntent})
	if got != CategoryReadyToCall {
		t.Fatalf("booking_intent in recent window: got %s, want ready-to-call", got)
	}

	// planning_visit escalates conversations but does not bypass thresholds
	got = e.Classify(Scores{Urgency: 10}, []Signal{SignalPlanningVisit})
	if got != CategoryCold {
		t.Fatalf("planning_visit alone: got %s, want cold", got)
	}
}

func TestAssignPersona(t *testing.T) {
	cases := []struct {
		name           string
		in             PersonaInput
		wantPersona    Persona
		wantConfidence int
	}{
		{
			"aggressive investor",
			PersonaInput{Goal: GoalInvestment, BudgetBand: Budget1MTo2M, RiskTolerance: RiskAggressive},
			PersonaCapitalInvestor, 100,
		},
		{
			"moderate investor",
			PersonaInput{Goal: GoalInvestment, BudgetBand: Budget500KTo1M, RiskTolerance: RiskModerate},
			PersonaYieldInvestor, 100,
		},
		{
			"visa driven",
			PersonaInput{Goal: GoalVisa, BudgetBand: Budget2MTo5M},
			PersonaVisaDriven, 66,
		},
		{"lifestyle goal only", PersonaInput{Goal: GoalLifestyle}, PersonaLifestyle, 33},
		{"explorer", PersonaInput{Goal: GoalExploring, RiskTolerance: RiskConservative}, PersonaExplorer, 66},
		{"no goal", PersonaInput{BudgetBand: Budget1MTo2M, RiskTolerance: RiskModerate}, "", 0},
		{"empty", PersonaInput{}, "", 0},
		{"unknown goal", PersonaInput{Goal: Goal("speculation")}, "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			persona, confidence := AssignPersona(tc.in)
			if persona != tc.wantPersona || confidence != tc.wantConfidence {
				t.Fatalf("AssignPersona(%+v) = (%q, %d), want (%q, %d)",
					tc.in, persona, confidence, tc.wantPersona, tc.wantConfidence)
			}
		})
	}
}
