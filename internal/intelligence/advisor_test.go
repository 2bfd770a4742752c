package intelligence

import "testing"

func TestSuggestActionDwellRisk(t *testing.T) {
	e := testEngine()

	cases := []struct {
		name string
		in   SuggestionInput
		want Risk
	}{
		{"advisory fresh", SuggestionInput{Stage: StageAdvisory, DaysInStage: 3, BuyerSignalCount: 5}, RiskLow},
		{"advisory ten days", SuggestionInput{Stage: StageAdvisory, DaysInStage: 10, BuyerSignalCount: 5}, RiskMedium},
		{"advisory stalled", SuggestionInput{Stage: StageAdvisory, DaysInStage: 15, BuyerSignalCount: 5}, RiskHigh},
		{"qualified on boundary", SuggestionInput{Stage: StageQualified, DaysInStage: 5, BuyerSignalCount: 2}, RiskLow},
		{"qualified over boundary", SuggestionInput{Stage: StageQualified, DaysInStage: 6, BuyerSignalCount: 2}, RiskMedium},
		{"booking stalls fast", SuggestionInput{Stage: StageBooking, DaysInStage: 8, BuyerSignalCount: 9}, RiskHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.SuggestAction(tc.in)
			if got.DropOffRisk != tc.want {
				t.Fatalf("%+v: risk = %s, want %s", tc.in, got.DropOffRisk, tc.want)
			}
		})
	}
}

func TestSuggestActionSilentNewDeal(t *testing.T) {
	e := testEngine()

	// New deal, no buyer signals, 2 days: high risk regardless of dwell table.
	got := e.SuggestAction(SuggestionInput{Stage: StageNew, DaysInStage: 2, BuyerSignalCount: 0})
	if got.DropOffRisk != RiskHigh {
		t.Fatalf("silent new deal: risk = %s, want high", got.DropOffRisk)
	}

	// Same age with buyer engagement stays on the dwell table.
	got = e.SuggestAction(SuggestionInput{Stage: StageNew, DaysInStage: 2, BuyerSignalCount: 3})
	if got.DropOffRisk == RiskHigh {
		t.Fatalf("engaged new deal should not be high risk")
	}
}

func TestSuggestActionPerStageActions(t *testing.T) {
	e := testEngine()

	cases := []struct {
		stage Stage
		want  string
	}{
		{StageNew, "Initial outreach call"},
		{StageQualified, "Schedule property viewing"},
		{StageSiteVisit, "Prepare offer package"},
		{StageBooking, "Confirm deposit transfer"},
	}
	for _, tc := range cases {
		got := e.SuggestAction(SuggestionInput{Stage: tc.stage, DaysInStage: 1, BuyerSignalCount: 1})
		if got.Action != tc.want {
			t.Fatalf("%s: action = %q, want %q", tc.stage, got.Action, tc.want)
		}
	}
}

func TestSuggestActionPersonaQualified(t *testing.T) {
	e := testEngine()

	got := e.SuggestAction(SuggestionInput{Stage: StageAdvisory, Persona: PersonaVisaDriven, DaysInStage: 10, BuyerSignalCount: 4})
	if got.Action != "Follow up on Golden Visa requirements" {
		t.Fatalf("visa-driven advisory action = %q", got.Action)
	}
	if got.DropOffRisk != RiskMedium {
		t.Fatalf("risk = %s, want medium", got.DropOffRisk)
	}

	got = e.SuggestAction(SuggestionInput{Stage: StageAdvisory, Persona: PersonaYieldInvestor, DaysInStage: 1, BuyerSignalCount: 4})
	if got.Action != "Send market advisory follow-up with rental yield comparison" {
		t.Fatalf("yield-investor advisory action = %q", got.Action)
	}

	// Persona only qualifies the advisory stage.
	got = e.SuggestAction(SuggestionInput{Stage: StageNew, Persona: PersonaVisaDriven, DaysInStage: 1, BuyerSignalCount: 4})
	if got.Action != "Initial outreach call" {
		t.Fatalf("new-stage action should be unqualified, got %q", got.Action)
	}
}

func TestSuggestActionTerminalStages(t *testing.T) {
	e := testEngine()

	for _, stage := range []Stage{StageClosedWon, StageClosedLost} {
		got := e.SuggestAction(SuggestionInput{Stage: stage, DaysInStage: 100})
		if got.Action != "" || got.DropOffRisk != RiskLow {
			t.Fatalf("%s: got %+v, want no action and low risk", stage, got)
		}
	}
}
