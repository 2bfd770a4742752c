package advisory

import "testing"

func TestFallbackRecommendationsSpanRiskProfiles(t *testing.T) {
	items := fallbackRecommendations()
	if len(items) != 3 {
		t.Fatalf("fallback count = %d, want 3", len(items))
	}

	sawLow, sawMid := false, false
	for _, item := range items {
		if item.RiskScore <= 3 {
			sawLow = true
		}
		if item.RiskScore >= 5 {
			sawMid = true
		}
		if item.WhyItFits == "" || len(item.Pros) == 0 || len(item.Cons) == 0 {
			t.Fatalf("incomplete fallback item %q", item.ID)
		}
	}
	if !sawLow || !sawMid {
		t.Fatal("fallback set should span risk levels")
	}
}

func TestFallbackRecommendationsIncludeStatusMix(t *testing.T) {
	ready, offPlan := 0, 0
	for _, item := range fallbackRecommendations() {
		switch item.Status {
		case "ready":
			ready++
		case "off-plan":
			offPlan++
		}
	}
	if ready == 0 || offPlan == 0 {
		t.Fatal("fallback set should mix ready and off-plan")
	}
}
