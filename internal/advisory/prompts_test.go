package advisory

import (
	"strings"
	"testing"
)

func TestAdvisorSystemPromptInterpolation(t *testing.T) {
	prompt := advisorSystemPrompt("yield-investor", "1m-2m", "investment")

	for _, want := range []string{
		"Persona: yield-investor",
		"Budget: 1m-2m",
		"Goal: investment",
		"Golden Visa: AED 2M+",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestAdvisorSystemPromptDefaults(t *testing.T) {
	prompt := advisorSystemPrompt("", "", "")

	if !strings.Contains(prompt, "Persona: Not yet determined") {
		t.Fatal("missing persona default")
	}
	if !strings.Contains(prompt, "Budget: Not specified") {
		t.Fatal("missing budget default")
	}
	if !strings.Contains(prompt, "Goal: General interest") {
		t.Fatal("missing goal default")
	}
}

func TestRecommendationsUserPromptDefaults(t *testing.T) {
	prompt := recommendationsUserPrompt("", "", "", "")

	for _, want := range []string{"explorer", "500k-1m", "investment", "International"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing default %q", want)
		}
	}
}
