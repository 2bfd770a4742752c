package service

import (
	"testing"
	"time"

	"yuvna_backend/internal/buyers/transport"
	"yuvna_backend/internal/intelligence"
)

func testService() *Service {
	return &Service{engine: intelligence.NewEngine(intelligence.DefaultPolicy())}
}

func TestBuildBuyerDefaults(t *testing.T) {
	now := time.Now()
	buyer := buildBuyer(transport.CreateBuyerRequest{
		FullName: "  Amira Khan ",
		Email:    "Amira@Example.com",
		Phone:    "050 123 4567",
	}, now)

	if buyer.FullName != "Amira Khan" {
		t.Fatalf("full name = %q", buyer.FullName)
	}
	if buyer.Email != "amira@example.com" {
		t.Fatalf("email = %q, want lowercased", buyer.Email)
	}
	if buyer.Phone == nil || *buyer.Phone != "+971501234567" {
		t.Fatalf("phone = %v, want +971501234567", buyer.Phone)
	}
	if buyer.Language != "en" || buyer.Currency != "AED" {
		t.Fatalf("locale defaults = %s/%s", buyer.Language, buyer.Currency)
	}
	if buyer.Source != "onboarding" {
		t.Fatalf("source = %q", buyer.Source)
	}
	if buyer.Goal != nil || buyer.BudgetBand != nil {
		t.Fatal("empty onboarding fields should stay nil")
	}
}

func TestOnboardingCompleteGatesActivityDelta(t *testing.T) {
	now := time.Now()

	partial := buildBuyer(transport.CreateBuyerRequest{FullName: "A", Email: "a@b.com", Goal: "investment"}, now)
	if onboardingComplete(partial) {
		t.Fatal("partial onboarding reported complete")
	}

	full := buildBuyer(transport.CreateBuyerRequest{
		FullName: "A", Email: "a@b.com",
		Goal: "investment", BudgetBand: "1m-2m", RiskTolerance: "aggressive",
	}, now)
	if !onboardingComplete(full) {
		t.Fatal("full onboarding reported incomplete")
	}
}

func TestPersonaInputMapping(t *testing.T) {
	now := time.Now()
	buyer := buildBuyer(transport.CreateBuyerRequest{
		FullName: "A", Email: "a@b.com",
		Goal: "investment", BudgetBand: "2m-5m", RiskTolerance: "aggressive",
	}, now)

	persona, confidence := intelligence.AssignPersona(personaInput(buyer))
	if persona != intelligence.PersonaCapitalInvestor {
		t.Fatalf("persona = %s, want capital-investor", persona)
	}
	if confidence != 100 {
		t.Fatalf("confidence = %d, want 100", confidence)
	}
}

// Mapping a stored buyer back out must preserve the classification outputs
// when no time has passed.
func TestMapResponseRoundTrip(t *testing.T) {
	svc := testService()
	now := time.Now()

	buyer := buildBuyer(transport.CreateBuyerRequest{
		FullName: "A", Email: "a@b.com",
		Goal: "visa", BudgetBand: "500k-1m", RiskTolerance: "moderate",
	}, now)
	persona, confidence := intelligence.AssignPersona(personaInput(buyer))
	buyer.Persona = personaPtr(persona)
	buyer.PersonaConfidence = confidence
	buyer.UrgencyScore = 72
	buyer.EngagementScore = 41
	buyer.LeadScore = string(svc.engine.Classify(buyer.Scores(), nil))

	resp := svc.mapResponse(buyer, nil, now)

	if resp.Persona == nil || *resp.Persona != "visa-driven" {
		t.Fatalf("persona = %v", resp.Persona)
	}
	if resp.UrgencyScore != 72 || resp.EngagementScore != 41 {
		t.Fatalf("scores = %d/%d, want 72/41", resp.UrgencyScore, resp.EngagementScore)
	}
	if resp.LeadScore != "hot" {
		t.Fatalf("lead score = %s, want hot", resp.LeadScore)
	}
}

// Reads settle decay, so an old lastActiveAt lowers the projected urgency.
func TestMapResponseAppliesDecay(t *testing.T) {
	svc := testService()
	now := time.Now()

	buyer := buildBuyer(transport.CreateBuyerRequest{FullName: "A", Email: "a@b.com"}, now)
	buyer.UrgencyScore = 70
	buyer.LastActiveAt = now.Add(-10 * 24 * time.Hour)

	resp := svc.mapResponse(buyer, nil, now)
	if resp.UrgencyScore != 56 {
		t.Fatalf("urgency = %d, want 56 after 10 days of decay", resp.UrgencyScore)
	}
}

// A buyer whose trailing messages carry an explicit intent signal stays
// ready-to-call on reads, even at low urgency, instead of flipping back to
// the score-only category persisted moments earlier.
func TestMapResponseHonorsSignalWindow(t *testing.T) {
	svc := testService()
	now := time.Now()

	buyer := buildBuyer(transport.CreateBuyerRequest{FullName: "A", Email: "a@b.com"}, now)
	buyer.UrgencyScore = 25
	buyer.LastActiveAt = now
	buyer.LeadScore = string(svc.engine.Classify(buyer.Scores(), []intelligence.Signal{intelligence.SignalCallRequest}))

	if buyer.LeadScore != "ready-to-call" {
		t.Fatalf("stored lead score = %s, want ready-to-call", buyer.LeadScore)
	}

	withWindow := svc.mapResponse(buyer, []intelligence.Signal{intelligence.SignalCallRequest}, now)
	if withWindow.LeadScore != "ready-to-call" {
		t.Fatalf("lead score with signal window = %s, want ready-to-call", withWindow.LeadScore)
	}

	withoutWindow := svc.mapResponse(buyer, nil, now)
	if withoutWindow.LeadScore != "cold" {
		t.Fatalf("lead score without window = %s, want cold", withoutWindow.LeadScore)
	}
}
