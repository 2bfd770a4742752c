package advisory

import (
	"context"
	"encoding/json"

	"yuvna_backend/platform/ai"

	"github.com/google/uuid"
)

// GenerateRecommendations asks the provider for five tailored property
// recommendations in JSON mode. Any failure, including unparsable output,
// falls back to the static set.
func (s *Service) GenerateRecommendations(ctx context.Context, buyerID uuid.UUID) (RecommendationsResponse, error) {
	profile, err := s.repo.BuyerContext(ctx, buyerID)
	if err != nil {
		return RecommendationsResponse{}, err
	}

	items, degraded := s.recommendationsFor(ctx, profile)

	// Viewing recommendations is an engagement event.
	if s.activity != nil {
		if err := s.activity.RecordEngagement(ctx, buyerID, activityRecommendationsViewed); err != nil {
			s.log.Warn("recommendations activity not recorded", "buyerId", buyerID, "error", err)
		}
	}

	return RecommendationsResponse{Items: items, Degraded: degraded}, nil
}

func (s *Service) recommendationsFor(ctx context.Context, profile BuyerContext) ([]PropertyRecommendation, bool) {
	if s.provider == nil {
		return fallbackRecommendations(), true
	}

	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: recommendationsSystemPrompt},
		{Role: ai.RoleUser, Content: recommendationsUserPrompt(profile.Persona, profile.BudgetBand, profile.Goal, profile.Country)},
	}

	raw, err := s.provider.Generate(ctx, messages, ai.Options{Temperature: 0.5, JSONMode: true})
	if err != nil {
		s.log.AIProviderError(s.provider.Name(), "recommendations", err)
		return fallbackRecommendations(), true
	}

	var items []PropertyRecommendation
	if err := json.Unmarshal([]byte(raw), &items); err != nil || len(items) == 0 {
		s.log.AIProviderError(s.provider.Name(), "recommendations parse", err)
		return fallbackRecommendations(), true
	}
	return items, false
}

// fallbackRecommendations spans the risk spectrum: a low-risk yield play, a
// speculative off-plan hold, and a prime ready unit.
func fallbackRecommendations() []PropertyRecommendation {
	return []PropertyRecommendation{
		{
			ID:                   "1",
			PropertyType:         "1br",
			Status:               "ready",
			AreaCluster:          "growth-corridor",
			Strategy:             "rent",
			RiskScore:            3,
			ExpectedYield:        7.5,
			ExpectedAppreciation: 8,
			PriceRange:           PriceRange{Min: 400000, Max: 600000},
			WhyItFits:            "High rental demand in growth corridor. Great for first-time investors seeking stable yields.",
			Pros:                 []string{"High rental yield", "Low entry point", "Strong tenant demand"},
			Cons:                 []string{"Smaller unit", "Lower appreciation vs prime"},
		},
		{
			ID:                   "2",
			PropertyType:         "2br",
			Status:               "off-plan",
			AreaCluster:          "emerging",
			Strategy:             "hold",
			RiskScore:            6,
			ExpectedYield:        5.5,
			ExpectedAppreciation: 12,
			PriceRange:           PriceRange{Min: 700000, Max: 950000},
			WhyItFits:            "Emerging area with infrastructure investment. Payment plan available during construction.",
			Pros:                 []string{"High growth potential", "Payment plans", "Modern amenities"},
			Cons:                 []string{"Delivery risk", "Area still developing"},
		},
		{
			ID:                   "3",
			PropertyType:         "2br",
			Status:               "ready",
			AreaCluster:          "prime",
			Strategy:             "rent",
			RiskScore:            4,
			ExpectedYield:        5.8,
			ExpectedAppreciation: 6,
			PriceRange:           PriceRange{Min: 1500000, Max: 2200000},
			WhyItFits:            "Prime location with strong resale value. Popular with expats and tourists.",
			Pros:                 []string{"Prime location", "Strong resale", "Premium tenants"},
			Cons:                 []string{"Higher entry price", "Lower yield"},
		},
	}
}
