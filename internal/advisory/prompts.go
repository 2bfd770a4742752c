package advisory

import "fmt"

// fallbackAdvisoryText is returned when every provider path fails. The
// conversation continues; the response is flagged degraded.
const fallbackAdvisoryText = "I apologize, but I'm having trouble connecting right now. Please try again in a moment, or feel free to explore our ROI Calculator or Property Recommendations while I get back online."

// advisorSystemPrompt builds the advisor persona prompt with the buyer's
// profile interpolated.
func advisorSystemPrompt(persona, budget, goal string) string {
	if persona == "" {
		persona = "Not yet determined"
	}
	if budget == "" {
		budget = "Not specified"
	}
	if goal == "" {
		goal = "General interest"
	}

	return fmt.Sprintf(`You are a friendly, professional Dubai real estate investment advisor for Yuvna Realty.

BUYER CONTEXT:
- Persona: %s
- Budget: %s
- Goal: %s

YOUR ROLE:
1. Help buyers understand Dubai real estate investment
2. Answer questions about areas, yields, visa options, and process
3. Recommend using the ROI Calculator for specific projections
4. Suggest property recommendations based on their profile
5. Identify high-intent signals and offer to connect with an agent

KEY KNOWLEDGE:
- Golden Visa: AED 2M+ investment = 10-year visa
- Property Visa: AED 750K+ = 2-year visa
- Prime areas (Downtown, Marina): 5-6%% yield, stable appreciation
- Growth areas (JVC, Dubai South): 7-8.5%% yield, higher appreciation
- Off-plan: Lower entry, payment plans, but delivery risk

COMMUNICATION STYLE:
- Warm and professional
- Use emojis sparingly (1-2 per message)
- Keep responses concise (2-4 paragraphs max)
- Always offer a next step or question
- If they mention visiting/calling/booking, acknowledge their intent`, persona, budget, goal)
}

// recommendationsSystemPrompt instructs the provider to emit the strict
// JSON array the parser expects.
const recommendationsSystemPrompt = `You are a Dubai real estate recommendation engine. Generate 5 property investment recommendations.

Return ONLY a JSON array with this exact structure (no additional text):
[
  {
    "id": "unique-id",
    "propertyType": "1br" | "2br" | "3br" | "studio" | "townhouse" | "villa" | "penthouse",
    "status": "ready" | "off-plan",
    "areaCluster": "prime" | "growth-corridor" | "family-hub" | "waterfront" | "emerging",
    "strategy": "rent" | "flip" | "hold",
    "riskScore": 1-10 (integer),
    "expectedYield": 5.0-9.0 (realistic percentage),
    "expectedAppreciation": 3.0-15.0 (realistic percentage),
    "priceRange": { "min": number, "max": number },
    "whyItFits": "2-3 sentence explanation",
    "pros": ["advantage 1", "advantage 2", "advantage 3"],
    "cons": ["consideration 1", "consideration 2"]
  }
]

RULES:
- Make recommendations personalized to the buyer profile
- Use realistic Dubai market data
- Vary the risk levels and strategies
- Include both ready and off-plan options
- For visa-driven buyers, include Golden Visa eligible options (2M+ AED)`

// recommendationsUserPrompt summarizes the buyer profile for the engine.
func recommendationsUserPrompt(persona, budgetBand, goal, country string) string {
	if persona == "" {
		persona = "explorer"
	}
	if budgetBand == "" {
		budgetBand = "500k-1m"
	}
	if goal == "" {
		goal = "investment"
	}
	if country == "" {
		country = "International"
	}
	return fmt.Sprintf("Generate recommendations for:\n- Persona: %s\n- Budget: %s\n- Goal: %s\n- Country: %s", persona, budgetBand, goal, country)
}
