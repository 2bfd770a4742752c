package advisory

import "math"

// Per-cluster market assumptions. Moderate yield matches the advisor's
// published figures; conservative and optimistic bracket it.
type clusterProfile struct {
	yield        float64
	appreciation float64
}

var clusterProfiles = map[string]clusterProfile{
	"prime":           {yield: 5.5, appreciation: 5.0},
	"growth-corridor": {yield: 7.5, appreciation: 8.0},
	"family-hub":      {yield: 6.5, appreciation: 6.5},
	"waterfront":      {yield: 6.0, appreciation: 7.0},
	"emerging":        {yield: 8.0, appreciation: 10.0},
}

// Smaller units rent harder in Dubai; larger ones appreciate better.
var propertyYieldAdjust = map[string]float64{
	"studio":    0.5,
	"1br":       0.25,
	"2br":       0,
	"3br":       -0.25,
	"townhouse": -0.5,
	"villa":     -0.75,
	"penthouse": -1.0,
}

var roiDisclaimers = []string{
	"Projections are estimates based on historical Dubai market data and are not guaranteed.",
	"Rental yields vary with occupancy, furnishing, and service charges.",
	"Exit values assume the moderate appreciation scenario compounded annually.",
	"Consult a licensed financial advisor before committing funds.",
}

// simulateROI computes the deterministic projection for one input set.
// Same inputs always produce the same outputs.
func simulateROI(req ROIRequest) (YieldScenarios, YieldScenarios, ExitValueProjections, YieldScenarios) {
	profile, ok := clusterProfiles[req.AreaCluster]
	if !ok {
		profile = clusterProfiles["growth-corridor"]
	}

	baseYield := profile.yield + propertyYieldAdjust[req.PropertyType]
	if baseYield < 3.0 {
		baseYield = 3.0
	}

	yields := YieldScenarios{
		Conservative: round1(baseYield - 1.0),
		Moderate:     round1(baseYield),
		Optimistic:   round1(baseYield + 1.0),
	}

	appreciation := YieldScenarios{
		Conservative: round1(profile.appreciation * 0.5),
		Moderate:     round1(profile.appreciation),
		Optimistic:   round1(profile.appreciation * 1.5),
	}

	exit := ExitValueProjections{
		Year1:  compound(req.Budget, appreciation.Moderate, 1),
		Year3:  compound(req.Budget, appreciation.Moderate, 3),
		Year5:  compound(req.Budget, appreciation.Moderate, 5),
		Year10: compound(req.Budget, appreciation.Moderate, 10),
	}

	income := YieldScenarios{
		Conservative: round2(req.Budget * yields.Conservative / 100),
		Moderate:     round2(req.Budget * yields.Moderate / 100),
		Optimistic:   round2(req.Budget * yields.Optimistic / 100),
	}

	return yields, appreciation, exit, income
}

func compound(principal, ratePct float64, years int) float64 {
	return round2(principal * math.Pow(1+ratePct/100, float64(years)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
