package advisory

import (
	"time"

	"github.com/google/uuid"
)

// PropertyRecommendation is one suggestion from the recommendation engine.
type PropertyRecommendation struct {
	ID                   string     `json:"id"`
	PropertyType         string     `json:"propertyType"`
	Status               string     `json:"status"`
	AreaCluster          string     `json:"areaCluster"`
	Strategy             string     `json:"strategy"`
	RiskScore            int        `json:"riskScore"`
	ExpectedYield        float64    `json:"expectedYield"`
	ExpectedAppreciation float64    `json:"expectedAppreciation"`
	PriceRange           PriceRange `json:"priceRange"`
	WhyItFits            string     `json:"whyItFits"`
	Pros                 []string   `json:"pros"`
	Cons                 []string   `json:"cons"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RecommendationsResponse marks fallback sets so the UI can badge them.
type RecommendationsResponse struct {
	Items    []PropertyRecommendation `json:"items"`
	Degraded bool                     `json:"degraded"`
}

type ROIRequest struct {
	BuyerID      uuid.UUID `json:"buyerId" validate:"required"`
	Budget       float64   `json:"budget" validate:"required,gt=0"`
	Currency     string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	TimeHorizon  int       `json:"timeHorizon" validate:"required,gte=1,lte=30"`
	PropertyType string    `json:"propertyType" validate:"required,oneof=studio 1br 2br 3br townhouse villa penthouse"`
	AreaCluster  string    `json:"areaCluster" validate:"required,oneof=prime growth-corridor family-hub waterfront emerging"`
}

type YieldScenarios struct {
	Conservative float64 `json:"conservative"`
	Moderate     float64 `json:"moderate"`
	Optimistic   float64 `json:"optimistic"`
}

type ExitValueProjections struct {
	Year1  float64 `json:"year1"`
	Year3  float64 `json:"year3"`
	Year5  float64 `json:"year5"`
	Year10 float64 `json:"year10"`
}

type ROIResponse struct {
	ID                    uuid.UUID            `json:"id"`
	BuyerID               uuid.UUID            `json:"buyerId"`
	Budget                float64              `json:"budget"`
	Currency              string               `json:"currency"`
	TimeHorizon           int                  `json:"timeHorizon"`
	PropertyType          string               `json:"propertyType"`
	AreaCluster           string               `json:"areaCluster"`
	Yields                YieldScenarios       `json:"yields"`
	AppreciationScenarios YieldScenarios       `json:"appreciationScenarios"`
	ExitValues            ExitValueProjections `json:"exitValueProjections"`
	AnnualRentalIncome    YieldScenarios       `json:"annualRentalIncome"`
	Disclaimers           []string             `json:"disclaimers"`
	CreatedAt             time.Time            `json:"createdAt"`
}
