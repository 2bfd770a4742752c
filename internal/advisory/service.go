package advisory

import (
	"context"
	"encoding/json"
	"time"

	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/ai"
	"yuvna_backend/platform/logger"

	"github.com/google/uuid"
)

const activityROISimulationRun = intelligence.ActivityROISimulationRun
const activityRecommendationsViewed = intelligence.ActivityRecommendationsViewed

// ActivityRecorder scores engagement events against buyer profiles.
// Implemented by the buyers service.
type ActivityRecorder interface {
	RecordEngagement(ctx context.Context, buyerID uuid.UUID, kind intelligence.ActivityKind) error
}

// Service generates advisor replies, recommendations, and ROI projections.
// Provider failures never surface as errors to conversation flows; callers
// get the fallback text and a degraded flag.
type Service struct {
	repo     *Repository
	provider ai.Provider
	activity ActivityRecorder
	log      *logger.Logger
}

// NewService creates the advisory service. Provider may be nil when no AI
// credentials are configured; every call then degrades to fallbacks.
func NewService(repo *Repository, provider ai.Provider, activity ActivityRecorder, log *logger.Logger) *Service {
	return &Service{repo: repo, provider: provider, activity: activity, log: log}
}

// GenerateAdvisory produces the advisor reply for one buyer message. The
// system prompt carries the buyer profile; history is capped by the caller.
func (s *Service) GenerateAdvisory(ctx context.Context, buyerID uuid.UUID, history []ai.Message, userMessage string) (string, bool) {
	profile, err := s.repo.BuyerContext(ctx, buyerID)
	if err != nil {
		s.log.Warn("buyer context unavailable for advisory prompt", "buyerId", buyerID, "error", err)
		profile = BuyerContext{}
	}

	if s.provider == nil {
		return fallbackAdvisoryText, true
	}

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{
		Role:    ai.RoleSystem,
		Content: advisorSystemPrompt(profile.Persona, profile.BudgetBand, profile.Goal),
	})
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: userMessage})

	text, err := s.provider.Generate(ctx, messages, ai.Options{Temperature: 0.7})
	if err != nil || text == "" {
		s.log.AIProviderError(s.providerName(), "advisory", err)
		return fallbackAdvisoryText, true
	}
	return text, false
}

// RunROISimulation computes, persists, and scores a projection run.
func (s *Service) RunROISimulation(ctx context.Context, req ROIRequest) (ROIResponse, error) {
	if req.Currency == "" {
		if profile, err := s.repo.BuyerContext(ctx, req.BuyerID); err == nil && profile.Currency != "" {
			req.Currency = profile.Currency
		} else {
			req.Currency = "AED"
		}
	}

	yields, appreciation, exit, income := simulateROI(req)

	resp := ROIResponse{
		ID:                    uuid.New(),
		BuyerID:               req.BuyerID,
		Budget:                req.Budget,
		Currency:              req.Currency,
		TimeHorizon:           req.TimeHorizon,
		PropertyType:          req.PropertyType,
		AreaCluster:           req.AreaCluster,
		Yields:                yields,
		AppreciationScenarios: appreciation,
		ExitValues:            exit,
		AnnualRentalIncome:    income,
		Disclaimers:           roiDisclaimers,
		CreatedAt:             time.Now(),
	}

	outputs, err := json.Marshal(resp)
	if err != nil {
		return ROIResponse{}, err
	}

	if err := s.repo.SaveSimulation(ctx, roiRecord{
		ID:           resp.ID,
		BuyerID:      resp.BuyerID,
		Budget:       resp.Budget,
		Currency:     resp.Currency,
		TimeHorizon:  resp.TimeHorizon,
		PropertyType: resp.PropertyType,
		AreaCluster:  resp.AreaCluster,
		Outputs:      outputs,
		CreatedAt:    resp.CreatedAt,
	}); err != nil {
		return ROIResponse{}, err
	}

	if s.activity != nil {
		if err := s.activity.RecordEngagement(ctx, req.BuyerID, activityROISimulationRun); err != nil {
			s.log.Warn("roi activity not recorded", "buyerId", req.BuyerID, "error", err)
		}
	}

	return resp, nil
}

// SimulationHistory returns a buyer's past ROI runs.
func (s *Service) SimulationHistory(ctx context.Context, buyerID uuid.UUID) ([]ROIResponse, error) {
	records, err := s.repo.SimulationsByBuyer(ctx, buyerID, 20)
	if err != nil {
		return nil, err
	}

	out := make([]ROIResponse, 0, len(records))
	for _, rec := range records {
		var resp ROIResponse
		if err := json.Unmarshal(rec.Outputs, &resp); err != nil {
			s.log.Warn("stored roi outputs unreadable", "simulationId", rec.ID, "error", err)
			continue
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *Service) providerName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}
