package advisory

import (
	"net/http"

	"yuvna_backend/platform/httpkit"
	"yuvna_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidBuyerID   = "invalid buyer id"
)

// Handler serves the buyer-facing advisory tools.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates the advisory handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the advisory tool routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations/:buyerId", h.Recommendations)
	rg.POST("/roi", h.RunROI)
	rg.GET("/roi/:buyerId", h.ROIHistory)
}

func (h *Handler) Recommendations(c *gin.Context) {
	buyerID, ok := parseBuyerID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateRecommendations(c.Request.Context(), buyerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) RunROI(c *gin.Context) {
	var req ROIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.RunROISimulation(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ROIHistory(c *gin.Context) {
	buyerID, ok := parseBuyerID(c)
	if !ok {
		return
	}

	result, err := h.svc.SimulationHistory(c.Request.Context(), buyerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func parseBuyerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("buyerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidBuyerID, nil)
		return uuid.Nil, false
	}
	return id, true
}
