package handler

import (
	"context"
	"net/http"

	"yuvna_backend/internal/conversations/service"
	"yuvna_backend/internal/conversations/transport"
	"yuvna_backend/platform/httpkit"
	"yuvna_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest        = "invalid request"
	msgValidationFailed      = "validation failed"
	msgInvalidConversationID = "invalid conversation id"
)

// PublicHandler serves the buyer-facing chat endpoints.
type PublicHandler struct {
	svc *service.Service
	val *validator.Validator
}

// NewPublicHandler creates the public conversations handler.
func NewPublicHandler(svc *service.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// RegisterRoutes registers buyer-facing chat routes.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Start)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/messages", h.SendMessage)
}

func (h *PublicHandler) Start(c *gin.Context) {
	var req transport.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Start(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

func (h *PublicHandler) Get(c *gin.Context) {
	id, ok := parseConversationID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *PublicHandler) SendMessage(c *gin.Context) {
	id, ok := parseConversationID(c)
	if !ok {
		return
	}

	var req transport.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SendMessage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Handler serves the agent inbox and escalation actions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the agent conversations handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers agent-facing conversation routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/escalation/confirm", h.ConfirmEscalation)
	rg.POST("/:id/escalation/dismiss", h.DismissEscalation)
	rg.POST("/:id/escalation/reset", h.ResetEscalation)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListConversationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseConversationID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ConfirmEscalation(c *gin.Context) {
	h.escalationAction(c, h.svc.ConfirmEscalation)
}

func (h *Handler) DismissEscalation(c *gin.Context) {
	h.escalationAction(c, h.svc.DismissEscalation)
}

func (h *Handler) ResetEscalation(c *gin.Context) {
	h.escalationAction(c, h.svc.ResetEscalation)
}

func (h *Handler) escalationAction(c *gin.Context, action func(ctx context.Context, id uuid.UUID) error) {
	id, ok := parseConversationID(c)
	if !ok {
		return
	}

	if err := action(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

func parseConversationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidConversationID, nil)
		return uuid.Nil, false
	}
	return id, true
}
