package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/middleware"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

// BillingHandler serves subscription purchases and the payment webhook.
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a BillingHandler.
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	if billingService == nil {
		panic("BillingService cannot be nil for BillingHandler")
	}
	return &BillingHandler{billingService: billingService}
}

type subscribeRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// Subscribe handles POST /api/billing/subscribe.
func (h *BillingHandler) Subscribe(c *gin.Context) {
	userID := middleware.UserID(c)

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Plan is required")
		return
	}

	result, err := h.billingService.Subscribe(c.Request.Context(), userID, req.Plan)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, result)
}

// Status handles GET /api/billing/status and returns the active
// subscription, null when none.
func (h *BillingHandler) Status(c *gin.Context) {
	userID := middleware.UserID(c)

	sub, err := h.billingService.ActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"subscription": sub})
}

// Webhook handles POST /billing/webhook from the payment provider. The
// raw body is needed for signature verification, so no JSON binding here.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logrus.WithError(err).Warn("Handler.Webhook: Failed to read body")
		ErrorResponse(c, http.StatusBadRequest, "Failed to read request body")
		return
	}
	signature := c.GetHeader("Stripe-Signature")

	if err := h.billingService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"received": true})
}
