package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/services"
)

type CheckoutHandler struct {
	log             *logger.Logger
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(log *logger.Logger, checkoutService services.CheckoutService) *CheckoutHandler {
	handlerLog := log.With("handler", "CheckoutHandler")
	return &CheckoutHandler{log: handlerLog, checkoutService: checkoutService}
}

func (ch *CheckoutHandler) CreateSession(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	var req struct {
		PlanTier int `json:"plan_tier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	session, err := ch.checkoutService.CreateSession(c.Request.Context(), sessionID, req.PlanTier)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "checkout_failed", err)
		return
	}
	RespondOK(c, session)
}

// Webhook reads the raw body so the Stripe signature verifies against the
// exact bytes sent.
func (ch *CheckoutHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("failed to read body"))
		return
	}
	sigHeader := c.GetHeader("Stripe-Signature")
	if wErr := ch.checkoutService.HandleWebhook(c.Request.Context(), payload, sigHeader); wErr != nil {
		ch.log.Warn("Webhook rejected", "error", wErr)
		RespondError(c, http.StatusBadRequest, "webhook_rejected", wErr)
		return
	}
	RespondOK(c, gin.H{"received": true})
}
