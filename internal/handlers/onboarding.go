package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendsense/spendsense-backend/internal/services"
)

type OnboardingHandler struct {
	onboardingService services.OnboardingService
}

func NewOnboardingHandler(onboardingService services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

func (oh *OnboardingHandler) Snapshot(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	view, err := oh.onboardingService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, view)
}

func (oh *OnboardingHandler) SetData(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	var req struct {
		Data map[string]string `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Data == nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	view, err := oh.onboardingService.SetData(c.Request.Context(), sessionID, req.Data)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, view)
}

func (oh *OnboardingHandler) Next(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	view, err := oh.onboardingService.Next(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, view)
}

func (oh *OnboardingHandler) Back(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	view, err := oh.onboardingService.Back(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, view)
}

func (oh *OnboardingHandler) Goto(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	var req struct {
		Step int `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	view, err := oh.onboardingService.JumpTo(c.Request.Context(), sessionID, req.Step)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, view)
}

func (oh *OnboardingHandler) Reset(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	view, err := oh.onboardingService.Reset(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, view)
}
