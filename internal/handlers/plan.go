package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/spendsense/spendsense-backend/internal/services"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func (ph *PlanHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"plans": ph.planService.List()})
}
