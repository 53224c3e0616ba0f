package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendsense/spendsense-backend/internal/repos"
	"github.com/spendsense/spendsense-backend/internal/services"
)

type AdminHandler struct {
	submissionService services.SubmissionService
}

func NewAdminHandler(submissionService services.SubmissionService) *AdminHandler {
	return &AdminHandler{submissionService: submissionService}
}

func adminFilter(c *gin.Context) repos.SubmissionFilter {
	filter := repos.SubmissionFilter{
		Status: c.Query("status"),
		Search: c.Query("q"),
	}
	if tier, err := strconv.Atoi(c.Query("plan_tier")); err == nil {
		filter.PlanTier = tier
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filter.Offset = offset
	}
	return filter
}

func (ah *AdminHandler) ListSubmissions(c *gin.Context) {
	page, err := ah.submissionService.List(c.Request.Context(), adminFilter(c))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "list_failed", err)
		return
	}
	RespondOK(c, page)
}

func (ah *AdminHandler) GetSubmission(c *gin.Context) {
	submissionID, pErr := uuid.Parse(c.Param("id"))
	if pErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid submission id"))
		return
	}
	submission, err := ah.submissionService.GetByID(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("submission not found"))
			return
		}
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, submission)
}

func (ah *AdminHandler) UpdateSubmissionStatus(c *gin.Context) {
	submissionID, pErr := uuid.Parse(c.Param("id"))
	if pErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid submission id"))
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	submission, err := ah.submissionService.UpdateStatus(c.Request.Context(), submissionID, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("submission not found"))
			return
		}
		RespondError(c, http.StatusBadRequest, "update_failed", err)
		return
	}
	RespondOK(c, submission)
}

func (ah *AdminHandler) ExportSubmissions(c *gin.Context) {
	csvBytes, err := ah.submissionService.ExportCSV(c.Request.Context(), adminFilter(c))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "export_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="submissions.csv"`)
	c.Data(http.StatusOK, "text/csv", csvBytes)
}
