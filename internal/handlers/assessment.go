package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendsense/spendsense-backend/internal/assessment"
	"github.com/spendsense/spendsense-backend/internal/requestdata"
	"github.com/spendsense/spendsense-backend/internal/services"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// funnelSessionID pulls the visitor's session id placed in context by the
// session middleware.
func funnelSessionID(c *gin.Context) (string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.SessionID == "" {
		return "", false
	}
	return rd.SessionID, true
}

func respondAssessmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessment.ErrUnknownQuestion):
		RespondError(c, http.StatusBadRequest, "unknown_question", err)
	case errors.Is(err, assessment.ErrInvalidAnswer):
		RespondError(c, http.StatusUnprocessableEntity, "invalid_answer", err)
	case errors.Is(err, assessment.ErrNotCompleted):
		RespondError(c, http.StatusConflict, "not_completed", err)
	case errors.Is(err, assessment.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "invalid_transition", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func (ah *AssessmentHandler) Snapshot(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	view, err := ah.assessmentService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ah *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	var req struct {
		QuestionID string           `json:"question_id"`
		Value      assessment.Value `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	view, err := ah.assessmentService.SubmitAnswer(c.Request.Context(), sessionID, req.QuestionID, req.Value)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ah *AssessmentHandler) Back(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	view, err := ah.assessmentService.GoBack(c.Request.Context(), sessionID)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ah *AssessmentHandler) Goto(c *gin.Context) {
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
	view, err := ah.assessmentService.JumpTo(c.Request.Context(), sessionID, req.Step)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ah *AssessmentHandler) Reset(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	view, err := ah.assessmentService.Reset(c.Request.Context(), sessionID)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}
	RespondOK(c, view)
}

func (ah *AssessmentHandler) Results(c *gin.Context) {
	sessionID, ok := funnelSessionID(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_session", fmt.Errorf("no session"))
		return
	}
	result, err := ah.assessmentService.Results(c.Request.Context(), sessionID)
	if err != nil {
		respondAssessmentError(c, err)
		return
	}
	RespondOK(c, result)
}
