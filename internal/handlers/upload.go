package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spendsense/spendsense-backend/internal/services"
)

type UploadHandler struct {
	fileService services.FileService
}

func NewUploadHandler(fileService services.FileService) *UploadHandler {
	return &UploadHandler{fileService: fileService}
}

func (uh *UploadHandler) Sign(c *gin.Context) {
	var req struct {
		SubmissionID string `json:"submission_id"`
		FileName     string `json:"file_name"`
		ContentType  string `json:"content_type"`
		SizeBytes    int64  `json:"size_bytes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	submissionID, pErr := uuid.Parse(req.SubmissionID)
	if pErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid submission id"))
		return
	}
	signed, err := uh.fileService.SignUpload(c.Request.Context(), submissionID, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "sign_failed", err)
		return
	}
	RespondOK(c, signed)
}

func (uh *UploadHandler) Confirm(c *gin.Context) {
	var req struct {
		FileID    string `json:"file_id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	fileID, pErr := uuid.Parse(req.FileID)
	if pErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid file id"))
		return
	}
	file, err := uh.fileService.ConfirmUpload(c.Request.Context(), fileID, req.SizeBytes)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "confirm_failed", err)
		return
	}
	RespondOK(c, file)
}

func (uh *UploadHandler) Abandon(c *gin.Context) {
	var req struct {
		FileID string `json:"file_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	fileID, pErr := uuid.Parse(req.FileID)
	if pErr != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid file id"))
		return
	}
	if err := uh.fileService.AbandonUpload(c.Request.Context(), fileID); err != nil {
		RespondError(c, http.StatusBadRequest, "abandon_failed", err)
		return
	}
	RespondOK(c, gin.H{"abandoned": true})
}
