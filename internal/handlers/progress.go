package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/curiolearn/curio-backend/internal/pkg/logger"
	"github.com/curiolearn/curio-backend/internal/services"
)

type ProgressHandler struct {
	svc services.ProgressService
	log *logger.Logger
}

func NewProgressHandler(svc services.ProgressService, baseLog *logger.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, log: baseLog.With("handler", "ProgressHandler")}
}

// PUT /api/users/:userId/contents/:contentId/progress
func (h *ProgressHandler) TrackProgress(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	contentID, err := uuid.Parse(c.Param("contentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	var input services.ProgressUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.svc.TrackProgress(c.Request.Context(), userID, contentID, input)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"progress": view})
}

// GET /api/users/:userId/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	views, err := h.svc.ListProgressForUser(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"progress": views})
}
