package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/curiolearn/curio-backend/internal/pkg/logger"
	"github.com/curiolearn/curio-backend/internal/services"
)

const defaultProblematicThreshold = 50.0

type AnalyticsHandler struct {
	svc services.AnalyticsService
	log *logger.Logger
}

func NewAnalyticsHandler(svc services.AnalyticsService, baseLog *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: baseLog.With("handler", "AnalyticsHandler")}
}

// GET /api/analytics/contents/:id
func (h *AnalyticsHandler) GetContentAnalytics(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	analytics, err := h.svc.GetContentAnalytics(c.Request.Context(), contentID)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"analytics": analytics})
}

// GET /api/analytics/contents/:id/abandonment
func (h *AnalyticsHandler) GetAbandonmentAnalytics(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	analytics, err := h.svc.GetAbandonmentAnalytics(c.Request.Context(), contentID)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"analytics": analytics})
}

// GET /api/analytics/topics/:id/effectiveness
func (h *AnalyticsHandler) GetEffectivenessAnalytics(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}

	analytics, err := h.svc.GetEffectivenessAnalytics(c.Request.Context(), topicID)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"analytics": analytics})
}

// GET /api/analytics/problematic-content?threshold=&limit=
func (h *AnalyticsHandler) FindProblematicContent(c *gin.Context) {
	threshold := defaultProblematicThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold"})
			return
		}
		threshold = parsed
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	results, err := h.svc.FindProblematicContent(c.Request.Context(), threshold, limit)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"problematic_content": results})
}
