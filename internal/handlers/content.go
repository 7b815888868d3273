package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/curiolearn/curio-backend/internal/pkg/logger"
	"github.com/curiolearn/curio-backend/internal/services"
)

type ContentHandler struct {
	svc services.ContentService
	log *logger.Logger
}

func NewContentHandler(svc services.ContentService, baseLog *logger.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, log: baseLog.With("handler", "ContentHandler")}
}

// POST /api/topics
func (h *ContentHandler) CreateTopic(c *gin.Context) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	topic, err := h.svc.CreateTopic(c.Request.Context(), body.Name, body.Description)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"topic": topic})
}

// GET /api/topics
func (h *ContentHandler) ListTopics(c *gin.Context) {
	topics, err := h.svc.ListTopics(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"topics": topics})
}

// POST /api/contents
func (h *ContentHandler) CreateContent(c *gin.Context) {
	var input services.CreateContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.CreateContent(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"content": item})
}

// GET /api/contents/:id
func (h *ContentHandler) GetContent(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	item, err := h.svc.GetContent(c.Request.Context(), contentID)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"content": item})
}

// GET /api/contents?limit=
func (h *ContentHandler) ListPublishedContent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	items, err := h.svc.ListPublishedContent(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"contents": items})
}

// POST /api/contents/:id/publish and /api/contents/:id/unpublish
func (h *ContentHandler) SetPublished(published bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		contentID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
			return
		}

		item, err := h.svc.SetPublished(c.Request.Context(), contentID, published)
		if err != nil {
			RespondServiceError(c, h.log, err)
			return
		}
		RespondOK(c, gin.H{"content": item})
	}
}
