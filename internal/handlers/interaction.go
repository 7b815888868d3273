package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curiolearn/curio-backend/internal/pkg/logger"
	"github.com/curiolearn/curio-backend/internal/services"
)

type InteractionHandler struct {
	svc services.InteractionService
	log *logger.Logger
}

func NewInteractionHandler(svc services.InteractionService, baseLog *logger.Logger) *InteractionHandler {
	return &InteractionHandler{svc: svc, log: baseLog.With("handler", "InteractionHandler")}
}

// POST /api/interactions
func (h *InteractionHandler) LogInteraction(c *gin.Context) {
	var input services.InteractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	row, err := h.svc.LogInteraction(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interaction": row})
}

// POST /api/interactions/bulk
func (h *InteractionHandler) BulkLogInteractions(c *gin.Context) {
	var body struct {
		Interactions []services.InteractionInput `json:"interactions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.BulkLogInteractions(c.Request.Context(), body.Interactions); err != nil {
		RespondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"logged": len(body.Interactions)})
}
