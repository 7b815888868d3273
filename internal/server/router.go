package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/curiolearn/curio-backend/internal/handlers"
)

type RouterConfig struct {
	ContentHandler     *handlers.ContentHandler
	ProgressHandler    *handlers.ProgressHandler
	InteractionHandler *handlers.InteractionHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Catalog
		api.POST("/topics", cfg.ContentHandler.CreateTopic)
		api.GET("/topics", cfg.ContentHandler.ListTopics)
		api.POST("/contents", cfg.ContentHandler.CreateContent)
		api.GET("/contents", cfg.ContentHandler.ListPublishedContent)
		api.GET("/contents/:id", cfg.ContentHandler.GetContent)
		api.POST("/contents/:id/publish", cfg.ContentHandler.SetPublished(true))
		api.POST("/contents/:id/unpublish", cfg.ContentHandler.SetPublished(false))

		// Progress
		api.PUT("/users/:userId/contents/:contentId/progress", cfg.ProgressHandler.TrackProgress)
		api.GET("/users/:userId/progress", cfg.ProgressHandler.ListProgress)

		// Interactions
		api.POST("/interactions", cfg.InteractionHandler.LogInteraction)
		api.POST("/interactions/bulk", cfg.InteractionHandler.BulkLogInteractions)

		// Analytics
		api.GET("/analytics/contents/:id", cfg.AnalyticsHandler.GetContentAnalytics)
		api.GET("/analytics/contents/:id/abandonment", cfg.AnalyticsHandler.GetAbandonmentAnalytics)
		api.GET("/analytics/topics/:id/effectiveness", cfg.AnalyticsHandler.GetEffectivenessAnalytics)
		api.GET("/analytics/problematic-content", cfg.AnalyticsHandler.FindProblematicContent)
	}

	return router
}
