package main

import (
	"fmt"
	"os"
	"time"

	redisclient "github.com/curiolearn/curio-backend/internal/clients/redis"
	contentrepo "github.com/curiolearn/curio-backend/internal/data/repos/content"
	engagementrepo "github.com/curiolearn/curio-backend/internal/data/repos/engagement"
	"github.com/curiolearn/curio-backend/internal/db"
	"github.com/curiolearn/curio-backend/internal/handlers"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
	"github.com/curiolearn/curio-backend/internal/server"
	"github.com/curiolearn/curio-backend/internal/services"
	"github.com/curiolearn/curio-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	cacheTTL := utils.GetEnvAsInt("ANALYTICS_CACHE_TTL_SECONDS", 60, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Redis (optional)
	var analyticsCache redisclient.AnalyticsCache
	cache, err := redisclient.NewAnalyticsCache(log, time.Duration(cacheTTL)*time.Second)
	if err != nil {
		log.Warn("Analytics cache disabled", "error", err)
	} else {
		analyticsCache = cache
		defer analyticsCache.Close()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	topicRepo := contentrepo.NewTopicRepo(thePG, log)
	contentRepo := contentrepo.NewContentRepo(thePG, log)
	progressRepo := engagementrepo.NewProgressRepo(thePG, log)
	interactionLogRepo := engagementrepo.NewInteractionLogRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	contentService := services.NewContentService(thePG, log, contentRepo, topicRepo)
	progressService := services.NewProgressService(thePG, log, contentRepo, progressRepo)
	interactionService := services.NewInteractionService(thePG, log, contentRepo, interactionLogRepo)
	analyticsService := services.NewAnalyticsService(thePG, log, contentRepo, topicRepo, progressRepo, interactionLogRepo, analyticsCache)

	// Handlers
	log.Info("Setting up handlers from main...")
	contentHandler := handlers.NewContentHandler(contentService, log)
	progressHandler := handlers.NewProgressHandler(progressService, log)
	interactionHandler := handlers.NewInteractionHandler(interactionService, log)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ContentHandler:     contentHandler,
		ProgressHandler:    progressHandler,
		InteractionHandler: interactionHandler,
		AnalyticsHandler:   analyticsHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
