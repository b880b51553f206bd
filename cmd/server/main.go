package main

import (
	"log"

	"github.com/SAP-F-2025/practice-service/internal/cache"
	"github.com/SAP-F-2025/practice-service/internal/config"
	"github.com/SAP-F-2025/practice-service/internal/handlers"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/SAP-F-2025/practice-service/internal/validator"
	"github.com/SAP-F-2025/practice-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := logger.(*utils.SlogLogger).Slog()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatal(err)
	}
	if err := db.AutoMigrate(
		&models.PracticeSet{},
		&models.ChoiceQuestion{},
		&models.MatchingPair{},
	); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatal(err)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		log.Fatal(err)
	}
	defer redisClient.Close()
	cacheService := cache.NewRedisCache(redisClient, slogger)

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		log.Fatal(err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	repo := postgres.NewRepository(db)
	v := validator.New()

	setService := services.NewPracticeSetService(repo, v, slogger)
	sessionService := services.NewSessionService(repo, cacheService, publisher, slogger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(setService, sessionService, logger)
	handlerManager.SetupRoutes(router)

	logger.Info("Starting practice service",
		"port", cfg.Port,
		"environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("Server stopped", "error", err)
		log.Fatal(err)
	}
}
