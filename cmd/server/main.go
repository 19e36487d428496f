package main

import (
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"estatequery/server/config"
	"estatequery/server/internal/analysis"
	"estatequery/server/internal/api"
	"estatequery/server/internal/database"
	"estatequery/server/internal/gemini"
	"estatequery/server/internal/ingest"
	"estatequery/server/internal/processor"
	"estatequery/server/internal/query"
	"estatequery/server/internal/queue"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.Database.Path)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Ingest the dataset when one is configured
	if cfg.Ingest.DatasetPath != "" {
		recordQueue := queue.NewRecordQueue(cfg.Ingest.QueueSize, logger)
		batchProcessor := processor.NewBatchProcessor(db.GetGormDB(), recordQueue, cfg, logger)
		batchProcessor.Start()
		recordQueue.Start()

		loader := ingest.NewLoader(logger, recordQueue, cfg.Ingest.MaxBatchSize)
		count, err := loader.LoadFile(cfg.Ingest.DatasetPath)
		if err != nil {
			logger.WithError(err).Error("Dataset ingestion failed")
		} else {
			logger.Infof("Dataset ingestion enqueued %d records", count)
		}
	}

	locations, err := config.LoadLocations(os.Getenv("LOCATIONS_PATH"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to load gazetteer")
	}

	classifier := query.NewIntentClassifier(config.DefaultIntentRules)
	extractor := query.NewLocationExtractor(config.LocationNames(locations))

	// The generator is optional: without an API key every request uses
	// the deterministic composer
	var generator analysis.Generator
	if cfg.Gemini.APIKey != "" {
		generator = gemini.NewService(logger, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, gemini.Params{
			Temperature:     cfg.Gemini.Temperature,
			TopP:            cfg.Gemini.TopP,
			TopK:            cfg.Gemini.TopK,
			MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
			SafetyThreshold: cfg.Gemini.SafetyThreshold,
		})
		logger.Infof("Gemini generator enabled (model %s)", cfg.Gemini.Model)
	} else {
		logger.Info("GEMINI_API_KEY not set, using deterministic composer")
	}

	service := analysis.NewService(db, generator, db, classifier, extractor, logger)
	handler := api.NewHandler(db, service, locations, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
