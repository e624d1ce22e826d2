package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tribe-health/growthbook/docs"
	"github.com/tribe-health/growthbook/internal/database"
	"github.com/tribe-health/growthbook/internal/events"
	"github.com/tribe-health/growthbook/internal/handlers"
	"github.com/tribe-health/growthbook/internal/health"
	"github.com/tribe-health/growthbook/internal/secrets"
	"github.com/tribe-health/growthbook/internal/store"
)

// @title Data Source Configuration Service API
// @version 1.0
// @description CRUD API for data source configurations of the experimentation platform.
// @BasePath /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cipher, err := secrets.CipherFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize encryption: %v", err)
	}

	// CONFIG_FILE switches the whole process into file-config mode: data sources
	// are served from the file and every mutation is rejected.
	var st store.Store
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		st, err = store.LoadFileStore(configPath, cipher)
		if err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
		log.Printf("Running in file-config mode from %s; data sources are read-only", configPath)
	} else {
		db, err := database.Connect()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		st = store.NewGormStore(db)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		natsPublisher, err := events.NewNATSPublisher(natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS at %s: %v", natsURL, err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	checker := health.NewChecker(st, cipher)
	if err := checker.Start(os.Getenv("HEALTH_CHECK_SCHEDULE")); err != nil {
		log.Fatalf("Failed to start connection health checker: %v", err)
	}
	defer checker.Stop()

	router := gin.Default()
	api := handlers.NewAPI(st, cipher, publisher)
	api.RegisterRoutes(router)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
