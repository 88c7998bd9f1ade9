package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kleinfit/klein-data-pipeline/api/routes"
	"github.com/kleinfit/klein-data-pipeline/internal/cleaning"
	"github.com/kleinfit/klein-data-pipeline/internal/config"
	"github.com/kleinfit/klein-data-pipeline/internal/handlers"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
	filerepo "github.com/kleinfit/klein-data-pipeline/internal/repositories/file"
	mongorepo "github.com/kleinfit/klein-data-pipeline/internal/repositories/mongodb"
	"github.com/kleinfit/klein-data-pipeline/internal/services"
	"github.com/kleinfit/klein-data-pipeline/pkg/firebase"
	"github.com/kleinfit/klein-data-pipeline/pkg/logger"
	"github.com/kleinfit/klein-data-pipeline/pkg/mongodb"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	for _, dir := range []string{cfg.Data.RawJSONDir, cfg.Data.RawAuthDir, cfg.Data.ProcessedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			appLogger.Fatal("Failed to create data directory", "dir", dir, "error", err)
		}
	}

	// Initialize repositories
	snapshotRepo := filerepo.NewSnapshotRepository(cfg.Data.RawJSONDir)
	rosterRepo := filerepo.NewRosterRepository(cfg.Data.RawAuthDir)
	outputRepo := filerepo.NewOutputRepository(cfg.Data.ProcessedDir)

	var warehouseRepo repositories.WarehouseRepository
	if cfg.Publish.Enabled {
		mongoClient, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI)
		if err != nil {
			appLogger.Fatal("Failed to connect to MongoDB", "error", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLogger.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()
		warehouseRepo = mongorepo.NewWarehouseRepository(mongoClient.Database(cfg.MongoDB.Database))
	}

	// Initialize services
	firebaseClient := firebase.NewClient(cfg.Firebase.DatabaseURL, cfg.Firebase.ProjectID, cfg.Firebase.AccessToken, cfg.Firebase.Mock)
	fetchService := services.NewFetchService(firebaseClient, snapshotRepo, rosterRepo, cfg.Cleaning.FakeEmailDomains, appLogger)
	engine := cleaning.NewEngine(cleaning.Options{
		TestAccounts:               cfg.Cleaning.TestAccounts,
		FlaggedEmailSubstrings:     cfg.Cleaning.FlaggedEmailSubstrings,
		IncompleteProfileThreshold: cfg.Cleaning.IncompleteProfileThreshold,
	})
	pipelineService := services.NewPipelineService(fetchService, snapshotRepo, rosterRepo, outputRepo, warehouseRepo, engine, appLogger)

	// Initialize handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:     handlers.NewAuthHandler(cfg),
		PipelineHandler: handlers.NewPipelineHandler(pipelineService),
		AuditHandler:    handlers.NewAuditHandler(outputRepo),
	}

	router := routes.SetupRouter(cfg, appLogger, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	appLogger.Info("Server starting", "port", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
