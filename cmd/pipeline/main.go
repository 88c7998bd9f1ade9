package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/kleinfit/klein-data-pipeline/internal/cleaning"
	"github.com/kleinfit/klein-data-pipeline/internal/config"
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

	update := flag.Bool("update", false, "fetch fresh raw data before processing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// Bootstrap the data directories
	for _, dir := range []string{cfg.Data.RawJSONDir, cfg.Data.RawAuthDir, cfg.Data.ProcessedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			appLogger.Fatal("Failed to create data directory", "dir", dir, "error", err)
		}
	}

	ctx := context.Background()

	// Wire repositories
	snapshotRepo := filerepo.NewSnapshotRepository(cfg.Data.RawJSONDir)
	rosterRepo := filerepo.NewRosterRepository(cfg.Data.RawAuthDir)
	outputRepo := filerepo.NewOutputRepository(cfg.Data.ProcessedDir)

	var warehouseRepo repositories.WarehouseRepository
	if cfg.Publish.Enabled {
		mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			appLogger.Fatal("Failed to connect to MongoDB", "error", err)
		}
		defer mongoClient.Disconnect(ctx)
		warehouseRepo = mongorepo.NewWarehouseRepository(mongoClient.Database(cfg.MongoDB.Database))
	}

	// Wire services
	firebaseClient := firebase.NewClient(cfg.Firebase.DatabaseURL, cfg.Firebase.ProjectID, cfg.Firebase.AccessToken, cfg.Firebase.Mock)
	fetchService := services.NewFetchService(firebaseClient, snapshotRepo, rosterRepo, cfg.Cleaning.FakeEmailDomains, appLogger)
	engine := cleaning.NewEngine(cleaning.Options{
		TestAccounts:               cfg.Cleaning.TestAccounts,
		FlaggedEmailSubstrings:     cfg.Cleaning.FlaggedEmailSubstrings,
		IncompleteProfileThreshold: cfg.Cleaning.IncompleteProfileThreshold,
	})
	pipelineService := services.NewPipelineService(fetchService, snapshotRepo, rosterRepo, outputRepo, warehouseRepo, engine, appLogger)

	run, err := pipelineService.Run(ctx, *update)
	if err != nil {
		appLogger.Fatal("Pipeline run failed", "error", err)
	}
	appLogger.Info("Pipeline complete",
		"runId", run.ID,
		"authRows", run.AuthRows,
		"subscriptionRows", run.SubRows,
		"profileRows", run.ProfileRows,
		"gymPreferenceRows", run.GymRows,
		"auditEntries", run.AuditEntries,
	)
}
