package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kleinfit/klein-data-pipeline/internal/cleaning"
	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
	"github.com/kleinfit/klein-data-pipeline/pkg/logger"
)

// Compile-time check to ensure PipelineServiceImpl implements PipelineService
var _ PipelineService = (*PipelineServiceImpl)(nil)

// PipelineServiceImpl orchestrates one full ETL run: optional fetch, load
// of the latest raw exports, the cleaning pass, persistence of the five
// output artifacts and the optional warehouse upload.
type PipelineServiceImpl struct {
	fetch     FetchService
	snapshots repositories.SnapshotRepository
	roster    repositories.RosterRepository
	outputs   repositories.OutputRepository
	warehouse repositories.WarehouseRepository // nil disables publishing
	engine    *cleaning.Engine
	logger    *logger.Logger

	mu      sync.Mutex
	lastRun *models.PipelineRun
}

// NewPipelineService creates a new PipelineServiceImpl. A nil warehouse
// repository disables the publish stage.
func NewPipelineService(fetch FetchService, snapshots repositories.SnapshotRepository, roster repositories.RosterRepository, outputs repositories.OutputRepository, warehouse repositories.WarehouseRepository, engine *cleaning.Engine, log *logger.Logger) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		fetch:     fetch,
		snapshots: snapshots,
		roster:    roster,
		outputs:   outputs,
		warehouse: warehouse,
		engine:    engine,
		logger:    log,
	}
}

// Run executes the pipeline. Runs are serialized: the output files are
// shared state, so two overlapping runs must not interleave writes.
func (s *PipelineServiceImpl) Run(ctx context.Context, update bool) (*models.PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &models.PipelineRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log := s.logger.With("runId", run.ID)

	if update {
		log.Info("Fetching fresh raw data")
		if _, err := s.fetch.FetchSnapshot(ctx); err != nil {
			return nil, err
		}
		if _, err := s.fetch.FetchRoster(ctx); err != nil {
			return nil, err
		}
	}

	snapshot, snapshotPath, err := s.snapshots.LoadLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	roster, rosterPath, err := s.roster.LoadLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	run.SnapshotFile = snapshotPath
	run.RosterFile = rosterPath
	log.Info("Loaded raw data", "snapshot", snapshotPath, "roster", rosterPath, "users", len(snapshot), "rosterRows", len(roster))

	result := s.engine.Run(snapshot, roster)
	log.Info("Cleaning pass finished",
		"totalUsers", result.Summary.TotalUsers,
		"removedUsers", result.Summary.RemovedUsers,
		"finalUsers", result.Summary.FinalUsers,
		"flaggedIssues", result.Summary.FlaggedIssues)

	if err := s.persist(ctx, result, log); err != nil {
		return nil, err
	}

	if s.warehouse != nil {
		if err := s.warehouse.PublishRun(ctx, run, result); err != nil {
			return nil, fmt.Errorf("failed to publish run to warehouse: %w", err)
		}
		run.Published = true
		log.Info("Published run to warehouse")
	}

	run.AuthRows = len(result.Auth)
	run.SubRows = len(result.Subscriptions)
	run.ProfileRows = len(result.Profiles)
	run.GymRows = len(result.GymPreferences)
	run.AuditEntries = len(result.Audit)
	run.Summary = result.Summary
	run.FinishedAt = time.Now().UTC()

	s.lastRun = run
	log.Info("Pipeline run complete", "duration", run.FinishedAt.Sub(run.StartedAt).String())
	return run, nil
}

func (s *PipelineServiceImpl) persist(ctx context.Context, result *models.CleanResult, log *logger.Logger) error {
	writes := []struct {
		name  string
		write func() (string, error)
	}{
		{"auth table", func() (string, error) { return s.outputs.WriteAuthTable(ctx, result.Auth) }},
		{"subscriptions", func() (string, error) { return s.outputs.WriteSubscriptions(ctx, result.Subscriptions) }},
		{"profiles", func() (string, error) { return s.outputs.WriteProfiles(ctx, result.Profiles) }},
		{"gym preferences", func() (string, error) { return s.outputs.WriteGymPreferences(ctx, result.GymPreferences) }},
		{"audit log", func() (string, error) { return s.outputs.WriteAuditLog(ctx, result.Audit) }},
	}
	for _, w := range writes {
		path, err := w.write()
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", w.name, err)
		}
		log.Info("Saved output", "table", w.name, "path", path)
	}
	return nil
}

// LatestRun returns the most recent run of this process, or nil when none
// has run yet.
func (s *PipelineServiceImpl) LatestRun() *models.PipelineRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
