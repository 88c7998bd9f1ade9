package services

import (
	"context"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// FetchService defines the interface for pulling fresh raw exports from the
// source system into the raw data directories.
type FetchService interface {
	// FetchSnapshot exports the hierarchical user store and returns the
	// written file path.
	FetchSnapshot(ctx context.Context) (string, error)

	// FetchRoster exports the flat auth roster and returns the written
	// file path.
	FetchRoster(ctx context.Context) (string, error)
}

// PipelineService defines the interface for running the ETL end to end.
type PipelineService interface {
	// Run executes one pipeline run: optional fetch, load, clean, persist,
	// optional warehouse publish.
	Run(ctx context.Context, update bool) (*models.PipelineRun, error)

	// LatestRun returns the most recent run of this process, or nil.
	LatestRun() *models.PipelineRun
}
