package repositories

import (
	"context"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// SnapshotRepository defines the interface for raw snapshot storage. Each
// fetch writes a new dated export; processing always loads the latest one.
type SnapshotRepository interface {
	Save(ctx context.Context, raw []byte) (string, error)
	LoadLatest(ctx context.Context) (models.Snapshot, string, error)
}

// RosterRepository defines the interface for auth roster storage.
type RosterRepository interface {
	Save(ctx context.Context, records []models.AuthRecord) (string, error)
	LoadLatest(ctx context.Context) ([]models.AuthRecord, string, error)
}

// OutputRepository defines the interface for the processed output tables and
// the audit log. Every write replaces the prior file in full; there are no
// append semantics across runs.
type OutputRepository interface {
	WriteAuthTable(ctx context.Context, rows []models.AuthRecord) (string, error)
	WriteSubscriptions(ctx context.Context, rows []models.SubscriptionRow) (string, error)
	WriteProfiles(ctx context.Context, rows []models.ProfileRow) (string, error)
	WriteGymPreferences(ctx context.Context, rows []models.GymPreferenceRow) (string, error)
	WriteAuditLog(ctx context.Context, entries []models.AuditEntry) (string, error)
	ReadAuditLog(ctx context.Context) ([]models.AuditEntry, error)
}

// WarehouseRepository defines the interface for the optional downstream
// warehouse upload of a finished run.
type WarehouseRepository interface {
	PublishRun(ctx context.Context, run *models.PipelineRun, result *models.CleanResult) error
}
