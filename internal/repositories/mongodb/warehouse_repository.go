package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
)

// Warehouse collection names, mirroring the processed CSV outputs plus a
// run log.
const (
	runsCollection     = "pipeline_runs"
	authCollection     = "auth_data"
	subsCollection     = "subscriptions"
	profilesCollection = "user_profiles"
	gymCollection      = "my_gym"
	auditCollection    = "audit_log"
)

// Compile-time check to ensure WarehouseRepository implements the interface
var _ repositories.WarehouseRepository = (*WarehouseRepository)(nil)

// WarehouseRepository uploads finished runs to MongoDB. Table collections
// are replaced in full on every publish, matching the pipeline's
// regenerate-from-scratch semantics; the run log is append-only.
type WarehouseRepository struct {
	db *mongo.Database
}

// NewWarehouseRepository creates a new WarehouseRepository.
func NewWarehouseRepository(db *mongo.Database) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// PublishRun uploads the four tables, the audit trail and the run document.
func (r *WarehouseRepository) PublishRun(ctx context.Context, run *models.PipelineRun, result *models.CleanResult) error {
	if err := replaceAll(ctx, r.db.Collection(authCollection), toDocs(result.Auth)); err != nil {
		return fmt.Errorf("failed to publish auth table: %w", err)
	}
	if err := replaceAll(ctx, r.db.Collection(subsCollection), toDocs(result.Subscriptions)); err != nil {
		return fmt.Errorf("failed to publish subscriptions: %w", err)
	}
	if err := replaceAll(ctx, r.db.Collection(profilesCollection), toDocs(result.Profiles)); err != nil {
		return fmt.Errorf("failed to publish profiles: %w", err)
	}
	if err := replaceAll(ctx, r.db.Collection(gymCollection), toDocs(result.GymPreferences)); err != nil {
		return fmt.Errorf("failed to publish gym preferences: %w", err)
	}
	if err := replaceAll(ctx, r.db.Collection(auditCollection), toDocs(result.Audit)); err != nil {
		return fmt.Errorf("failed to publish audit log: %w", err)
	}
	if _, err := r.db.Collection(runsCollection).InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to record pipeline run: %w", err)
	}
	return nil
}

// replaceAll swaps a collection's contents for the given documents.
func replaceAll(ctx context.Context, coll *mongo.Collection, docs []any) error {
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func toDocs[T any](rows []T) []any {
	docs := make([]any, len(rows))
	for i, row := range rows {
		docs[i] = row
	}
	return docs
}
