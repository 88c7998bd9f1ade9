package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
)

// Compile-time check to ensure SnapshotRepository implements the interface
var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

// SnapshotRepository stores raw snapshot exports as dated JSON files.
type SnapshotRepository struct {
	dir string
}

// NewSnapshotRepository creates a new SnapshotRepository rooted at dir.
func NewSnapshotRepository(dir string) *SnapshotRepository {
	return &SnapshotRepository{dir: dir}
}

// Save writes one raw export under today's date, overwriting a same-day
// export if present.
func (r *SnapshotRepository) Save(ctx context.Context, raw []byte) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	path := filepath.Join(r.dir, time.Now().UTC().Format("2006-01-02")+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return path, nil
}

// LoadLatest parses the most recent export. A missing, unparsable or empty
// snapshot is a fatal error: there is nothing meaningful to clean.
func (r *SnapshotRepository) LoadLatest(ctx context.Context) (models.Snapshot, string, error) {
	path, err := latestFile(r.dir, ".json")
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read snapshot file: %w", err)
	}
	snap, err := models.ParseSnapshot(data)
	if err != nil {
		return nil, "", fmt.Errorf("invalid snapshot JSON in %s: %w", path, err)
	}
	if len(snap) == 0 {
		return nil, "", fmt.Errorf("snapshot %s contains no user records", path)
	}
	return snap, path, nil
}
