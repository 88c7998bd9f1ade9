package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
)

// Compile-time check to ensure RosterRepository implements the interface
var _ repositories.RosterRepository = (*RosterRepository)(nil)

// RosterRepository stores auth roster exports as dated CSV files.
type RosterRepository struct {
	dir string
}

// NewRosterRepository creates a new RosterRepository rooted at dir.
func NewRosterRepository(dir string) *RosterRepository {
	return &RosterRepository{dir: dir}
}

// Save writes one roster export under today's date.
func (r *RosterRepository) Save(ctx context.Context, records []models.AuthRecord) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create roster directory: %w", err)
	}
	path := filepath.Join(r.dir, time.Now().UTC().Format("2006-01-02")+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create roster file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.RosterColumns); err != nil {
		return "", fmt.Errorf("failed to write roster header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Fields()); err != nil {
			return "", fmt.Errorf("failed to write roster row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush roster file: %w", err)
	}
	return path, nil
}

// LoadLatest reads the most recent roster export. Columns are positional;
// the header row is required but its labels are not trusted. An export with
// no data rows is a fatal error.
func (r *RosterRepository) LoadLatest(ctx context.Context) ([]models.AuthRecord, string, error) {
	path, err := latestFile(r.dir, ".csv")
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("invalid roster CSV in %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, "", fmt.Errorf("roster %s is empty or has only a header", filepath.Base(path))
	}

	records := make([]models.AuthRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < len(models.RosterColumns) {
			return nil, "", fmt.Errorf("roster row %d has %d fields, want %d", i+1, len(row), len(models.RosterColumns))
		}
		records = append(records, models.AuthRecord{
			UserID:       row[0],
			Email:        row[1],
			CreationDate: row[2],
			LastSignIn:   row[3],
		})
	}
	return records, path, nil
}
