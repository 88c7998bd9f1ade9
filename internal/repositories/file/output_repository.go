package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
)

// Processed output file names. Names and column orders are part of the
// contract for downstream consumers.
const (
	AuthTableFile      = "auth_data.csv"
	SubscriptionsFile  = "subscriptions.csv"
	ProfilesFile       = "user_profiles.csv"
	GymPreferencesFile = "my_gym.csv"
	AuditLogFile       = "data_cleaning_audit.csv"
)

// Compile-time check to ensure OutputRepository implements the interface
var _ repositories.OutputRepository = (*OutputRepository)(nil)

// OutputRepository writes the processed tables and the audit log as CSV
// files under one directory, regenerating each file in full on every run.
type OutputRepository struct {
	dir string
}

// NewOutputRepository creates a new OutputRepository rooted at dir.
func NewOutputRepository(dir string) *OutputRepository {
	return &OutputRepository{dir: dir}
}

// WriteAuthTable writes the cleaned auth table.
func (r *OutputRepository) WriteAuthTable(ctx context.Context, rows []models.AuthRecord) (string, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Fields())
	}
	return r.writeCSV(AuthTableFile, models.RosterColumns, records)
}

// WriteSubscriptions writes the subscriptions table.
func (r *OutputRepository) WriteSubscriptions(ctx context.Context, rows []models.SubscriptionRow) (string, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Fields())
	}
	return r.writeCSV(SubscriptionsFile, models.SubscriptionColumns, records)
}

// WriteProfiles writes the user profiles table.
func (r *OutputRepository) WriteProfiles(ctx context.Context, rows []models.ProfileRow) (string, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Fields())
	}
	return r.writeCSV(ProfilesFile, models.ProfileColumns, records)
}

// WriteGymPreferences writes the gym preferences table.
func (r *OutputRepository) WriteGymPreferences(ctx context.Context, rows []models.GymPreferenceRow) (string, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Fields())
	}
	return r.writeCSV(GymPreferencesFile, models.GymPreferenceColumns, records)
}

// WriteAuditLog writes the audit trail, summary rows included.
func (r *OutputRepository) WriteAuditLog(ctx context.Context, entries []models.AuditEntry) (string, error) {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Fields())
	}
	return r.writeCSV(AuditLogFile, models.AuditColumns, records)
}

// ReadAuditLog reads back the most recently written audit log.
func (r *OutputRepository) ReadAuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	path := filepath.Join(r.dir, AuditLogFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid audit log CSV: %w", err)
	}
	entries := make([]models.AuditEntry, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < len(models.AuditColumns) {
			return nil, fmt.Errorf("audit row %d has %d fields, want %d", i, len(row), len(models.AuditColumns))
		}
		entries = append(entries, models.AuditEntry{
			UserID:  row[0],
			Section: row[1],
			Action:  row[2],
			Reason:  row[3],
			Details: row[4],
		})
	}
	return entries, nil
}

func (r *OutputRepository) writeCSV(name string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return path, nil
}
