package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

func TestLatestFilePicksGreatestName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2024-01-01.json", "2024-03-15.json", "2024-02-28.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := latestFile(dir, ".json")
	if err != nil {
		t.Fatalf("latestFile returned error: %v", err)
	}
	if filepath.Base(got) != "2024-03-15.json" {
		t.Fatalf("latestFile = %s, want 2024-03-15.json", got)
	}
}

func TestLatestFileEmptyDir(t *testing.T) {
	if _, err := latestFile(t.TempDir(), ".json"); err == nil {
		t.Fatal("latestFile on an empty directory returned no error")
	}
}

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	repo := NewSnapshotRepository(t.TempDir())
	ctx := context.Background()

	raw := []byte(`{"u1": {"userInfo": {"email": "u1@example.com"}}}`)
	if _, err := repo.Save(ctx, raw); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	snap, path, err := repo.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest returned error: %v", err)
	}
	if path == "" {
		t.Fatal("LoadLatest returned an empty path")
	}
	rec, ok := snap["u1"]
	if !ok || rec.UserInfo == nil || rec.UserInfo.Email != "u1@example.com" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSnapshotRepositoryEmptySnapshot(t *testing.T) {
	repo := NewSnapshotRepository(t.TempDir())
	ctx := context.Background()

	if _, err := repo.Save(ctx, []byte(`{}`)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, _, err := repo.LoadLatest(ctx); err == nil {
		t.Fatal("LoadLatest accepted a snapshot with no user records")
	}
}

func TestRosterRepositoryRoundTrip(t *testing.T) {
	repo := NewRosterRepository(t.TempDir())
	ctx := context.Background()

	records := []models.AuthRecord{
		{UserID: "u1", Email: "u1@example.com", CreationDate: "2023-05-17 10:30:00", LastSignIn: "2023-05-18 09:00:00"},
		{UserID: "u2", Email: "", CreationDate: "2023-06-01 08:00:00", LastSignIn: ""},
	}
	if _, err := repo.Save(ctx, records); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, _, err := repo.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest returned error: %v", err)
	}
	if len(got) != 2 || got[0] != records[0] || got[1] != records[1] {
		t.Fatalf("LoadLatest = %+v, want %+v", got, records)
	}
}

func TestRosterRepositoryHeaderOnly(t *testing.T) {
	repo := NewRosterRepository(t.TempDir())
	ctx := context.Background()

	if _, err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, _, err := repo.LoadLatest(ctx); err == nil {
		t.Fatal("LoadLatest accepted a roster with no data rows")
	}
}

func TestOutputRepositoryAuditRoundTrip(t *testing.T) {
	repo := NewOutputRepository(t.TempDir())
	ctx := context.Background()

	entries := []models.AuditEntry{
		{UserID: "u1", Section: models.SectionAuth, Action: models.ActionFlagged, Reason: models.ReasonMissingEmail, Details: "Email field empty or null"},
		{UserID: models.SummaryUserID, Section: models.SectionSummary, Action: models.ActionSummaryStat, Reason: "Total Users Before Cleaning", Details: "1"},
	}
	path, err := repo.WriteAuditLog(ctx, entries)
	if err != nil {
		t.Fatalf("WriteAuditLog returned error: %v", err)
	}
	if filepath.Base(path) != AuditLogFile {
		t.Fatalf("audit log written to %s, want %s", path, AuditLogFile)
	}

	got, err := repo.ReadAuditLog(ctx)
	if err != nil {
		t.Fatalf("ReadAuditLog returned error: %v", err)
	}
	if len(got) != 2 || got[0] != entries[0] || got[1] != entries[1] {
		t.Fatalf("ReadAuditLog = %+v, want %+v", got, entries)
	}
}

func TestOutputRepositoryWritesHeaderOnlyTables(t *testing.T) {
	dir := t.TempDir()
	repo := NewOutputRepository(dir)
	ctx := context.Background()

	path, err := repo.WriteGymPreferences(ctx, nil)
	if err != nil {
		t.Fatalf("WriteGymPreferences returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "user_id,creation_date,preferences,translated\n" {
		t.Fatalf("empty table = %q, want header row only", data)
	}
}
