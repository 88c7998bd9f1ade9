package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kleinfit/klein-data-pipeline/internal/cleaning"
	"github.com/kleinfit/klein-data-pipeline/internal/models"
	filerepo "github.com/kleinfit/klein-data-pipeline/internal/repositories/file"
	"github.com/kleinfit/klein-data-pipeline/pkg/firebase"
	"github.com/kleinfit/klein-data-pipeline/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

func TestIsFakeEmail(t *testing.T) {
	s := &FetchServiceImpl{fakeDomains: []string{"uatbuild.com", "uat.com"}}

	cases := []struct {
		email string
		want  bool
	}{
		{"builder@uatbuild.com", true},
		{"Builder@UATBUILD.COM", true},
		{"tester@uat.com", true},
		{"real.user@example.com", false},
		{"", false},
	}
	for _, c := range cases {
		if got := s.isFakeEmail(c.email); got != c.want {
			t.Fatalf("isFakeEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}

func TestFetchRosterDropsFakeDomains(t *testing.T) {
	ctx := context.Background()
	rosterDir := t.TempDir()

	client := firebase.NewClient("", "proj", "", true)
	snapshots := filerepo.NewSnapshotRepository(t.TempDir())
	roster := filerepo.NewRosterRepository(rosterDir)

	// Dropping example.com removes every mock account with an email;
	// the account without one stays.
	svc := NewFetchService(client, snapshots, roster, []string{"example.com"}, testLogger(t))
	if _, err := svc.FetchRoster(ctx); err != nil {
		t.Fatalf("FetchRoster returned error: %v", err)
	}

	records, _, err := roster.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest returned error: %v", err)
	}
	for _, rec := range records {
		if rec.Email != "" {
			t.Fatalf("fake-domain account %+v survived into the roster export", rec)
		}
	}
	if len(records) == 0 {
		t.Fatal("roster export is empty")
	}
}

func TestPipelineRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	processedDir := t.TempDir()

	client := firebase.NewClient("", "proj", "", true)
	snapshots := filerepo.NewSnapshotRepository(t.TempDir())
	roster := filerepo.NewRosterRepository(t.TempDir())
	outputs := filerepo.NewOutputRepository(processedDir)
	engine := cleaning.NewEngine(cleaning.Options{})
	log := testLogger(t)

	fetch := NewFetchService(client, snapshots, roster, nil, log)
	svc := NewPipelineService(fetch, snapshots, roster, outputs, nil, engine, log)

	run, err := svc.Run(ctx, true)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if run.ID == "" || run.FinishedAt.Before(run.StartedAt) {
		t.Fatalf("run = %+v", run)
	}
	if run.Published {
		t.Fatal("run reports published without a warehouse")
	}
	if run.AuditEntries == 0 {
		t.Fatal("run produced no audit entries")
	}
	if filepath.Base(run.SnapshotFile) == "" || filepath.Base(run.RosterFile) == "" {
		t.Fatalf("run is missing source paths: %+v", run)
	}

	// All five artifacts must be readable back; the audit log ends with the
	// four summary rows.
	entries, err := outputs.ReadAuditLog(ctx)
	if err != nil {
		t.Fatalf("ReadAuditLog returned error: %v", err)
	}
	if len(entries) < 4 {
		t.Fatalf("audit log has %d entries, want at least the summary block", len(entries))
	}
	for _, e := range entries[len(entries)-4:] {
		if e.UserID != models.SummaryUserID || e.Action != models.ActionSummaryStat {
			t.Fatalf("audit tail entry = %+v, want a summary row", e)
		}
	}

	latest := svc.LatestRun()
	if latest == nil || latest.ID != run.ID {
		t.Fatalf("LatestRun = %+v, want the run just executed", latest)
	}
}
