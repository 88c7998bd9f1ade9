package cleaning

import (
	"reflect"
	"testing"
	"time"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func testEngine() *Engine {
	return NewEngine(Options{
		TestAccounts:           []string{"t1"},
		FlaggedEmailSubstrings: []string{"uat"},
		Now:                    fixedNow,
	})
}

func mustSnapshot(t *testing.T, data string) models.Snapshot {
	t.Helper()
	snap, err := models.ParseSnapshot([]byte(data))
	if err != nil {
		t.Fatalf("ParseSnapshot returned error: %v", err)
	}
	return snap
}

func countAction(entries []models.AuditEntry, action string) int {
	n := 0
	for _, e := range entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

func TestRunEndToEnd(t *testing.T) {
	snapshot := mustSnapshot(t, `{
		"a1": {"userInfo": {
			"email": "a1@example.com",
			"country": "US", "city": "NYC",
			"height": 180, "weight": 75, "gender": "m", "age": 30,
			"active": true, "level": "pro",
			"myGym": ["A", "D", "DA"],
			"latestReceiptInfo": [{
				"purchase_date_ms": 1684319400000,
				"expires_date_ms": 1687000000000,
				"original_purchase_date_ms": 1684319400000,
				"product_id": "sub.monthly"
			}]
		}},
		"m1": {},
		"t1": {"userInfo": {"email": "t1@example.com"}}
	}`)
	roster := []models.AuthRecord{
		{UserID: "a1", Email: "a1@example.com", CreationDate: "2023-05-17 10:30:00", LastSignIn: "2023-05-18 09:00:00"},
		{UserID: "t1", Email: "t1@example.com", CreationDate: "2023-05-17 10:30:00", LastSignIn: ""},
	}

	result := testEngine().Run(snapshot, roster)

	// Auth: the test account is flagged and filtered out.
	if len(result.Auth) != 1 || result.Auth[0].UserID != "a1" {
		t.Fatalf("auth table = %+v, want only a1", result.Auth)
	}

	// Subscriptions: one row for a1's single receipt.
	if len(result.Subscriptions) != 1 {
		t.Fatalf("subscriptions = %+v, want one row", result.Subscriptions)
	}
	sub := result.Subscriptions[0]
	if sub.UserID != "a1" || sub.NumTransactions != 1 {
		t.Fatalf("subscription row = %+v", sub)
	}
	if got := models.RenderValue(sub.PurchaseDate); got != "1684319400000" {
		t.Fatalf("purchase_date rendered as %q, want raw epoch millis", got)
	}

	if len(result.Profiles) != 1 || result.Profiles[0].UserID != "a1" {
		t.Fatalf("profiles = %+v, want only a1", result.Profiles)
	}

	// Gym: D collapses into DA, creation date joined from the auth table.
	if len(result.GymPreferences) != 1 {
		t.Fatalf("gym preferences = %+v, want one row", result.GymPreferences)
	}
	gym := result.GymPreferences[0]
	if gym.Preferences != "A,DA" || gym.Translated != "Full Gym,Dumbbells" {
		t.Fatalf("gym row = %+v, want codes A,DA translated Full Gym,Dumbbells", gym)
	}
	if gym.CreationDate != "2023-05-17 10:30:00" {
		t.Fatalf("gym creation_date = %q, want auth creation date", gym.CreationDate)
	}

	if got := countAction(result.Audit, models.ActionModified); got != 1 {
		t.Fatalf("Modified entries = %d, want 1", got)
	}

	// m1 and t1 are skipped in every snapshot section they were attempted in.
	if result.Summary.TotalUsers != 3 || result.Summary.RemovedUsers != 2 || result.Summary.FinalUsers != 1 {
		t.Fatalf("summary = %+v", result.Summary)
	}

	// The four summary rows form the tail of the audit log.
	tail := result.Audit[len(result.Audit)-4:]
	wantReasons := []string{
		"Total Users Before Cleaning",
		"Total Users Removed",
		"Final User Count After Cleaning",
		"Total Flagged Issues",
	}
	wantValues := []string{"3", "2", "1", "1"}
	for i, e := range tail {
		if e.UserID != models.SummaryUserID || e.Action != models.ActionSummaryStat {
			t.Fatalf("summary row %d = %+v", i, e)
		}
		if e.Reason != wantReasons[i] || e.Details != wantValues[i] {
			t.Fatalf("summary row %d = %s=%s, want %s=%s", i, e.Reason, e.Details, wantReasons[i], wantValues[i])
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	data := `{
		"b2": {"userInfo": {"email": "b2@example.com", "myGym": "n, r"}},
		"a1": {"userInfo": {"email": "a1@example.com", "myGym": ["K"]}},
		"c3": {}
	}`
	roster := []models.AuthRecord{
		{UserID: "a1", Email: "a1@example.com", CreationDate: "2023-05-17 10:30:00"},
	}

	first := testEngine().Run(mustSnapshot(t, data), roster)
	second := testEngine().Run(mustSnapshot(t, data), roster)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two runs over identical input produced different output")
	}
}

func TestBuildAuthTableFlags(t *testing.T) {
	roster := []models.AuthRecord{
		{UserID: "u1", Email: "", CreationDate: "2023-05-17 10:30:00"},
		{UserID: "u2", Email: "u2@example.com", CreationDate: "garbage"},
		{UserID: "u3", Email: "u3@example.com", CreationDate: "2030-01-01 00:00:00"},
		{UserID: "t1", Email: "t1@example.com", CreationDate: "2023-05-17 10:30:00"},
	}

	log := NewLog()
	cleaned := testEngine().buildAuthTable(roster, log)

	// Flags never drop a row; only the test account is filtered.
	if len(cleaned) != 3 {
		t.Fatalf("cleaned = %+v, want u1 u2 u3", cleaned)
	}
	for _, rec := range cleaned {
		if rec.UserID == "t1" {
			t.Fatal("test account survived into the cleaned auth table")
		}
	}

	wantFlags := map[string]string{
		"u1": models.ReasonMissingEmail,
		"u2": models.ReasonInvalidTimestamp,
		"u3": models.ReasonFutureTimestamp,
		"t1": models.ReasonTestAccount,
	}
	entries := log.Entries()
	if len(entries) != len(wantFlags) {
		t.Fatalf("audit entries = %+v, want %d flags", entries, len(wantFlags))
	}
	for _, e := range entries {
		if e.Action != models.ActionFlagged {
			t.Fatalf("entry = %+v, want Flagged", e)
		}
		if want := wantFlags[e.UserID]; e.Reason != want {
			t.Fatalf("user %s flagged for %q, want %q", e.UserID, e.Reason, want)
		}
	}
}

func TestBuildSubscriptionsInvalidEntryAndDuplicates(t *testing.T) {
	snapshot := mustSnapshot(t, `{
		"a1": {"userInfo": {
			"email": "a1@example.com",
			"latestReceiptInfo": [
				"not an object",
				{"purchase_date_ms": 1684319400000, "expires_date_ms": 1687000000000, "product_id": "sub.m"},
				{"purchase_date_ms": 1687000000000, "expires_date_ms": 1690000000000, "product_id": "sub.m"}
			]
		}}
	}`)

	log := NewLog()
	e := testEngine()
	rows := e.buildSubscriptions(snapshot, snapshot.SortedIDs(), log)

	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want 2", rows)
	}
	for _, r := range rows {
		if r.NumTransactions != 3 {
			t.Fatalf("num_transactions = %d, want the raw receipt count 3", r.NumTransactions)
		}
	}

	var skipped, dupFlags int
	for _, entry := range log.Entries() {
		switch {
		case entry.Action == models.ActionSkipped && entry.Reason == models.ReasonInvalidTx:
			skipped++
		case entry.Action == models.ActionFlagged && entry.Reason == models.ReasonDuplicateUserID:
			dupFlags++
			if entry.Details != "Found 2 entries" {
				t.Fatalf("duplicate flag details = %q", entry.Details)
			}
		}
	}
	if skipped != 1 {
		t.Fatalf("invalid-transaction skips = %d, want 1", skipped)
	}
	// Every duplicated row gets its own flag.
	if dupFlags != 2 {
		t.Fatalf("duplicate flags = %d, want 2", dupFlags)
	}
}

func TestBuildSubscriptionsTimestampAnomaly(t *testing.T) {
	// Expiry before purchase: flagged, but the row is still written.
	snapshot := mustSnapshot(t, `{
		"a1": {"userInfo": {
			"email": "a1@example.com",
			"latestReceiptInfo": [
				{"purchase_date_ms": 1687000000000, "expires_date_ms": 1684319400000, "product_id": "sub.m"}
			]
		}}
	}`)

	log := NewLog()
	e := testEngine()
	rows := e.buildSubscriptions(snapshot, snapshot.SortedIDs(), log)

	if len(rows) != 1 {
		t.Fatalf("rows = %+v, want the anomalous row retained", rows)
	}
	found := false
	for _, entry := range log.Entries() {
		if entry.Action == models.ActionFlagged && entry.Reason == models.ReasonInvalidTimestamp {
			found = true
			if entry.Details != "Purchase: 1687000000000, Expires: 1684319400000" {
				t.Fatalf("flag details = %q", entry.Details)
			}
		}
	}
	if !found {
		t.Fatal("expiry-before-purchase was not flagged")
	}
}

func TestBuildProfilesIncompleteAndTypeMismatch(t *testing.T) {
	snapshot := mustSnapshot(t, `{
		"a1": {"userInfo": {"email": "a1@example.com", "country": "US", "height": "tall",
			"weight": 75, "gender": "m", "age": 30, "active": true, "level": "pro", "city": "NYC"}},
		"b2": {"userInfo": {"email": "b2@example.com"}}
	}`)

	log := NewLog()
	e := testEngine()
	rows := e.buildProfiles(snapshot, snapshot.SortedIDs(), log)

	// Flags never drop profile rows.
	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want both users", rows)
	}
	if got := models.RenderValue(rows[0].Height); got != "tall" {
		t.Fatalf("height = %q, want the stray value retained", got)
	}

	var mismatch, incomplete bool
	for _, entry := range log.Entries() {
		switch entry.Reason {
		case models.ReasonTypeMismatch:
			mismatch = true
			if entry.UserID != "a1" || entry.Details != "Height: tall" {
				t.Fatalf("type-mismatch flag = %+v", entry)
			}
		case models.ReasonIncompleteProfile:
			incomplete = true
			if entry.UserID != "b2" {
				t.Fatalf("incomplete flag = %+v, want b2", entry)
			}
		}
	}
	if !mismatch || !incomplete {
		t.Fatalf("flags: mismatch=%v incomplete=%v, want both", mismatch, incomplete)
	}
}

func TestBuildGymPreferencesSkips(t *testing.T) {
	snapshot := mustSnapshot(t, `{
		"a1": {"userInfo": {"email": "a1@example.com"}},
		"b2": {"userInfo": {"email": "b2@example.com", "myGym": 42}},
		"c3": {"userInfo": {"email": "c3@example.com", "myGym": " , "}},
		"d4": {"userInfo": {"email": "d4@example.com", "gymPreferences": ["HB"]}}
	}`)

	log := NewLog()
	e := testEngine()
	rows := e.buildGymPreferences(snapshot, snapshot.SortedIDs(), nil, log)

	if len(rows) != 1 || rows[0].UserID != "d4" {
		t.Fatalf("rows = %+v, want only d4", rows)
	}
	if rows[0].Preferences != "HB" || rows[0].Translated != "Hexbar" {
		t.Fatalf("d4 row = %+v", rows[0])
	}
	// No auth record for d4, so the joined creation date is empty.
	if rows[0].CreationDate != "" {
		t.Fatalf("creation_date = %q, want empty", rows[0].CreationDate)
	}

	wantSkips := map[string]string{
		"a1": models.ReasonNoPrefField,
		"b2": models.ReasonInvalidPrefType,
		"c3": models.ReasonNoValidPrefs,
	}
	for _, entry := range log.Entries() {
		if entry.Action != models.ActionSkipped {
			continue
		}
		if want := wantSkips[entry.UserID]; entry.Reason != want {
			t.Fatalf("user %s skipped for %q, want %q", entry.UserID, entry.Reason, want)
		}
		delete(wantSkips, entry.UserID)
	}
	if len(wantSkips) != 0 {
		t.Fatalf("missing skips for %v", wantSkips)
	}
}
