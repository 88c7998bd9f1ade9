package cleaning

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// DefaultIncompleteProfileThreshold is the number of missing demographic
// fields above which a profile is flagged as incomplete.
const DefaultIncompleteProfileThreshold = 3

// Options carries the injected business constants of the cleaning engine.
// The exclusion sets are configuration, not data: they are fixed for the
// lifetime of an Engine.
type Options struct {
	TestAccounts               []string
	FlaggedEmailSubstrings     []string
	IncompleteProfileThreshold int
	Vocabulary                 map[string]string
	// Now is the clock used for future-timestamp checks. Injected so that
	// runs over fixed fixtures are reproducible in tests.
	Now func() time.Time
}

// Engine walks one immutable (snapshot, roster) pair and produces the four
// cleaned tables plus the audit trail. Run is deterministic: the same input
// yields byte-identical output.
type Engine struct {
	classifier          *Classifier
	normalizer          *Normalizer
	incompleteThreshold int
	now                 func() time.Time
}

// NewEngine builds an Engine from the given options.
func NewEngine(opts Options) *Engine {
	threshold := opts.IncompleteProfileThreshold
	if threshold <= 0 {
		threshold = DefaultIncompleteProfileThreshold
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		classifier:          NewClassifier(opts.TestAccounts, opts.FlaggedEmailSubstrings),
		normalizer:          NewNormalizer(opts.Vocabulary),
		incompleteThreshold: threshold,
		now:                 now,
	}
}

// Run executes the full cleaning pass: auth, subscriptions, profiles and
// gym preferences, in that fixed order, followed by the summary statistics.
// The snapshot is iterated in sorted-ID order so audit output is stable.
func (e *Engine) Run(snapshot models.Snapshot, roster []models.AuthRecord) *models.CleanResult {
	log := NewLog()

	auth := e.buildAuthTable(roster, log)
	ids := snapshot.SortedIDs()
	subs := e.buildSubscriptions(snapshot, ids, log)
	profiles := e.buildProfiles(snapshot, ids, log)
	gym := e.buildGymPreferences(snapshot, ids, auth, log)

	summary := models.RunSummary{
		TotalUsers:    len(ids),
		RemovedUsers:  log.DistinctSkippedUsers(),
		FinalUsers:    countFinalUsers(auth, subs, profiles, gym),
		FlaggedIssues: log.FlaggedCount(),
	}
	log.SummaryStat("Total Users Before Cleaning", summary.TotalUsers)
	log.SummaryStat("Total Users Removed", summary.RemovedUsers)
	log.SummaryStat("Final User Count After Cleaning", summary.FinalUsers)
	log.SummaryStat("Total Flagged Issues", summary.FlaggedIssues)

	return &models.CleanResult{
		Auth:           auth,
		Subscriptions:  subs,
		Profiles:       profiles,
		GymPreferences: gym,
		Audit:          log.Entries(),
		Summary:        summary,
	}
}

// triage performs the ordered eligibility checks shared by the three
// snapshot-driven builders: missing userInfo first, then the classifier.
// Both outcomes are audited under the given section.
func (e *Engine) triage(section, userID string, rec models.UserRecord, log *Log) (*models.UserInfo, bool) {
	if rec.UserInfo == nil {
		log.Skipped(section, userID, models.ReasonMissingUserInfo, "No userInfo field in JSON")
		return nil, false
	}
	if excl, ok := e.classifier.Classify(userID, rec.UserInfo.Email); !ok {
		log.Skipped(section, userID, excl.Reason, excl.Details)
		return nil, false
	}
	return rec.UserInfo, true
}

// truthy mirrors the presence semantics of the source system: nil, empty
// strings and numeric zero are all treated as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case bool:
		return t
	default:
		return true
	}
}

// isMissing reports a null or blank field value.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// decodeRaw decodes a raw JSON value, keeping numbers as json.Number.
func decodeRaw(raw json.RawMessage) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// countFinalUsers counts the distinct user IDs present in any of the four
// cleaned tables.
func countFinalUsers(auth []models.AuthRecord, subs []models.SubscriptionRow, profiles []models.ProfileRow, gym []models.GymPreferenceRow) int {
	seen := make(map[string]struct{})
	for _, r := range auth {
		seen[r.UserID] = struct{}{}
	}
	for _, r := range subs {
		seen[r.UserID] = struct{}{}
	}
	for _, r := range profiles {
		seen[r.UserID] = struct{}{}
	}
	for _, r := range gym {
		seen[r.UserID] = struct{}{}
	}
	return len(seen)
}
