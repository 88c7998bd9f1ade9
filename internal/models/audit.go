package models

// Audit sections, one per output table plus the trailing summary block.
const (
	SectionAuth          = "Auth Data"
	SectionSubscriptions = "Subscriptions"
	SectionProfiles      = "User Profiles"
	SectionGym           = "My Gym"
	SectionSummary       = "Summary"
)

// Audit actions.
const (
	ActionProcessed   = "Processed"
	ActionSkipped     = "Skipped"
	ActionFlagged     = "Flagged"
	ActionModified    = "Modified"
	ActionSummaryStat = "Summary Stat"
)

// Stable audit reasons. Every recoverable data-quality issue maps to exactly
// one (section, action, reason) triple.
const (
	ReasonMissingUserInfo   = "Missing userInfo"
	ReasonTestAccount       = "Test account"
	ReasonFlaggedEmail      = "Flagged email"
	ReasonMissingEmail      = "Missing email"
	ReasonFutureTimestamp   = "Future timestamp"
	ReasonInvalidTimestamp  = "Invalid timestamp"
	ReasonInvalidTx         = "Invalid transaction"
	ReasonValidData         = "Valid data"
	ReasonDuplicateUserID   = "Duplicate user ID"
	ReasonIncompleteProfile = "Incomplete profile"
	ReasonTypeMismatch      = "Data type mismatch"
	ReasonUnmappedPref      = "Unmapped preference"
	ReasonNormalizedPref    = "Normalized preference"
	ReasonNoPrefField       = "No preferences field"
	ReasonInvalidPrefType   = "Invalid preferences type"
	ReasonNoValidPrefs      = "No valid preferences"
)

// SummaryUserID marks the four trailing summary rows of the audit log.
const SummaryUserID = "SUMMARY"

// AuditColumns is the column contract of the audit log output.
var AuditColumns = []string{"user_id", "section", "action", "reason", "details"}

// AuditEntry is one record-level decision made during cleaning. Entries are
// append-only; their order is the order decisions were encountered in.
type AuditEntry struct {
	UserID  string `json:"user_id" bson:"user_id"`
	Section string `json:"section" bson:"section"`
	Action  string `json:"action" bson:"action"`
	Reason  string `json:"reason" bson:"reason"`
	Details string `json:"details" bson:"details"`
}

// Fields returns the entry's values in AuditColumns order.
func (e AuditEntry) Fields() []string {
	return []string{e.UserID, e.Section, e.Action, e.Reason, e.Details}
}

// RunSummary holds the aggregate counts appended to the audit log at the end
// of a run.
type RunSummary struct {
	TotalUsers    int `json:"totalUsers" bson:"totalUsers"`
	RemovedUsers  int `json:"removedUsers" bson:"removedUsers"`
	FinalUsers    int `json:"finalUsers" bson:"finalUsers"`
	FlaggedIssues int `json:"flaggedIssues" bson:"flaggedIssues"`
}

// CleanResult is the full output of one cleaning run: the four tables, the
// audit trail and the derived summary. It is a pure function of the
// (snapshot, roster) pair.
type CleanResult struct {
	Auth           []AuthRecord
	Subscriptions  []SubscriptionRow
	Profiles       []ProfileRow
	GymPreferences []GymPreferenceRow
	Audit          []AuditEntry
	Summary        RunSummary
}
