package cleaning

import (
	"strconv"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// Log is the append-only audit trail of one cleaning run. Every builder
// writes its record-level decisions here in encounter order; the pipeline
// driver appends the summary statistics last.
//
// A run is single-threaded, so the log needs no locking.
type Log struct {
	entries []models.AuditEntry
}

// NewLog returns an empty audit log.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) append(userID, section, action, reason, details string) {
	l.entries = append(l.entries, models.AuditEntry{
		UserID:  userID,
		Section: section,
		Action:  action,
		Reason:  reason,
		Details: details,
	})
}

// Processed records a successfully processed record.
func (l *Log) Processed(section, userID, reason, details string) {
	l.append(userID, section, models.ActionProcessed, reason, details)
}

// Skipped records a record dropped from its target table.
func (l *Log) Skipped(section, userID, reason, details string) {
	l.append(userID, section, models.ActionSkipped, reason, details)
}

// Flagged records a data-quality issue on a record that is retained.
func (l *Log) Flagged(section, userID, reason, details string) {
	l.append(userID, section, models.ActionFlagged, reason, details)
}

// Modified records a value rewrite applied during normalization.
func (l *Log) Modified(section, userID, reason, details string) {
	l.append(userID, section, models.ActionModified, reason, details)
}

// Event records an observation returned by the preference normalizer under
// the given section and user.
func (l *Log) Event(section, userID string, ev Event) {
	l.append(userID, section, ev.Action, ev.Reason, ev.Details)
}

// SummaryStat appends one aggregate count row. The four summary rows always
// form the tail of the log.
func (l *Log) SummaryStat(reason string, value int) {
	l.append(models.SummaryUserID, models.SectionSummary, models.ActionSummaryStat, reason, strconv.Itoa(value))
}

// Entries returns the accumulated entries in insertion order.
func (l *Log) Entries() []models.AuditEntry {
	return l.entries
}

// DistinctSkippedUsers counts the distinct user IDs with at least one
// Skipped decision in any section.
func (l *Log) DistinctSkippedUsers() int {
	seen := make(map[string]struct{})
	for _, e := range l.entries {
		if e.Action == models.ActionSkipped {
			seen[e.UserID] = struct{}{}
		}
	}
	return len(seen)
}

// FlaggedCount counts the Flagged entries across all sections.
func (l *Log) FlaggedCount() int {
	n := 0
	for _, e := range l.entries {
		if e.Action == models.ActionFlagged {
			n++
		}
	}
	return n
}
