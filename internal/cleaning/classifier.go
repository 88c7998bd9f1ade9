package cleaning

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// Classifier decides whether a user record is eligible for processing, given
// the process-wide exclusion sets. It is a pure decision: no side effects,
// no dependencies on the snapshot.
//
// Missing userInfo is deliberately NOT the classifier's concern — the
// builders check that first and audit it under its own reason.
type Classifier struct {
	testAccounts map[string]struct{}
	flagged      []string
	fold         cases.Caser
}

// Exclusion is a classifier verdict for an ineligible record.
type Exclusion struct {
	Reason  string
	Details string
}

// NewClassifier builds a Classifier from the configured test-account IDs and
// flagged email substrings. Substring matching is case-folded, so the
// configured substrings may be given in any case.
func NewClassifier(testAccounts, flaggedSubstrings []string) *Classifier {
	fold := cases.Fold()
	c := &Classifier{
		testAccounts: make(map[string]struct{}, len(testAccounts)),
		flagged:      make([]string, 0, len(flaggedSubstrings)),
		fold:         fold,
	}
	for _, id := range testAccounts {
		c.testAccounts[id] = struct{}{}
	}
	for _, s := range flaggedSubstrings {
		c.flagged = append(c.flagged, fold.String(s))
	}
	return c
}

// IsTestAccount reports whether the user ID belongs to the known
// test-account set.
func (c *Classifier) IsTestAccount(userID string) bool {
	_, ok := c.testAccounts[userID]
	return ok
}

// Classify returns the exclusion verdict for a user, or ok=true when the
// record is eligible. Checks run in a fixed order: test-account membership
// first, then flagged email substrings.
func (c *Classifier) Classify(userID, email string) (Exclusion, bool) {
	if c.IsTestAccount(userID) {
		return Exclusion{Reason: models.ReasonTestAccount, Details: "Known test user ID"}, false
	}
	folded := c.fold.String(email)
	for _, flag := range c.flagged {
		if strings.Contains(folded, flag) {
			detail := email
			if detail == "" {
				detail = "N/A"
			}
			return Exclusion{Reason: models.ReasonFlaggedEmail, Details: "Email: " + detail}, false
		}
	}
	return Exclusion{}, true
}
