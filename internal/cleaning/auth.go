package cleaning

import (
	"strings"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/utils"
)

// buildAuthTable cleans the flat auth roster. Every row is inspected for a
// missing email, test-account membership and creation-timestamp sanity;
// all three are flags, but test-account rows are additionally filtered out
// of the cleaned table regardless of their flag outcome.
func (e *Engine) buildAuthTable(roster []models.AuthRecord, log *Log) []models.AuthRecord {
	now := e.now()
	cleaned := make([]models.AuthRecord, 0, len(roster))
	for _, rec := range roster {
		if strings.TrimSpace(rec.Email) == "" {
			log.Flagged(models.SectionAuth, rec.UserID, models.ReasonMissingEmail, "Email field empty or null")
		}
		testAccount := e.classifier.IsTestAccount(rec.UserID)
		if testAccount {
			log.Flagged(models.SectionAuth, rec.UserID, models.ReasonTestAccount, "Known test user ID")
		}
		if created, err := utils.ParseTimestamp(rec.CreationDate); err != nil {
			log.Flagged(models.SectionAuth, rec.UserID, models.ReasonInvalidTimestamp, "Creation date: "+rec.CreationDate)
		} else if created.After(now) {
			log.Flagged(models.SectionAuth, rec.UserID, models.ReasonFutureTimestamp, "Creation date: "+rec.CreationDate)
		}
		if !testAccount {
			cleaned = append(cleaned, rec)
		}
	}
	return cleaned
}
