package cleaning

import (
	"encoding/json"
	"strings"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// profileFieldNames are the non-identifier profile columns, in output order,
// used for the missing-field count.
var profileFieldNames = []string{"email", "country", "city", "height", "weight", "gender", "age", "active", "level"}

// buildProfiles extracts the fixed demographic field set for every eligible
// user. Incompleteness and a non-numeric height are flags only; the row is
// always written and stray values are retained as-is.
func (e *Engine) buildProfiles(snapshot models.Snapshot, ids []string, log *Log) []models.ProfileRow {
	var rows []models.ProfileRow
	for _, id := range ids {
		info, ok := e.triage(models.SectionProfiles, id, snapshot[id], log)
		if !ok {
			continue
		}

		values := []any{info.Email, info.Country, info.City, info.Height, info.Weight, info.Gender, info.Age, info.Active, info.Level}
		var missing []string
		for i, v := range values {
			if isMissing(v) {
				missing = append(missing, profileFieldNames[i])
			}
		}
		if len(missing) > e.incompleteThreshold {
			log.Flagged(models.SectionProfiles, id, models.ReasonIncompleteProfile,
				"Missing: "+strings.Join(missing, ", "))
		}
		if truthy(info.Height) {
			if _, numeric := info.Height.(json.Number); !numeric {
				log.Flagged(models.SectionProfiles, id, models.ReasonTypeMismatch,
					"Height: "+models.RenderValue(info.Height))
			}
		}

		rows = append(rows, models.ProfileRow{
			UserID:  id,
			Email:   info.Email,
			Country: info.Country,
			City:    info.City,
			Height:  info.Height,
			Weight:  info.Weight,
			Gender:  info.Gender,
			Age:     info.Age,
			Active:  info.Active,
			Level:   info.Level,
		})
		log.Processed(models.SectionProfiles, id, models.ReasonValidData, "Profile data extracted")
	}
	return rows
}
