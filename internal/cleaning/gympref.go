package cleaning

import (
	"fmt"
	"strings"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// buildGymPreferences resolves the preference field through its legacy
// names, normalizes the tokens and joins in the creation date from the
// already-cleaned auth table (first match wins, empty when absent).
func (e *Engine) buildGymPreferences(snapshot models.Snapshot, ids []string, auth []models.AuthRecord, log *Log) []models.GymPreferenceRow {
	creationByID := make(map[string]string, len(auth))
	for _, rec := range auth {
		if _, ok := creationByID[rec.UserID]; !ok {
			creationByID[rec.UserID] = rec.CreationDate
		}
	}

	var rows []models.GymPreferenceRow
	for _, id := range ids {
		info, ok := e.triage(models.SectionGym, id, snapshot[id], log)
		if !ok {
			continue
		}

		fieldName, raw, found := info.PreferenceField()
		if !found {
			log.Skipped(models.SectionGym, id, models.ReasonNoPrefField,
				"Tried fields: "+strings.Join(models.PreferenceFieldNames, ", "))
			continue
		}

		value, derr := decodeRaw(raw)
		var codes, translated []string
		var events []Event
		if derr == nil {
			codes, translated, events, derr = e.normalizer.Normalize(value)
		}
		if derr != nil {
			log.Skipped(models.SectionGym, id, models.ReasonInvalidPrefType,
				fmt.Sprintf("Field %s: %s", fieldName, strings.TrimSpace(string(raw))))
			continue
		}
		for _, ev := range events {
			log.Event(models.SectionGym, id, ev)
		}
		if len(codes) == 0 {
			log.Skipped(models.SectionGym, id, models.ReasonNoValidPrefs, "Empty after normalization")
			continue
		}

		prefs := strings.Join(codes, ",")
		rows = append(rows, models.GymPreferenceRow{
			UserID:       id,
			CreationDate: creationByID[id],
			Preferences:  prefs,
			Translated:   strings.Join(translated, ","),
		})
		log.Processed(models.SectionGym, id, models.ReasonValidData, "Preferences: "+prefs)
	}
	return rows
}
