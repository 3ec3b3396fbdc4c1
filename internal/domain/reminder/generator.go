package reminder

import (
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/medication"
)

// DefaultHorizonDays is the forward-looking window reminders are
// pre-generated over.
const DefaultHorizonDays = 30

// Occurrences maps a frequency to the calendar days a dose is due, starting
// at startDate (normalized to midnight) and covering horizonDays days.
//
// Daily and Custom include every day; Custom has no distinguishing rule yet.
// Alternate includes even offsets only (day 0, 2, 4, ...), so the pattern is
// anchored to the generation start date, not to a fixed epoch: regenerating
// from a different day shifts which calendar days are included.
func Occurrences(freq medication.Frequency, startDate time.Time, horizonDays int) []time.Time {
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())

	var days []time.Time
	for i := 0; i < horizonDays; i++ {
		switch freq {
		case medication.FrequencyDaily, medication.FrequencyCustom:
			days = append(days, start.AddDate(0, 0, i))
		case medication.FrequencyAlternate:
			if i%2 == 0 {
				days = append(days, start.AddDate(0, 0, i))
			}
		}
	}
	return days
}

// buildBatch materializes one reminder per occurrence, all pending. Each
// (medication, date, time) tuple appears at most once per batch.
func buildBatch(ownerID, medicationID uuid.UUID, timeOfDay string, days []time.Time) []*Reminder {
	reminders := make([]*Reminder, 0, len(days))
	for _, day := range days {
		reminders = append(reminders, &Reminder{
			UserID:       ownerID,
			MedicationID: medicationID,
			TimeOfDay:    timeOfDay,
			Date:         day,
			Taken:        false,
			Snoozed:      false,
			SnoozeCount:  0,
		})
	}
	return reminders
}
