package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is one scheduled occurrence of taking a medication. Date carries
// day granularity only; TimeOfDay is the free-form time string the medication
// declared ("09:00", "Morning").
//
// Taken is write-once-true: nothing in the system resets it to false.
// Snoozed is cleared again when the reminder is marked taken.
type Reminder struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	MedicationID uuid.UUID `db:"medication_id" json:"medication_id"`
	TimeOfDay    string    `db:"time_of_day" json:"time"`
	Date         time.Time `db:"scheduled_date" json:"date"`
	Taken        bool      `db:"taken" json:"taken"`
	Snoozed      bool      `db:"snoozed" json:"snoozed"`
	SnoozeCount  int       `db:"snooze_count" json:"snooze_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
