package medication

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is the closed set of dosing frequencies a medication declares.
// The reminder generator maps it to a calendar of occurrences.
type Frequency string

const (
	FrequencyDaily     Frequency = "Daily"
	FrequencyAlternate Frequency = "Alternate"
	FrequencyCustom    Frequency = "Custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyAlternate, FrequencyCustom:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusCompleted Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCompleted:
		return true
	}
	return false
}

// Medication maps to the medication table. AdherenceCount is incremented each
// time one of its reminders is marked taken; it never decreases.
type Medication struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	PrescriptionID   *uuid.UUID `db:"prescription_id" json:"prescription_id,omitempty"`
	Name             string     `db:"name" json:"name"`
	Dosage           string     `db:"dosage" json:"dosage"`
	Frequency        Frequency  `db:"frequency" json:"frequency"`
	TimeOfDay        string     `db:"time_of_day" json:"time"`
	NotificationType string     `db:"notification_type" json:"notification_type"`
	Status           Status     `db:"status" json:"status"`
	AdherenceCount   int        `db:"adherence_count" json:"adherence_count"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// AdherenceSummary is the per-medication adherence report.
type AdherenceSummary struct {
	MedicationID        uuid.UUID `json:"medication_id"`
	MedicationName      string    `json:"medication_name"`
	TotalReminders      int       `json:"total_reminders"`
	TakenReminders      int       `json:"taken_reminders"`
	MissedReminders     int       `json:"missed_reminders"`
	AdherencePercentage int       `json:"adherence_percentage"`
}
