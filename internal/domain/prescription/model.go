package prescription

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "Active"
	StatusExpired Status = "Expired"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusExpired
}

// Prescription is issued by a doctor for a patient. Status follows the
// expiry date lazily: every read path resolves it before exposing it.
type Prescription struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DoctorID     uuid.UUID `json:"doctorId" db:"doctor_id"`
	PatientID    uuid.UUID `json:"patientId" db:"patient_id"`
	MedicineName string    `json:"medicineName" db:"medicine_name"`
	Dosage       string    `json:"dosage" db:"dosage"`
	DurationDays int       `json:"duration" db:"duration_days"`
	StartDate    time.Time `json:"startDate" db:"start_date"`
	ExpiryDate   time.Time `json:"expiryDate" db:"expiry_date"`
	Status       Status    `json:"status" db:"status"`
	Notes        string    `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
