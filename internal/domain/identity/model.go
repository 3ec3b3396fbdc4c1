package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/auth"
)

// User is an account holder. Role-specific fields are nullable and only
// populated for the matching role.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         auth.Role `json:"role" db:"role"`

	// Doctor fields.
	MedicalLicense *string `json:"medicalLicense,omitempty" db:"medical_license"`
	Specialization *string `json:"specialization,omitempty" db:"specialization"`

	// Pharmacist fields.
	PharmacyLicense *string `json:"pharmacyLicense,omitempty" db:"pharmacy_license"`
	PharmacyAddress *string `json:"pharmacyAddress,omitempty" db:"pharmacy_address"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
