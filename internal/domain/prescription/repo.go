package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	// UpdateStatus persists only the status column, used by the lazy
	// expiry resolver so a read does not clobber concurrent edits.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error)
	ListRecentByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*Prescription, error)
	Count(ctx context.Context) (int, error)
}
