package medication

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByOwner returns the owner's medications, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Medication, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	// IncrementAdherence adds 1 to the medication's adherence counter as a
	// single atomic update.
	IncrementAdherence(ctx context.Context, id uuid.UUID) error
}
