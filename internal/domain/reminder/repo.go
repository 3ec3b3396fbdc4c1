package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/pkg/pagination"
)

type Repository interface {
	// CreateBatch persists a generation batch in one round trip.
	CreateBatch(ctx context.Context, reminders []*Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error)
	Update(ctx context.Context, r *Reminder) error
	DeleteByMedication(ctx context.Context, medicationID uuid.UUID) error
	// ListByOwner returns a page of the owner's reminders ordered by date
	// then time, plus the total count. A non-nil date restricts results to
	// that calendar day.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, date *time.Time, page pagination.Params) ([]*Reminder, int, error)
	TallyForMedication(ctx context.Context, medicationID uuid.UUID) (total, taken int, err error)
	TallyForOwner(ctx context.Context, ownerID uuid.UUID) (total, taken int, err error)
	Count(ctx context.Context) (int, error)
}
