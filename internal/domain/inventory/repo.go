package inventory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPharmacist(ctx context.Context, pharmacistID uuid.UUID) ([]*Item, error)
	ListAll(ctx context.Context) ([]*Item, error)
	Count(ctx context.Context) (int, error)
}
