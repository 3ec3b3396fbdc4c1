package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/auth"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	CountByRole(ctx context.Context, role auth.Role) (int, error)
}
