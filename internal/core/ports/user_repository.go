package ports

import (
	"context"

	"github.com/spicedrama/ordering-system/internal/core/domain"
)

// UserUpdate carries a partial update; nil fields are left untouched
// (merge semantics).
type UserUpdate struct {
	Username *string
	Email    *string
	Role     *string
	Active   *bool
	Password *string // already hashed by the service layer
}

// UserRepository defines persistence operations for user records.
// Uniqueness of username and email is enforced by the store itself via
// unique indexes, so concurrent creates cannot both succeed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByLogin resolves a user whose username OR email equals login.
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	// List returns all users ordered newest-first.
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
