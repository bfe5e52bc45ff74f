package ports

import (
	"context"

	"github.com/spicedrama/ordering-system/internal/core/domain"
)

// CreateUserInput carries all data needed to create a user account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
	// CreatedBy is the id of the admin performing the creation; empty at bootstrap.
	CreatedBy string
}

// UpdateUserInput carries a partial admin update. Nil fields are ignored.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *string
	Active   *bool
}

// UserListing is a user projection enriched with the creator's username.
type UserListing struct {
	domain.User
	CreatedByUsername string `json:"created_by_username,omitempty"`
}

// UserService defines admin-facing user management.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]UserListing, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	// Delete removes a user permanently. actorID is the caller's own id;
	// deleting it is rejected.
	Delete(ctx context.Context, id, actorID string) error
	// Bootstrap seeds an initial admin account when the store is empty.
	Bootstrap(ctx context.Context, input CreateUserInput) error
}
