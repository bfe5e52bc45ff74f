package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
)

// UserService implements admin-facing user management.
type UserService struct {
	repo  ports.UserRepository
	roles domain.RoleSet
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, roles domain.RoleSet, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, roles: roles, log: log}
}

// Create validates input, hashes the password, and persists a new account.
// Duplicate username/email surfaces as domain.ErrUserExists via the store's
// unique indexes, never via a racy pre-check.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.Role == "" {
		return nil, domain.ErrMissingField
	}
	if !s.roles.Contains(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

// List returns all users newest-first with the creator's username resolved.
func (s *UserService) List(ctx context.Context) ([]ports.UserListing, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Username
	}

	out := make([]ports.UserListing, 0, len(users))
	for _, u := range users {
		out = append(out, ports.UserListing{
			User:              *u,
			CreatedByUsername: byID[u.CreatedBy],
		})
	}
	return out, nil
}

// Update applies a partial update; absent fields keep their stored values.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Role != nil && !s.roles.Contains(*input.Role) {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.repo.Update(ctx, id, ports.UserUpdate{
		Username: input.Username,
		Email:    input.Email,
		Role:     input.Role,
		Active:   input.Active,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// Delete hard-deletes a user. Self-deletion is always rejected.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return domain.ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("deleted_by", actorID).Msg("user deleted")
	return nil
}

// Bootstrap seeds the initial admin account when the store is empty. It is a
// no-op on an already-populated store or when no credentials are configured.
func (s *UserService) Bootstrap(ctx context.Context, input ports.CreateUserInput) error {
	if input.Username == "" || input.Password == "" {
		return nil
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if input.Role == "" {
		input.Role = domain.RoleAdmin
	}
	if _, err := s.Create(ctx, input); err != nil {
		return err
	}

	s.log.Info().Str("username", input.Username).Msg("bootstrap admin created")
	return nil
}
