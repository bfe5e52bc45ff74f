package ports

import (
	"context"

	"github.com/spicedrama/ordering-system/internal/core/domain"
)

// TokenClaims is the trusted identity extracted from a verified token.
type TokenClaims struct {
	UserID   string
	Username string
	Role     string
}

// TokenService issues and verifies signed bearer tokens. Verification is a
// pure function of signature and expiry; it never consults the store.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*TokenClaims, error)
}

// AuthService implements the login flow and password self-service.
type AuthService interface {
	// Login resolves login (username or email) and verifies the password.
	// Returns a signed token and the authenticated user on success.
	Login(ctx context.Context, login, password string) (string, *domain.User, error)
	// ChangePassword verifies the caller's current password before storing
	// the hash of the new one.
	ChangePassword(ctx context.Context, userID, current, next string) error
}
