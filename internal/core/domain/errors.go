package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already exists")
	ErrInvalidRole  = errors.New("invalid role")
	ErrSelfDelete   = errors.New("cannot delete own account")
	ErrMissingField = errors.New("missing required field")

	ErrFoodNotFound  = errors.New("food item not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)
