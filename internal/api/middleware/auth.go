package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/spicedrama/ordering-system/internal/api/metrics"
	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
)

// Policy selects how much the middleware trusts a verified token.
type Policy string

const (
	// PolicyStrong re-fetches the user record on every request, so account
	// deletion and de-provisioning take effect before the token expires.
	PolicyStrong Policy = "strong"
	// PolicyClaims trusts the decoded claims without a store round-trip.
	// Cheaper, but a mid-session role change or ban only takes effect once
	// the token itself expires.
	PolicyClaims Policy = "claims"
)

// Context keys populated on successful authentication.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxActive   = "active"
)

// Auth converts an Authorization: Bearer header into a trusted identity on
// the echo context, or rejects with 401/403. The policy is fixed per
// deployment; both variants reject missing, malformed, and expired tokens
// identically.
func Auth(tokens ports.TokenService, users ports.UserRepository, policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthRejectionsTotal.WithLabelValues("malformed_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if policy == PolicyStrong {
				// A token can outlive its account; only the store knows.
				user, err := users.FindByID(c.Request().Context(), claims.UserID)
				if err != nil {
					if errors.Is(err, domain.ErrUserNotFound) {
						metrics.AuthRejectionsTotal.WithLabelValues("unknown_user").Inc()
						return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
					}
					return err
				}
				if !user.Active {
					metrics.AuthRejectionsTotal.WithLabelValues("blocked").Inc()
					return echo.NewHTTPError(http.StatusForbidden, "account blocked")
				}

				c.Set(CtxUserID, user.ID)
				c.Set(CtxUsername, user.Username)
				c.Set(CtxRole, user.Role)
				c.Set(CtxActive, user.Active)
				return next(c)
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxActive, true)
			return next(c)
		}
	}
}
