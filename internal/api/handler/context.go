package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spicedrama/ordering-system/internal/api/middleware"
)

// identity is the resolved caller injected by the Auth middleware.
type identity struct {
	UserID   string
	Username string
	Role     string
}

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty role proves
// the middleware ran.
func ctxIdentity(c echo.Context) (identity, error) {
	role, _ := c.Get(middleware.CtxRole).(string)
	if role == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	id, _ := c.Get(middleware.CtxUserID).(string)
	username, _ := c.Get(middleware.CtxUsername).(string)
	return identity{UserID: id, Username: username, Role: role}, nil
}
