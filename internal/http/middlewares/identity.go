package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"labelforge.com/labelforge/internal/constants"
	model "labelforge.com/labelforge/internal/models"
)

// Headers set by the upstream authentication gateway once it has resolved
// the caller. This service never authenticates anyone itself.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const identityContextKey = "identity"

// ResolveIdentity extracts the resolved caller from the gateway headers and
// makes it available to handlers.
func ResolveIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(HeaderUserID)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
			}

			role, ok := constants.ParseRole(c.Request().Header.Get(HeaderUserRole))
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "unknown role")
			}

			c.Set(identityContextKey, model.Identity{UserID: userID, Role: role})
			return next(c)
		}
	}
}

// CurrentIdentity returns the resolved caller, or a zero Identity when the
// middleware has not run.
func CurrentIdentity(c echo.Context) model.Identity {
	identity, _ := c.Get(identityContextKey).(model.Identity)
	return identity
}
