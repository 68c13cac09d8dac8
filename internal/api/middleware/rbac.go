package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// RBAC enforces role-based access control against the stored role of the actor.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := Actor(c)
			if actor == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[actor.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "role not allowed for this operation")
			}
			return next(c)
		}
	}
}

// ReviewerHeader carries the shared key of the external document reviewer.
const ReviewerHeader = "X-Reviewer-Key"

// ReviewerKey admits requests presenting the configured reviewer key. An empty
// key disables the reviewer routes entirely.
func ReviewerKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return echo.NewHTTPError(http.StatusForbidden, "reviewer access is disabled")
			}
			got := c.Request().Header.Get(ReviewerHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid reviewer key")
			}
			return next(c)
		}
	}
}
