package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

// Context keys set by Auth.
const (
	ActorKey  = "actor"
	ClaimsKey = "claims"
)

// ActorResolver loads the stored user a token refers to.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (*domain.User, error)
}

// Auth validates the bearer token, loads the acting user from the store and
// injects both into the context. Roles are always taken from the stored user.
func Auth(tokens ports.TokenManager, actors ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			actor, err := actors.ResolveActor(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(ClaimsKey, claims)
			c.Set(ActorKey, actor)

			return next(c)
		}
	}
}

// Actor returns the user injected by Auth, or nil.
func Actor(c echo.Context) *domain.User {
	u, _ := c.Get(ActorKey).(*domain.User)
	return u
}
