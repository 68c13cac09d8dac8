package ports

import (
	"time"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	UserID    string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and validates session tokens.
type TokenManager interface {
	Issue(u *domain.User) (token string, expiresAt time.Time, err error)
	// Parse fails closed: any signature, algorithm or expiry problem yields
	// domain.ErrInvalidToken.
	Parse(token string) (*TokenClaims, error)
}
