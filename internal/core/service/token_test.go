package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "radar-hub", time.Hour)
	u := &domain.User{ID: "usr_1", Role: domain.RoleProfessional}

	token, exp, err := m.Issue(u)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != u.Role {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(exp.Truncate(time.Second)) {
		t.Fatalf("expiry mismatch: %s vs %s", claims.ExpiresAt, exp)
	}
}

func TestJWTManager_FailsClosed(t *testing.T) {
	m := NewJWTManager("secret", "radar-hub", time.Hour)
	u := &domain.User{ID: "usr_1", Role: domain.RoleClient}
	valid, _, _ := m.Issue(u)

	expired := NewJWTManager("secret", "radar-hub", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue(u)

	otherKey, _, _ := NewJWTManager("other", "radar-hub", time.Hour).Issue(u)
	otherIssuer, _, _ := NewJWTManager("secret", "someone-else", time.Hour).Issue(u)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "usr_1", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "usr_1", "iss": "radar-hub"})
	forever, _ := noExp.SignedString([]byte("secret"))

	tests := map[string]string{
		"empty":         "",
		"garbage":       "not-a-token",
		"tampered":      valid + "x",
		"expired":       old,
		"wrong key":     otherKey,
		"wrong issuer":  otherIssuer,
		"alg none":      unsigned,
		"no expiration": forever,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Parse(token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
