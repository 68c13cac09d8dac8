package ports

import (
	"context"
	"time"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// Intent tells RequestCode whether the phone should already be registered.
type Intent string

const (
	IntentLogin    Intent = "LOGIN"
	IntentRegister Intent = "REGISTER"
)

// RequestCodeInput is the DTO for starting a phone login or registration.
type RequestCodeInput struct {
	Phone  string
	Intent Intent
}

// CodeRequestResult reports when the pending code expires. DevCode is only
// filled when code echo is enabled for local development.
type CodeRequestResult struct {
	Phone     string
	ExpiresAt time.Time
	DevCode   string
}

// RegistrationInput carries the profile captured during sign-up.
type RegistrationInput struct {
	Name              string
	DocumentNumber    string
	BirthDate         string
	AvatarRef         string
	IdentityDocRef    string
	IdentityDocExpiry string
	LicenseNumber     string
	LicenseDocRef     string
	LicenseExpiry     string
	Specialty         string
}

// VerifyCodeInput is the DTO for completing a login. Role is only used when
// no account exists yet for Phone.
type VerifyCodeInput struct {
	Phone        string
	Code         string
	Role         string
	Registration RegistrationInput
}

// AuthResult is returned after a successful code verification.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
	// Registered is true when this verification created the account.
	Registered bool
}

// IdentityService handles phone authentication and profile verification.
type IdentityService interface {
	RequestCode(ctx context.Context, input RequestCodeInput) (*CodeRequestResult, error)
	VerifyCode(ctx context.Context, input VerifyCodeInput) (*AuthResult, error)
	// ResolveActor loads the user a validated token refers to. A user that no
	// longer exists yields domain.ErrInvalidToken.
	ResolveActor(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, userID string, update domain.ProfileUpdate) (*domain.User, error)
	ReviewVerification(ctx context.Context, userID string, outcome domain.VerificationStatus, note string) (*domain.User, error)
}
