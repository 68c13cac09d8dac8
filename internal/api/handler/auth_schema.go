package handler

import "github.com/v-pascoal/radar-hub/internal/core/domain"

type requestCodeRequest struct {
	Phone  string `json:"phone"  validate:"required,phone"`
	Intent string `json:"intent" validate:"required"`
}

type requestCodeResponse struct {
	Phone     string `json:"phone"`
	ExpiresAt string `json:"expires_at"`
	// DevCode is only present when code echo is enabled for development.
	DevCode string `json:"dev_code,omitempty"`
}

type registrationRequest struct {
	Name              string `json:"name"                validate:"max=200"`
	DocumentNumber    string `json:"document_number"     validate:"max=32"`
	BirthDate         string `json:"birth_date"          validate:"max=32"`
	AvatarRef         string `json:"avatar_ref"          validate:"max=512"`
	IdentityDocRef    string `json:"identity_doc_ref"    validate:"max=512"`
	IdentityDocExpiry string `json:"identity_doc_expiry" validate:"max=32"`
	LicenseNumber     string `json:"license_number"      validate:"max=64"`
	LicenseDocRef     string `json:"license_doc_ref"     validate:"max=512"`
	LicenseExpiry     string `json:"license_expiry"      validate:"max=32"`
	Specialty         string `json:"specialty"           validate:"max=200"`
}

type verifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
	Code  string `json:"code"  validate:"required,max=12"`
	// Role is only read when the phone has no account yet.
	Role         string              `json:"role,omitempty"`
	Registration registrationRequest `json:"registration"`
}

type authResponse struct {
	Token      string       `json:"token"`
	ExpiresAt  string       `json:"expires_at"`
	Registered bool         `json:"registered"`
	User       *domain.User `json:"user"`
}
