package domain

import (
	"strings"
	"time"
)

// Role identifies which side of the marketplace a user acts on.
type Role string

const (
	RoleClient       Role = "CLIENT"
	RoleProfessional Role = "PROFESSIONAL"
	// RoleSystem only appears as a timeline author.
	RoleSystem Role = "SYSTEM"
)

// ParseRole accepts the two user-facing roles, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, nil
	case RoleProfessional:
		return RoleProfessional, nil
	}
	return "", ErrInvalidRole
}

// VerificationStatus tracks document review for a user.
type VerificationStatus string

const (
	VerificationPending       VerificationStatus = "PENDING"
	VerificationUnderAnalysis VerificationStatus = "UNDER_ANALYSIS"
	VerificationVerified      VerificationStatus = "VERIFIED"
	VerificationRejected      VerificationStatus = "REJECTED"
)

// User models a marketplace participant. Phone is the unique login key.
type User struct {
	ID                 string             `json:"id"`
	Role               Role               `json:"role"`
	Phone              string             `json:"phone"`
	Name               string             `json:"name"`
	DocumentNumber     string             `json:"document_number,omitempty"`
	BirthDate          string             `json:"birth_date,omitempty"`
	AvatarRef          string             `json:"avatar_ref,omitempty"`
	IdentityDocRef     string             `json:"identity_doc_ref,omitempty"`
	IdentityDocExpiry  string             `json:"identity_doc_expiry,omitempty"`
	LicenseNumber      string             `json:"license_number,omitempty"`
	LicenseDocRef      string             `json:"license_doc_ref,omitempty"`
	LicenseExpiry      string             `json:"license_expiry,omitempty"`
	Specialty          string             `json:"specialty,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Version            int64              `json:"-"`
}

// ProfileUpdate carries the owner-editable fields. Nil means "leave unchanged";
// a pointer to "" clears the field.
type ProfileUpdate struct {
	Name              *string
	Phone             *string
	DocumentNumber    *string
	BirthDate         *string
	AvatarRef         *string
	IdentityDocRef    *string
	IdentityDocExpiry *string
	LicenseNumber     *string
	LicenseDocRef     *string
	LicenseExpiry     *string
	Specialty         *string
}

// Apply merges the update into u. Status is not touched; call
// RefreshVerification afterwards.
func (p ProfileUpdate) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&u.Name, p.Name)
	set(&u.Phone, p.Phone)
	set(&u.DocumentNumber, p.DocumentNumber)
	set(&u.BirthDate, p.BirthDate)
	set(&u.AvatarRef, p.AvatarRef)
	set(&u.IdentityDocRef, p.IdentityDocRef)
	set(&u.IdentityDocExpiry, p.IdentityDocExpiry)
	set(&u.LicenseNumber, p.LicenseNumber)
	set(&u.LicenseDocRef, p.LicenseDocRef)
	set(&u.LicenseExpiry, p.LicenseExpiry)
	set(&u.Specialty, p.Specialty)
}

// ProfileComplete reports whether every field required for document review is
// present for the user's role.
func (u *User) ProfileComplete() bool {
	base := u.Name != "" && u.DocumentNumber != "" && u.BirthDate != "" &&
		u.IdentityDocRef != "" && u.IdentityDocExpiry != ""
	if !base {
		return false
	}
	if u.Role == RoleProfessional {
		return u.LicenseNumber != "" && u.LicenseDocRef != "" && u.LicenseExpiry != ""
	}
	return true
}

// RefreshVerification recomputes the status from profile completeness.
// VERIFIED is final. A REJECTED user who edits the profile is resubmitting, so
// the status follows the profile again.
func (u *User) RefreshVerification() {
	if u.VerificationStatus == VerificationVerified {
		return
	}
	if u.ProfileComplete() {
		u.VerificationStatus = VerificationUnderAnalysis
		return
	}
	u.VerificationStatus = VerificationPending
}

// Review applies an external reviewer's decision. Only profiles under analysis
// can be reviewed.
func (u *User) Review(outcome VerificationStatus) error {
	if outcome != VerificationVerified && outcome != VerificationRejected {
		return ErrInvalidTransition
	}
	if u.VerificationStatus != VerificationUnderAnalysis {
		return ErrInvalidTransition
	}
	u.VerificationStatus = outcome
	return nil
}
