package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so transport layers
// can map them with errors.Is without knowing every specific sentinel.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

// Identity errors.
var (
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrAccountNotFound      = fmt.Errorf("%w: no account registered for this phone", ErrNotFound)
	ErrAccountAlreadyExists = fmt.Errorf("%w: an account already exists for this phone", ErrConflict)
	ErrInvalidOrExpiredCode = fmt.Errorf("%w: invalid or expired code", ErrUnauthorized)
	ErrInvalidToken         = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrInvalidRole          = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrInvalidIntent        = fmt.Errorf("%w: intent must be LOGIN or REGISTER", ErrValidation)
	ErrInvalidPhone         = fmt.Errorf("%w: phone is required", ErrValidation)
	ErrNotVerified          = fmt.Errorf("%w: account documents are not verified", ErrForbidden)
	ErrRoleNotAllowed       = fmt.Errorf("%w: role not allowed for this operation", ErrForbidden)
	ErrNotResourceOwner     = fmt.Errorf("%w: resource belongs to another user", ErrForbidden)
)

// Case lifecycle errors.
var (
	ErrCaseNotFound           = fmt.Errorf("%w: case not found", ErrNotFound)
	ErrCaseNotClaimable       = fmt.Errorf("%w: case is not claimable", ErrConflict)
	ErrCaseLocked             = fmt.Errorf("%w: case can no longer be edited by its owner", ErrConflict)
	ErrConcurrentModification = fmt.Errorf("%w: concurrent modification", ErrConflict)
	ErrNotCaseParticipant     = fmt.Errorf("%w: actor is not a participant of this case", ErrForbidden)
	ErrEmptyFines             = fmt.Errorf("%w: at least one fine is required", ErrValidation)
	ErrNegativePoints         = fmt.Errorf("%w: fine points must be a non-negative integer", ErrValidation)
	ErrFineEvidenceMissing    = fmt.Errorf("%w: every fine needs an evidence document", ErrValidation)
	ErrUnknownCaseType        = fmt.Errorf("%w: unknown case type", ErrValidation)
	ErrInvalidStatusLabel     = fmt.Errorf("%w: unknown status label", ErrValidation)
	ErrEvidenceRequired       = fmt.Errorf("%w: this status requires at least one evidence document", ErrValidation)
	ErrOutcomeRequired        = fmt.Errorf("%w: finishing a case requires an outcome note", ErrValidation)
	ErrInvalidTransition      = fmt.Errorf("%w: invalid status transition", ErrValidation)
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrUserNotFound, "USER_NOT_FOUND"},
	{ErrAccountNotFound, "ACCOUNT_NOT_FOUND"},
	{ErrAccountAlreadyExists, "ACCOUNT_ALREADY_EXISTS"},
	{ErrInvalidOrExpiredCode, "INVALID_OR_EXPIRED_CODE"},
	{ErrInvalidToken, "INVALID_TOKEN"},
	{ErrInvalidRole, "INVALID_ROLE"},
	{ErrInvalidIntent, "INVALID_INTENT"},
	{ErrInvalidPhone, "INVALID_PHONE"},
	{ErrNotVerified, "NOT_VERIFIED"},
	{ErrRoleNotAllowed, "ROLE_NOT_ALLOWED"},
	{ErrNotResourceOwner, "NOT_RESOURCE_OWNER"},
	{ErrCaseNotFound, "CASE_NOT_FOUND"},
	{ErrCaseNotClaimable, "CASE_NOT_CLAIMABLE"},
	{ErrCaseLocked, "CASE_LOCKED"},
	{ErrConcurrentModification, "CONCURRENT_MODIFICATION"},
	{ErrNotCaseParticipant, "NOT_CASE_PARTICIPANT"},
	{ErrEmptyFines, "EMPTY_FINES"},
	{ErrNegativePoints, "NEGATIVE_POINTS"},
	{ErrFineEvidenceMissing, "FINE_EVIDENCE_MISSING"},
	{ErrUnknownCaseType, "UNKNOWN_CASE_TYPE"},
	{ErrInvalidStatusLabel, "INVALID_STATUS_LABEL"},
	{ErrEvidenceRequired, "EVIDENCE_REQUIRED"},
	{ErrOutcomeRequired, "OUTCOME_REQUIRED"},
	{ErrInvalidTransition, "INVALID_TRANSITION"},
	{ErrUnauthorized, "UNAUTHORIZED"},
	{ErrForbidden, "FORBIDDEN"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrConflict, "CONFLICT"},
	{ErrValidation, "VALIDATION_FAILED"},
}

// Code returns a stable machine-readable identifier for err, falling back to
// its kind. Errors outside the domain yield "INTERNAL".
func Code(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "INTERNAL"
}

// Sentinel returns the most specific domain sentinel err wraps, or nil.
func Sentinel(err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.err
		}
	}
	return nil
}
