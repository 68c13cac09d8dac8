package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

// UserHandler serves the acting user's own profile.
type UserHandler struct {
	identity ports.IdentityService
}

func NewUserHandler(identity ports.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// updateProfileRequest uses pointers so omitted fields stay untouched and an
// explicit "" clears a value.
type updateProfileRequest struct {
	Name              *string `json:"name"                validate:"omitempty,max=200"`
	Phone             *string `json:"phone"               validate:"omitempty,phone"`
	DocumentNumber    *string `json:"document_number"     validate:"omitempty,max=32"`
	BirthDate         *string `json:"birth_date"          validate:"omitempty,max=32"`
	AvatarRef         *string `json:"avatar_ref"          validate:"omitempty,max=512"`
	IdentityDocRef    *string `json:"identity_doc_ref"    validate:"omitempty,max=512"`
	IdentityDocExpiry *string `json:"identity_doc_expiry" validate:"omitempty,max=32"`
	LicenseNumber     *string `json:"license_number"      validate:"omitempty,max=64"`
	LicenseDocRef     *string `json:"license_doc_ref"     validate:"omitempty,max=512"`
	LicenseExpiry     *string `json:"license_expiry"      validate:"omitempty,max=32"`
	Specialty         *string `json:"specialty"           validate:"omitempty,max=200"`
}

func (r updateProfileRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:              r.Name,
		Phone:             r.Phone,
		DocumentNumber:    r.DocumentNumber,
		BirthDate:         r.BirthDate,
		AvatarRef:         r.AvatarRef,
		IdentityDocRef:    r.IdentityDocRef,
		IdentityDocExpiry: r.IdentityDocExpiry,
		LicenseNumber:     r.LicenseNumber,
		LicenseDocRef:     r.LicenseDocRef,
		LicenseExpiry:     r.LicenseExpiry,
		Specialty:         r.Specialty,
	}
}

// Me returns the stored record of the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actor)
}

// Update merges profile edits and recomputes the verification status.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User id"
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	defer observe("update_profile").ObserveDuration()

	u, err := h.identity.UpdateProfile(c.Request().Context(), actor, c.Param("id"), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// ReviewHandler is the entry point of the external document reviewer.
type ReviewHandler struct {
	identity ports.IdentityService
}

func NewReviewHandler(identity ports.IdentityService) *ReviewHandler {
	return &ReviewHandler{identity: identity}
}

type reviewRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=VERIFIED REJECTED"`
	Note    string `json:"note"    validate:"max=1000"`
}

// Review records a VERIFIED or REJECTED decision for a profile under analysis.
//
// @Summary      Record a verification decision
// @Tags         review
// @Accept       json
// @Produce      json
// @Param        X-Reviewer-Key  header    string         true  "Reviewer key"
// @Param        id              path      string         true  "User id"
// @Param        body            body      reviewRequest  true  "Decision"
// @Success      200             {object}  domain.User
// @Failure      401             {object}  errorResponse
// @Failure      404             {object}  errorResponse
// @Failure      422             {object}  errorResponse
// @Router       /v1/review/users/{id}/verification [put]
func (h *ReviewHandler) Review(c echo.Context) error {
	var req reviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.identity.ReviewVerification(c.Request().Context(), c.Param("id"),
		domain.VerificationStatus(req.Outcome), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
