package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/v-pascoal/radar-hub/internal/api/metrics"
	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

type AuthHandler struct {
	identity ports.IdentityService
}

func NewAuthHandler(identity ports.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// RequestCode starts a phone login or registration by sending a one-time code.
//
// @Summary      Request a one-time login code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestCodeRequest  true  "Phone and intent (LOGIN or REGISTER)"
// @Success      200   {object}  requestCodeResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/auth/code/request [post]
func (h *AuthHandler) RequestCode(c echo.Context) error {
	var req requestCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	defer observe("request_code").ObserveDuration()

	intent := ports.Intent(strings.ToUpper(strings.TrimSpace(req.Intent)))
	res, err := h.identity.RequestCode(c.Request().Context(), ports.RequestCodeInput{
		Phone:  req.Phone,
		Intent: intent,
	})
	if err != nil {
		metrics.CodesRequestedTotal.WithLabelValues(intentLabel(intent), domain.Code(err)).Inc()
		return err
	}
	metrics.CodesRequestedTotal.WithLabelValues(intentLabel(intent), "issued").Inc()

	return c.JSON(http.StatusOK, requestCodeResponse{
		Phone:     res.Phone,
		ExpiresAt: formatTime(res.ExpiresAt),
		DevCode:   res.DevCode,
	})
}

// VerifyCode consumes a one-time code and returns a session token. Unknown
// phones are registered when a role is supplied.
//
// @Summary      Verify a one-time code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Phone, code and optional registration profile"
// @Success      200   {object}  authResponse
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/auth/code/verify [post]
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req verifyCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	defer observe("verify_code").ObserveDuration()

	reg := req.Registration
	res, err := h.identity.VerifyCode(c.Request().Context(), ports.VerifyCodeInput{
		Phone: req.Phone,
		Code:  req.Code,
		Role:  req.Role,
		Registration: ports.RegistrationInput{
			Name:              reg.Name,
			DocumentNumber:    reg.DocumentNumber,
			BirthDate:         reg.BirthDate,
			AvatarRef:         reg.AvatarRef,
			IdentityDocRef:    reg.IdentityDocRef,
			IdentityDocExpiry: reg.IdentityDocExpiry,
			LicenseNumber:     reg.LicenseNumber,
			LicenseDocRef:     reg.LicenseDocRef,
			LicenseExpiry:     reg.LicenseExpiry,
			Specialty:         reg.Specialty,
		},
	})
	if err != nil {
		metrics.CodesVerifiedTotal.WithLabelValues(domain.Code(err)).Inc()
		return err
	}

	status, result := http.StatusOK, "login"
	if res.Registered {
		status, result = http.StatusCreated, "registered"
	}
	metrics.CodesVerifiedTotal.WithLabelValues(result).Inc()

	return c.JSON(status, authResponse{
		Token:      res.Token,
		ExpiresAt:  formatTime(res.ExpiresAt),
		Registered: res.Registered,
		User:       res.User,
	})
}

// intentLabel bounds the metric label to the known intents.
func intentLabel(i ports.Intent) string {
	if i == ports.IntentLogin || i == ports.IntentRegister {
		return string(i)
	}
	return "unknown"
}
