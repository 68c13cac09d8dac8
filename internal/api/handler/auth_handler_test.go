package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

type stubIdentityService struct {
	ports.IdentityService
	requestFn func(ctx context.Context, in ports.RequestCodeInput) (*ports.CodeRequestResult, error)
	verifyFn  func(ctx context.Context, in ports.VerifyCodeInput) (*ports.AuthResult, error)
	updateFn  func(ctx context.Context, actor *domain.User, userID string, u domain.ProfileUpdate) (*domain.User, error)
	reviewFn  func(ctx context.Context, userID string, outcome domain.VerificationStatus, note string) (*domain.User, error)
}

func (s *stubIdentityService) RequestCode(ctx context.Context, in ports.RequestCodeInput) (*ports.CodeRequestResult, error) {
	return s.requestFn(ctx, in)
}

func (s *stubIdentityService) VerifyCode(ctx context.Context, in ports.VerifyCodeInput) (*ports.AuthResult, error) {
	return s.verifyFn(ctx, in)
}

func (s *stubIdentityService) UpdateProfile(ctx context.Context, actor *domain.User, userID string, u domain.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, actor, userID, u)
}

func (s *stubIdentityService) ReviewVerification(ctx context.Context, userID string, outcome domain.VerificationStatus, note string) (*domain.User, error) {
	return s.reviewFn(ctx, userID, outcome, note)
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func TestAuthHandler_RequestCode_Success(t *testing.T) {
	stub := &stubIdentityService{
		requestFn: func(ctx context.Context, in ports.RequestCodeInput) (*ports.CodeRequestResult, error) {
			if in.Phone != "+55 11 99999-0001" || in.Intent != ports.IntentRegister {
				t.Fatalf("unexpected args: %+v", in)
			}
			return &ports.CodeRequestResult{Phone: "+5511999990001", ExpiresAt: time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC)}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/v1/auth/code/request", `{"phone":"+55 11 99999-0001","intent":"register"}`)

	if err := NewAuthHandler(stub).RequestCode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["phone"] != "+5511999990001" || resp["expires_at"] != "2026-01-01T12:05:00Z" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["dev_code"]; leaked {
		t.Fatalf("dev_code must be omitted when echo is disabled")
	}
}

func TestAuthHandler_RequestCode_DomainErrorPassesThrough(t *testing.T) {
	stub := &stubIdentityService{
		requestFn: func(ctx context.Context, in ports.RequestCodeInput) (*ports.CodeRequestResult, error) {
			return nil, domain.ErrAccountNotFound
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/v1/auth/code/request", `{"phone":"+5511999990001","intent":"LOGIN"}`)

	if err := NewAuthHandler(stub).RequestCode(c); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound for the central error handler, got %v", err)
	}
}

func TestAuthHandler_RequestCode_InvalidPayload(t *testing.T) {
	stub := &stubIdentityService{
		requestFn: func(ctx context.Context, in ports.RequestCodeInput) (*ports.CodeRequestResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/v1/auth/code/request", "not-json")
	if st := httpStatus(t, h.RequestCode(c)); st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}

	c, _ = newJSONContext(http.MethodPost, "/v1/auth/code/request", `{"intent":"LOGIN"}`)
	if st := httpStatus(t, h.RequestCode(c)); st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing phone, got %d", st)
	}
}

func TestAuthHandler_VerifyCode_Registers(t *testing.T) {
	stub := &stubIdentityService{
		verifyFn: func(ctx context.Context, in ports.VerifyCodeInput) (*ports.AuthResult, error) {
			if in.Code != "123456" || in.Role != "PROFESSIONAL" || in.Registration.LicenseNumber != "SP 123" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return &ports.AuthResult{
				User:       &domain.User{ID: "usr_1", Role: domain.RoleProfessional, VerificationStatus: domain.VerificationPending},
				Token:      "token123",
				Registered: true,
			}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/v1/auth/code/verify",
		`{"phone":"+5511999990001","code":"123456","role":"PROFESSIONAL","registration":{"license_number":"SP 123"}}`)

	if err := NewAuthHandler(stub).VerifyCode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if resp["token"] != "token123" || !ok || user["verification_status"] != "PENDING" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_VerifyCode_Login(t *testing.T) {
	stub := &stubIdentityService{
		verifyFn: func(ctx context.Context, in ports.VerifyCodeInput) (*ports.AuthResult, error) {
			return &ports.AuthResult{User: &domain.User{ID: "usr_1"}, Token: "token123"}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/v1/auth/code/verify", `{"phone":"+5511999990001","code":"123456"}`)

	if err := NewAuthHandler(stub).VerifyCode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_VerifyCode_MissingCode(t *testing.T) {
	stub := &stubIdentityService{
		verifyFn: func(ctx context.Context, in ports.VerifyCodeInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/v1/auth/code/verify", `{"phone":"+5511999990001"}`)

	err := NewAuthHandler(stub).VerifyCode(c)
	if st := httpStatus(t, err); st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", st)
	}
	if !strings.Contains(err.Error(), "code is required") {
		t.Fatalf("validation message should name the json field, got %v", err)
	}
}
