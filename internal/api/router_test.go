package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
	"github.com/v-pascoal/radar-hub/internal/core/service"
	"github.com/v-pascoal/radar-hub/internal/infrastructure/db/memory"
)

type discardNotifier struct{}

func (discardNotifier) Publish(context.Context, ports.Notification) error { return nil }

const reviewerKey = "reviewer-test-key"

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	store := memory.NewStore()
	tokens := service.NewJWTManager("router-secret", "radar-hub-test", time.Hour)
	identity := service.NewIdentityService(store.Users(), memory.NewCodeStore(), tokens, discardNotifier{},
		service.IdentityConfig{CodeTTL: time.Minute, EchoCode: true}, zerolog.Nop())

	return NewRouter(Dependencies{
		Identity:    identity,
		Cases:       service.NewCaseService(store.Cases(), memory.NewDeclineStore(), discardNotifier{}, zerolog.Nop()),
		Wallet:      service.NewWalletService(store.Cases(), domain.DefaultRetainedRate),
		Tokens:      tokens,
		ReviewerKey: reviewerKey,
		Readiness:   map[string]ports.Pinger{"store": store},
		Registerer:  prometheus.NewRegistry(),
		Log:         zerolog.Nop(),
	})
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	if token == reviewerKey {
		req.Header.Del(echo.HeaderAuthorization)
		req.Header.Set("X-Reviewer-Key", reviewerKey)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: invalid json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID                 string `json:"id"`
		VerificationStatus string `json:"verification_status"`
	} `json:"user"`
}

func register(t *testing.T, e *echo.Echo, phone, role string, registration map[string]string) session {
	t.Helper()
	var code struct {
		DevCode string `json:"dev_code"`
	}
	if st := do(t, e, http.MethodPost, "/v1/auth/code/request", "",
		map[string]string{"phone": phone, "intent": "REGISTER"}, &code); st != http.StatusOK {
		t.Fatalf("request code: expected 200, got %d", st)
	}
	var s session
	st := do(t, e, http.MethodPost, "/v1/auth/code/verify", "", map[string]any{
		"phone":        phone,
		"code":         code.DevCode,
		"role":         role,
		"registration": registration,
	}, &s)
	if st != http.StatusCreated {
		t.Fatalf("verify code: expected 201, got %d", st)
	}
	return s
}

func TestRouter_CaseLifecycle(t *testing.T) {
	e := newTestRouter(t)

	client := register(t, e, "+5511999990001", "CLIENT", map[string]string{"name": "Roberto Almeida"})
	pro := register(t, e, "+5511999990002", "PROFESSIONAL", map[string]string{
		"name":                "Dra. Ana Paula",
		"document_number":     "111.222.333-44",
		"birth_date":          "10/10/1985",
		"identity_doc_ref":    "docs/rg.pdf",
		"identity_doc_expiry": "10/10/2031",
		"license_number":      "SP 123.456",
		"license_doc_ref":     "docs/oab.pdf",
		"license_expiry":      "10/10/2031",
	})
	if pro.User.VerificationStatus != string(domain.VerificationUnderAnalysis) {
		t.Fatalf("complete professional profile should be UNDER_ANALYSIS, got %s", pro.User.VerificationStatus)
	}

	// Submit a case as the client.
	var submitted struct {
		CaseID string `json:"case_id"`
		Status string `json:"status"`
		Fee    string `json:"fee"`
	}
	st := do(t, e, http.MethodPost, "/v1/cases", client.Token, map[string]any{
		"type":  "Suspensão",
		"fines": []map[string]any{{"points": 7, "evidence_ref": "a.pdf"}, {"points": 5, "evidence_ref": "b.pdf"}},
	}, &submitted)
	if st != http.StatusCreated || submitted.Status != "OPEN" || submitted.Fee != "490.00" {
		t.Fatalf("submit: got %d %+v", st, submitted)
	}
	casePath := "/v1/cases/" + submitted.CaseID

	// Clients cannot claim and unverified professionals are turned away.
	if st := do(t, e, http.MethodPost, casePath+"/claim", client.Token, nil, nil); st != http.StatusForbidden {
		t.Fatalf("client claim: expected 403, got %d", st)
	}
	var apiErr errorResponse
	if st := do(t, e, http.MethodPost, casePath+"/claim", pro.Token, nil, &apiErr); st != http.StatusForbidden || apiErr.Code != "NOT_VERIFIED" {
		t.Fatalf("unverified claim: expected 403 NOT_VERIFIED, got %d %+v", st, apiErr)
	}

	// The external reviewer approves the professional.
	if st := do(t, e, http.MethodPut, "/v1/review/users/"+pro.User.ID+"/verification", reviewerKey,
		map[string]string{"outcome": "VERIFIED"}, nil); st != http.StatusOK {
		t.Fatalf("review: expected 200, got %d", st)
	}

	var opps struct {
		Count int `json:"count"`
	}
	if st := do(t, e, http.MethodGet, "/v1/opportunities", pro.Token, nil, &opps); st != http.StatusOK || opps.Count != 1 {
		t.Fatalf("opportunities: got %d count=%d", st, opps.Count)
	}

	var claimed struct {
		Status         string `json:"status"`
		ProfessionalID string `json:"professional_id"`
	}
	if st := do(t, e, http.MethodPost, casePath+"/claim", pro.Token, nil, &claimed); st != http.StatusOK {
		t.Fatalf("claim: expected 200, got %d", st)
	}
	if claimed.Status != "CLAIMED" || claimed.ProfessionalID != pro.User.ID {
		t.Fatalf("unexpected claimed case: %+v", claimed)
	}
	if st := do(t, e, http.MethodPost, casePath+"/claim", pro.Token, nil, &apiErr); st != http.StatusConflict || apiErr.Code != "CASE_NOT_CLAIMABLE" {
		t.Fatalf("second claim: expected 409 CASE_NOT_CLAIMABLE, got %d %+v", st, apiErr)
	}

	// The owner can no longer edit a claimed case.
	if st := do(t, e, http.MethodPut, casePath, client.Token, map[string]any{"narrative": "late edit"}, nil); st != http.StatusConflict {
		t.Fatalf("locked edit: expected 409, got %d", st)
	}

	// Progress reports.
	if st := do(t, e, http.MethodPut, casePath+"/status", pro.Token,
		map[string]any{"label": "Protocolado"}, &apiErr); st != http.StatusUnprocessableEntity || apiErr.Code != "EVIDENCE_REQUIRED" {
		t.Fatalf("status without evidence: expected 422 EVIDENCE_REQUIRED, got %d %+v", st, apiErr)
	}
	var active struct {
		Status string `json:"status"`
	}
	if st := do(t, e, http.MethodPut, casePath+"/status", pro.Token, map[string]any{
		"label":           "Protocolado",
		"evidence_refs":   []string{"protocolo.pdf"},
		"registry_number": "2024/0001",
	}, &active); st != http.StatusOK || active.Status != "ACTIVE" {
		t.Fatalf("protocol: got %d %+v", st, active)
	}
	if st := do(t, e, http.MethodPut, casePath+"/status", pro.Token, map[string]any{
		"label":         "Deferido",
		"narrative":     "Recurso deferido pela JARI.",
		"evidence_refs": []string{"decisao.pdf"},
	}, &active); st != http.StatusOK || active.Status != "FINISHED" {
		t.Fatalf("finish: got %d %+v", st, active)
	}

	// The client sees every step, newest first.
	var timeline struct {
		Events []domain.TimelineEvent `json:"events"`
	}
	if st := do(t, e, http.MethodGet, casePath+"/timeline", client.Token, nil, &timeline); st != http.StatusOK {
		t.Fatalf("timeline: expected 200, got %d", st)
	}
	if len(timeline.Events) != 4 {
		t.Fatalf("expected 4 events (open, claim, protocol, finish), got %d", len(timeline.Events))
	}
	if timeline.Events[0].Title != "Deferido" || timeline.Events[0].Seq != 4 {
		t.Fatalf("newest event should come first, got %+v", timeline.Events[0])
	}

	var wallet struct {
		TotalAccepted string `json:"total_accepted"`
		Retained      string `json:"retained"`
		Receivable    string `json:"receivable"`
		FinishedCount int    `json:"finished_count"`
	}
	if st := do(t, e, http.MethodGet, "/v1/wallet/"+pro.User.ID, pro.Token, nil, &wallet); st != http.StatusOK {
		t.Fatalf("wallet: expected 200, got %d", st)
	}
	if wallet.TotalAccepted != "490.00" || wallet.Retained != "49.00" || wallet.Receivable != "441.00" || wallet.FinishedCount != 1 {
		t.Fatalf("unexpected wallet: %+v", wallet)
	}
}

func TestRouter_Unauthenticated(t *testing.T) {
	e := newTestRouter(t)
	for _, path := range []string{"/v1/users/me", "/v1/cases/mine", "/v1/opportunities"} {
		if st := do(t, e, http.MethodGet, path, "", nil, nil); st != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, st)
		}
	}
	if st := do(t, e, http.MethodGet, "/v1/users/me", "forged.token.value", nil, nil); st != http.StatusUnauthorized {
		t.Errorf("forged token: expected 401, got %d", st)
	}
}

func TestRouter_LoginFlow(t *testing.T) {
	e := newTestRouter(t)

	var apiErr errorResponse
	if st := do(t, e, http.MethodPost, "/v1/auth/code/request", "",
		map[string]string{"phone": "+5511999990009", "intent": "LOGIN"}, &apiErr); st != http.StatusNotFound || apiErr.Code != "ACCOUNT_NOT_FOUND" {
		t.Fatalf("login unknown phone: expected 404 ACCOUNT_NOT_FOUND, got %d %+v", st, apiErr)
	}

	s := register(t, e, "+5511999990009", "CLIENT", nil)

	var me struct {
		ID string `json:"id"`
	}
	if st := do(t, e, http.MethodGet, "/v1/users/me", s.Token, nil, &me); st != http.StatusOK || me.ID != s.User.ID {
		t.Fatalf("me: got %d %+v", st, me)
	}

	if st := do(t, e, http.MethodPost, "/v1/auth/code/request", "",
		map[string]string{"phone": "+5511999990009", "intent": "REGISTER"}, &apiErr); st != http.StatusConflict {
		t.Fatalf("register twice: expected 409, got %d", st)
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t)
	if st := do(t, e, http.MethodGet, "/health", "", nil, nil); st != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", st)
	}
	var ready struct {
		Status string `json:"status"`
	}
	if st := do(t, e, http.MethodGet, "/health/ready", "", nil, &ready); st != http.StatusOK || ready.Status != "ok" {
		t.Fatalf("readiness: got %d %+v", st, ready)
	}
}
