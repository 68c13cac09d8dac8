package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
	"github.com/v-pascoal/radar-hub/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubNotifier struct {
	mu   sync.Mutex
	err  error
	sent []ports.Notification
}

func (n *stubNotifier) Publish(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *stubNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	for i, m := range n.sent {
		out[i] = m.Kind
	}
	return out
}

func (n *stubNotifier) lastCode(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if msg, ok := n.sent[i].Payload.(ports.SMSCodeMessage); ok {
			return msg.Code
		}
	}
	t.Fatal("no sms code published")
	return ""
}

type failingCaseRepo struct {
	ports.CaseRepository
	err error
}

func (r failingCaseRepo) Update(context.Context, *domain.Case, int64, *domain.TimelineEvent) error {
	return r.err
}

// interleavingCaseRepo runs before once, ahead of the first Update, so a test
// can slip a competing write between a read and its compare-and-set.
type interleavingCaseRepo struct {
	ports.CaseRepository
	once   sync.Once
	before func()
}

func (r *interleavingCaseRepo) Update(ctx context.Context, c *domain.Case, expected int64, ev *domain.TimelineEvent) error {
	r.once.Do(r.before)
	return r.CaseRepository.Update(ctx, c, expected, ev)
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	store    *memory.Store
	codes    *memory.CodeStore
	notifier *stubNotifier
	tokens   *JWTManager
	identity *IdentityService
	cases    *CaseService
	wallet   *WalletService
	phones   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		codes:    memory.NewCodeStore(),
		notifier: &stubNotifier{},
		tokens:   NewJWTManager("test-secret", "radar-hub-test", time.Hour),
	}
	f.identity = NewIdentityService(f.store.Users(), f.codes, f.tokens, f.notifier,
		IdentityConfig{CodeTTL: time.Minute}, zerolog.Nop())
	f.identity.hashCost = bcrypt.MinCost
	f.cases = NewCaseService(f.store.Cases(), memory.NewDeclineStore(), f.notifier, zerolog.Nop())
	f.wallet = NewWalletService(f.store.Cases(), domain.DefaultRetainedRate)
	return f
}

func (f *fixture) addUser(t *testing.T, id string, role domain.Role, status domain.VerificationStatus) *domain.User {
	t.Helper()
	f.phones++
	u := &domain.User{
		ID:                 id,
		Role:               role,
		Phone:              fmt.Sprintf("+55119000%05d", f.phones),
		Name:               "User " + id,
		VerificationStatus: status,
	}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func (f *fixture) submit(t *testing.T, client *domain.User, caseType string, points ...int) *domain.Case {
	t.Helper()
	fines := make([]domain.Fine, len(points))
	for i, p := range points {
		fines[i] = domain.Fine{Points: p, EvidenceRef: "evidence.pdf"}
	}
	c, err := f.cases.Submit(context.Background(), client, ports.SubmitCaseInput{Type: caseType, Fines: fines})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	return c
}

func (f *fixture) record(t *testing.T, pro *domain.User, caseID, label string, refs ...string) *domain.Case {
	t.Helper()
	c, err := f.cases.RecordStatus(context.Background(), pro, caseID, ports.RecordStatusInput{
		Label:        label,
		Narrative:    "nota do advogado",
		EvidenceRefs: refs,
	})
	if err != nil {
		t.Fatalf("RecordStatus(%q) returned error: %v", label, err)
	}
	return c
}

func assertErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
