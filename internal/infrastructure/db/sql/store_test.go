package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:radarhub-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db)
}

func seedCase(t *testing.T, s *Store, id string) *domain.Case {
	t.Helper()
	c := &domain.Case{
		ID:            id,
		ReferenceCode: "RAD-" + id,
		ClientID:      "usr_client",
		Status:        domain.StatusOpen,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := c.SetType(domain.CaseTypeRevocation); err != nil {
		t.Fatalf("set type: %v", err)
	}
	c.SetFines([]domain.Fine{{ID: "f1", Points: 7, EvidenceRef: "a.pdf"}, {ID: "f2", Points: 5, EvidenceRef: "b.pdf"}})
	ev := domain.NewTimelineEvent(c, domain.EventStatusChange, "Processo Iniciado", "", domain.RoleSystem, "Radar Hub", nil)
	if err := s.Cases().Create(context.Background(), c, ev); err != nil {
		t.Fatalf("create case: %v", err)
	}
	return c
}

func TestSQLStore_UserLifecycle(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	users := s.Users()

	u := &domain.User{ID: "usr_1", Role: domain.RoleClient, Phone: "+5511988887777", Name: "Ana", VerificationStatus: domain.VerificationPending}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	err := users.Create(ctx, &domain.User{ID: "usr_2", Role: domain.RoleClient, Phone: "+5511988887777"})
	if !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("expected ErrAccountAlreadyExists, got %v", err)
	}

	got, err := users.FindByPhone(ctx, "+5511988887777")
	if err != nil || got.ID != "usr_1" || got.Version != 1 {
		t.Fatalf("FindByPhone: got %+v, %v", got, err)
	}

	got.Name = "Ana Souza"
	if err := users.Update(ctx, got, 1); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if err := users.Update(ctx, got, 1); !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	if _, err := users.FindByID(ctx, "usr_missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSQLStore_CaseRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	seedCase(t, s, "case_1")

	got, err := s.Cases().FindByID(ctx, "case_1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if got.TotalPoints != 12 || len(got.Fines) != 2 || got.Fines[1].EvidenceRef != "b.pdf" {
		t.Fatalf("fines not persisted: %+v", got.Fines)
	}
	if !got.Fee.Equal(decimal.NewFromInt(980)) {
		t.Fatalf("expected fee 980, got %s", got.Fee)
	}
	if got.Version != 1 {
		t.Fatalf("expected version 1, got %d", got.Version)
	}
	if _, err := s.Cases().FindByID(ctx, "case_missing"); !errors.Is(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestSQLStore_UpdateIsVersionedAndAppendsEvent(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	c := seedCase(t, s, "case_1")

	ev := domain.NewTimelineEvent(c, domain.EventStatusChange, "Aguardando Pagamento", "", domain.RoleProfessional, "Dra. Helena", []string{"x.pdf"})
	c.Status = domain.StatusClaimed
	c.ProfessionalID = "usr_pro"
	if err := s.Cases().Update(ctx, c, 1, ev); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stale, _ := s.Cases().FindByID(ctx, "case_1")
	stale.Version = 1
	staleEv := domain.NewTimelineEvent(stale, domain.EventMessage, "late", "", domain.RoleProfessional, "x", nil)
	if err := s.Cases().Update(ctx, stale, 1, staleEv); !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	events, err := s.Cases().Timeline(ctx, "case_1")
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	if len(events) != 2 || events[1].Seq != 2 || events[1].AttachmentRefs[0] != "x.pdf" {
		t.Fatalf("unexpected timeline: %+v", events)
	}

	missing := &domain.Case{ID: "case_missing"}
	if err := s.Cases().Update(ctx, missing, 1, domain.NewTimelineEvent(missing, domain.EventMessage, "x", "", domain.RoleSystem, "x", nil)); !errors.Is(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestSQLStore_ConcurrentVersionedUpdates(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	seedCase(t, s, "case_1")

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := s.Cases().FindByID(ctx, "case_1")
			if err != nil {
				t.Errorf("FindByID: %v", err)
				return
			}
			c.ProfessionalID = fmt.Sprintf("usr_p%d", i)
			ev := domain.NewTimelineEvent(c, domain.EventStatusChange, "claim", "", domain.RoleProfessional, "p", nil)
			// Everyone races from version 1.
			err = s.Cases().Update(ctx, c, 1, ev)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrConcurrentModification):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	events, _ := s.Cases().Timeline(ctx, "case_1")
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestSQLStore_ListFilters(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	seedCase(t, s, "case_a")
	b := seedCase(t, s, "case_b")

	ev := domain.NewTimelineEvent(b, domain.EventStatusChange, "claim", "", domain.RoleProfessional, "p", nil)
	b.Status = domain.StatusClaimed
	b.ProfessionalID = "usr_pro"
	if err := s.Cases().Update(ctx, b, 1, ev); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	open, err := s.Cases().List(ctx, ports.CaseFilter{Status: domain.StatusOpen, Unassigned: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(open) != 1 || open[0].ID != "case_a" {
		t.Fatalf("unexpected open cases: %v", open)
	}
	mine, _ := s.Cases().List(ctx, ports.CaseFilter{ProfessionalID: "usr_pro"})
	if len(mine) != 1 || mine[0].ID != "case_b" {
		t.Fatalf("unexpected assigned cases: %v", mine)
	}
	all, _ := s.Cases().List(ctx, ports.CaseFilter{ClientID: "usr_client"})
	if len(all) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(all))
	}
}
