// Package memory provides process-local implementations of the store ports.
// They back the development server and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

// Store keeps users, cases and timelines in maps guarded by one lock, so a
// case update and its timeline append are a single critical section.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*domain.User
	phones    map[string]string
	cases     map[string]*domain.Case
	timelines map[string][]domain.TimelineEvent
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]*domain.User),
		phones:    make(map[string]string),
		cases:     make(map[string]*domain.Case),
		timelines: make(map[string][]domain.TimelineEvent),
	}
}

// Users and Cases expose the two repository views of the store.
func (s *Store) Users() ports.UserRepository { return userRepo{s} }
func (s *Store) Cases() ports.CaseRepository { return caseRepo{s} }

func (s *Store) Ping(context.Context) error { return nil }

type userRepo struct{ s *Store }

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.phones[u.Phone]; taken {
		return domain.ErrAccountAlreadyExists
	}
	if _, exists := r.s.users[u.ID]; exists {
		return fmt.Errorf("%w: user %s already stored", domain.ErrConflict, u.ID)
	}
	u.Version = 1
	r.s.users[u.ID] = cloneUser(u)
	r.s.phones[u.Phone] = u.ID
	return nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r userRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.phones[phone]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r userRepo) Update(_ context.Context, u *domain.User, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	if u.Phone != cur.Phone {
		if owner, taken := r.s.phones[u.Phone]; taken && owner != u.ID {
			return domain.ErrAccountAlreadyExists
		}
		delete(r.s.phones, cur.Phone)
		r.s.phones[u.Phone] = u.ID
	}
	u.Version = expectedVersion + 1
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

type caseRepo struct{ s *Store }

func (r caseRepo) Create(_ context.Context, c *domain.Case, ev *domain.TimelineEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.cases[c.ID]; exists {
		return fmt.Errorf("%w: case %s already stored", domain.ErrConflict, c.ID)
	}
	c.Version = 1
	r.s.cases[c.ID] = c.Clone()
	r.s.timelines[c.ID] = []domain.TimelineEvent{copyEvent(ev)}
	return nil
}

func (r caseRepo) FindByID(_ context.Context, id string) (*domain.Case, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.cases[id]
	if !ok {
		return nil, domain.ErrCaseNotFound
	}
	return c.Clone(), nil
}

func (r caseRepo) List(_ context.Context, f ports.CaseFilter) ([]*domain.Case, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Case, 0)
	for _, c := range r.s.cases {
		if f.ClientID != "" && c.ClientID != f.ClientID {
			continue
		}
		if f.ProfessionalID != "" && c.ProfessionalID != f.ProfessionalID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Unassigned && c.ProfessionalID != "" {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r caseRepo) Update(_ context.Context, c *domain.Case, expectedVersion int64, ev *domain.TimelineEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.cases[c.ID]
	if !ok {
		return domain.ErrCaseNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	c.Version = expectedVersion + 1
	r.s.cases[c.ID] = c.Clone()
	r.s.timelines[c.ID] = append(r.s.timelines[c.ID], copyEvent(ev))
	return nil
}

func (r caseRepo) Timeline(_ context.Context, caseID string) ([]domain.TimelineEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	events := r.s.timelines[caseID]
	out := make([]domain.TimelineEvent, len(events))
	for i, e := range events {
		out[i] = copyEvent(&e)
	}
	return out, nil
}

func copyEvent(ev *domain.TimelineEvent) domain.TimelineEvent {
	cp := *ev
	cp.AttachmentRefs = append([]string(nil), ev.AttachmentRefs...)
	return cp
}
