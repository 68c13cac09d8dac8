package memory

import (
	"context"
	"sync"
)

// DeclineStore records declined opportunities per professional.
type DeclineStore struct {
	mu       sync.RWMutex
	declined map[string]map[string]struct{}
}

func NewDeclineStore() *DeclineStore {
	return &DeclineStore{declined: make(map[string]map[string]struct{})}
}

func (s *DeclineStore) Add(_ context.Context, professionalID, caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.declined[professionalID]
	if !ok {
		set = make(map[string]struct{})
		s.declined[professionalID] = set
	}
	set[caseID] = struct{}{}
	return nil
}

func (s *DeclineStore) Declined(_ context.Context, professionalID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.declined[professionalID]))
	for id := range s.declined[professionalID] {
		out[id] = struct{}{}
	}
	return out, nil
}
