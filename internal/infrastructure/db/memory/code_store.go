package memory

import (
	"context"
	"sync"
	"time"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

type pendingCode struct {
	hash      string
	expiresAt time.Time
}

// CodeStore holds one pending code per phone. Consume is atomic under mu.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]pendingCode
	now   func() time.Time
}

func NewCodeStore() *CodeStore {
	return &CodeStore{codes: make(map[string]pendingCode), now: time.Now}
}

func (s *CodeStore) Save(_ context.Context, phone, codeHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = pendingCode{hash: codeHash, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *CodeStore) Consume(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.codes[phone]
	delete(s.codes, phone)
	if !ok || !s.now().Before(p.expiresAt) {
		return "", domain.ErrInvalidOrExpiredCode
	}
	return p.hash, nil
}
