package ports

import (
	"context"
	"time"
)

// CodeStore keeps one pending one-time code hash per phone.
type CodeStore interface {
	// Save replaces any pending code for phone.
	Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error
	// Consume atomically reads and deletes the pending hash. A missing or
	// expired entry yields domain.ErrInvalidOrExpiredCode.
	Consume(ctx context.Context, phone string) (string, error)
}

// DeclineStore remembers which open cases a professional chose to skip.
type DeclineStore interface {
	Add(ctx context.Context, professionalID, caseID string) error
	Declined(ctx context.Context, professionalID string) (map[string]struct{}, error)
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
