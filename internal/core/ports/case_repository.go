package ports

import (
	"context"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// CaseFilter narrows List. Empty fields do not filter.
type CaseFilter struct {
	ClientID       string
	ProfessionalID string
	Status         domain.CaseStatus
	// Unassigned restricts the result to cases with no professional.
	Unassigned bool
}

// CaseRepository persists cases together with their timeline. Every write
// carries exactly one timeline event and both are committed atomically.
type CaseRepository interface {
	// Create stores c at version 1 with ev as its first timeline entry.
	Create(ctx context.Context, c *domain.Case, ev *domain.TimelineEvent) error
	FindByID(ctx context.Context, id string) (*domain.Case, error)
	// List returns matching cases ordered by creation time, oldest first.
	List(ctx context.Context, filter CaseFilter) ([]*domain.Case, error)
	// Update is a compare-and-set on the case version. On success c.Version is
	// expectedVersion+1 and ev is appended; on mismatch nothing is written and
	// domain.ErrConcurrentModification is returned.
	Update(ctx context.Context, c *domain.Case, expectedVersion int64, ev *domain.TimelineEvent) error
	// Timeline returns the events of a case in insertion order.
	Timeline(ctx context.Context, caseID string) ([]domain.TimelineEvent, error)
}
