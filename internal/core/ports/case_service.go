package ports

import (
	"context"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// SubmitCaseInput is the DTO for a client submitting a new defense request.
type SubmitCaseInput struct {
	Type      string
	Fines     []domain.Fine
	Narrative string
}

// UpdateCaseInput edits a case before assignment. Nil fields are unchanged.
type UpdateCaseInput struct {
	Type      *string
	Fines     []domain.Fine
	Narrative *string
}

// RecordStatusInput is the DTO for a professional reporting progress.
type RecordStatusInput struct {
	Label          string
	Narrative      string
	EvidenceRefs   []string
	RegistryNumber *string
	Organ          *string
}

// CaseService drives the case lifecycle. The actor is always the stored user
// resolved from the session token.
type CaseService interface {
	Submit(ctx context.Context, actor *domain.User, input SubmitCaseInput) (*domain.Case, error)
	Update(ctx context.Context, actor *domain.User, caseID string, input UpdateCaseInput) (*domain.Case, error)
	Claim(ctx context.Context, actor *domain.User, caseID string) (*domain.Case, error)
	RecordStatus(ctx context.Context, actor *domain.User, caseID string, input RecordStatusInput) (*domain.Case, error)
	Get(ctx context.Context, actor *domain.User, caseID string) (*domain.Case, error)
	ListMine(ctx context.Context, actor *domain.User) ([]*domain.Case, error)
	Opportunities(ctx context.Context, actor *domain.User) ([]*domain.Case, error)
	Decline(ctx context.Context, actor *domain.User, caseID string) error
	// Timeline returns the case events newest first.
	Timeline(ctx context.Context, actor *domain.User, caseID string) ([]domain.TimelineEvent, error)
}

// WalletService exposes the derived earnings summary of a professional.
type WalletService interface {
	Stats(ctx context.Context, actor *domain.User, professionalID string) (*domain.WalletStats, error)
}
