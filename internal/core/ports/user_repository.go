package ports

import (
	"context"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// UserRepository persists marketplace participants. Phone is unique.
type UserRepository interface {
	// Create stores a new user at version 1. A taken phone yields
	// domain.ErrAccountAlreadyExists.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	// Update writes u only if the stored version still equals expectedVersion,
	// then sets u.Version to expectedVersion+1. A mismatch yields
	// domain.ErrConcurrentModification.
	Update(ctx context.Context, u *domain.User, expectedVersion int64) error
}
