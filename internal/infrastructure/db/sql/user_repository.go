package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

type UserRepository struct {
	db *bun.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.NewInsert().Model(newUserRecord(u, 1)).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.Version = 1
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := new(userRecord)
	if err := r.db.NewSelect().Model(rec).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := newUserRecord(u, expectedVersion+1)
	res, err := r.db.NewUpdate().
		Model(rec).
		ExcludeColumn("id", "created_at").
		Where("id = ?", u.ID).
		Where("version = ?", expectedVersion).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		exists, err := r.db.NewSelect().Model((*userRecord)(nil)).Where("id = ?", u.ID).Exists(ctx)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if !exists {
			return domain.ErrUserNotFound
		}
		return domain.ErrConcurrentModification
	}
	u.Version = rec.Version
	return nil
}
