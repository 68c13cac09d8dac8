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

// CaseRepository keeps cases and timeline_events in step by writing both in
// one transaction.
type CaseRepository struct {
	db *bun.DB
}

var _ ports.CaseRepository = (*CaseRepository)(nil)

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case, ev *domain.TimelineEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(newCaseRecord(c, 1)).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: case %s already stored", domain.ErrConflict, c.ID)
			}
			return fmt.Errorf("insert case: %w", err)
		}
		if _, err := tx.NewInsert().Model(newEventRecord(ev)).Exec(ctx); err != nil {
			return fmt.Errorf("insert timeline event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.Version = 1
	return nil
}

func (r *CaseRepository) FindByID(ctx context.Context, id string) (*domain.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := new(caseRecord)
	if err := r.db.NewSelect().Model(rec).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *CaseRepository) List(ctx context.Context, f ports.CaseFilter) ([]*domain.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var recs []caseRecord
	q := r.db.NewSelect().Model(&recs).Order("created_at ASC", "id ASC")
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.ProfessionalID != "" {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Unassigned {
		q = q.Where("professional_id = ''")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	out := make([]*domain.Case, len(recs))
	for i := range recs {
		out[i] = recs[i].toDomain()
	}
	return out, nil
}

// Update runs the versioned UPDATE and the event INSERT in one transaction.
// Zero affected rows means another writer got there first.
func (r *CaseRepository) Update(ctx context.Context, c *domain.Case, expectedVersion int64, ev *domain.TimelineEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(newCaseRecord(c, expectedVersion+1)).
			ExcludeColumn("id", "reference_code", "client_id", "created_at").
			Where("id = ?", c.ID).
			Where("version = ?", expectedVersion).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update case: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			exists, err := tx.NewSelect().Model((*caseRecord)(nil)).Where("id = ?", c.ID).Exists(ctx)
			if err != nil {
				return fmt.Errorf("update case: %w", err)
			}
			if !exists {
				return domain.ErrCaseNotFound
			}
			return domain.ErrConcurrentModification
		}
		if _, err := tx.NewInsert().Model(newEventRecord(ev)).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConcurrentModification
			}
			return fmt.Errorf("insert timeline event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.Version = expectedVersion + 1
	return nil
}

func (r *CaseRepository) Timeline(ctx context.Context, caseID string) ([]domain.TimelineEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var recs []eventRecord
	if err := r.db.NewSelect().Model(&recs).Where("case_id = ?", caseID).Order("seq ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	out := make([]domain.TimelineEvent, len(recs))
	for i := range recs {
		out[i] = recs[i].toDomain()
	}
	return out, nil
}
