package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

// WalletService recomputes earnings from the current case data on every call.
type WalletService struct {
	cases ports.CaseRepository
	rate  decimal.Decimal
}

func NewWalletService(cases ports.CaseRepository, retainedRate decimal.Decimal) *WalletService {
	if retainedRate.IsNegative() || retainedRate.GreaterThan(decimal.NewFromInt(1)) {
		retainedRate = domain.DefaultRetainedRate
	}
	return &WalletService{cases: cases, rate: retainedRate}
}

var _ ports.WalletService = (*WalletService)(nil)

func (s *WalletService) Stats(ctx context.Context, actor *domain.User, professionalID string) (*domain.WalletStats, error) {
	if err := requireRole(actor, domain.RoleProfessional); err != nil {
		return nil, err
	}
	if actor.ID != professionalID {
		return nil, domain.ErrNotResourceOwner
	}
	assigned, err := s.cases.List(ctx, ports.CaseFilter{ProfessionalID: professionalID})
	if err != nil {
		return nil, fmt.Errorf("wallet stats: %w", err)
	}
	stats := domain.ComputeWalletStats(professionalID, assigned, s.rate)
	return &stats, nil
}
