package domain

import "github.com/shopspring/decimal"

// DefaultRetainedRate is the platform share of every accepted case fee.
var DefaultRetainedRate = decimal.NewFromFloat(0.10)

// WalletStats is the derived financial summary for one professional.
type WalletStats struct {
	ProfessionalID string
	TotalAccepted  decimal.Decimal
	Retained       decimal.Decimal
	Receivable     decimal.Decimal
	RetainedRate   decimal.Decimal
	ActiveCount    int
	FinishedCount  int
	TotalCount     int
}

// ComputeWalletStats aggregates the given cases, which must all be assigned to
// professionalID. Retained is rounded to cents; receivable is the remainder so
// the two always add up to the total.
func ComputeWalletStats(professionalID string, cases []*Case, rate decimal.Decimal) WalletStats {
	stats := WalletStats{
		ProfessionalID: professionalID,
		TotalAccepted:  decimal.Zero,
		RetainedRate:   rate,
	}
	for _, c := range cases {
		if c.ProfessionalID != professionalID {
			continue
		}
		stats.TotalCount++
		stats.TotalAccepted = stats.TotalAccepted.Add(c.Fee)
		if c.Status.Terminal() {
			stats.FinishedCount++
		}
	}
	stats.ActiveCount = stats.TotalCount - stats.FinishedCount
	stats.Retained = stats.TotalAccepted.Mul(rate).Round(2)
	stats.Receivable = stats.TotalAccepted.Sub(stats.Retained)
	return stats
}
