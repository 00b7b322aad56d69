// Package aggregator sums derived per-investment values into portfolio totals.
package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

// PortfolioTotals carries the portfolio-level sums rendered on overview pages.
//
// TotalGainLoss is defined against the manually entered cash-basis invested
// total (TotalAmountInvested), not against the transaction-derived
// TotalInvestedCash. Both totals exist in parallel; callers must know which
// one a given field refers to.
type PortfolioTotals struct {
	TotalAmountInvested  decimal.Decimal
	TotalCurrentValue    decimal.Decimal
	TotalGainLoss        decimal.Decimal
	TotalInvestedCash    decimal.Decimal
	TotalProceedsCash    decimal.Decimal
	TotalNetInvestedCash decimal.Decimal
}

// Totals sums each investment's derived metrics. Per-investment values are
// already rounded to 2 decimals; the sums apply no further rounding, so a
// cent of drift versus summing unrounded values is possible and accepted.
// An empty input yields all-zero totals.
func Totals(investments []*domain.Investment) PortfolioTotals {
	totals := PortfolioTotals{
		TotalAmountInvested:  decimal.Zero,
		TotalCurrentValue:    decimal.Zero,
		TotalGainLoss:        decimal.Zero,
		TotalInvestedCash:    decimal.Zero,
		TotalProceedsCash:    decimal.Zero,
		TotalNetInvestedCash: decimal.Zero,
	}

	for _, inv := range investments {
		totals.TotalAmountInvested = totals.TotalAmountInvested.Add(inv.AmountInvested)
		totals.TotalCurrentValue = totals.TotalCurrentValue.Add(inv.CurrentValue)
		totals.TotalInvestedCash = totals.TotalInvestedCash.Add(inv.InvestedCash)
		totals.TotalProceedsCash = totals.TotalProceedsCash.Add(inv.ProceedsCash)
		totals.TotalNetInvestedCash = totals.TotalNetInvestedCash.Add(inv.NetInvestedCash())
	}

	totals.TotalGainLoss = totals.TotalCurrentValue.Sub(totals.TotalAmountInvested)
	return totals
}
