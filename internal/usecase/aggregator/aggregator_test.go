package aggregator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

func inv(amountInvested, currentValue, investedCash, proceedsCash string) *domain.Investment {
	return &domain.Investment{
		ID:             uuid.New(),
		Name:           "holding",
		Type:           domain.InvestmentStock,
		AmountInvested: decimal.RequireFromString(amountInvested),
		CurrentValue:   decimal.RequireFromString(currentValue),
		InvestedCash:   decimal.RequireFromString(investedCash),
		ProceedsCash:   decimal.RequireFromString(proceedsCash),
	}
}

func TestTotals_SumsAcrossInvestments(t *testing.T) {
	investments := []*domain.Investment{
		inv("200.00", "260.00", "200.00", "0.00"),
		inv("50.00", "45.00", "50.00", "10.00"),
	}

	totals := Totals(investments)

	assert.Equal(t, "250", totals.TotalAmountInvested.String())
	assert.Equal(t, "305", totals.TotalCurrentValue.String())
	assert.Equal(t, "55", totals.TotalGainLoss.String())
	assert.Equal(t, "250", totals.TotalInvestedCash.String())
	assert.Equal(t, "10", totals.TotalProceedsCash.String())
	assert.Equal(t, "240", totals.TotalNetInvestedCash.String())
}

func TestTotals_GainLossUsesManualBasis(t *testing.T) {
	// Gain/loss is current value minus the manual cash basis, not minus the
	// transaction-derived invested cash.
	investments := []*domain.Investment{
		inv("100.00", "150.00", "105.00", "0.00"),
	}

	totals := Totals(investments)

	assert.Equal(t, "50", totals.TotalGainLoss.String())
	assert.Equal(t, "105", totals.TotalInvestedCash.String())
}

func TestTotals_RoundedThenSummed(t *testing.T) {
	// Per-investment values arrive already rounded to 2 decimals; the totals
	// just add them. 0.33 + 0.33 stays 0.66 even if the unrounded inputs
	// would have summed to 0.67.
	investments := []*domain.Investment{
		inv("0.33", "0.00", "0.33", "0.00"),
		inv("0.33", "0.00", "0.33", "0.00"),
	}

	totals := Totals(investments)

	assert.Equal(t, "0.66", totals.TotalAmountInvested.String())
	assert.Equal(t, "0.66", totals.TotalInvestedCash.String())
}

func TestTotals_Empty(t *testing.T) {
	totals := Totals(nil)

	assert.True(t, totals.TotalAmountInvested.IsZero())
	assert.True(t, totals.TotalCurrentValue.IsZero())
	assert.True(t, totals.TotalGainLoss.IsZero())
	assert.True(t, totals.TotalInvestedCash.IsZero())
	assert.True(t, totals.TotalProceedsCash.IsZero())
	assert.True(t, totals.TotalNetInvestedCash.IsZero())
}
