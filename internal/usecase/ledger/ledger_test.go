package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

func day(n int) time.Time {
	return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC)
}

func buy(qty, price, fees string, executed time.Time, seq int64) domain.Transaction {
	return tx(domain.TransactionBuy, qty, price, fees, executed, seq)
}

func sell(qty, price, fees string, executed time.Time, seq int64) domain.Transaction {
	return tx(domain.TransactionSell, qty, price, fees, executed, seq)
}

func tx(kind domain.TransactionKind, qty, price, fees string, executed time.Time, seq int64) domain.Transaction {
	return domain.Transaction{
		ID:         uuid.New(),
		Kind:       kind,
		Quantity:   decimal.RequireFromString(qty),
		UnitPrice:  decimal.RequireFromString(price),
		Fees:       decimal.RequireFromString(fees),
		ExecutedOn: executed,
		Seq:        seq,
	}
}

func TestRecalculate_TwoBuysWeightedAverage(t *testing.T) {
	// BUY 2@100 on day1, BUY 1@130 on day2:
	// quantity=3, average = round((200+130)/3, 4) = 110.0000
	txs := []domain.Transaction{
		buy("2", "100", "0", day(1), 1),
		buy("1", "130", "0", day(2), 2),
	}

	pos, err := Recalculate(txs)

	require.NoError(t, err)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(3)), "quantity should be 3, got %s", pos.Quantity)
	assert.Equal(t, "110", pos.AverageUnitCost.String())
	assert.True(t, InvestedCash(txs).Equal(decimal.NewFromInt(330)), "invested cash should be 330.00")
}

func TestRecalculate_SellKeepsAverageCost(t *testing.T) {
	// BUY 10@100 on day1, SELL 4@150 fee 1 on day2:
	// quantity=6, average unchanged at 100,
	// proceeds = 4*150 - 1 = 599.00, invested = 1000.00, net = 401.00
	txs := []domain.Transaction{
		buy("10", "100", "0", day(1), 1),
		sell("4", "150", "1", day(2), 2),
	}

	pos, err := Recalculate(txs)

	require.NoError(t, err)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, pos.AverageUnitCost.Equal(decimal.NewFromInt(100)), "a sell must not move the average cost")

	assert.Equal(t, "1000", InvestedCash(txs).String())
	assert.Equal(t, "599", ProceedsCash(txs).String())
	assert.Equal(t, "401", NetInvestedCash(txs).String())
}

func TestRecalculate_BuysOnlySumQuantity(t *testing.T) {
	txs := []domain.Transaction{
		buy("1.5", "10", "0.25", day(1), 1),
		buy("2.5", "12", "0.25", day(2), 2),
		buy("6", "11", "0.50", day(3), 3),
	}

	pos, err := Recalculate(txs)

	require.NoError(t, err)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(10)), "final quantity is the sum of all BUY quantities")

	// Weighted average with stepwise rounding:
	// step1: cost 15.25, qty 1.5, avg 10.1667, cost -> 15.25005
	// step2: cost 45.50005, qty 4, avg 11.3750, cost -> 45.5
	// step3: cost 112, qty 10, avg 11.2
	assert.Equal(t, "11.2", pos.AverageUnitCost.String())
}

func TestRecalculate_EmptyLedger(t *testing.T) {
	pos, err := Recalculate(nil)

	require.NoError(t, err)
	assert.True(t, pos.Quantity.IsZero())
	assert.True(t, pos.AverageUnitCost.IsZero())
	assert.True(t, InvestedCash(nil).IsZero())
	assert.True(t, ProceedsCash(nil).IsZero())
}

func TestRecalculate_OversoldFails(t *testing.T) {
	// A lone SELL against an empty position is a data-integrity violation.
	txs := []domain.Transaction{
		sell("1", "100", "0", day(1), 1),
	}

	_, err := Recalculate(txs)
	assert.ErrorIs(t, err, domain.ErrOversoldPosition)

	// Selling more than held after a partial buy fails the same way.
	txs = []domain.Transaction{
		buy("3", "100", "0", day(1), 1),
		sell("5", "100", "0", day(2), 2),
	}

	_, err = Recalculate(txs)
	assert.ErrorIs(t, err, domain.ErrOversoldPosition)
}

func TestRecalculate_InputOrderDoesNotMatter(t *testing.T) {
	// Same transactions handed over in reverse input order must replay
	// identically: order is defined by (ExecutedOn, Seq), not slice order.
	forward := []domain.Transaction{
		buy("2", "100", "0", day(1), 1),
		sell("1", "150", "0", day(2), 2),
		buy("4", "90", "2", day(3), 3),
	}
	backward := []domain.Transaction{forward[2], forward[0], forward[1]}

	posA, errA := Recalculate(forward)
	posB, errB := Recalculate(backward)

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.True(t, posA.Quantity.Equal(posB.Quantity))
	assert.True(t, posA.AverageUnitCost.Equal(posB.AverageUnitCost))
}

func TestRecalculate_SeqBreaksSameDateTies(t *testing.T) {
	// Both trades on the same date: the SELL (seq 2) must replay after the
	// BUY (seq 1) no matter the input order, otherwise it would oversell.
	txs := []domain.Transaction{
		sell("5", "110", "0", day(1), 2),
		buy("5", "100", "0", day(1), 1),
	}

	pos, err := Recalculate(txs)

	require.NoError(t, err)
	assert.True(t, pos.Quantity.IsZero())
	assert.True(t, pos.AverageUnitCost.Equal(decimal.NewFromInt(100)))
}

func TestRecalculate_AverageRoundedToFourPlaces(t *testing.T) {
	// 1@0.10 + 2@0.10 with 0.01 fees: cost 0.31, qty 3 -> 0.10333...,
	// rounded half-up to 0.1033.
	txs := []domain.Transaction{
		buy("1", "0.10", "0.00", day(1), 1),
		buy("2", "0.10", "0.01", day(2), 2),
	}

	pos, err := Recalculate(txs)

	require.NoError(t, err)
	assert.Equal(t, "0.1033", pos.AverageUnitCost.String())
}

func TestNetInvestedCash_MatchesComponents(t *testing.T) {
	txs := []domain.Transaction{
		buy("3", "33.333", "1.111", day(1), 1),
		sell("1", "40.005", "0.995", day(2), 2),
		buy("2", "35.42", "0", day(3), 3),
	}

	invested := InvestedCash(txs)
	proceeds := ProceedsCash(txs)

	assert.True(t, NetInvestedCash(txs).Equal(invested.Sub(proceeds)),
		"net invested cash must equal invested minus proceeds exactly at 2 decimals")
}

func TestSnapshot_BundlesPositionAndCash(t *testing.T) {
	txs := []domain.Transaction{
		buy("10", "100", "0", day(1), 1),
		sell("4", "150", "1", day(2), 2),
	}

	snap, err := Snapshot(txs)

	require.NoError(t, err)
	assert.True(t, snap.Position.Quantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, "1000", snap.InvestedCash.String())
	assert.Equal(t, "599", snap.ProceedsCash.String())
}

func TestSnapshot_OversoldPropagates(t *testing.T) {
	txs := []domain.Transaction{sell("1", "10", "0", day(1), 1)}

	_, err := Snapshot(txs)
	assert.ErrorIs(t, err, domain.ErrOversoldPosition)
}

func TestValuationHistory_OnePointPerDate(t *testing.T) {
	txs := []domain.Transaction{
		buy("2", "100", "0", day(1), 1),
		buy("1", "130", "0", day(2), 2),
		sell("1", "150", "0", day(2), 3), // same date as previous: folded into one point
		buy("2", "120", "0", day(5), 4),
	}

	points, err := ValuationHistory(txs)

	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, day(1), points[0].Date)
	assert.True(t, points[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "200", points[0].BookValue.String())

	// Day 2 ends after buy 1@130 and sell 1: qty 2 at avg 110.
	assert.Equal(t, day(2), points[1].Date)
	assert.True(t, points[1].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "110", points[1].AverageUnitCost.String())
	assert.Equal(t, "220", points[1].BookValue.String())

	assert.Equal(t, day(5), points[2].Date)
	assert.True(t, points[2].Quantity.Equal(decimal.NewFromInt(4)))
}

func TestValuationHistory_EmptyLedger(t *testing.T) {
	points, err := ValuationHistory(nil)

	require.NoError(t, err)
	assert.Empty(t, points)
}
