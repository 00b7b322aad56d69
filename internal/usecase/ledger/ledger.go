// Package ledger implements the cost-basis recalculation engine: a
// deterministic fold over an investment's ordered transaction log that
// maintains a weighted-average unit cost.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

// Average unit cost is kept at 4 decimal places, cash metrics at 2.
const (
	costScale = 4
	cashScale = 2
)

// Recalculate replays a transaction set from scratch and returns the derived
// position. The input is sorted defensively by (ExecutedOn, Seq); callers are
// expected to supply replay order already, but the fold must not depend on it.
//
// BUY: the running total cost grows by qty*price+fees, the average unit cost
// is re-rounded to 4 decimals half-up, and the running total is re-derived
// from the rounded average. Tracking cost via the rounded average is a
// deliberate simplification carried over from the system's reported history;
// changing it would change historical cost bases.
//
// SELL: quantity shrinks, the average unit cost of the remaining lot is
// unchanged. A SELL exceeding the running quantity aborts the replay with
// domain.ErrOversoldPosition.
func Recalculate(txs []domain.Transaction) (domain.Position, error) {
	ordered := sortReplay(txs)

	quantity := decimal.Zero
	totalCost := decimal.Zero
	averageCost := decimal.Zero

	for _, tx := range ordered {
		switch tx.Kind {
		case domain.TransactionBuy:
			totalCost = totalCost.Add(tx.GrossAmount()).Add(tx.Fees)
			quantity = quantity.Add(tx.Quantity)
			averageCost = totalCost.Div(quantity).Round(costScale)
			totalCost = averageCost.Mul(quantity)

		case domain.TransactionSell:
			if tx.Quantity.GreaterThan(quantity) {
				return domain.ZeroPosition(), fmt.Errorf(
					"%w: sell of %s on %s against %s held",
					domain.ErrOversoldPosition,
					tx.Quantity, tx.ExecutedOn.Format("2006-01-02"), quantity)
			}
			quantity = quantity.Sub(tx.Quantity)
			totalCost = averageCost.Mul(quantity)

		default:
			return domain.ZeroPosition(), fmt.Errorf(
				"%w: unknown kind %q", domain.ErrInvalidTransaction, tx.Kind)
		}
	}

	return domain.Position{Quantity: quantity, AverageUnitCost: averageCost}, nil
}

// InvestedCash sums qty*price+fees over BUY transactions, rounded to 2
// decimals half-up.
func InvestedCash(txs []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind == domain.TransactionBuy {
			total = total.Add(tx.GrossAmount()).Add(tx.Fees)
		}
	}
	return total.Round(cashScale)
}

// ProceedsCash sums qty*price-fees over SELL transactions, rounded to 2
// decimals half-up.
func ProceedsCash(txs []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind == domain.TransactionSell {
			total = total.Add(tx.GrossAmount()).Sub(tx.Fees)
		}
	}
	return total.Round(cashScale)
}

// NetInvestedCash is invested cash minus proceeds cash.
func NetInvestedCash(txs []domain.Transaction) decimal.Decimal {
	return InvestedCash(txs).Sub(ProceedsCash(txs)).Round(cashScale)
}

// Snapshot bundles Recalculate with the derived cash metrics. It satisfies
// domain.RecalcFunc and is what transaction mutations run inside their unit
// of work.
func Snapshot(txs []domain.Transaction) (domain.LedgerSnapshot, error) {
	pos, err := Recalculate(txs)
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}
	return domain.LedgerSnapshot{
		Position:     pos,
		InvestedCash: InvestedCash(txs),
		ProceedsCash: ProceedsCash(txs),
	}, nil
}

// ValuationPoint is one step of the historical valuation curve: the position
// as of the end of one trading date, valued at its average holding price.
type ValuationPoint struct {
	Date            time.Time
	Quantity        decimal.Decimal
	AverageUnitCost decimal.Decimal
	BookValue       decimal.Decimal // Quantity * AverageUnitCost, 2 decimals
}

// ValuationHistory replays the transaction set and emits one point per
// distinct trade date. It fails the same way Recalculate does.
func ValuationHistory(txs []domain.Transaction) ([]ValuationPoint, error) {
	ordered := sortReplay(txs)

	points := make([]ValuationPoint, 0, len(ordered))
	for i := range ordered {
		last := i == len(ordered)-1
		if !last && sameDate(ordered[i].ExecutedOn, ordered[i+1].ExecutedOn) {
			continue
		}
		pos, err := Recalculate(ordered[:i+1])
		if err != nil {
			return nil, err
		}
		points = append(points, ValuationPoint{
			Date:            dateOnly(ordered[i].ExecutedOn),
			Quantity:        pos.Quantity,
			AverageUnitCost: pos.AverageUnitCost,
			BookValue:       pos.Quantity.Mul(pos.AverageUnitCost).Round(cashScale),
		})
	}
	return points, nil
}

func sortReplay(txs []domain.Transaction) []domain.Transaction {
	ordered := make([]domain.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Before(&ordered[j])
	})
	return ordered
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
