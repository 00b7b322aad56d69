package domain

import "github.com/shopspring/decimal"

// Position is the derived (quantity, average unit cost) state for one
// investment. It is never mutated on its own: every change flows from a
// transaction mutation followed by a full replay of that investment's ledger.
type Position struct {
	Quantity        decimal.Decimal
	AverageUnitCost decimal.Decimal // rounded to 4 decimal places, half-up
}

// ZeroPosition returns the position of an investment with no transactions.
func ZeroPosition() Position {
	return Position{Quantity: decimal.Zero, AverageUnitCost: decimal.Zero}
}
