package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of a ledger transaction
type TransactionKind string

const (
	TransactionBuy  TransactionKind = "BUY"
	TransactionSell TransactionKind = "SELL"
)

// Transaction represents a single buy or sell intent recorded against an
// investment. Transactions are immutable once created, except for deletion.
type Transaction struct {
	ID           uuid.UUID
	InvestmentID uuid.UUID
	Kind         TransactionKind
	Quantity     decimal.Decimal // strictly positive
	UnitPrice    decimal.Decimal // per-unit price, non-negative
	Fees         decimal.Decimal // non-negative, defaults to zero
	ExecutedOn   time.Time       // trade date (time component ignored)
	Seq          int64           // insertion order, breaks ties within one date
	CreatedAt    time.Time
}

// Validate ensures the transaction adheres to domain rules.
// It must be called before the transaction ever reaches persistence or the
// recalculator; a failing transaction must not be stored.
func (t *Transaction) Validate() error {
	if t.Kind != TransactionBuy && t.Kind != TransactionSell {
		return fmt.Errorf("%w: kind must be BUY or SELL", ErrInvalidTransaction)
	}

	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: quantity must be > 0", ErrInvalidTransaction)
	}

	if t.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must be >= 0", ErrInvalidTransaction)
	}

	if t.Fees.IsNegative() {
		return fmt.Errorf("%w: fees must be >= 0", ErrInvalidTransaction)
	}

	return nil
}

// GrossAmount returns quantity * unit price, before fees.
func (t *Transaction) GrossAmount() decimal.Decimal {
	return t.Quantity.Mul(t.UnitPrice)
}

// Before reports whether t precedes other in replay order.
// The ordering key is (ExecutedOn, Seq) ascending; Seq exists because several
// transactions may share a date and still need a deterministic replay order.
func (t *Transaction) Before(other *Transaction) bool {
	ta := dateOnly(t.ExecutedOn)
	tb := dateOnly(other.ExecutedOn)
	if !ta.Equal(tb) {
		return ta.Before(tb)
	}
	return t.Seq < other.Seq
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
