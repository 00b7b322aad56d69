// Package marketdata talks to external quote services. Lookups are fallible,
// latency-bearing calls; callers treat every failure as "no live price" and
// fall back to stored data.
package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrQuoteNotFound is returned when a provider has no usable price for a symbol.
var ErrQuoteNotFound = errors.New("quote not found")

// Quote is one price observation for a symbol
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	AsOf   time.Time       `json:"as_of"`
}

// Provider returns the latest quote for a symbol
type Provider interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
}
