// Package pricing resolves best-effort ticker prices through an ordered
// fallback chain. Lookups never fail: every step that errors just hands over
// to the next one, ending at "unknown".
package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/adapter/marketdata"
	"github.com/mlourenco/stockbook-backend/internal/domain"
)

// Price sources, in fallback order.
const (
	SourceLive         = "live"
	SourceLastPurchase = "last_purchase"
	SourceDerived      = "derived"
	SourceUnknown      = "unknown"
)

// TickerInfo is the best-effort result of a price lookup. Price is nil when
// every source came up empty.
type TickerInfo struct {
	Ticker string
	Price  *decimal.Decimal
	Source string
	AsOf   *time.Time
}

// PricingService answers ticker price lookups. The live provider is optional;
// without one the service starts the chain at the stored data.
type PricingService struct {
	Provider       marketdata.Provider
	InvestmentRepo domain.InvestmentRepository
}

// NewPricingService creates a new PricingService instance
func NewPricingService(provider marketdata.Provider, investmentRepo domain.InvestmentRepository) *PricingService {
	return &PricingService{
		Provider:       provider,
		InvestmentRepo: investmentRepo,
	}
}

// TickerInfo resolves a price for the ticker: live quote, then the most
// recent stored purchase price, then current_value/quantity, then unknown.
// It never returns an error to the caller.
func (s *PricingService) TickerInfo(ctx context.Context, ticker string) TickerInfo {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	info := TickerInfo{Ticker: ticker, Source: SourceUnknown}
	if ticker == "" {
		return info
	}

	// 1. Live quote
	if s.Provider != nil {
		if q, err := s.Provider.GetQuote(ctx, ticker); err == nil {
			price := q.Price.Round(2)
			asOf := q.AsOf
			info.Price = &price
			info.Source = SourceLive
			info.AsOf = &asOf
			return info
		}
	}

	// 2. Stored purchase price of the most recent holding
	inv, err := s.InvestmentRepo.LatestByTicker(ctx, ticker)
	if err != nil || inv == nil {
		return info
	}

	if inv.PurchasePrice.IsPositive() {
		price := inv.PurchasePrice
		info.Price = &price
		info.Source = SourceLastPurchase
		if inv.PurchaseDate != nil {
			asOf := *inv.PurchaseDate
			info.AsOf = &asOf
		}
		return info
	}

	// 3. Derive from current value and quantity
	if inv.CurrentValue.IsPositive() && inv.Quantity.IsPositive() {
		price := inv.CurrentValue.Div(inv.Quantity).Round(4)
		info.Price = &price
		info.Source = SourceDerived
		return info
	}

	return info
}

// Tickers returns the distinct tickers already in the system, uppercased and
// sorted. Lookup failures surface as an empty list, matching the endpoint's
// best-effort contract.
func (s *PricingService) Tickers(ctx context.Context) []string {
	tickers, err := s.InvestmentRepo.Tickers(ctx)
	if err != nil {
		return []string{}
	}
	return tickers
}
