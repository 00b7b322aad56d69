package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/usecase/aggregator"
	"github.com/mlourenco/stockbook-backend/internal/usecase/ledger"
	"github.com/mlourenco/stockbook-backend/internal/usecase/portfolio"
)

const dateLayout = "2006-01-02"

type portfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type portfolioResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type investmentRequest struct {
	PortfolioID   string          `json:"portfolio_id,omitempty"`
	Name          string          `json:"name"`
	Ticker        string          `json:"ticker"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  *string         `json:"purchase_date"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	Notes         string          `json:"notes"`
}

type investmentResponse struct {
	ID              string          `json:"id"`
	PortfolioID     string          `json:"portfolio_id"`
	Name            string          `json:"name"`
	Ticker          string          `json:"ticker"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	PurchaseDate    *string         `json:"purchase_date"`
	AmountInvested  decimal.Decimal `json:"amount_invested"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	InvestedCash    decimal.Decimal `json:"invested_cash"`
	ProceedsCash    decimal.Decimal `json:"proceeds_cash"`
	NetInvestedCash decimal.Decimal `json:"net_invested_cash"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

type currentValueRequest struct {
	CurrentValue decimal.Decimal `json:"current_value"`
}

type transactionRequest struct {
	Kind       string          `json:"kind"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Fees       decimal.Decimal `json:"fees"`
	ExecutedOn *string         `json:"executed_on"`
}

type transactionResponse struct {
	ID           string          `json:"id"`
	InvestmentID string          `json:"investment_id"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Fees         decimal.Decimal `json:"fees"`
	ExecutedOn   string          `json:"executed_on"`
	Seq          int64           `json:"seq"`
	CreatedAt    time.Time       `json:"created_at"`
}

type totalsResponse struct {
	TotalAmountInvested  decimal.Decimal `json:"total_amount_invested"`
	TotalCurrentValue    decimal.Decimal `json:"total_current_value"`
	TotalGainLoss        decimal.Decimal `json:"total_gain_loss"`
	TotalInvestedCash    decimal.Decimal `json:"total_invested_cash"`
	TotalProceedsCash    decimal.Decimal `json:"total_proceeds_cash"`
	TotalNetInvestedCash decimal.Decimal `json:"total_net_invested_cash"`
}

type overviewResponse struct {
	Portfolio   portfolioResponse    `json:"portfolio"`
	Investments []investmentResponse `json:"investments"`
	Totals      totalsResponse       `json:"totals"`
}

type tickerInfoResponse struct {
	Ticker string           `json:"ticker"`
	Price  *decimal.Decimal `json:"price"`
	Source string           `json:"source"`
	AsOf   *time.Time       `json:"as_of,omitempty"`
}

type valuationPointResponse struct {
	Date            string          `json:"date"`
	Quantity        decimal.Decimal `json:"quantity"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	BookValue       decimal.Decimal `json:"book_value"`
}

func toPortfolioResponse(p *domain.Portfolio) portfolioResponse {
	return portfolioResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func toInvestmentResponse(inv *domain.Investment) investmentResponse {
	var purchaseDate *string
	if inv.PurchaseDate != nil {
		d := inv.PurchaseDate.Format(dateLayout)
		purchaseDate = &d
	}

	return investmentResponse{
		ID:              inv.ID.String(),
		PortfolioID:     inv.PortfolioID.String(),
		Name:            inv.Name,
		Ticker:          inv.Ticker,
		Type:            string(inv.Type),
		Quantity:        inv.Quantity,
		PurchasePrice:   inv.PurchasePrice,
		PurchaseDate:    purchaseDate,
		AmountInvested:  inv.AmountInvested,
		CurrentValue:    inv.CurrentValue,
		GainLoss:        inv.GainLoss(),
		InvestedCash:    inv.InvestedCash,
		ProceedsCash:    inv.ProceedsCash,
		NetInvestedCash: inv.NetInvestedCash(),
		Notes:           inv.Notes,
		CreatedAt:       inv.CreatedAt,
	}
}

func toInvestmentResponses(investments []*domain.Investment) []investmentResponse {
	out := make([]investmentResponse, 0, len(investments))
	for _, inv := range investments {
		out = append(out, toInvestmentResponse(inv))
	}
	return out
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID.String(),
		InvestmentID: t.InvestmentID.String(),
		Kind:         string(t.Kind),
		Quantity:     t.Quantity,
		UnitPrice:    t.UnitPrice,
		Fees:         t.Fees,
		ExecutedOn:   t.ExecutedOn.Format(dateLayout),
		Seq:          t.Seq,
		CreatedAt:    t.CreatedAt,
	}
}

func toTotalsResponse(t aggregator.PortfolioTotals) totalsResponse {
	return totalsResponse{
		TotalAmountInvested:  t.TotalAmountInvested,
		TotalCurrentValue:    t.TotalCurrentValue,
		TotalGainLoss:        t.TotalGainLoss,
		TotalInvestedCash:    t.TotalInvestedCash,
		TotalProceedsCash:    t.TotalProceedsCash,
		TotalNetInvestedCash: t.TotalNetInvestedCash,
	}
}

func toOverviewResponse(o *portfolio.Overview) overviewResponse {
	return overviewResponse{
		Portfolio:   toPortfolioResponse(o.Portfolio),
		Investments: toInvestmentResponses(o.Investments),
		Totals:      toTotalsResponse(o.Totals),
	}
}

func toValuationResponse(points []ledger.ValuationPoint) []valuationPointResponse {
	out := make([]valuationPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, valuationPointResponse{
			Date:            p.Date.Format(dateLayout),
			Quantity:        p.Quantity,
			AverageUnitCost: p.AverageUnitCost,
			BookValue:       p.BookValue,
		})
	}
	return out
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
