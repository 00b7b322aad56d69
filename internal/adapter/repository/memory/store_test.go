package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/usecase/ledger"
)

func TestDeletePortfolioCascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	p := &domain.Portfolio{ID: uuid.New(), Name: "Main"}
	require.NoError(t, store.Portfolios().Create(ctx, p))

	inv := &domain.Investment{ID: uuid.New(), PortfolioID: p.ID, Name: "Apple", Type: domain.InvestmentStock}
	require.NoError(t, store.Investments().Create(ctx, inv))

	_, err := store.Ledger().AppendTransaction(ctx, &domain.Transaction{
		ID:           uuid.New(),
		InvestmentID: inv.ID,
		Kind:         domain.TransactionBuy,
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(10),
		ExecutedOn:   time.Now(),
	}, ledger.Snapshot)
	require.NoError(t, err)

	require.NoError(t, store.Portfolios().Delete(ctx, p.ID))

	_, err = store.Investments().GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := store.Ledger().CountByInvestment(ctx, inv.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAppendTransactionUpdatesInvestment(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	inv := &domain.Investment{ID: uuid.New(), PortfolioID: uuid.New(), Name: "Apple", Type: domain.InvestmentStock}
	require.NoError(t, store.Investments().Create(ctx, inv))

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, tx := range []*domain.Transaction{
		{ID: uuid.New(), InvestmentID: inv.ID, Kind: domain.TransactionBuy, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), ExecutedOn: day},
		{ID: uuid.New(), InvestmentID: inv.ID, Kind: domain.TransactionBuy, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(130), ExecutedOn: day.AddDate(0, 0, 1)},
	} {
		_, err := store.Ledger().AppendTransaction(ctx, tx, ledger.Snapshot)
		require.NoError(t, err)
	}

	got, err := store.Investments().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "3", got.Quantity.String())
	assert.Equal(t, "110", got.PurchasePrice.String())
	assert.Equal(t, "330", got.AmountInvested.String())
	assert.Equal(t, "330", got.InvestedCash.String())
}

func TestOversellLeavesStateUntouched(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	inv := &domain.Investment{ID: uuid.New(), PortfolioID: uuid.New(), Name: "Apple", Type: domain.InvestmentStock}
	require.NoError(t, store.Investments().Create(ctx, inv))

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := store.Ledger().AppendTransaction(ctx, &domain.Transaction{
		ID: uuid.New(), InvestmentID: inv.ID, Kind: domain.TransactionBuy,
		Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), ExecutedOn: day,
	}, ledger.Snapshot)
	require.NoError(t, err)

	_, err = store.Ledger().AppendTransaction(ctx, &domain.Transaction{
		ID: uuid.New(), InvestmentID: inv.ID, Kind: domain.TransactionSell,
		Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(100), ExecutedOn: day.AddDate(0, 0, 1),
	}, ledger.Snapshot)
	assert.ErrorIs(t, err, domain.ErrOversoldPosition)

	count, err := store.Ledger().CountByInvestment(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.Investments().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", got.Quantity.String())
}

func TestLatestByTickerPrefersNewestPurchase(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, inv := range []*domain.Investment{
		{ID: uuid.New(), PortfolioID: uuid.New(), Name: "Old lot", Ticker: "AAPL", Type: domain.InvestmentStock, PurchaseDate: &older, PurchasePrice: decimal.NewFromInt(90)},
		{ID: uuid.New(), PortfolioID: uuid.New(), Name: "New lot", Ticker: "aapl", Type: domain.InvestmentStock, PurchaseDate: &newer, PurchasePrice: decimal.NewFromInt(120)},
		{ID: uuid.New(), PortfolioID: uuid.New(), Name: "Undated lot", Ticker: "AAPL", Type: domain.InvestmentStock, PurchasePrice: decimal.NewFromInt(50)},
	} {
		require.NoError(t, store.Investments().Create(ctx, inv))
	}

	got, err := store.Investments().LatestByTicker(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "New lot", got.Name)
}

func TestTickersAreUppercasedAndSorted(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, ticker := range []string{"vwce", "AAPL", "", "aapl"} {
		require.NoError(t, store.Investments().Create(ctx, &domain.Investment{
			ID: uuid.New(), PortfolioID: uuid.New(), Name: "x" + ticker,
			Ticker: ticker, Type: domain.InvestmentStock,
		}))
	}

	tickers, err := store.Investments().Tickers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "VWCE"}, tickers)
}
