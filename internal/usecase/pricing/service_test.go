package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mlourenco/stockbook-backend/internal/adapter/marketdata"
	"github.com/mlourenco/stockbook-backend/internal/domain"
)

type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Investment, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvestmentRepository) LatestByTicker(ctx context.Context, ticker string) (*domain.Investment, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) Tickers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// stubProvider answers GetQuote with a fixed quote or error
type stubProvider struct {
	quote marketdata.Quote
	err   error
}

func (p *stubProvider) GetQuote(context.Context, string) (marketdata.Quote, error) {
	return p.quote, p.err
}

func TestTickerInfo_LiveQuoteWins(t *testing.T) {
	repo := new(MockInvestmentRepository)
	asOf := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)
	provider := &stubProvider{quote: marketdata.Quote{
		Symbol: "AAPL",
		Price:  decimal.RequireFromString("187.349"),
		AsOf:   asOf,
	}}

	svc := NewPricingService(provider, repo)
	info := svc.TickerInfo(context.Background(), "aapl")

	assert.Equal(t, "AAPL", info.Ticker)
	assert.Equal(t, SourceLive, info.Source)
	require.NotNil(t, info.Price)
	assert.Equal(t, "187.35", info.Price.String())
	require.NotNil(t, info.AsOf)
	assert.Equal(t, asOf, *info.AsOf)

	repo.AssertNotCalled(t, "LatestByTicker", mock.Anything, mock.Anything)
}

func TestTickerInfo_FallsBackToStoredPurchasePrice(t *testing.T) {
	repo := new(MockInvestmentRepository)
	provider := &stubProvider{err: marketdata.ErrQuoteNotFound}

	purchaseDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	repo.On("LatestByTicker", mock.Anything, "AAPL").Return(&domain.Investment{
		Ticker:        "AAPL",
		PurchasePrice: decimal.NewFromInt(110),
		PurchaseDate:  &purchaseDate,
	}, nil)

	svc := NewPricingService(provider, repo)
	info := svc.TickerInfo(context.Background(), "AAPL")

	assert.Equal(t, SourceLastPurchase, info.Source)
	require.NotNil(t, info.Price)
	assert.Equal(t, "110", info.Price.String())
	require.NotNil(t, info.AsOf)
	assert.Equal(t, purchaseDate, *info.AsOf)
}

func TestTickerInfo_DerivesFromCurrentValue(t *testing.T) {
	repo := new(MockInvestmentRepository)

	repo.On("LatestByTicker", mock.Anything, "VWCE").Return(&domain.Investment{
		Ticker:       "VWCE",
		Quantity:     decimal.NewFromInt(3),
		CurrentValue: decimal.NewFromInt(310),
	}, nil)

	svc := NewPricingService(nil, repo)
	info := svc.TickerInfo(context.Background(), "VWCE")

	assert.Equal(t, SourceDerived, info.Source)
	require.NotNil(t, info.Price)
	assert.Equal(t, "103.3333", info.Price.String())
}

func TestTickerInfo_UnknownTicker(t *testing.T) {
	repo := new(MockInvestmentRepository)
	repo.On("LatestByTicker", mock.Anything, "NOPE").Return(nil, domain.ErrNotFound)

	svc := NewPricingService(nil, repo)
	info := svc.TickerInfo(context.Background(), "NOPE")

	assert.Equal(t, SourceUnknown, info.Source)
	assert.Nil(t, info.Price)
	assert.Nil(t, info.AsOf)
}

func TestTickerInfo_EmptyTicker(t *testing.T) {
	svc := NewPricingService(nil, new(MockInvestmentRepository))
	info := svc.TickerInfo(context.Background(), "  ")
	assert.Equal(t, SourceUnknown, info.Source)
	assert.Nil(t, info.Price)
}

func TestTickers_LookupFailureYieldsEmptyList(t *testing.T) {
	repo := new(MockInvestmentRepository)
	repo.On("Tickers", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewPricingService(nil, repo)
	assert.Empty(t, svc.Tickers(context.Background()))
}
