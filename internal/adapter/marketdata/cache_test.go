package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	quote Quote
	err   error
}

func (p *countingProvider) GetQuote(context.Context, string) (Quote, error) {
	p.calls++
	return p.quote, p.err
}

func TestMemoryQuoteCache_Expiry(t *testing.T) {
	cache := NewMemoryQuoteCache(time.Nanosecond)
	q := Quote{Symbol: "AAPL", Price: decimal.NewFromInt(100), AsOf: time.Now()}

	require.NoError(t, cache.Set(context.Background(), "AAPL", q))
	time.Sleep(time.Millisecond)

	_, ok, err := cache.Get(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedProvider_ServesFromCache(t *testing.T) {
	inner := &countingProvider{quote: Quote{
		Symbol: "AAPL",
		Price:  decimal.NewFromInt(100),
		AsOf:   time.Now(),
	}}
	p := NewCachedProvider(inner, NewMemoryQuoteCache(time.Minute))

	for i := 0; i < 3; i++ {
		q, err := p.GetQuote(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "100", q.Price.String())
	}

	assert.Equal(t, 1, inner.calls)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	inner := &countingProvider{err: ErrQuoteNotFound}
	p := NewCachedProvider(inner, NewMemoryQuoteCache(time.Minute))

	_, err := p.GetQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrQuoteNotFound)
	_, err = p.GetQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	assert.Equal(t, 2, inner.calls)
}
