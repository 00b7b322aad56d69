package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yahooServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestYahooProvider_MetaPrice(t *testing.T) {
	ts := yahooServer(t, `{
		"chart": {
			"result": [{
				"meta": {"regularMarketPrice": 187.35, "regularMarketTime": 1717257600}
			}],
			"error": null
		}
	}`)

	p := NewYahooProvider()
	p.baseURL = ts.URL + "/%s"

	q, err := p.GetQuote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "187.35", q.Price.String())
	assert.Equal(t, int64(1717257600), q.AsOf.Unix())
}

func TestYahooProvider_FallsBackToLastClose(t *testing.T) {
	ts := yahooServer(t, `{
		"chart": {
			"result": [{
				"meta": {"regularMarketPrice": 0, "regularMarketTime": 0},
				"timestamp": [1717254000, 1717254060, 1717254120],
				"indicators": {"quote": [{"close": [101.5, 102.25, 0]}]}
			}],
			"error": null
		}
	}`)

	p := NewYahooProvider()
	p.baseURL = ts.URL + "/%s"

	q, err := p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "102.25", q.Price.String())
	assert.Equal(t, int64(1717254060), q.AsOf.Unix())
}

func TestYahooProvider_NoResult(t *testing.T) {
	ts := yahooServer(t, `{"chart": {"result": [], "error": null}}`)

	p := NewYahooProvider()
	p.baseURL = ts.URL + "/%s"

	_, err := p.GetQuote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestYahooProvider_EmptySymbol(t *testing.T) {
	p := NewYahooProvider()
	_, err := p.GetQuote(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}
