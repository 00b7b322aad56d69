package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const yahooChartURL = "https://query2.finance.yahoo.com/v8/finance/chart/%s?interval=1m&range=1d"

// YahooProvider fetches quotes from the Yahoo Finance v8 chart endpoint.
type YahooProvider struct {
	cli     *http.Client
	baseURL string
}

// NewYahooProvider creates a provider with a conservative client timeout.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		cli:     &http.Client{Timeout: 8 * time.Second},
		baseURL: yahooChartURL,
	}
}

// GetQuote returns the regular market price for a symbol, falling back to the
// last non-zero intraday close when the meta price is missing.
func (p *YahooProvider) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, ErrQuoteNotFound
	}

	url := fmt.Sprintf(p.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", "stockbook/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
					RegularMarketTime  int64   `json:"regularMarketTime"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Quote{}, err
	}
	if len(raw.Chart.Result) == 0 {
		return Quote{}, ErrQuoteNotFound
	}

	r := raw.Chart.Result[0]
	price := r.Meta.RegularMarketPrice
	asOf := time.Unix(r.Meta.RegularMarketTime, 0)

	// Fallback: last non-zero close if meta missing
	if (price <= 0 || r.Meta.RegularMarketTime == 0) &&
		len(r.Timestamp) > 0 && len(r.Indicators.Quote) > 0 &&
		len(r.Indicators.Quote[0].Close) == len(r.Timestamp) {
		for i := len(r.Timestamp) - 1; i >= 0; i-- {
			if c := r.Indicators.Quote[0].Close[i]; c > 0 {
				price = c
				asOf = time.Unix(r.Timestamp[i], 0)
				break
			}
		}
	}

	if price <= 0 {
		return Quote{}, ErrQuoteNotFound
	}
	if asOf.Unix() <= 0 {
		asOf = time.Now()
	}

	return Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(price),
		AsOf:   asOf,
	}, nil
}
