package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAPIKeyMissing is returned when ALPHAVANTAGE_API_KEY is not set.
	ErrAPIKeyMissing = errors.New("ALPHAVANTAGE_API_KEY not set")

	// ErrAPIRateLimited is returned when Alpha Vantage answers with a
	// rate-limit or information note instead of a quote.
	ErrAPIRateLimited = errors.New("alpha vantage rate limit or information note")
)

const alphaVantageURL = "https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s"

// AlphaVantageProvider fetches quotes from the Alpha Vantage GLOBAL_QUOTE endpoint.
type AlphaVantageProvider struct {
	apiKey  string
	cli     *http.Client
	baseURL string
}

// NewAlphaVantageProviderFromEnv creates a provider from ALPHAVANTAGE_API_KEY.
func NewAlphaVantageProviderFromEnv() (*AlphaVantageProvider, error) {
	key := strings.TrimSpace(os.Getenv("ALPHAVANTAGE_API_KEY"))
	if key == "" {
		return nil, ErrAPIKeyMissing
	}
	return &AlphaVantageProvider{
		apiKey:  key,
		cli:     &http.Client{Timeout: 8 * time.Second},
		baseURL: alphaVantageURL,
	}, nil
}

// GetQuote returns the latest global quote for a symbol.
func (p *AlphaVantageProvider) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, ErrQuoteNotFound
	}

	url := fmt.Sprintf(p.baseURL, symbol, p.apiKey)
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
		return Quote{}, fmt.Errorf("alphavantage http %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Quote{}, err
	}
	if _, ok := raw["Note"]; ok {
		return Quote{}, ErrAPIRateLimited
	}
	if _, ok := raw["Information"]; ok {
		return Quote{}, ErrAPIRateLimited
	}

	gq, ok := raw["Global Quote"].(map[string]any)
	if !ok || len(gq) == 0 {
		return Quote{}, ErrQuoteNotFound
	}

	priceStr, _ := gq["05. price"].(string)
	asOfStr, _ := gq["07. latest trading day"].(string)

	price, err := decimal.NewFromString(strings.TrimSpace(priceStr))
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return Quote{}, ErrQuoteNotFound
	}

	asOf := time.Now()
	if asOfStr != "" {
		if t, e := time.Parse("2006-01-02", asOfStr); e == nil {
			asOf = t
		}
	}

	return Quote{Symbol: symbol, Price: price, AsOf: asOf}, nil
}
