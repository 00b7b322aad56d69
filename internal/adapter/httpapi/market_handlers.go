package httpapi

import (
	"net/http"

	"github.com/mlourenco/stockbook-backend/internal/metrics"
)

// handleTickerInfo answers the price-lookup endpoint. The lookup itself never
// fails; an unknown ticker still yields a 200 with a null price.
func (s *Server) handleTickerInfo(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker query parameter is required")
		return
	}

	info := s.pricing.TickerInfo(r.Context(), ticker)
	metrics.PriceLookupsTotal.WithLabelValues(info.Source).Inc()

	writeJSON(w, http.StatusOK, tickerInfoResponse{
		Ticker: info.Ticker,
		Price:  info.Price,
		Source: info.Source,
		AsOf:   info.AsOf,
	})
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pricing.Tickers(r.Context()))
}
