// Package metrics exposes the Prometheus instrumentation shared by the HTTP
// layer and the ledger services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockbook_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecalculationsTotal counts ledger replays by outcome
	// (ok, oversold, invalid, error).
	RecalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockbook_ledger_recalculations_total",
			Help: "Total number of ledger recalculations",
		},
		[]string{"outcome"},
	)

	// PriceLookupsTotal counts ticker price lookups by resolved source
	// (live, last_purchase, derived, unknown).
	PriceLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockbook_price_lookups_total",
			Help: "Total number of ticker price lookups",
		},
		[]string{"source"},
	)
)

// Handler returns the /metrics endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}
