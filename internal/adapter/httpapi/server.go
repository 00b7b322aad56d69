// Package httpapi exposes the application over a JSON HTTP API.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/mlourenco/stockbook-backend/internal/metrics"
	"github.com/mlourenco/stockbook-backend/internal/usecase/investment"
	"github.com/mlourenco/stockbook-backend/internal/usecase/portfolio"
	"github.com/mlourenco/stockbook-backend/internal/usecase/pricing"
	"github.com/mlourenco/stockbook-backend/internal/usecase/transaction"
)

// Server wires the usecase services to HTTP routes
type Server struct {
	portfolios   *portfolio.PortfolioService
	investments  *investment.InvestmentService
	transactions *transaction.TransactionService
	pricing      *pricing.PricingService
	logger       *zap.Logger
	apiToken     string
}

// NewServer creates a new API server
func NewServer(
	portfolios *portfolio.PortfolioService,
	investments *investment.InvestmentService,
	transactions *transaction.TransactionService,
	pricingSvc *pricing.PricingService,
	logger *zap.Logger,
	apiToken string,
) *Server {
	return &Server{
		portfolios:   portfolios,
		investments:  investments,
		transactions: transactions,
		pricing:      pricingSvc,
		logger:       logger,
		apiToken:     apiToken,
	}
}

// Handler returns the fully assembled HTTP handler: routes, auth, logging,
// recovery, metrics and CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.recoveryMiddleware, s.loggingMiddleware, s.metricsMiddleware)

	// Unauthenticated operational endpoints.
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/ticker-info", s.handleTickerInfo).Methods(http.MethodGet)
	api.HandleFunc("/tickers", s.handleTickers).Methods(http.MethodGet)

	api.HandleFunc("/portfolios", s.handleCreatePortfolio).Methods(http.MethodPost)
	api.HandleFunc("/portfolios", s.handleListPortfolios).Methods(http.MethodGet)
	api.HandleFunc("/portfolios/{id}", s.handleGetPortfolio).Methods(http.MethodGet)
	api.HandleFunc("/portfolios/{id}", s.handleUpdatePortfolio).Methods(http.MethodPut)
	api.HandleFunc("/portfolios/{id}", s.handleDeletePortfolio).Methods(http.MethodDelete)
	api.HandleFunc("/portfolios/{id}/overview", s.handlePortfolioOverview).Methods(http.MethodGet)
	api.HandleFunc("/portfolios/{id}/investments", s.handleListInvestments).Methods(http.MethodGet)

	api.HandleFunc("/investments", s.handleCreateInvestment).Methods(http.MethodPost)
	api.HandleFunc("/investments/{id}", s.handleGetInvestment).Methods(http.MethodGet)
	api.HandleFunc("/investments/{id}", s.handleUpdateInvestment).Methods(http.MethodPut)
	api.HandleFunc("/investments/{id}", s.handleDeleteInvestment).Methods(http.MethodDelete)
	api.HandleFunc("/investments/{id}/current-value", s.handleUpdateCurrentValue).Methods(http.MethodPatch)
	api.HandleFunc("/investments/{id}/valuation", s.handleValuationHistory).Methods(http.MethodGet)

	api.HandleFunc("/investments/{id}/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/investments/{id}/transactions", s.handleRecordTransaction).Methods(http.MethodPost)
	api.HandleFunc("/investments/{id}/transactions/{txID}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
