package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mlourenco/stockbook-backend/internal/adapter/httpapi"
	"github.com/mlourenco/stockbook-backend/internal/adapter/marketdata"
	"github.com/mlourenco/stockbook-backend/internal/adapter/repository/memory"
	"github.com/mlourenco/stockbook-backend/internal/adapter/repository/postgres"
	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/usecase/investment"
	"github.com/mlourenco/stockbook-backend/internal/usecase/portfolio"
	"github.com/mlourenco/stockbook-backend/internal/usecase/pricing"
	"github.com/mlourenco/stockbook-backend/internal/usecase/transaction"
)

const quoteCacheTTL = 5 * time.Minute

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	portfolioRepo, investmentRepo, ledgerRepo, closeRepos, err := buildRepositories(ctx, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	provider := buildProvider(logger)

	srv := httpapi.NewServer(
		portfolio.NewPortfolioService(portfolioRepo, investmentRepo),
		investment.NewInvestmentService(portfolioRepo, investmentRepo, ledgerRepo),
		transaction.NewTransactionService(investmentRepo, ledgerRepo),
		pricing.NewPricingService(provider, investmentRepo),
		logger,
		getEnv("API_TOKEN", "dev-token"),
	)

	addr := getEnv("HTTP_ADDR", ":8080")
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// buildRepositories picks the persistence backend. REPO_KIND=memory runs
// fully in-process, everything else connects to PostgreSQL.
func buildRepositories(ctx context.Context, logger *zap.Logger) (
	domain.PortfolioRepository, domain.InvestmentRepository, domain.LedgerRepository, func(), error,
) {
	if getEnv("REPO_KIND", "postgres") == "memory" {
		logger.Info("using in-memory repositories")
		store := memory.NewStore()
		return store.Portfolios(), store.Investments(), store.Ledger(), func() {}, nil
	}

	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "stockbook"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	db, err := postgres.NewDB(connStr)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, nil, nil, err
	}

	logger.Info("connected to postgres")
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}
	return postgres.NewPortfolioRepository(db),
		postgres.NewInvestmentRepository(db),
		postgres.NewLedgerRepository(db),
		closeFn, nil
}

// buildProvider assembles the live quote source: Alpha Vantage when an API
// key is configured, otherwise Yahoo Finance, wrapped in a Redis or
// in-process quote cache.
func buildProvider(logger *zap.Logger) marketdata.Provider {
	var provider marketdata.Provider
	switch getEnv("PRICE_PROVIDER", "yahoo") {
	case "none":
		logger.Info("live price lookups disabled")
		return nil
	case "alphavantage":
		p, err := marketdata.NewAlphaVantageProviderFromEnv()
		if err != nil {
			logger.Warn("alpha vantage unavailable, falling back to yahoo", zap.Error(err))
			provider = marketdata.NewYahooProvider()
		} else {
			provider = p
		}
	default:
		provider = marketdata.NewYahooProvider()
	}

	var cache marketdata.QuoteCache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		logger.Info("using redis quote cache", zap.String("addr", redisAddr))
		cache = marketdata.NewRedisQuoteCache(client, quoteCacheTTL)
	} else {
		cache = marketdata.NewMemoryQuoteCache(quoteCacheTTL)
	}

	return marketdata.NewCachedProvider(provider, cache)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
