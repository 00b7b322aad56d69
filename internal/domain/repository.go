package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioRepository defines the interface for portfolio persistence operations
type PortfolioRepository interface {
	Create(ctx context.Context, p *Portfolio) error
	GetByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)
	List(ctx context.Context) ([]*Portfolio, error)
	Update(ctx context.Context, p *Portfolio) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvestmentRepository defines the interface for investment persistence operations
type InvestmentRepository interface {
	Create(ctx context.Context, inv *Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// ListByPortfolio returns a portfolio's investments ordered by name.
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*Investment, error)

	Update(ctx context.Context, inv *Investment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// LatestByTicker returns the most recently purchased investment carrying
	// the given ticker, used as a price-lookup fallback source.
	LatestByTicker(ctx context.Context, ticker string) (*Investment, error)

	// Tickers returns the distinct non-empty tickers known to the system,
	// uppercased and sorted.
	Tickers(ctx context.Context) ([]string, error)
}

// LedgerSnapshot is the full derived state produced by replaying one
// investment's transaction set.
type LedgerSnapshot struct {
	Position     Position
	InvestedCash decimal.Decimal
	ProceedsCash decimal.Decimal
}

// RecalcFunc replays an ordered transaction set into a ledger snapshot.
// Implementations must not depend on caller ordering guarantees they cannot
// verify; the canonical one sorts defensively by (ExecutedOn, Seq).
type RecalcFunc func(txs []Transaction) (LedgerSnapshot, error)

// LedgerRepository couples every transaction mutation with a synchronous
// recalculation of the owning investment's position, inside one unit of work.
// Implementations must serialize recalculation per investment (row-level lock
// or equivalent) so two concurrent writers cannot interleave partial replays,
// and must roll the whole mutation back when recalc fails.
type LedgerRepository interface {
	// AppendTransaction stores tx, replays the investment's full transaction
	// set through recalc and persists the resulting snapshot.
	AppendTransaction(ctx context.Context, tx *Transaction, recalc RecalcFunc) (LedgerSnapshot, error)

	// DeleteTransaction removes one transaction and replays the remainder.
	DeleteTransaction(ctx context.Context, investmentID, txID uuid.UUID, recalc RecalcFunc) (LedgerSnapshot, error)

	// ListByInvestment returns the investment's transactions in replay order.
	ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]Transaction, error)

	// CountByInvestment returns the number of transactions for an investment.
	CountByInvestment(ctx context.Context, investmentID uuid.UUID) (int, error)
}
