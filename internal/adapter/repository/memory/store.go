// Package memory provides in-memory repository implementations, used by the
// server's memory mode and by the integration tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

// Store holds all persisted state behind a single mutex. The mutex doubles as
// the per-investment serialization the ledger contract requires.
type Store struct {
	mu           sync.RWMutex
	portfolios   map[uuid.UUID]*domain.Portfolio
	investments  map[uuid.UUID]*domain.Investment
	transactions map[uuid.UUID][]domain.Transaction
	nextSeq      int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		portfolios:   make(map[uuid.UUID]*domain.Portfolio),
		investments:  make(map[uuid.UUID]*domain.Investment),
		transactions: make(map[uuid.UUID][]domain.Transaction),
	}
}

// Portfolios returns the portfolio repository view of the store
func (s *Store) Portfolios() domain.PortfolioRepository { return &portfolioRepo{s} }

// Investments returns the investment repository view of the store
func (s *Store) Investments() domain.InvestmentRepository { return &investmentRepo{s} }

// Ledger returns the ledger repository view of the store
func (s *Store) Ledger() domain.LedgerRepository { return &ledgerRepo{s} }

type portfolioRepo struct{ s *Store }

func (r *portfolioRepo) Create(_ context.Context, p *domain.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *p
	r.s.portfolios[p.ID] = &cp
	return nil
}

func (r *portfolioRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *portfolioRepo) List(_ context.Context) ([]*domain.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Portfolio, 0, len(r.s.portfolios))
	for _, p := range r.s.portfolios {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *portfolioRepo) Update(_ context.Context, p *domain.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[p.ID]; !ok {
		return fmt.Errorf("portfolio %s: %w", p.ID, domain.ErrNotFound)
	}
	cp := *p
	r.s.portfolios[p.ID] = &cp
	return nil
}

func (r *portfolioRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[id]; !ok {
		return fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.portfolios, id)

	// cascade
	for invID, inv := range r.s.investments {
		if inv.PortfolioID == id {
			delete(r.s.investments, invID)
			delete(r.s.transactions, invID)
		}
	}
	return nil
}

type investmentRepo struct{ s *Store }

func (r *investmentRepo) Create(_ context.Context, inv *domain.Investment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *inv
	r.s.investments[inv.ID] = &cp
	return nil
}

func (r *investmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Investment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inv, ok := r.s.investments[id]
	if !ok {
		return nil, fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

func (r *investmentRepo) ListByPortfolio(_ context.Context, portfolioID uuid.UUID) ([]*domain.Investment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Investment
	for _, inv := range r.s.investments {
		if inv.PortfolioID == portfolioID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *investmentRepo) Update(_ context.Context, inv *domain.Investment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.investments[inv.ID]; !ok {
		return fmt.Errorf("investment %s: %w", inv.ID, domain.ErrNotFound)
	}
	cp := *inv
	r.s.investments[inv.ID] = &cp
	return nil
}

func (r *investmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.investments[id]; !ok {
		return fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.investments, id)
	delete(r.s.transactions, id)
	return nil
}

func (r *investmentRepo) LatestByTicker(_ context.Context, ticker string) (*domain.Investment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	upper := strings.ToUpper(ticker)
	var latest *domain.Investment
	for _, inv := range r.s.investments {
		if strings.ToUpper(inv.Ticker) != upper {
			continue
		}
		if latest == nil || purchasedAfter(inv, latest) {
			latest = inv
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("ticker %s: %w", ticker, domain.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}

func (r *investmentRepo) Tickers(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, inv := range r.s.investments {
		if inv.Ticker == "" {
			continue
		}
		seen[strings.ToUpper(inv.Ticker)] = struct{}{}
	}

	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

// purchasedAfter orders by purchase date (nil last), then creation time.
func purchasedAfter(a, b *domain.Investment) bool {
	switch {
	case a.PurchaseDate != nil && b.PurchaseDate == nil:
		return true
	case a.PurchaseDate == nil && b.PurchaseDate != nil:
		return false
	case a.PurchaseDate != nil && b.PurchaseDate != nil && !a.PurchaseDate.Equal(*b.PurchaseDate):
		return a.PurchaseDate.After(*b.PurchaseDate)
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

type ledgerRepo struct{ s *Store }

func (r *ledgerRepo) AppendTransaction(_ context.Context, t *domain.Transaction, recalc domain.RecalcFunc) (domain.LedgerSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inv, ok := r.s.investments[t.InvestmentID]
	if !ok {
		return domain.LedgerSnapshot{}, fmt.Errorf("investment %s: %w", t.InvestmentID, domain.ErrNotFound)
	}

	r.s.nextSeq++
	t.Seq = r.s.nextSeq

	txs := append(r.s.transactions[t.InvestmentID], *t)
	snap, err := recalc(txs)
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}

	r.s.transactions[t.InvestmentID] = txs
	inv.ApplyPosition(snap.Position, snap.InvestedCash, snap.ProceedsCash)
	return snap, nil
}

func (r *ledgerRepo) DeleteTransaction(_ context.Context, investmentID, txID uuid.UUID, recalc domain.RecalcFunc) (domain.LedgerSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inv, ok := r.s.investments[investmentID]
	if !ok {
		return domain.LedgerSnapshot{}, fmt.Errorf("investment %s: %w", investmentID, domain.ErrNotFound)
	}

	existing := r.s.transactions[investmentID]
	remaining := make([]domain.Transaction, 0, len(existing))
	found := false
	for _, tx := range existing {
		if tx.ID == txID {
			found = true
			continue
		}
		remaining = append(remaining, tx)
	}
	if !found {
		return domain.LedgerSnapshot{}, fmt.Errorf("transaction %s: %w", txID, domain.ErrNotFound)
	}

	snap, err := recalc(remaining)
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}

	r.s.transactions[investmentID] = remaining
	inv.ApplyPosition(snap.Position, snap.InvestedCash, snap.ProceedsCash)
	return snap, nil
}

func (r *ledgerRepo) ListByInvestment(_ context.Context, investmentID uuid.UUID) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	txs := make([]domain.Transaction, len(r.s.transactions[investmentID]))
	copy(txs, r.s.transactions[investmentID])
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Before(&txs[j]) })
	return txs, nil
}

func (r *ledgerRepo) CountByInvestment(_ context.Context, investmentID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.transactions[investmentID]), nil
}
