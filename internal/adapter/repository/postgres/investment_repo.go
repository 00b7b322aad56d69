package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

const investmentColumns = `
	id, portfolio_id, name, ticker, type,
	quantity, purchase_price, purchase_date,
	amount_invested, current_value, invested_cash, proceeds_cash,
	notes, created_at
`

// Create creates a new investment
func (r *investmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.PortfolioID,
		inv.Name,
		inv.Ticker,
		string(inv.Type),
		inv.Quantity.String(),
		inv.PurchasePrice.String(),
		nullableDate(inv.PurchaseDate),
		inv.AmountInvested.String(),
		inv.CurrentValue.String(),
		inv.InvestedCash.String(),
		inv.ProceedsCash.String(),
		inv.Notes,
		inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}

	return nil
}

// GetByID retrieves an investment by its ID
func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get investment by ID: %w", err)
	}

	return inv, nil
}

// ListByPortfolio retrieves a portfolio's investments ordered by name
func (r *investmentRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE portfolio_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}

	return investments, rows.Err()
}

// Update writes all mutable investment fields
func (r *investmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	query := `
		UPDATE investments
		SET name = $2, ticker = $3, type = $4,
		    quantity = $5, purchase_price = $6, purchase_date = $7,
		    amount_invested = $8, current_value = $9,
		    invested_cash = $10, proceeds_cash = $11, notes = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.Name,
		inv.Ticker,
		string(inv.Type),
		inv.Quantity.String(),
		inv.PurchasePrice.String(),
		nullableDate(inv.PurchaseDate),
		inv.AmountInvested.String(),
		inv.CurrentValue.String(),
		inv.InvestedCash.String(),
		inv.ProceedsCash.String(),
		inv.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("investment %s: %w", inv.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an investment; its transactions cascade
func (r *investmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// LatestByTicker retrieves the most recently purchased investment for a ticker
func (r *investmentRepository) LatestByTicker(ctx context.Context, ticker string) (*domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE upper(ticker) = upper($1)
		ORDER BY purchase_date DESC NULLS LAST, created_at DESC
		LIMIT 1
	`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, ticker))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ticker %s: %w", ticker, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get investment by ticker: %w", err)
	}

	return inv, nil
}

// Tickers retrieves the distinct non-empty tickers, uppercased and sorted
func (r *investmentRepository) Tickers(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT upper(ticker)
		FROM investments
		WHERE ticker <> ''
		ORDER BY 1
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer rows.Close()

	tickers := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}

	return tickers, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanInvestment(s scanner) (*domain.Investment, error) {
	var (
		inv          domain.Investment
		invType      string
		purchaseDate sql.NullTime
		quantity     string
		price        string
		amount       string
		current      string
		invested     string
		proceeds     string
	)

	err := s.Scan(
		&inv.ID,
		&inv.PortfolioID,
		&inv.Name,
		&inv.Ticker,
		&invType,
		&quantity,
		&price,
		&purchaseDate,
		&amount,
		&current,
		&invested,
		&proceeds,
		&inv.Notes,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Type = domain.InvestmentType(invType)
	if purchaseDate.Valid {
		d := purchaseDate.Time
		inv.PurchaseDate = &d
	}

	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&inv.Quantity, quantity},
		{&inv.PurchasePrice, price},
		{&inv.AmountInvested, amount},
		{&inv.CurrentValue, current},
		{&inv.InvestedCash, invested},
		{&inv.ProceedsCash, proceeds},
	} {
		v, err := decimal.NewFromString(field.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse decimal column: %w", err)
		}
		*field.dst = v
	}

	return &inv, nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
