package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// Create creates a new portfolio
func (r *portfolioRepository) Create(ctx context.Context, p *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	return nil
}

// GetByID retrieves a portfolio by its ID
func (r *portfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	query := `
		SELECT id, name, description, created_at
		FROM portfolios
		WHERE id = $1
	`

	var p domain.Portfolio
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio by ID: %w", err)
	}

	return &p, nil
}

// List retrieves all portfolios ordered by name
func (r *portfolioRepository) List(ctx context.Context) ([]*domain.Portfolio, error) {
	query := `
		SELECT id, name, description, created_at
		FROM portfolios
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*domain.Portfolio
	for rows.Next() {
		var p domain.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, &p)
	}

	return portfolios, rows.Err()
}

// Update updates a portfolio's name and description
func (r *portfolioRepository) Update(ctx context.Context, p *domain.Portfolio) error {
	query := `
		UPDATE portfolios
		SET name = $2, description = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("portfolio %s: %w", p.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a portfolio; investments and transactions cascade
func (r *portfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
