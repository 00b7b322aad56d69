package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=stockbook sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// EnsureSchema creates the tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS portfolios (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS investments (
			id              UUID PRIMARY KEY,
			portfolio_id    UUID NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
			name            TEXT NOT NULL,
			ticker          TEXT NOT NULL DEFAULT '',
			type            TEXT NOT NULL DEFAULT 'stock',
			quantity        NUMERIC(18,4) NOT NULL DEFAULT 0,
			purchase_price  NUMERIC(12,4) NOT NULL DEFAULT 0,
			purchase_date   DATE,
			amount_invested NUMERIC(12,2) NOT NULL DEFAULT 0,
			current_value   NUMERIC(12,2) NOT NULL DEFAULT 0,
			invested_cash   NUMERIC(12,2) NOT NULL DEFAULT 0,
			proceeds_cash   NUMERIC(12,2) NOT NULL DEFAULT 0,
			notes           TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS transactions (
			id            UUID PRIMARY KEY,
			investment_id UUID NOT NULL REFERENCES investments(id) ON DELETE CASCADE,
			kind          TEXT NOT NULL,
			quantity      NUMERIC(18,4) NOT NULL,
			unit_price    NUMERIC(12,4) NOT NULL,
			fees          NUMERIC(12,2) NOT NULL DEFAULT 0,
			executed_on   DATE NOT NULL,
			seq           BIGSERIAL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_replay
			ON transactions (investment_id, executed_on, seq);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
