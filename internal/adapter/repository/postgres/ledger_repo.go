package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

// ledgerRepository implements domain.LedgerRepository on PostgreSQL.
// Every mutation locks the owning investment row FOR UPDATE, so replays for
// one investment never interleave.
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

const transactionColumns = `
	id, investment_id, kind, quantity, unit_price, fees, executed_on, seq, created_at
`

const selectTransactionsForReplay = `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE investment_id = $1
	ORDER BY executed_on, seq
`

// AppendTransaction stores the transaction and replays the investment's full
// set inside one database transaction.
func (r *ledgerRepository) AppendTransaction(ctx context.Context, t *domain.Transaction, recalc domain.RecalcFunc) (domain.LedgerSnapshot, error) {
	var snapshot domain.LedgerSnapshot

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockInvestment(ctx, tx, t.InvestmentID); err != nil {
			return err
		}

		insert := `
			INSERT INTO transactions (id, investment_id, kind, quantity, unit_price, fees, executed_on, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING seq
		`
		err := tx.QueryRowContext(ctx, insert,
			t.ID,
			t.InvestmentID,
			string(t.Kind),
			t.Quantity.String(),
			t.UnitPrice.String(),
			t.Fees.String(),
			t.ExecutedOn,
			t.CreatedAt,
		).Scan(&t.Seq)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		snap, err := replay(ctx, tx, t.InvestmentID, recalc)
		if err != nil {
			return err
		}
		snapshot = snap
		return nil
	})

	return snapshot, err
}

// DeleteTransaction removes one transaction and replays the remainder.
func (r *ledgerRepository) DeleteTransaction(ctx context.Context, investmentID, txID uuid.UUID, recalc domain.RecalcFunc) (domain.LedgerSnapshot, error) {
	var snapshot domain.LedgerSnapshot

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockInvestment(ctx, tx, investmentID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE id = $1 AND investment_id = $2`,
			txID, investmentID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("transaction %s: %w", txID, domain.ErrNotFound)
		}

		snap, err := replay(ctx, tx, investmentID, recalc)
		if err != nil {
			return err
		}
		snapshot = snap
		return nil
	})

	return snapshot, err
}

// ListByInvestment returns the investment's transactions in replay order
func (r *ledgerRepository) ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactionsForReplay, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// CountByInvestment returns the number of transactions for an investment
func (r *ledgerRepository) CountByInvestment(ctx context.Context, investmentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE investment_id = $1`,
		investmentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// inTx runs fn inside a database transaction, rolling back on any error.
func (r *ledgerRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// lockInvestment takes the per-investment row lock that serializes replays.
func lockInvestment(ctx context.Context, tx *sql.Tx, investmentID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM investments WHERE id = $1 FOR UPDATE`,
		investmentID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("investment %s: %w", investmentID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to lock investment: %w", err)
	}
	return nil
}

// replay reloads the full transaction set, recalculates the snapshot and
// writes the derived position back onto the investment row.
func replay(ctx context.Context, tx *sql.Tx, investmentID uuid.UUID, recalc domain.RecalcFunc) (domain.LedgerSnapshot, error) {
	rows, err := tx.QueryContext(ctx, selectTransactionsForReplay, investmentID)
	if err != nil {
		return domain.LedgerSnapshot{}, fmt.Errorf("failed to reload transactions: %w", err)
	}
	txs, err := scanTransactions(rows)
	rows.Close()
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}

	snap, err := recalc(txs)
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}

	update := `
		UPDATE investments
		SET quantity = $2, purchase_price = $3, amount_invested = $4,
		    invested_cash = $5, proceeds_cash = $6
		WHERE id = $1
	`
	amountInvested := snap.Position.Quantity.Mul(snap.Position.AverageUnitCost).Round(2)
	_, err = tx.ExecContext(ctx, update,
		investmentID,
		snap.Position.Quantity.String(),
		snap.Position.AverageUnitCost.String(),
		amountInvested.String(),
		snap.InvestedCash.String(),
		snap.ProceedsCash.String(),
	)
	if err != nil {
		return domain.LedgerSnapshot{}, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	return snap, nil
}

func scanTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var (
			t        domain.Transaction
			kind     string
			quantity string
			price    string
			fees     string
		)
		err := rows.Scan(
			&t.ID,
			&t.InvestmentID,
			&kind,
			&quantity,
			&price,
			&fees,
			&t.ExecutedOn,
			&t.Seq,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		t.Kind = domain.TransactionKind(kind)
		for _, field := range []struct {
			dst *decimal.Decimal
			src string
		}{
			{&t.Quantity, quantity},
			{&t.UnitPrice, price},
			{&t.Fees, fees},
		} {
			v, err := decimal.NewFromString(field.src)
			if err != nil {
				return nil, fmt.Errorf("failed to parse decimal column: %w", err)
			}
			*field.dst = v
		}

		txs = append(txs, t)
	}

	return txs, rows.Err()
}
