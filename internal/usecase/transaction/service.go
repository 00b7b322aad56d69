package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/usecase/ledger"
)

// RecordTransactionInput represents the input for recording a buy or sell
type RecordTransactionInput struct {
	InvestmentID uuid.UUID
	Kind         domain.TransactionKind
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Fees         decimal.Decimal
	ExecutedOn   time.Time // zero value means today
}

// TransactionService handles ledger mutations. Every create or delete runs
// the recalculator synchronously inside the repository's unit of work, so the
// persisted position is never stale.
type TransactionService struct {
	InvestmentRepo domain.InvestmentRepository
	LedgerRepo     domain.LedgerRepository
}

// NewTransactionService creates a new TransactionService instance
func NewTransactionService(investmentRepo domain.InvestmentRepository, ledgerRepo domain.LedgerRepository) *TransactionService {
	return &TransactionService{
		InvestmentRepo: investmentRepo,
		LedgerRepo:     ledgerRepo,
	}
}

// Record validates and appends one transaction, returning it together with
// the freshly replayed ledger snapshot.
func (s *TransactionService) Record(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, domain.LedgerSnapshot, error) {
	// Verify the investment exists before touching the ledger.
	if _, err := s.InvestmentRepo.GetByID(ctx, input.InvestmentID); err != nil {
		return nil, domain.LedgerSnapshot{}, err
	}

	executedOn := input.ExecutedOn
	if executedOn.IsZero() {
		executedOn = time.Now()
	}

	tx := &domain.Transaction{
		ID:           uuid.New(),
		InvestmentID: input.InvestmentID,
		Kind:         input.Kind,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		Fees:         input.Fees,
		ExecutedOn:   executedOn,
		CreatedAt:    time.Now(),
	}

	if err := tx.Validate(); err != nil {
		return nil, domain.LedgerSnapshot{}, err
	}

	snap, err := s.LedgerRepo.AppendTransaction(ctx, tx, ledger.Snapshot)
	if err != nil {
		return nil, domain.LedgerSnapshot{}, err
	}

	return tx, snap, nil
}

// Delete removes one transaction and replays the remainder of the ledger.
func (s *TransactionService) Delete(ctx context.Context, investmentID, txID uuid.UUID) (domain.LedgerSnapshot, error) {
	return s.LedgerRepo.DeleteTransaction(ctx, investmentID, txID, ledger.Snapshot)
}

// List returns an investment's transactions in replay order.
func (s *TransactionService) List(ctx context.Context, investmentID uuid.UUID) ([]domain.Transaction, error) {
	if _, err := s.InvestmentRepo.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}
	return s.LedgerRepo.ListByInvestment(ctx, investmentID)
}

// ValuationHistory replays an investment's ledger into its historical
// book-value curve, one point per trade date.
func (s *TransactionService) ValuationHistory(ctx context.Context, investmentID uuid.UUID) ([]ledger.ValuationPoint, error) {
	if _, err := s.InvestmentRepo.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}
	txs, err := s.LedgerRepo.ListByInvestment(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	return ledger.ValuationHistory(txs)
}
