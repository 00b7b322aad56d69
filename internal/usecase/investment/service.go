package investment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/usecase/ledger"
)

// CreateInvestmentInput represents the input for creating an investment.
// Quantity/PurchasePrice are the quick-add starting position; when both are
// positive they are turned into the investment's first BUY transaction.
type CreateInvestmentInput struct {
	PortfolioID   uuid.UUID
	Name          string
	Ticker        string
	Type          domain.InvestmentType
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time
	CurrentValue  decimal.Decimal
	Notes         string
}

// UpdateInvestmentInput represents the editable fields of an investment
type UpdateInvestmentInput struct {
	Name          string
	Ticker        string
	Type          domain.InvestmentType
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time
	CurrentValue  decimal.Decimal
	Notes         string
}

// InvestmentService handles investment CRUD and the seed-transaction policy
type InvestmentService struct {
	PortfolioRepo  domain.PortfolioRepository
	InvestmentRepo domain.InvestmentRepository
	LedgerRepo     domain.LedgerRepository
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(
	portfolioRepo domain.PortfolioRepository,
	investmentRepo domain.InvestmentRepository,
	ledgerRepo domain.LedgerRepository,
) *InvestmentService {
	return &InvestmentService{
		PortfolioRepo:  portfolioRepo,
		InvestmentRepo: investmentRepo,
		LedgerRepo:     ledgerRepo,
	}
}

// Create creates an investment and, when a starting position was entered,
// records it as the first BUY transaction so the quick-add values stay
// consistent with the ledger.
func (s *InvestmentService) Create(ctx context.Context, input CreateInvestmentInput) (*domain.Investment, error) {
	if _, err := s.PortfolioRepo.GetByID(ctx, input.PortfolioID); err != nil {
		return nil, err
	}

	if err := validateQuickAdd(input.Quantity, input.PurchasePrice); err != nil {
		return nil, err
	}

	inv := &domain.Investment{
		ID:            uuid.New(),
		PortfolioID:   input.PortfolioID,
		Name:          input.Name,
		Ticker:        input.Ticker,
		Type:          input.Type,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  input.PurchaseDate,
		CurrentValue:  input.CurrentValue,
		InvestedCash:  decimal.Zero,
		ProceedsCash:  decimal.Zero,
		Notes:         input.Notes,
		CreatedAt:     time.Now(),
	}
	inv.Normalize()

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.seedInitialBuy(ctx, inv); err != nil {
		return nil, err
	}

	return s.InvestmentRepo.GetByID(ctx, inv.ID)
}

// Update edits an investment. The seed policy applies here too: an existing
// investment edited to include a starting position while it still has no
// transactions gets one backfilled. An investment that has accumulated real
// transactions is never auto-seeded again.
func (s *InvestmentService) Update(ctx context.Context, id uuid.UUID, input UpdateInvestmentInput) (*domain.Investment, error) {
	inv, err := s.InvestmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.LedgerRepo.CountByInvestment(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Name = input.Name
	inv.Ticker = input.Ticker
	inv.Type = input.Type
	inv.PurchaseDate = input.PurchaseDate
	inv.CurrentValue = input.CurrentValue
	inv.Notes = input.Notes

	// Quantity and purchase price are ledger-owned once transactions exist;
	// the edit form's values are only honored while the ledger is empty.
	if count == 0 {
		if err := validateQuickAdd(input.Quantity, input.PurchasePrice); err != nil {
			return nil, err
		}
		inv.Quantity = input.Quantity
		inv.PurchasePrice = input.PurchasePrice
	}
	inv.Normalize()

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	if count == 0 {
		if err := s.seedInitialBuy(ctx, inv); err != nil {
			return nil, err
		}
	}

	return s.InvestmentRepo.GetByID(ctx, id)
}

// UpdateCurrentValue records the manually maintained market value.
func (s *InvestmentService) UpdateCurrentValue(ctx context.Context, id uuid.UUID, value decimal.Decimal) (*domain.Investment, error) {
	if value.IsNegative() {
		return nil, errors.New("current value cannot be negative")
	}

	inv, err := s.InvestmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.CurrentValue = value
	if err := s.InvestmentRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// Get retrieves a single investment
func (s *InvestmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	return s.InvestmentRepo.GetByID(ctx, id)
}

// Delete removes an investment together with its transactions
func (s *InvestmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.InvestmentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.InvestmentRepo.Delete(ctx, id)
}

// seedInitialBuy synthesizes the initial BUY for a user-entered starting
// position. Guarded by "no existing transactions", so it happens at most once
// per investment.
func (s *InvestmentService) seedInitialBuy(ctx context.Context, inv *domain.Investment) error {
	if !inv.Quantity.IsPositive() || !inv.PurchasePrice.IsPositive() {
		return nil
	}

	count, err := s.LedgerRepo.CountByInvestment(ctx, inv.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	executedOn := time.Now()
	if inv.PurchaseDate != nil {
		executedOn = *inv.PurchaseDate
	}

	seed := &domain.Transaction{
		ID:           uuid.New(),
		InvestmentID: inv.ID,
		Kind:         domain.TransactionBuy,
		Quantity:     inv.Quantity,
		UnitPrice:    inv.PurchasePrice,
		Fees:         decimal.Zero,
		ExecutedOn:   executedOn,
		CreatedAt:    time.Now(),
	}

	if err := seed.Validate(); err != nil {
		return err
	}

	_, err = s.LedgerRepo.AppendTransaction(ctx, seed, ledger.Snapshot)
	return err
}

// validateQuickAdd applies the form-level rule for the starting position:
// either both fields are zero (no starting position) or both are positive.
func validateQuickAdd(quantity, price decimal.Decimal) error {
	if quantity.IsNegative() {
		return errors.New("quantity must be > 0")
	}
	if price.IsNegative() {
		return errors.New("purchase price must be > 0")
	}
	return nil
}
