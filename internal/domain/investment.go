package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentType represents the asset class of an investment
type InvestmentType string

const (
	InvestmentStock   InvestmentType = "stock"
	InvestmentBond    InvestmentType = "bond"
	InvestmentCrypto  InvestmentType = "crypto"
	InvestmentFund    InvestmentType = "fund"
	InvestmentAnnuity InvestmentType = "annuity"
	InvestmentOther   InvestmentType = "other"
)

// Investment represents a single holding inside a portfolio.
//
// Quantity and PurchasePrice hold the replayed position once the investment
// has transactions: PurchasePrice then carries the weighted-average unit cost.
// AmountInvested (= Quantity * PurchasePrice) and CurrentValue are the manual
// cash-basis pair used for gain/loss; InvestedCash and ProceedsCash are the
// transaction-derived pair. Both exist in parallel and callers must know
// which one a given field refers to.
type Investment struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID

	Name   string
	Ticker string
	Type   InvestmentType

	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time

	AmountInvested decimal.Decimal
	CurrentValue   decimal.Decimal

	InvestedCash decimal.Decimal
	ProceedsCash decimal.Decimal

	Notes     string
	CreatedAt time.Time
}

// Validate ensures the investment adheres to domain rules
func (i *Investment) Validate() error {
	if i.Name == "" {
		return errors.New("investment name cannot be empty")
	}

	switch i.Type {
	case InvestmentStock, InvestmentBond, InvestmentCrypto,
		InvestmentFund, InvestmentAnnuity, InvestmentOther:
	default:
		return errors.New("unknown investment type")
	}

	if i.Quantity.IsNegative() {
		return errors.New("quantity cannot be negative")
	}

	if i.PurchasePrice.IsNegative() {
		return errors.New("purchase price cannot be negative")
	}

	return nil
}

// Normalize uppercases the ticker and recomputes the manual cash basis.
// Mirrors what happens on every save of the record.
func (i *Investment) Normalize() {
	i.Ticker = strings.ToUpper(strings.TrimSpace(i.Ticker))
	i.AmountInvested = i.Quantity.Mul(i.PurchasePrice).Round(2)
}

// GainLoss returns current value minus the manual cash-basis invested amount.
func (i *Investment) GainLoss() decimal.Decimal {
	return i.CurrentValue.Sub(i.AmountInvested)
}

// NetInvestedCash returns the transaction-derived net cash position.
func (i *Investment) NetInvestedCash() decimal.Decimal {
	return i.InvestedCash.Sub(i.ProceedsCash)
}

// ApplyPosition writes a replayed position and the derived cash metrics back
// onto the investment's persisted fields.
func (i *Investment) ApplyPosition(pos Position, investedCash, proceedsCash decimal.Decimal) {
	i.Quantity = pos.Quantity
	i.PurchasePrice = pos.AverageUnitCost
	i.InvestedCash = investedCash
	i.ProceedsCash = proceedsCash
	i.AmountInvested = i.Quantity.Mul(i.PurchasePrice).Round(2)
}
