package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/usecase/aggregator"
)

// PortfolioInput represents the editable fields of a portfolio
type PortfolioInput struct {
	Name        string
	Description string
}

// Overview bundles a portfolio with its investments and aggregated totals
type Overview struct {
	Portfolio   *domain.Portfolio
	Investments []*domain.Investment
	Totals      aggregator.PortfolioTotals
}

// PortfolioService handles portfolio CRUD and overview aggregation
type PortfolioService struct {
	PortfolioRepo  domain.PortfolioRepository
	InvestmentRepo domain.InvestmentRepository
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(portfolioRepo domain.PortfolioRepository, investmentRepo domain.InvestmentRepository) *PortfolioService {
	return &PortfolioService{
		PortfolioRepo:  portfolioRepo,
		InvestmentRepo: investmentRepo,
	}
}

// Create creates a new portfolio
func (s *PortfolioService) Create(ctx context.Context, input PortfolioInput) (*domain.Portfolio, error) {
	p := &domain.Portfolio{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PortfolioRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Get retrieves a single portfolio
func (s *PortfolioService) Get(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	return s.PortfolioRepo.GetByID(ctx, id)
}

// List retrieves all portfolios ordered by name
func (s *PortfolioService) List(ctx context.Context) ([]*domain.Portfolio, error) {
	return s.PortfolioRepo.List(ctx)
}

// Update edits a portfolio's name and description
func (s *PortfolioService) Update(ctx context.Context, id uuid.UUID, input PortfolioInput) (*domain.Portfolio, error) {
	p, err := s.PortfolioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Description = input.Description

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PortfolioRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Delete removes a portfolio together with its investments
func (s *PortfolioService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.PortfolioRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.PortfolioRepo.Delete(ctx, id)
}

// GetOverview returns a portfolio with its investments and summed totals
func (s *PortfolioService) GetOverview(ctx context.Context, id uuid.UUID) (*Overview, error) {
	p, err := s.PortfolioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	investments, err := s.InvestmentRepo.ListByPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Portfolio:   p,
		Investments: investments,
		Totals:      aggregator.Totals(investments),
	}, nil
}

// ListOverviews returns the overview of every portfolio, the data behind the
// main menu page.
func (s *PortfolioService) ListOverviews(ctx context.Context) ([]*Overview, error) {
	portfolios, err := s.PortfolioRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	overviews := make([]*Overview, 0, len(portfolios))
	for _, p := range portfolios {
		investments, err := s.InvestmentRepo.ListByPortfolio(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, &Overview{
			Portfolio:   p,
			Investments: investments,
			Totals:      aggregator.Totals(investments),
		})
	}

	return overviews, nil
}
