package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/usecase/investment"
)

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	portfolioID, err := uuid.Parse(req.PortfolioID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase date, expected YYYY-MM-DD")
		return
	}

	inv, err := s.investments.Create(r.Context(), investment.CreateInvestmentInput{
		PortfolioID:   portfolioID,
		Name:          req.Name,
		Ticker:        req.Ticker,
		Type:          domain.InvestmentType(req.Type),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
		CurrentValue:  req.CurrentValue,
		Notes:         req.Notes,
	})
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInvestmentResponse(inv))
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	o, err := s.portfolios.GetOverview(r.Context(), portfolioID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInvestmentResponses(o.Investments))
}

func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	inv, err := s.investments.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	var req investmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase date, expected YYYY-MM-DD")
		return
	}

	inv, err := s.investments.Update(r.Context(), id, investment.UpdateInvestmentInput{
		Name:          req.Name,
		Ticker:        req.Ticker,
		Type:          domain.InvestmentType(req.Type),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
		CurrentValue:  req.CurrentValue,
		Notes:         req.Notes,
	})
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	if err := s.investments.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateCurrentValue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	var req currentValueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := s.investments.UpdateCurrentValue(r.Context(), id, req.CurrentValue)
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

func (s *Server) handleValuationHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	points, err := s.transactions.ValuationHistory(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toValuationResponse(points))
}
