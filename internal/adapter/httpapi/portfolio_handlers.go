package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mlourenco/stockbook-backend/internal/usecase/portfolio"
)

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.portfolios.Create(r.Context(), portfolio.PortfolioInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPortfolioResponse(p))
}

// handleListPortfolios returns every portfolio with its aggregated totals,
// the payload behind the main menu page.
func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	overviews, err := s.portfolios.ListOverviews(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := make([]overviewResponse, 0, len(overviews))
	for _, o := range overviews {
		out = append(out, toOverviewResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	p, err := s.portfolios.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPortfolioResponse(p))
}

func (s *Server) handleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	var req portfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.portfolios.Update(r.Context(), id, portfolio.PortfolioInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPortfolioResponse(p))
}

func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	if err := s.portfolios.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePortfolioOverview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	o, err := s.portfolios.GetOverview(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOverviewResponse(o))
}
