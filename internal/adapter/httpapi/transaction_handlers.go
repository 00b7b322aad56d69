package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/mlourenco/stockbook-backend/internal/domain"
	"github.com/mlourenco/stockbook-backend/internal/metrics"
	"github.com/mlourenco/stockbook-backend/internal/usecase/transaction"
)

func recalcOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrOversoldPosition):
		return "oversold"
	case errors.Is(err, domain.ErrInvalidTransaction):
		return "invalid"
	default:
		return "error"
	}
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	investmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var executedOn time.Time
	if d, err := parseDatePtr(req.ExecutedOn); err != nil {
		writeError(w, http.StatusBadRequest, "invalid executed date, expected YYYY-MM-DD")
		return
	} else if d != nil {
		executedOn = *d
	}

	tx, _, err := s.transactions.Record(r.Context(), transaction.RecordTransactionInput{
		InvestmentID: investmentID,
		Kind:         domain.TransactionKind(req.Kind),
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Fees:         req.Fees,
		ExecutedOn:   executedOn,
	})
	metrics.RecalculationsTotal.WithLabelValues(recalcOutcome(err)).Inc()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	investmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	txs, err := s.transactions.List(r.Context(), investmentID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResponse(&txs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	investmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	txID, err := pathID(r, "txID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	_, err = s.transactions.Delete(r.Context(), investmentID, txID)
	metrics.RecalculationsTotal.WithLabelValues(recalcOutcome(err)).Inc()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
