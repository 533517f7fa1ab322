package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// PostingService defines the behavior needed by PostingHandler.
type PostingService interface {
	PostBatch(ctx context.Context, input usecase.PostBatchInput) (*domain.PostingBatch, error)
	PostJournalEntry(ctx context.Context, input usecase.JournalEntryInput) (*domain.PostingBatch, error)
	GetBatch(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error)
}

// BalanceService defines the balance reads needed by PostingHandler.
type BalanceService interface {
	AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)
	BankBalance(ctx context.Context, bankAccountID string) (decimal.Decimal, error)
	RecentLines(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error)
}

// PostingHandler handles posting and balance HTTP requests.
type PostingHandler struct {
	postingUC PostingService
	balanceUC BalanceService
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postingUC PostingService, balanceUC BalanceService) *PostingHandler {
	return &PostingHandler{postingUC: postingUC, balanceUC: balanceUC}
}

// PostBatch posts a balanced batch of ledger lines.
func (h *PostingHandler) PostBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.PostBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput()
	input.CreatedBy = actorID(r, input.CreatedBy)

	batch, err := h.postingUC.PostBatch(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post batch", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}

// PostJournalEntry posts a simple two-line journal entry.
func (h *PostingHandler) PostJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput()
	input.CreatedBy = actorID(r, input.CreatedBy)

	batch, err := h.postingUC.PostJournalEntry(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post journal entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}

// GetBatch retrieves the lines of a posted batch by reference.
func (h *PostingHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "missing batch reference", "")
		return
	}

	lines, err := h.postingUC.GetBatch(r.Context(), ref)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get batch", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerLinesFromDomain(lines))
}

// GetBalance returns the balance of a ledger account, optionally as of a
// past date via the as_of query parameter (YYYY-MM-DD or RFC 3339).
func (h *PostingHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of parameter", err.Error())
		return
	}

	balance, err := h.balanceUC.AccountBalance(r.Context(), id, asOf)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance,
		AsOf:      asOf,
	})
}

// ListLines returns the most recent ledger lines of an account.
func (h *PostingHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)

	lines, err := h.balanceUC.RecentLines(r.Context(), id, limit)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list ledger lines", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerLinesFromDomain(lines))
}

// GetBankBalance returns the cached balance of a bank account.
func (h *PostingHandler) GetBankBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bank account ID", "")
		return
	}

	balance, err := h.balanceUC.BankBalance(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get bank balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance,
	})
}

// parseTimeQuery parses an optional time query parameter. Calendar dates
// (2006-01-02) and full RFC 3339 timestamps are both accepted.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
