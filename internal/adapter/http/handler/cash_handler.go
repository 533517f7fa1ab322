package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// CashService defines the behavior needed by CashHandler.
type CashService interface {
	RecordCashReceipt(ctx context.Context, input usecase.CashMovementInput) (*domain.PostingBatch, error)
	RecordCashDisbursement(ctx context.Context, input usecase.CashMovementInput) (*domain.PostingBatch, error)
	RecordBankTransfer(ctx context.Context, input usecase.BankTransferInput) (*domain.PostingBatch, error)
}

// CashHandler handles direct cash movement HTTP requests.
type CashHandler struct {
	cashUC CashService
}

// NewCashHandler creates a new CashHandler.
func NewCashHandler(cashUC CashService) *CashHandler {
	return &CashHandler{cashUC: cashUC}
}

// Receipt records a direct cash receipt.
func (h *CashHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	var req dto.CashMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput()
	input.CreatedBy = actorID(r, input.CreatedBy)

	batch, err := h.cashUC.RecordCashReceipt(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record cash receipt", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}

// Disbursement records a direct cash disbursement.
func (h *CashHandler) Disbursement(w http.ResponseWriter, r *http.Request) {
	var req dto.CashMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput()
	input.CreatedBy = actorID(r, input.CreatedBy)

	batch, err := h.cashUC.RecordCashDisbursement(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record cash disbursement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}

// Transfer records a transfer between two bank accounts.
func (h *CashHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.BankTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput()
	input.CreatedBy = actorID(r, input.CreatedBy)

	batch, err := h.cashUC.RecordBankTransfer(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record bank transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BatchFromDomain(batch))
}
