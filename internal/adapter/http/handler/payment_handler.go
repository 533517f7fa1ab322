package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Payment, error)
	ApplyPayment(ctx context.Context, paymentID, documentID string) (*domain.Document, error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	ListPaymentsByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error)
}

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Record records a new payment.
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput()
	input.CreatedBy = actorID(r, input.CreatedBy)

	payment, err := h.paymentUC.RecordPayment(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// Apply applies a payment to a document, settling it in full.
func (h *PaymentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	var req dto.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	doc, err := h.paymentUC.ApplyPayment(r.Context(), id, req.DocumentID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to apply payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromDomain(doc))
}

// Get retrieves a payment by ID.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	payment, err := h.paymentUC.GetPayment(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}

// ListByParty lists payments recorded against a party.
func (h *PaymentHandler) ListByParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.URL.Query().Get("party_id")
	if partyID == "" {
		writeError(w, http.StatusBadRequest, "missing party_id parameter", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	payments, err := h.paymentUC.ListPaymentsByParty(r.Context(), partyID, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}
