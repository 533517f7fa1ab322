package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/adapter/http/dto"
	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// DocumentService defines the behavior needed by DocumentHandler.
type DocumentService interface {
	CreateDocument(ctx context.Context, input usecase.CreateDocumentInput) (*domain.Document, error)
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListOpenDocuments(ctx context.Context, kind domain.DocumentKind, partyID string) ([]*domain.Document, error)
	TotalOutstanding(ctx context.Context, kind domain.DocumentKind) (decimal.Decimal, error)
}

// VoidService defines the void behavior needed by DocumentHandler.
type VoidService interface {
	VoidDocument(ctx context.Context, input usecase.VoidDocumentInput) (*domain.Document, error)
}

// DocumentHandler handles invoice and bill HTTP requests.
type DocumentHandler struct {
	documentUC DocumentService
	voidUC     VoidService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentUC DocumentService, voidUC VoidService) *DocumentHandler {
	return &DocumentHandler{documentUC: documentUC, voidUC: voidUC}
}

// Create creates a new invoice or bill.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput()
	input.CreatedBy = actorID(r, input.CreatedBy)

	doc, err := h.documentUC.CreateDocument(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create document", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DocumentFromDomain(doc))
}

// Get retrieves a document by ID.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document ID", "")
		return
	}

	doc, err := h.documentUC.GetDocument(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get document", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromDomain(doc))
}

// ListOpen lists open documents of a kind, filtered by party.
func (h *DocumentHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	kind := domain.DocumentKind(r.URL.Query().Get("kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid document kind", string(kind))
		return
	}

	partyID := r.URL.Query().Get("party_id")

	docs, err := h.documentUC.ListOpenDocuments(r.Context(), kind, partyID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list documents", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentsFromDomain(docs))
}

// Outstanding returns the total open balance of a document kind, which must
// agree with the control account balance.
func (h *DocumentHandler) Outstanding(w http.ResponseWriter, r *http.Request) {
	kind := domain.DocumentKind(r.URL.Query().Get("kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid document kind", string(kind))
		return
	}

	total, err := h.documentUC.TotalOutstanding(r.Context(), kind)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to sum outstanding balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kind":  string(kind),
		"total": total,
	})
}

// Void cancels an unpaid document and posts its reversing entry.
func (h *DocumentHandler) Void(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document ID", "")
		return
	}

	var req dto.VoidDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	doc, err := h.voidUC.VoidDocument(r.Context(), usecase.VoidDocumentInput{
		DocumentID:       id,
		ControlAccountID: req.ControlAccountID,
		CounterAccountID: req.CounterAccountID,
		VoidedBy:         actorID(r, req.VoidedBy),
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to void document", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromDomain(doc))
}
