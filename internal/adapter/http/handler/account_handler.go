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

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]*domain.Account, error)
	CreateBankAccount(ctx context.Context, input usecase.CreateBankAccountInput) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new ledger account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves a ledger account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the chart of accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	accounts, err := h.accountUC.ListAccounts(r.Context(), includeInactive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// CreateBank creates a new bank account.
func (h *AccountHandler) CreateBank(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	bank, err := h.accountUC.CreateBankAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create bank account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankAccountFromDomain(bank))
}

// GetBank retrieves a bank account by ID.
func (h *AccountHandler) GetBank(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bank account ID", "")
		return
	}

	bank, err := h.accountUC.GetBankAccount(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get bank account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BankAccountFromDomain(bank))
}
