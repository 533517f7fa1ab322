package usecase

import (
	"context"
	"time"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// AccountUseCase handles chart-of-accounts business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	bankRepo    BankAccountRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, bankRepo BankAccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		bankRepo:    bankRepo,
		idGen:       idGen,
	}
}

// WithMetrics enables account metrics.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

// CreateAccountInput represents input for creating a ledger account.
type CreateAccountInput struct {
	Number        string
	Name          string
	Type          domain.AccountType
	NormalBalance domain.BalanceSide
	ParentID      *string
	Description   string
}

// CreateAccount creates a ledger account. The normal balance side is fixed
// at creation; a contra account simply declares the side opposite to its
// type's default.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		Number:        input.Number,
		Name:          input.Name,
		Type:          input.Type,
		NormalBalance: input.NormalBalance,
		ParentID:      input.ParentID,
		Description:   input.Description,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
		uc.metrics.AccountOperations.WithLabelValues("create").Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists accounts, active only by default.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, includeInactive bool) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, includeInactive)
}

// CreateBankAccountInput represents input for creating a bank account.
type CreateBankAccountInput struct {
	Name            string
	LedgerAccountID string
}

// CreateBankAccount creates a bank account linked to a cash ledger account.
// The cached balance starts at zero and moves only with postings.
func (uc *AccountUseCase) CreateBankAccount(ctx context.Context, input CreateBankAccountInput) (*domain.BankAccount, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	ledgerAccount, err := uc.accountRepo.GetByID(ctx, input.LedgerAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	bank := &domain.BankAccount{
		ID:              uc.idGen.Generate(),
		Name:            input.Name,
		LedgerAccountID: ledgerAccount.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("create_bank").Inc()
	}

	return bank, nil
}

// GetBankAccount retrieves a bank account by ID.
func (uc *AccountUseCase) GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error) {
	return uc.bankRepo.GetByID(ctx, id)
}
