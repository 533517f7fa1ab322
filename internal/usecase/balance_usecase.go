package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// BalanceUseCase derives account balances from the ledger. Balances are
// never stored for GL accounts; they are always recomputed from the lines.
type BalanceUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	bankRepo    BankAccountRepository
	logger      zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	bankRepo BankAccountRepository,
	logger zerolog.Logger,
) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		bankRepo:    bankRepo,
		logger:      logger,
	}
}

// AccountBalance returns the account's balance oriented by its normal
// balance side, optionally as of a cutoff date (inclusive). An unknown
// account yields zero with a warning instead of an error, so report loops
// over stale account lists keep running.
func (uc *BalanceUseCase) AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.logger.Warn().Str("account_id", accountID).Msg("balance requested for unknown account")
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	totalDebit, totalCredit, err := uc.ledgerRepo.SumByAccount(ctx, accountID, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	return account.BalanceFromSums(totalDebit, totalCredit), nil
}

// BankBalance returns the cached balance of a bank account.
func (uc *BalanceUseCase) BankBalance(ctx context.Context, bankAccountID string) (decimal.Decimal, error) {
	bank, err := uc.bankRepo.GetByID(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}

	return bank.Balance, nil
}

// RecentLines returns the most recent ledger lines for an account.
func (uc *BalanceUseCase) RecentLines(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error) {
	limit, _ = domain.ValidatePagination(limit, 0)

	return uc.ledgerRepo.GetRecentByAccount(ctx, accountID, limit)
}
