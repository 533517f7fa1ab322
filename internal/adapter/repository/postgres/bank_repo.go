package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	pool *pgxpool.Pool
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{pool: pool}
}

// Create inserts a bank account with a zero starting balance.
func (r *BankAccountRepository) Create(ctx context.Context, bank *domain.BankAccount) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bank_accounts (id, name, ledger_account_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		bank.ID,
		bank.Name,
		bank.LedgerAccountID,
		decimalToNumeric(bank.Balance),
		timeToPgTimestamptz(bank.CreatedAt),
		timeToPgTimestamptz(bank.UpdatedAt),
	)
	if isForeignKeyViolation(err) {
		return domain.ErrAccountNotFound
	}

	return err
}

// GetByID retrieves a bank account by ID.
func (r *BankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	var (
		bank      domain.BankAccount
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, ledger_account_id, balance, created_at, updated_at
		FROM bank_accounts
		WHERE id = $1`, id).Scan(
		&bank.ID,
		&bank.Name,
		&bank.LedgerAccountID,
		&balance,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}

		return nil, err
	}

	bank.Balance = numericToDecimal(balance)
	bank.CreatedAt = createdAt.Time
	bank.UpdatedAt = updatedAt.Time

	return &bank, nil
}

// AdjustBalance applies a delta to the cached balance as a single
// server-side increment. Concurrent adjustments serialize on the row and
// none of them can overwrite another's effect.
func (r *BankAccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE bank_accounts
		SET balance = balance + $2, updated_at = $3
		WHERE id = $1`,
		id,
		decimalToNumeric(delta),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBankAccountNotFound
	}

	return nil
}
