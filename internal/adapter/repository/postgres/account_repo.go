package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, number, name, type, normal_balance, parent_id, description, active, created_at, updated_at`

// Create creates a new ledger account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, number, name, type, normal_balance, parent_id, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID,
		account.Number,
		account.Name,
		string(account.Type),
		string(account.NormalBalance),
		account.ParentID,
		account.Description,
		account.Active,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAccountNumber
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1`, id)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// List lists accounts ordered by number, active only unless asked otherwise.
func (r *AccountRepository) List(ctx context.Context, includeInactive bool) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE active OR $1
		ORDER BY number`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListActive lists active accounts ordered by number.
func (r *AccountRepository) ListActive(ctx context.Context) ([]*domain.Account, error) {
	return r.List(ctx, false)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account       domain.Account
		accType       string
		normalBalance string
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.Number,
		&account.Name,
		&accType,
		&normalBalance,
		&account.ParentID,
		&account.Description,
		&account.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Type = domain.AccountType(accType)
	account.NormalBalance = domain.BalanceSide(normalBalance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
