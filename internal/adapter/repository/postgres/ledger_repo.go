package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. The ledger_lines
// table is append-only; no UPDATE or DELETE is ever issued against it.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

const ledgerColumns = `id, account_id, debit, credit, entry_date, memo, batch_ref, entry_type, created_by, created_at`

// CreateLine appends one ledger line within a transaction. An unknown
// account surfaces as ErrAccountNotFound via the foreign key.
func (r *LedgerRepository) CreateLine(ctx context.Context, tx usecase.Transaction, line *domain.LedgerLine) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO ledger_lines (id, account_id, debit, credit, entry_date, memo, batch_ref, entry_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		line.ID,
		line.AccountID,
		decimalToNumeric(line.Debit),
		decimalToNumeric(line.Credit),
		timeToPgTimestamptz(line.EntryDate),
		line.Memo,
		line.BatchRef,
		line.EntryType,
		line.CreatedBy,
		timeToPgTimestamptz(line.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return domain.ErrAccountNotFound
	}

	return err
}

// GetByBatchRef retrieves all lines of a batch in insertion order.
func (r *LedgerRepository) GetByBatchRef(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_lines
		WHERE batch_ref = $1
		ORDER BY created_at, id`, batchRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLedgerLines(rows)
}

// GetRecentByAccount retrieves the newest lines for an account.
func (r *LedgerRepository) GetRecentByAccount(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_lines
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLedgerLines(rows)
}

// SumByAccount sums debits and credits for one account, optionally up to a
// cutoff entry date (inclusive).
func (r *LedgerRepository) SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var cutoff pgtype.Timestamptz
	if asOf != nil {
		cutoff = timeToPgTimestamptz(*asOf)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_lines
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR entry_date <= $2)`, accountID, cutoff)

	return scanSums(row)
}

// SumAll sums debits and credits across the entire ledger.
func (r *LedgerRepository) SumAll(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_lines`)

	return scanSums(row)
}

// SumByAccountType sums debits and credits over every account of one type
// within an entry-date window (inclusive on both ends).
func (r *LedgerRepository) SumByAccountType(ctx context.Context, accountType domain.AccountType, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM ledger_lines l
		JOIN accounts a ON a.id = l.account_id
		WHERE a.type = $1
		  AND l.entry_date >= $2
		  AND l.entry_date <= $3`,
		string(accountType),
		timeToPgTimestamptz(from),
		timeToPgTimestamptz(to),
	)

	return scanSums(row)
}

// SumBankLinked sums debits and credits over the ledger accounts backing a
// bank account within an entry-date window (inclusive on both ends).
func (r *LedgerRepository) SumBankLinked(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM ledger_lines l
		JOIN bank_accounts b ON b.ledger_account_id = l.account_id
		WHERE l.entry_date >= $1
		  AND l.entry_date <= $2`,
		timeToPgTimestamptz(from),
		timeToPgTimestamptz(to),
	)

	return scanSums(row)
}

func scanSums(row rowScanner) (decimal.Decimal, decimal.Decimal, error) {
	var totalDebit, totalCredit pgtype.Numeric

	if err := row.Scan(&totalDebit, &totalCredit); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(totalDebit), numericToDecimal(totalCredit), nil
}

func scanLedgerLine(row rowScanner) (*domain.LedgerLine, error) {
	var (
		line      domain.LedgerLine
		debit     pgtype.Numeric
		credit    pgtype.Numeric
		entryDate pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&line.ID,
		&line.AccountID,
		&debit,
		&credit,
		&entryDate,
		&line.Memo,
		&line.BatchRef,
		&line.EntryType,
		&line.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	line.Debit = numericToDecimal(debit)
	line.Credit = numericToDecimal(credit)
	line.EntryDate = entryDate.Time
	line.CreatedAt = createdAt.Time

	return &line, nil
}

func scanLedgerLines(rows pgx.Rows) ([]*domain.LedgerLine, error) {
	var lines []*domain.LedgerLine
	for rows.Next() {
		line, err := scanLedgerLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
