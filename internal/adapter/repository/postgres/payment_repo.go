package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, direction, party_id, date, amount, method, bank_account_id, reference, created_by, created_at`

// Create inserts a payment within a transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO payments (id, direction, party_id, date, amount, method, bank_account_id, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		payment.ID,
		string(payment.Direction),
		payment.PartyID,
		timeToPgTimestamptz(payment.Date),
		decimalToNumeric(payment.Amount),
		payment.Method,
		payment.BankAccountID,
		payment.Reference,
		payment.CreatedBy,
		timeToPgTimestamptz(payment.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return domain.ErrBankAccountNotFound
	}

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1`, id)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return payment, nil
}

// ListByParty lists a party's payments, newest first.
func (r *PaymentRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE party_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, partyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		payment   domain.Payment
		direction string
		date      pgtype.Timestamptz
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&payment.ID,
		&direction,
		&payment.PartyID,
		&date,
		&amount,
		&payment.Method,
		&payment.BankAccountID,
		&payment.Reference,
		&payment.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	payment.Direction = domain.PaymentDirection(direction)
	payment.Date = date.Time
	payment.Amount = numericToDecimal(amount)
	payment.CreatedAt = createdAt.Time

	return &payment, nil
}
