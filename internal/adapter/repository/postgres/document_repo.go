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

// DocumentRepository implements usecase.DocumentRepository.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

const documentColumns = `id, kind, number, party_id, issue_date, due_date, total, paid, balance, status,
	item_description, item_quantity, item_unit_price, item_tax_rate, item_tax_amount, item_line_total, item_account_id,
	created_by, created_at, updated_at`

// Create inserts a document within a transaction.
func (r *DocumentRepository) Create(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO documents (id, kind, number, party_id, issue_date, due_date, total, paid, balance, status,
			item_description, item_quantity, item_unit_price, item_tax_rate, item_tax_amount, item_line_total, item_account_id,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		doc.ID,
		string(doc.Kind),
		doc.Number,
		doc.PartyID,
		timeToPgTimestamptz(doc.IssueDate),
		timeToPgTimestamptz(doc.DueDate),
		decimalToNumeric(doc.Total),
		decimalToNumeric(doc.Paid),
		decimalToNumeric(doc.Balance),
		string(doc.Status),
		doc.Item.Description,
		decimalToNumeric(doc.Item.Quantity),
		decimalToNumeric(doc.Item.UnitPrice),
		decimalToNumeric(doc.Item.TaxRate),
		decimalToNumeric(doc.Item.TaxAmount),
		decimalToNumeric(doc.Item.LineTotal),
		doc.Item.AccountID,
		doc.CreatedBy,
		timeToPgTimestamptz(doc.CreatedAt),
		timeToPgTimestamptz(doc.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateDocumentNumber
	}

	return err
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1`, id)

	return scanDocumentRow(row)
}

// GetByIDForUpdate retrieves a document with a FOR UPDATE row lock, so
// settlement and void checks run against a stable row.
func (r *DocumentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Document, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1
		FOR UPDATE`, id)

	return scanDocumentRow(row)
}

// NextNumber reserves the next sequence value for a document kind. The
// counter row is updated in place, so concurrent reservations serialize on
// the row lock and no two documents can observe the same value.
func (r *DocumentRepository) NextNumber(ctx context.Context, tx usecase.Transaction, kind domain.DocumentKind) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var next int64
	err := pgxTx.QueryRow(ctx, `
		UPDATE document_counters
		SET last_value = last_value + 1
		WHERE kind = $1
		RETURNING last_value`, string(kind)).Scan(&next)
	if err != nil {
		return 0, err
	}

	return next, nil
}

// ListOpenByParty lists a party's open documents ordered by due date.
func (r *DocumentRepository) ListOpenByParty(ctx context.Context, kind domain.DocumentKind, partyID string) ([]*domain.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE kind = $1
		  AND party_id = $2
		  AND status NOT IN ('Paid', 'Cancelled', 'Draft')
		  AND balance > 0
		ORDER BY due_date`, string(kind), partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateSettlement writes the settlement fields of a document.
func (r *DocumentRepository) UpdateSettlement(ctx context.Context, tx usecase.Transaction, id string, paid, balance decimal.Decimal, status domain.DocumentStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE documents
		SET paid = $2, balance = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		id,
		decimalToNumeric(paid),
		decimalToNumeric(balance),
		string(status),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

// SumOpenBalances sums open balances across all parties for one kind.
func (r *DocumentRepository) SumOpenBalances(ctx context.Context, kind domain.DocumentKind) (decimal.Decimal, error) {
	var total pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance), 0)
		FROM documents
		WHERE kind = $1
		  AND status NOT IN ('Paid', 'Cancelled', 'Draft')
		  AND balance > 0`, string(kind)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func scanDocumentRow(row rowScanner) (*domain.Document, error) {
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}

		return nil, err
	}

	return doc, nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc       domain.Document
		kind      string
		status    string
		issueDate pgtype.Timestamptz
		dueDate   pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz

		total, paid, balance                            pgtype.Numeric
		quantity, unitPrice, taxRate, taxAmt, lineTotal pgtype.Numeric
	)

	err := row.Scan(
		&doc.ID,
		&kind,
		&doc.Number,
		&doc.PartyID,
		&issueDate,
		&dueDate,
		&total,
		&paid,
		&balance,
		&status,
		&doc.Item.Description,
		&quantity,
		&unitPrice,
		&taxRate,
		&taxAmt,
		&lineTotal,
		&doc.Item.AccountID,
		&doc.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Kind = domain.DocumentKind(kind)
	doc.Status = domain.DocumentStatus(status)
	doc.IssueDate = issueDate.Time
	doc.DueDate = dueDate.Time
	doc.Total = numericToDecimal(total)
	doc.Paid = numericToDecimal(paid)
	doc.Balance = numericToDecimal(balance)
	doc.Item.Quantity = numericToDecimal(quantity)
	doc.Item.UnitPrice = numericToDecimal(unitPrice)
	doc.Item.TaxRate = numericToDecimal(taxRate)
	doc.Item.TaxAmount = numericToDecimal(taxAmt)
	doc.Item.LineTotal = numericToDecimal(lineTotal)
	doc.CreatedAt = createdAt.Time
	doc.UpdatedAt = updatedAt.Time

	return &doc, nil
}
