package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// DocumentUseCase handles invoice and bill lifecycle. The two kinds share
// one code path; only the account sides and status names differ.
type DocumentUseCase struct {
	txManager    TransactionManager
	documentRepo DocumentRepository
	poster       BatchPoster
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewDocumentUseCase creates a new DocumentUseCase.
func NewDocumentUseCase(
	txManager TransactionManager,
	documentRepo DocumentRepository,
	poster BatchPoster,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *DocumentUseCase {
	return &DocumentUseCase{
		txManager:    txManager,
		documentRepo: documentRepo,
		poster:       poster,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// WithRetrier enables retry on transient storage contention.
func (uc *DocumentUseCase) WithRetrier(r Retrier) *DocumentUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables document metrics.
func (uc *DocumentUseCase) WithMetrics(m *metrics.Metrics) *DocumentUseCase {
	uc.metrics = m
	return uc
}

// CreateDocumentInput represents input for creating an invoice or a bill.
// PrimaryAccountID is the debit side of the opening entry (AR for invoices,
// an expense account for bills); CounterAccountID is the credit side
// (revenue for invoices, AP for bills).
type CreateDocumentInput struct {
	Kind             domain.DocumentKind
	PartyID          string
	Number           string
	IssueDate        time.Time
	DueDate          time.Time
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	TaxRate          decimal.Decimal
	PrimaryAccountID string
	CounterAccountID string
	CreatedBy        string
}

// CreateDocument creates the document, reserves its number and posts the
// opening GL entry, all in one transaction. Tax is folded into the single
// counter-account line rather than split to a dedicated tax account.
func (uc *DocumentUseCase) CreateDocument(ctx context.Context, input CreateDocumentInput) (*domain.Document, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidDocumentKind
	}

	if input.PrimaryAccountID == input.CounterAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateDocumentTerms(input.Quantity, input.UnitPrice, input.TaxRate); err != nil {
		return nil, err
	}

	_, tax, total := domain.ComputeDocumentTotals(input.Quantity, input.UnitPrice, input.TaxRate)

	var doc *domain.Document

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()

		number := input.Number
		if number == "" {
			seq, err := uc.documentRepo.NextNumber(ctx, tx, input.Kind)
			if err != nil {
				return err
			}

			number = fmt.Sprintf("%s-%04d", input.Kind.NumberPrefix(), seq)
		}

		itemAccountID := input.CounterAccountID
		if input.Kind == domain.DocumentKindBill {
			itemAccountID = input.PrimaryAccountID
		}

		doc = &domain.Document{
			ID:        uc.idGen.Generate(),
			Kind:      input.Kind,
			Number:    number,
			PartyID:   input.PartyID,
			IssueDate: input.IssueDate,
			DueDate:   input.DueDate,
			Total:     total,
			Paid:      decimal.Zero,
			Balance:   total,
			Status:    input.Kind.InitialStatus(),
			Item: domain.DocumentItem{
				Description: input.Description,
				Quantity:    input.Quantity,
				UnitPrice:   input.UnitPrice,
				TaxRate:     input.TaxRate,
				TaxAmount:   tax,
				LineTotal:   total,
				AccountID:   itemAccountID,
			},
			CreatedBy: input.CreatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := uc.documentRepo.Create(ctx, tx, doc); err != nil {
			return err
		}

		memo := fmt.Sprintf("%s %s", documentLabel(input.Kind), number)

		_, err = uc.poster.PostBatchTx(ctx, tx, PostBatchInput{
			Lines: []domain.BatchLine{
				{AccountID: input.PrimaryAccountID, Debit: total, Credit: decimal.Zero, Memo: memo},
				{AccountID: input.CounterAccountID, Debit: decimal.Zero, Credit: total, Memo: memo},
			},
			EntryDate: input.IssueDate,
			Ref:       documentBatchRef(input.Kind, doc.ID),
			EntryType: documentEntryType(input.Kind),
			CreatedBy: input.CreatedBy,
		})
		if err != nil {
			return err
		}

		if err := uc.queueCreatedEvent(ctx, tx, doc, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DocumentsCreated.WithLabelValues(string(doc.Kind)).Inc()
	}

	return doc, nil
}

// GetDocument retrieves a document by ID.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return uc.documentRepo.GetByID(ctx, id)
}

// ListOpenDocuments lists a party's unpaid documents ordered by due date.
func (uc *DocumentUseCase) ListOpenDocuments(ctx context.Context, kind domain.DocumentKind, partyID string) ([]*domain.Document, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidDocumentKind
	}

	return uc.documentRepo.ListOpenByParty(ctx, kind, partyID)
}

// TotalOutstanding sums open balances across all parties for one kind:
// total AR for invoices, total AP for bills.
func (uc *DocumentUseCase) TotalOutstanding(ctx context.Context, kind domain.DocumentKind) (decimal.Decimal, error) {
	if !kind.Valid() {
		return decimal.Zero, domain.ErrInvalidDocumentKind
	}

	return uc.documentRepo.SumOpenBalances(ctx, kind)
}

func (uc *DocumentUseCase) queueCreatedEvent(ctx context.Context, tx Transaction, doc *domain.Document, now time.Time) error {
	payload := domain.DocumentCreatedEvent{
		DocumentID: doc.ID,
		Kind:       string(doc.Kind),
		Number:     doc.Number,
		PartyID:    doc.PartyID,
		Total:      doc.Total.String(),
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   doc.ID,
		AggregateType: domain.AggregateTypeDocument,
		EventType:     domain.EventTypeDocumentCreated,
		Payload:       toPayloadMap(payload),
		CreatedAt:     now,
	})
}

func (uc *DocumentUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

func documentBatchRef(kind domain.DocumentKind, id string) string {
	return string(kind) + ":" + id
}

func documentEntryType(kind domain.DocumentKind) string {
	if kind == domain.DocumentKindBill {
		return EntryTypeVendorBill
	}

	return EntryTypeSalesInvoice
}

func documentLabel(kind domain.DocumentKind) string {
	if kind == domain.DocumentKindBill {
		return "Bill"
	}

	return "Invoice"
}
