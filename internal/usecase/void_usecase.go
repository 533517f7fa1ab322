package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// VoidUseCase cancels documents. The original GL entry is never touched;
// a reversing batch with swapped sides is posted under a distinct reference,
// so both the mistake and its correction stay on the books.
type VoidUseCase struct {
	txManager    TransactionManager
	documentRepo DocumentRepository
	poster       BatchPoster
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewVoidUseCase creates a new VoidUseCase.
func NewVoidUseCase(
	txManager TransactionManager,
	documentRepo DocumentRepository,
	poster BatchPoster,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *VoidUseCase {
	return &VoidUseCase{
		txManager:    txManager,
		documentRepo: documentRepo,
		poster:       poster,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// WithRetrier enables retry on transient storage contention.
func (uc *VoidUseCase) WithRetrier(r Retrier) *VoidUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables void metrics.
func (uc *VoidUseCase) WithMetrics(m *metrics.Metrics) *VoidUseCase {
	uc.metrics = m
	return uc
}

// VoidDocumentInput represents input for voiding a document.
// ControlAccountID is the subledger control side (AR for invoices, AP for
// bills); CounterAccountID is the income or expense side of the original
// entry (revenue for invoices, the expense account for bills).
type VoidDocumentInput struct {
	DocumentID       string
	ControlAccountID string
	CounterAccountID string
	VoidedBy         string
}

// VoidDocument cancels an unpaid document and posts its reversing entry.
// Documents with any recorded payment are rejected; zero-total documents
// are cancelled without a GL entry.
func (uc *VoidUseCase) VoidDocument(ctx context.Context, input VoidDocumentInput) (*domain.Document, error) {
	if input.ControlAccountID == input.CounterAccountID {
		return nil, domain.ErrSameAccount
	}

	var doc *domain.Document

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		doc, err = uc.documentRepo.GetByIDForUpdate(ctx, tx, input.DocumentID)
		if err != nil {
			return err
		}

		if err := doc.CanVoid(); err != nil {
			return err
		}

		now := time.Now().UTC()

		doc.Cancel()
		doc.UpdatedAt = now

		if err := uc.documentRepo.UpdateSettlement(ctx, tx, doc.ID, doc.Paid, doc.Balance, doc.Status, now); err != nil {
			return err
		}

		if doc.Total.IsPositive() {
			if err := uc.postReversal(ctx, tx, doc, input, now); err != nil {
				return err
			}
		}

		if err := uc.queueVoidedEvent(ctx, tx, doc, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DocumentsVoided.WithLabelValues(string(doc.Kind)).Inc()
	}

	return doc, nil
}

// postReversal swaps the sides of the original opening entry. An invoice
// opened with Dr AR / Cr Revenue reverses as Dr Revenue / Cr AR; a bill
// opened with Dr Expense / Cr AP reverses as Dr AP / Cr Expense.
func (uc *VoidUseCase) postReversal(ctx context.Context, tx Transaction, doc *domain.Document, input VoidDocumentInput, now time.Time) error {
	memo := fmt.Sprintf("Void %s %s", documentLabel(doc.Kind), doc.Number)

	original := []domain.BatchLine{
		{AccountID: input.ControlAccountID, Debit: doc.Total, Credit: decimal.Zero, Memo: memo},
		{AccountID: input.CounterAccountID, Debit: decimal.Zero, Credit: doc.Total, Memo: memo},
	}
	if doc.Kind == domain.DocumentKindBill {
		original = []domain.BatchLine{
			{AccountID: input.CounterAccountID, Debit: doc.Total, Credit: decimal.Zero, Memo: memo},
			{AccountID: input.ControlAccountID, Debit: decimal.Zero, Credit: doc.Total, Memo: memo},
		}
	}

	reversed := make([]domain.BatchLine, 0, len(original))
	for _, l := range original {
		reversed = append(reversed, l.Reversed())
	}

	_, err := uc.poster.PostBatchTx(ctx, tx, PostBatchInput{
		Lines:     reversed,
		EntryDate: now,
		Ref:       voidBatchRef(doc.Kind, doc.ID),
		EntryType: voidEntryType(doc.Kind),
		CreatedBy: input.VoidedBy,
	})

	return err
}

func (uc *VoidUseCase) queueVoidedEvent(ctx context.Context, tx Transaction, doc *domain.Document, now time.Time) error {
	payload := domain.DocumentVoidedEvent{
		DocumentID: doc.ID,
		Number:     doc.Number,
		Total:      doc.Total.String(),
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   doc.ID,
		AggregateType: domain.AggregateTypeDocument,
		EventType:     domain.EventTypeDocumentVoided,
		Payload:       toPayloadMap(payload),
		CreatedAt:     now,
	})
}

func (uc *VoidUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

func voidBatchRef(kind domain.DocumentKind, id string) string {
	return "void:" + string(kind) + ":" + id
}

func voidEntryType(kind domain.DocumentKind) string {
	if kind == domain.DocumentKindBill {
		return EntryTypeBillVoid
	}

	return EntryTypeInvoiceVoid
}
