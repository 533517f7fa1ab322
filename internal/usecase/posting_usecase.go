package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// PostingUseCase is the single write path into the general ledger. Every
// financial event in the system, manual or document-driven, lands here as a
// balanced batch of lines.
type PostingUseCase struct {
	txManager  TransactionManager
	ledgerRepo LedgerRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// WithRetrier enables retry on transient storage contention.
func (uc *PostingUseCase) WithRetrier(r Retrier) *PostingUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables posting metrics.
func (uc *PostingUseCase) WithMetrics(m *metrics.Metrics) *PostingUseCase {
	uc.metrics = m
	return uc
}

// PostBatchInput represents input for posting a batch of ledger lines.
type PostBatchInput struct {
	Lines     []domain.BatchLine
	EntryDate time.Time
	Ref       string
	EntryType string
	CreatedBy string
}

// PostBatch validates and persists a batch in its own transaction.
func (uc *PostingUseCase) PostBatch(ctx context.Context, input PostBatchInput) (*domain.PostingBatch, error) {
	var batch *domain.PostingBatch

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		batch, err = uc.PostBatchTx(ctx, tx, input)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PostingErrors.WithLabelValues(postingErrorType(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BatchesPosted.Inc()
		uc.metrics.LinesWritten.Add(float64(len(batch.Lines)))
		uc.metrics.BatchAmount.Observe(batch.TotalDebit().InexactFloat64())
	}

	return batch, nil
}

// PostBatchTx validates and persists a batch inside a caller-owned
// transaction. All lines are written or none are; there is no way to land a
// half batch. An outbox event is queued in the same transaction.
func (uc *PostingUseCase) PostBatchTx(ctx context.Context, tx Transaction, input PostBatchInput) (*domain.PostingBatch, error) {
	if err := domain.ValidateBatchLines(input.Lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entryDate := input.EntryDate
	if entryDate.IsZero() {
		entryDate = now
	}

	ref := input.Ref
	if ref == "" {
		ref = "je:" + uc.idGen.Generate()
	}

	entryType := input.EntryType
	if entryType == "" {
		entryType = EntryTypeManualJournal
	}

	batch := &domain.PostingBatch{
		Ref:       ref,
		EntryType: entryType,
		EntryDate: entryDate,
	}

	for _, bl := range input.Lines {
		line := &domain.LedgerLine{
			ID:        uc.idGen.Generate(),
			AccountID: bl.AccountID,
			Debit:     bl.Debit,
			Credit:    bl.Credit,
			EntryDate: entryDate,
			Memo:      bl.Memo,
			BatchRef:  ref,
			EntryType: entryType,
			CreatedBy: input.CreatedBy,
			CreatedAt: now,
		}

		if err := uc.ledgerRepo.CreateLine(ctx, tx, line); err != nil {
			return nil, err
		}

		batch.Lines = append(batch.Lines, line)
	}

	if err := uc.queueBatchPostedEvent(ctx, tx, batch, now); err != nil {
		return nil, err
	}

	return batch, nil
}

// JournalEntryInput represents input for a simple two-line journal entry.
type JournalEntryInput struct {
	EntryDate       time.Time
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	Ref             string
	CreatedBy       string
}

// PostJournalEntry posts a manual two-line entry: one debit, one credit.
func (uc *PostingUseCase) PostJournalEntry(ctx context.Context, input JournalEntryInput) (*domain.PostingBatch, error) {
	if input.DebitAccountID == input.CreditAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	return uc.PostBatch(ctx, PostBatchInput{
		Lines: []domain.BatchLine{
			{AccountID: input.DebitAccountID, Debit: input.Amount, Credit: decimal.Zero, Memo: input.Description},
			{AccountID: input.CreditAccountID, Debit: decimal.Zero, Credit: input.Amount, Memo: input.Description},
		},
		EntryDate: input.EntryDate,
		Ref:       input.Ref,
		EntryType: EntryTypeManualJournal,
		CreatedBy: input.CreatedBy,
	})
}

// GetBatch returns the persisted lines of a batch by reference.
func (uc *PostingUseCase) GetBatch(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error) {
	return uc.ledgerRepo.GetByBatchRef(ctx, batchRef)
}

func (uc *PostingUseCase) queueBatchPostedEvent(ctx context.Context, tx Transaction, batch *domain.PostingBatch, now time.Time) error {
	payload := domain.BatchPostedEvent{
		BatchRef:    batch.Ref,
		EntryType:   batch.EntryType,
		LineCount:   len(batch.Lines),
		TotalDebit:  batch.TotalDebit().String(),
		TotalCredit: batch.TotalCredit().String(),
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   batch.Ref,
		AggregateType: domain.AggregateTypeBatch,
		EventType:     domain.EventTypeBatchPosted,
		Payload:       toPayloadMap(payload),
		CreatedAt:     now,
	})
}

func postingErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnbalancedBatch):
		return "unbalanced"
	case errors.Is(err, domain.ErrEmptyBatch):
		return "empty"
	case errors.Is(err, domain.ErrNegativeAmount), errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "storage"
	}
}

func (uc *PostingUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

// toPayloadMap round-trips a typed event payload through JSON into the
// generic map shape stored in the outbox table.
func toPayloadMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}

	return m
}
