package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// PaymentUseCase handles payment recording and allocation. Recording moves
// cash through the GL and the bank cache; allocation only flips subledger
// document status and touches no ledger rows.
type PaymentUseCase struct {
	txManager    TransactionManager
	paymentRepo  PaymentRepository
	documentRepo DocumentRepository
	bankRepo     BankAccountRepository
	poster       BatchPoster
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	paymentRepo PaymentRepository,
	documentRepo DocumentRepository,
	bankRepo BankAccountRepository,
	poster BatchPoster,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:    txManager,
		paymentRepo:  paymentRepo,
		documentRepo: documentRepo,
		bankRepo:     bankRepo,
		poster:       poster,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// WithRetrier enables retry on transient storage contention.
func (uc *PaymentUseCase) WithRetrier(r Retrier) *PaymentUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables payment metrics.
func (uc *PaymentUseCase) WithMetrics(m *metrics.Metrics) *PaymentUseCase {
	uc.metrics = m
	return uc
}

// RecordPaymentInput represents input for recording a payment.
// CashAccountID is the ledger account linked to the bank account;
// ControlAccountID is AR for receipts and AP for disbursements.
type RecordPaymentInput struct {
	Direction        domain.PaymentDirection
	PartyID          string
	Date             time.Time
	Amount           decimal.Decimal
	Method           string
	BankAccountID    string
	CashAccountID    string
	ControlAccountID string
	Reference        string
	CreatedBy        string
}

// RecordPayment persists the payment, posts the GL entry and adjusts the
// bank balance cache in one transaction. Receipts debit cash and credit the
// control account; disbursements do the opposite. The bank adjustment is a
// server-side increment, so concurrent payments never lose an update.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	if input.CashAccountID == input.ControlAccountID {
		return nil, domain.ErrSameAccount
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	payment := &domain.Payment{
		ID:            uc.idGen.Generate(),
		Direction:     input.Direction,
		PartyID:       input.PartyID,
		Date:          date,
		Amount:        input.Amount,
		Method:        input.Method,
		BankAccountID: input.BankAccountID,
		Reference:     input.Reference,
		CreatedBy:     input.CreatedBy,
		CreatedAt:     now,
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}

		delta := input.Amount
		lines := []domain.BatchLine{
			{AccountID: input.CashAccountID, Debit: input.Amount, Credit: decimal.Zero, Memo: paymentMemo(payment)},
			{AccountID: input.ControlAccountID, Debit: decimal.Zero, Credit: input.Amount, Memo: paymentMemo(payment)},
		}
		entryType := EntryTypeCustomerPayment

		if input.Direction == domain.PaymentDirectionDisbursement {
			delta = input.Amount.Neg()
			lines = []domain.BatchLine{
				{AccountID: input.ControlAccountID, Debit: input.Amount, Credit: decimal.Zero, Memo: paymentMemo(payment)},
				{AccountID: input.CashAccountID, Debit: decimal.Zero, Credit: input.Amount, Memo: paymentMemo(payment)},
			}
			entryType = EntryTypeVendorPayment
		}

		if err := uc.bankRepo.AdjustBalance(ctx, tx, input.BankAccountID, delta, now); err != nil {
			return err
		}

		_, err = uc.poster.PostBatchTx(ctx, tx, PostBatchInput{
			Lines:     lines,
			EntryDate: date,
			Ref:       "payment:" + payment.ID,
			EntryType: entryType,
			CreatedBy: input.CreatedBy,
		})
		if err != nil {
			return err
		}

		if err := uc.queueRecordedEvent(ctx, tx, payment, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.WithLabelValues(string(payment.Direction)).Inc()
		uc.metrics.PaymentAmount.Observe(payment.Amount.InexactFloat64())
	}

	return payment, nil
}

// ApplyPayment settles a document against an already recorded payment.
// Allocation is all-or-nothing: the payment must cover the full open
// balance. The document row is locked for the duration of the check and
// update, so two concurrent applications cannot both succeed.
func (uc *PaymentUseCase) ApplyPayment(ctx context.Context, paymentID, documentID string) (*domain.Document, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	var doc *domain.Document

	err = uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		doc, err = uc.documentRepo.GetByIDForUpdate(ctx, tx, documentID)
		if err != nil {
			return err
		}

		if err := doc.CanSettle(); err != nil {
			return err
		}

		if !payment.Covers(doc.Balance) {
			return domain.ErrInsufficientPayment
		}

		now := time.Now().UTC()

		doc.Settle()
		doc.UpdatedAt = now

		if err := uc.documentRepo.UpdateSettlement(ctx, tx, doc.ID, doc.Paid, doc.Balance, doc.Status, now); err != nil {
			return err
		}

		if err := uc.queuePaidEvent(ctx, tx, doc, payment, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DocumentsSettled.Inc()
	}

	return doc, nil
}

// GetPayment retrieves a payment by ID.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

// ListPaymentsByParty lists a party's payments, newest first.
func (uc *PaymentUseCase) ListPaymentsByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.paymentRepo.ListByParty(ctx, partyID, limit, offset)
}

func (uc *PaymentUseCase) queueRecordedEvent(ctx context.Context, tx Transaction, payment *domain.Payment, now time.Time) error {
	payload := domain.PaymentRecordedEvent{
		PaymentID: payment.ID,
		Direction: string(payment.Direction),
		PartyID:   payment.PartyID,
		Amount:    payment.Amount.String(),
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentRecorded,
		Payload:       toPayloadMap(payload),
		CreatedAt:     now,
	})
}

func (uc *PaymentUseCase) queuePaidEvent(ctx context.Context, tx Transaction, doc *domain.Document, payment *domain.Payment, now time.Time) error {
	payload := domain.DocumentPaidEvent{
		DocumentID: doc.ID,
		PaymentID:  payment.ID,
		Amount:     doc.Paid.String(),
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   doc.ID,
		AggregateType: domain.AggregateTypeDocument,
		EventType:     domain.EventTypeDocumentPaid,
		Payload:       toPayloadMap(payload),
		CreatedAt:     now,
	})
}

func (uc *PaymentUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

func paymentMemo(p *domain.Payment) string {
	if p.Reference != "" {
		return fmt.Sprintf("Payment %s (%s)", p.ID, p.Reference)
	}

	return "Payment " + p.ID
}
