package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

type voidFixture struct {
	uc         *usecase.VoidUseCase
	documents  *usecase.DocumentUseCase
	ledgerRepo *mocks.MockLedgerRepository
	outboxRepo *mocks.MockOutboxRepository
}

func newVoidFixture() *voidFixture {
	ledgerRepo := mocks.NewMockLedgerRepository()
	documentRepo := mocks.NewMockDocumentRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	poster := usecase.NewPostingUseCase(txMgr, ledgerRepo, outboxRepo, idGen)

	return &voidFixture{
		uc:         usecase.NewVoidUseCase(txMgr, documentRepo, poster, outboxRepo, idGen),
		documents:  usecase.NewDocumentUseCase(txMgr, documentRepo, poster, outboxRepo, idGen),
		ledgerRepo: ledgerRepo,
		outboxRepo: outboxRepo,
	}
}

func TestVoidUseCase_VoidInvoice(t *testing.T) {
	f := newVoidFixture()

	doc, err := f.documents.CreateDocument(context.Background(), invoiceInput())
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	voided, err := f.uc.VoidDocument(context.Background(), usecase.VoidDocumentInput{
		DocumentID:       doc.ID,
		ControlAccountID: "acc-ar",
		CounterAccountID: "acc-rev",
		VoidedBy:         "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if voided.Status != domain.DocumentStatusCancelled {
		t.Errorf("expected Cancelled, got %s", voided.Status)
	}
	if !voided.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", voided.Balance)
	}

	// Original entry is untouched; the reversal lands under its own ref.
	original, err := f.ledgerRepo.GetByBatchRef(context.Background(), "invoice:"+doc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(original) != 2 {
		t.Fatalf("original entry must survive, got %d lines", len(original))
	}

	reversal, err := f.ledgerRepo.GetByBatchRef(context.Background(), "void:invoice:"+doc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reversal) != 2 {
		t.Fatalf("expected 2 reversal lines, got %d", len(reversal))
	}
	if reversal[0].AccountID != "acc-ar" || !reversal[0].Credit.Equal(doc.Total) {
		t.Errorf("expected Cr AR %s, got %+v", doc.Total, reversal[0])
	}
	if reversal[1].AccountID != "acc-rev" || !reversal[1].Debit.Equal(doc.Total) {
		t.Errorf("expected Dr Revenue %s, got %+v", doc.Total, reversal[1])
	}
	if reversal[0].EntryType != usecase.EntryTypeInvoiceVoid {
		t.Errorf("expected InvoiceVoid entry type, got %s", reversal[0].EntryType)
	}

	// Net effect across both batches is zero per account.
	for _, accountID := range []string{"acc-ar", "acc-rev"} {
		d, c, err := f.ledgerRepo.SumByAccount(context.Background(), accountID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Equal(c) {
			t.Errorf("account %s not netted out: debit=%s credit=%s", accountID, d, c)
		}
	}
}

func TestVoidUseCase_VoidBill(t *testing.T) {
	f := newVoidFixture()

	doc, err := f.documents.CreateDocument(context.Background(), billInput())
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	_, err = f.uc.VoidDocument(context.Background(), usecase.VoidDocumentInput{
		DocumentID:       doc.ID,
		ControlAccountID: "acc-ap",
		CounterAccountID: "acc-exp",
		VoidedBy:         "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reversal, err := f.ledgerRepo.GetByBatchRef(context.Background(), "void:bill:"+doc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reversal) != 2 {
		t.Fatalf("expected 2 reversal lines, got %d", len(reversal))
	}
	if reversal[0].AccountID != "acc-exp" || !reversal[0].Credit.Equal(doc.Total) {
		t.Errorf("expected Cr Expense %s, got %+v", doc.Total, reversal[0])
	}
	if reversal[1].AccountID != "acc-ap" || !reversal[1].Debit.Equal(doc.Total) {
		t.Errorf("expected Dr AP %s, got %+v", doc.Total, reversal[1])
	}
}

func TestVoidUseCase_Rejections(t *testing.T) {
	t.Run("document with payments", func(t *testing.T) {
		f := newVoidFixture()

		doc, err := f.documents.CreateDocument(context.Background(), invoiceInput())
		if err != nil {
			t.Fatalf("create invoice: %v", err)
		}

		// Simulate a recorded allocation.
		doc.Paid = decimal.NewFromInt(50)

		_, err = f.uc.VoidDocument(context.Background(), usecase.VoidDocumentInput{
			DocumentID:       doc.ID,
			ControlAccountID: "acc-ar",
			CounterAccountID: "acc-rev",
		})
		if !errors.Is(err, domain.ErrCannotVoidSettled) {
			t.Errorf("expected ErrCannotVoidSettled, got %v", err)
		}
	})

	t.Run("already cancelled document", func(t *testing.T) {
		f := newVoidFixture()

		doc, err := f.documents.CreateDocument(context.Background(), invoiceInput())
		if err != nil {
			t.Fatalf("create invoice: %v", err)
		}

		input := usecase.VoidDocumentInput{
			DocumentID:       doc.ID,
			ControlAccountID: "acc-ar",
			CounterAccountID: "acc-rev",
		}

		if _, err := f.uc.VoidDocument(context.Background(), input); err != nil {
			t.Fatalf("first void: %v", err)
		}

		_, err = f.uc.VoidDocument(context.Background(), input)
		if !errors.Is(err, domain.ErrCannotVoidSettled) {
			t.Errorf("expected ErrCannotVoidSettled, got %v", err)
		}
	})

	t.Run("same control and counter account", func(t *testing.T) {
		f := newVoidFixture()

		_, err := f.uc.VoidDocument(context.Background(), usecase.VoidDocumentInput{
			DocumentID:       "doc-1",
			ControlAccountID: "acc-ar",
			CounterAccountID: "acc-ar",
		})
		if !errors.Is(err, domain.ErrSameAccount) {
			t.Errorf("expected ErrSameAccount, got %v", err)
		}
	})
}

func TestVoidUseCase_ReversalBatchShape(t *testing.T) {
	ctrl := gomock.NewController(t)

	documentRepo := mocks.NewMockDocumentRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	poster := mocks.NewMockBatchPoster(ctrl)

	doc := &domain.Document{
		ID:      "doc-1",
		Kind:    domain.DocumentKindInvoice,
		Number:  "INV-0007",
		Total:   decimal.NewFromFloat(78.90),
		Paid:    decimal.Zero,
		Balance: decimal.NewFromFloat(78.90),
		Status:  domain.DocumentStatusIssued,
	}
	if err := documentRepo.Create(context.Background(), nil, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	poster.EXPECT().
		PostBatchTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, input usecase.PostBatchInput) (*domain.PostingBatch, error) {
			if input.Ref != "void:invoice:doc-1" {
				t.Errorf("unexpected batch ref %s", input.Ref)
			}
			if input.EntryType != usecase.EntryTypeInvoiceVoid {
				t.Errorf("unexpected entry type %s", input.EntryType)
			}
			if err := domain.ValidateBatchLines(input.Lines); err != nil {
				t.Errorf("reversal batch invalid: %v", err)
			}
			return &domain.PostingBatch{Ref: input.Ref, EntryType: input.EntryType}, nil
		})

	uc := usecase.NewVoidUseCase(txMgr, documentRepo, poster, outboxRepo, idGen)

	_, err := uc.VoidDocument(context.Background(), usecase.VoidDocumentInput{
		DocumentID:       "doc-1",
		ControlAccountID: "acc-ar",
		CounterAccountID: "acc-rev",
		VoidedBy:         "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
