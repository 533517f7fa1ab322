package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

func newPostingUseCase() (*usecase.PostingUseCase, *mocks.MockLedgerRepository, *mocks.MockOutboxRepository) {
	ledgerRepo := mocks.NewMockLedgerRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	uc := usecase.NewPostingUseCase(txMgr, ledgerRepo, outboxRepo, idGen)

	return uc, ledgerRepo, outboxRepo
}

func TestPostingUseCase_PostBatch(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.PostBatchInput
		expectError error
		expectLines int
	}{
		{
			name: "balanced two-line batch",
			input: usecase.PostBatchInput{
				Lines: []domain.BatchLine{
					{AccountID: "acc-ar", Debit: decimal.NewFromFloat(127.50)},
					{AccountID: "acc-rev", Credit: decimal.NewFromFloat(127.50)},
				},
				Ref:       "invoice:doc-1",
				EntryType: usecase.EntryTypeSalesInvoice,
				CreatedBy: "user-1",
			},
			expectLines: 2,
		},
		{
			name: "split credit batch",
			input: usecase.PostBatchInput{
				Lines: []domain.BatchLine{
					{AccountID: "acc-cash", Debit: decimal.NewFromInt(300)},
					{AccountID: "acc-rev", Credit: decimal.NewFromInt(250)},
					{AccountID: "acc-tax", Credit: decimal.NewFromInt(50)},
				},
			},
			expectLines: 3,
		},
		{
			name: "unbalanced batch is rejected",
			input: usecase.PostBatchInput{
				Lines: []domain.BatchLine{
					{AccountID: "acc-1", Debit: decimal.NewFromInt(100)},
					{AccountID: "acc-2", Credit: decimal.NewFromInt(90)},
				},
			},
			expectError: domain.ErrUnbalancedBatch,
		},
		{
			name:        "empty batch is rejected",
			input:       usecase.PostBatchInput{},
			expectError: domain.ErrEmptyBatch,
		},
		{
			name: "negative amount is rejected",
			input: usecase.PostBatchInput{
				Lines: []domain.BatchLine{
					{AccountID: "acc-1", Debit: decimal.NewFromInt(-100)},
					{AccountID: "acc-2", Credit: decimal.NewFromInt(-100)},
				},
			},
			expectError: domain.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, ledgerRepo, outboxRepo := newPostingUseCase()

			batch, err := uc.PostBatch(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				if len(ledgerRepo.Lines()) != 0 {
					t.Error("rejected batch must not write any lines")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(batch.Lines) != tt.expectLines {
				t.Errorf("expected %d lines, got %d", tt.expectLines, len(batch.Lines))
			}
			if !batch.TotalDebit().Equal(batch.TotalCredit()) {
				t.Errorf("persisted batch out of balance: %s vs %s", batch.TotalDebit(), batch.TotalCredit())
			}

			events := outboxRepo.Events()
			if len(events) != 1 || events[0].EventType != domain.EventTypeBatchPosted {
				t.Errorf("expected one batch.posted event, got %d", len(events))
			}
		})
	}
}

func TestPostingUseCase_PostBatch_GeneratesRef(t *testing.T) {
	uc, _, _ := newPostingUseCase()

	batch, err := uc.PostBatch(context.Background(), usecase.PostBatchInput{
		Lines: []domain.BatchLine{
			{AccountID: "acc-1", Debit: decimal.NewFromInt(10)},
			{AccountID: "acc-2", Credit: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if batch.Ref == "" {
		t.Fatal("expected a generated batch reference")
	}
	if batch.EntryType != usecase.EntryTypeManualJournal {
		t.Errorf("expected default entry type, got %s", batch.EntryType)
	}
	for _, line := range batch.Lines {
		if line.BatchRef != batch.Ref {
			t.Errorf("line carries ref %s, want %s", line.BatchRef, batch.Ref)
		}
	}
}

func TestPostingUseCase_PostJournalEntry(t *testing.T) {
	t.Run("posts one debit and one credit line", func(t *testing.T) {
		uc, ledgerRepo, _ := newPostingUseCase()

		batch, err := uc.PostJournalEntry(context.Background(), usecase.JournalEntryInput{
			Description:     "Owner capital contribution",
			DebitAccountID:  "acc-cash",
			CreditAccountID: "acc-equity",
			Amount:          decimal.NewFromInt(5000),
			CreatedBy:       "user-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := ledgerRepo.Lines()
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !lines[0].Debit.Equal(decimal.NewFromInt(5000)) || lines[0].AccountID != "acc-cash" {
			t.Errorf("unexpected debit line: %+v", lines[0])
		}
		if !lines[1].Credit.Equal(decimal.NewFromInt(5000)) || lines[1].AccountID != "acc-equity" {
			t.Errorf("unexpected credit line: %+v", lines[1])
		}
		if !batch.TotalDebit().Equal(batch.TotalCredit()) {
			t.Error("journal entry out of balance")
		}
	})

	t.Run("rejects same account on both sides", func(t *testing.T) {
		uc, _, _ := newPostingUseCase()

		_, err := uc.PostJournalEntry(context.Background(), usecase.JournalEntryInput{
			DebitAccountID:  "acc-1",
			CreditAccountID: "acc-1",
			Amount:          decimal.NewFromInt(100),
		})
		if !errors.Is(err, domain.ErrSameAccount) {
			t.Errorf("expected ErrSameAccount, got %v", err)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		uc, _, _ := newPostingUseCase()

		_, err := uc.PostJournalEntry(context.Background(), usecase.JournalEntryInput{
			DebitAccountID:  "acc-1",
			CreditAccountID: "acc-2",
			Amount:          decimal.Zero,
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestPostingUseCase_PostBatch_RollbackOnLineFailure(t *testing.T) {
	ledgerRepo := mocks.NewMockLedgerRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	storageErr := errors.New("write failed")
	calls := 0
	ledgerRepo.CreateLineFunc = func(ctx context.Context, tx usecase.Transaction, line *domain.LedgerLine) error {
		calls++
		if calls == 2 {
			return storageErr
		}
		return nil
	}

	rolledBack := false
	committed := false
	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc:   func(ctx context.Context) error { committed = true; return nil },
			RollbackFunc: func(ctx context.Context) error { rolledBack = true; return nil },
		}, nil
	}

	uc := usecase.NewPostingUseCase(txMgr, ledgerRepo, outboxRepo, idGen)

	_, err := uc.PostBatch(context.Background(), usecase.PostBatchInput{
		Lines: []domain.BatchLine{
			{AccountID: "acc-1", Debit: decimal.NewFromInt(100)},
			{AccountID: "acc-2", Credit: decimal.NewFromInt(100)},
		},
	})

	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if committed {
		t.Error("failed batch must not commit")
	}
	if !rolledBack {
		t.Error("failed batch must roll back")
	}
}
