package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/adapter/repository/postgres"
	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/tests/testutil"
)

func TestVoidDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	bankRepo := postgres.NewBankAccountRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	postingUC := usecase.NewPostingUseCase(txManager, ledgerRepo, outboxRepo, idGen)
	documentUC := usecase.NewDocumentUseCase(txManager, documentRepo, postingUC, outboxRepo, idGen).WithRetrier(retrier)
	voidUC := usecase.NewVoidUseCase(txManager, documentRepo, postingUC, outboxRepo, idGen).WithRetrier(retrier)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, ledgerRepo, bankRepo, zerolog.Nop())

	receivable := testDB.CreateTestAccount(ctx, "1200", "Accounts Receivable", domain.AccountTypeAsset, domain.BalanceSideDebit)
	revenue := testDB.CreateTestAccount(ctx, "4000", "Sales Revenue", domain.AccountTypeRevenue, domain.BalanceSideCredit)

	now := time.Now().UTC()

	invoice, err := documentUC.CreateDocument(ctx, usecase.CreateDocumentInput{
		Kind:             domain.DocumentKindInvoice,
		PartyID:          "customer-1",
		IssueDate:        now,
		DueDate:          now.AddDate(0, 1, 0),
		Description:      "retainer",
		Quantity:         decimal.NewFromInt(1),
		UnitPrice:        decimal.NewFromInt(400),
		PrimaryAccountID: receivable.ID,
		CounterAccountID: revenue.ID,
	})
	if err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}

	doc, err := voidUC.VoidDocument(ctx, usecase.VoidDocumentInput{
		DocumentID:       invoice.ID,
		ControlAccountID: receivable.ID,
		CounterAccountID: revenue.ID,
	})
	if err != nil {
		t.Fatalf("failed to void document: %v", err)
	}

	if doc.Status != domain.DocumentStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.DocumentStatusCancelled, doc.Status)
	}
	if !doc.Balance.IsZero() {
		t.Errorf("expected zero balance after void, got %s", doc.Balance)
	}

	t.Run("reversing entry swaps the original sides", func(t *testing.T) {
		lines, err := ledgerRepo.GetByBatchRef(ctx, "void:invoice:"+invoice.ID)
		if err != nil {
			t.Fatalf("failed to fetch reversing entry: %v", err)
		}
		if len(lines) != 2 {
			t.Fatalf("expected 2 reversing lines, got %d", len(lines))
		}
		for _, line := range lines {
			if line.Debit.IsPositive() && line.AccountID != revenue.ID {
				t.Errorf("expected debit on revenue account, got %s", line.AccountID)
			}
			if line.Credit.IsPositive() && line.AccountID != receivable.ID {
				t.Errorf("expected credit on receivable account, got %s", line.AccountID)
			}
		}
	})

	t.Run("account balances return to zero", func(t *testing.T) {
		balance, err := balanceUC.AccountBalance(ctx, receivable.ID, nil)
		if err != nil {
			t.Fatalf("failed to get balance: %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("expected zero receivable balance, got %s", balance)
		}

		balance, err = balanceUC.AccountBalance(ctx, revenue.ID, nil)
		if err != nil {
			t.Fatalf("failed to get balance: %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("expected zero revenue balance, got %s", balance)
		}
	})

	t.Run("voided event lands in the outbox", func(t *testing.T) {
		events, err := outboxRepo.GetUnpublished(ctx, 50)
		if err != nil {
			t.Fatalf("failed to get unpublished events: %v", err)
		}

		found := false
		for _, event := range events {
			if event.EventType == domain.EventTypeDocumentVoided && event.AggregateID == invoice.ID {
				found = true
				break
			}
		}
		if !found {
			t.Error("document voided event not found in outbox")
		}
	})

	t.Run("void is not repeatable", func(t *testing.T) {
		_, err := voidUC.VoidDocument(ctx, usecase.VoidDocumentInput{
			DocumentID:       invoice.ID,
			ControlAccountID: receivable.ID,
			CounterAccountID: revenue.ID,
		})
		if err == nil {
			t.Fatal("expected error voiding a cancelled document")
		}
	})
}

func TestVoidSettledDocumentRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	ledgerRepo := postgres.NewLedgerRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	bankRepo := postgres.NewBankAccountRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	postingUC := usecase.NewPostingUseCase(txManager, ledgerRepo, outboxRepo, idGen)
	documentUC := usecase.NewDocumentUseCase(txManager, documentRepo, postingUC, outboxRepo, idGen)
	paymentUC := usecase.NewPaymentUseCase(txManager, paymentRepo, documentRepo, bankRepo, postingUC, outboxRepo, idGen)
	voidUC := usecase.NewVoidUseCase(txManager, documentRepo, postingUC, outboxRepo, idGen)

	cash := testDB.CreateTestAccount(ctx, "1000", "Operating Cash", domain.AccountTypeAsset, domain.BalanceSideDebit)
	receivable := testDB.CreateTestAccount(ctx, "1200", "Accounts Receivable", domain.AccountTypeAsset, domain.BalanceSideDebit)
	revenue := testDB.CreateTestAccount(ctx, "4000", "Sales Revenue", domain.AccountTypeRevenue, domain.BalanceSideCredit)
	bank := testDB.CreateTestBankAccount(ctx, "Operating Account", cash.ID)

	now := time.Now().UTC()

	invoice, err := documentUC.CreateDocument(ctx, usecase.CreateDocumentInput{
		Kind:             domain.DocumentKindInvoice,
		PartyID:          "customer-1",
		IssueDate:        now,
		DueDate:          now.AddDate(0, 1, 0),
		Description:      "retainer",
		Quantity:         decimal.NewFromInt(1),
		UnitPrice:        decimal.NewFromInt(400),
		PrimaryAccountID: receivable.ID,
		CounterAccountID: revenue.ID,
	})
	if err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}

	payment, err := paymentUC.RecordPayment(ctx, usecase.RecordPaymentInput{
		Direction:        domain.PaymentDirectionReceipt,
		PartyID:          "customer-1",
		Amount:           decimal.NewFromInt(400),
		BankAccountID:    bank.ID,
		CashAccountID:    cash.ID,
		ControlAccountID: receivable.ID,
	})
	if err != nil {
		t.Fatalf("failed to record payment: %v", err)
	}

	if _, err := paymentUC.ApplyPayment(ctx, payment.ID, invoice.ID); err != nil {
		t.Fatalf("failed to apply payment: %v", err)
	}

	_, err = voidUC.VoidDocument(ctx, usecase.VoidDocumentInput{
		DocumentID:       invoice.ID,
		ControlAccountID: receivable.ID,
		CounterAccountID: revenue.ID,
	})
	if !errors.Is(err, domain.ErrCannotVoidSettled) {
		t.Fatalf("expected ErrCannotVoidSettled, got %v", err)
	}
}
