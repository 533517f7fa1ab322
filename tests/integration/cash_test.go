package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/adapter/repository/postgres"
	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/tests/testutil"
)

func TestCashMovements(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	ledgerRepo := postgres.NewLedgerRepository(pool)
	bankRepo := postgres.NewBankAccountRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	postingUC := usecase.NewPostingUseCase(txManager, ledgerRepo, outboxRepo, idGen)
	cashUC := usecase.NewCashUseCase(txManager, bankRepo, postingUC, idGen).
		WithRetrier(postgres.NewRetrier())

	cash := testDB.CreateTestAccount(ctx, "1000", "Operating Cash", domain.AccountTypeAsset, domain.BalanceSideDebit)
	revenue := testDB.CreateTestAccount(ctx, "4000", "Sales Revenue", domain.AccountTypeRevenue, domain.BalanceSideCredit)
	expense := testDB.CreateTestAccount(ctx, "5000", "Rent Expense", domain.AccountTypeExpense, domain.BalanceSideDebit)
	bank := testDB.CreateTestBankAccount(ctx, "Operating Account", cash.ID)

	now := time.Now().UTC()

	t.Run("receipt raises the bank balance", func(t *testing.T) {
		batch, err := cashUC.RecordCashReceipt(ctx, usecase.CashMovementInput{
			Date:            now,
			Amount:          decimal.NewFromInt(900),
			Description:     "walk-in sale",
			BankAccountID:   bank.ID,
			CashAccountID:   cash.ID,
			OffsetAccountID: revenue.ID,
		})
		if err != nil {
			t.Fatalf("failed to record cash receipt: %v", err)
		}
		if batch.EntryType != usecase.EntryTypeCashReceipt {
			t.Errorf("expected entry type %s, got %s", usecase.EntryTypeCashReceipt, batch.EntryType)
		}

		got, err := bankRepo.GetByID(ctx, bank.ID)
		if err != nil {
			t.Fatalf("failed to get bank account: %v", err)
		}
		if !got.Balance.Equal(decimal.NewFromInt(900)) {
			t.Errorf("expected bank balance 900, got %s", got.Balance)
		}
	})

	t.Run("disbursement lowers the bank balance", func(t *testing.T) {
		_, err := cashUC.RecordCashDisbursement(ctx, usecase.CashMovementInput{
			Date:            now,
			Amount:          decimal.NewFromInt(400),
			Description:     "office rent",
			BankAccountID:   bank.ID,
			CashAccountID:   cash.ID,
			OffsetAccountID: expense.ID,
		})
		if err != nil {
			t.Fatalf("failed to record cash disbursement: %v", err)
		}

		got, err := bankRepo.GetByID(ctx, bank.ID)
		if err != nil {
			t.Fatalf("failed to get bank account: %v", err)
		}
		if !got.Balance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected bank balance 500, got %s", got.Balance)
		}
	})
}

func TestBankTransfer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	ledgerRepo := postgres.NewLedgerRepository(pool)
	bankRepo := postgres.NewBankAccountRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	postingUC := usecase.NewPostingUseCase(txManager, ledgerRepo, outboxRepo, idGen)
	cashUC := usecase.NewCashUseCase(txManager, bankRepo, postingUC, idGen).
		WithRetrier(postgres.NewRetrier())

	operating := testDB.CreateTestAccount(ctx, "1000", "Operating Cash", domain.AccountTypeAsset, domain.BalanceSideDebit)
	savings := testDB.CreateTestAccount(ctx, "1010", "Savings Cash", domain.AccountTypeAsset, domain.BalanceSideDebit)
	revenue := testDB.CreateTestAccount(ctx, "4000", "Sales Revenue", domain.AccountTypeRevenue, domain.BalanceSideCredit)

	sourceBank := testDB.CreateTestBankAccount(ctx, "Operating Account", operating.ID)
	targetBank := testDB.CreateTestBankAccount(ctx, "Savings Account", savings.ID)

	// Fund the source bank first.
	_, err := cashUC.RecordCashReceipt(ctx, usecase.CashMovementInput{
		Amount:          decimal.NewFromInt(1000),
		BankAccountID:   sourceBank.ID,
		CashAccountID:   operating.ID,
		OffsetAccountID: revenue.ID,
	})
	if err != nil {
		t.Fatalf("failed to fund source bank: %v", err)
	}

	batch, err := cashUC.RecordBankTransfer(ctx, usecase.BankTransferInput{
		Amount:              decimal.NewFromInt(350),
		Description:         "sweep to savings",
		SourceBankID:        sourceBank.ID,
		SourceCashAccountID: operating.ID,
		TargetBankID:        targetBank.ID,
		TargetCashAccountID: savings.ID,
	})
	if err != nil {
		t.Fatalf("failed to record bank transfer: %v", err)
	}

	lines, err := ledgerRepo.GetByBatchRef(ctx, batch.Ref)
	if err != nil {
		t.Fatalf("failed to fetch transfer entry: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 transfer lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line.Debit.IsPositive() && line.AccountID != savings.ID {
			t.Errorf("expected debit on target cash account, got %s", line.AccountID)
		}
		if line.Credit.IsPositive() && line.AccountID != operating.ID {
			t.Errorf("expected credit on source cash account, got %s", line.AccountID)
		}
	}

	source, err := bankRepo.GetByID(ctx, sourceBank.ID)
	if err != nil {
		t.Fatalf("failed to get source bank: %v", err)
	}
	if !source.Balance.Equal(decimal.NewFromInt(650)) {
		t.Errorf("expected source balance 650, got %s", source.Balance)
	}

	target, err := bankRepo.GetByID(ctx, targetBank.ID)
	if err != nil {
		t.Fatalf("failed to get target bank: %v", err)
	}
	if !target.Balance.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected target balance 350, got %s", target.Balance)
	}

	t.Run("transfer to the same bank is rejected", func(t *testing.T) {
		_, err := cashUC.RecordBankTransfer(ctx, usecase.BankTransferInput{
			Amount:              decimal.NewFromInt(10),
			SourceBankID:        sourceBank.ID,
			SourceCashAccountID: operating.ID,
			TargetBankID:        sourceBank.ID,
			TargetCashAccountID: savings.ID,
		})
		if !errors.Is(err, domain.ErrSameBankAccount) {
			t.Fatalf("expected ErrSameBankAccount, got %v", err)
		}
	})
}
