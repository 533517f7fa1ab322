package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
	"github.com/finbook/finbook/internal/usecase/mocks"
)

func seedAccount(t *testing.T, repo *mocks.MockAccountRepository, id, number, name string, accType domain.AccountType, side domain.BalanceSide) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Account{
		ID:            id,
		Number:        number,
		Name:          name,
		Type:          accType,
		NormalBalance: side,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("seed account %s: %v", number, err)
	}
}

func TestReportUseCase_TrialBalance(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	seedAccount(t, accountRepo, "acc-cash", "1000", "Cash", domain.AccountTypeAsset, domain.BalanceSideDebit)
	seedAccount(t, accountRepo, "acc-ar", "1100", "Accounts Receivable", domain.AccountTypeAsset, domain.BalanceSideDebit)
	seedAccount(t, accountRepo, "acc-rev", "4000", "Revenue", domain.AccountTypeRevenue, domain.BalanceSideCredit)

	now := time.Now().UTC()
	// Invoice for 127.50 followed by its cash collection.
	seedLine(t, ledgerRepo, "acc-ar", 200, 0, now)
	seedLine(t, ledgerRepo, "acc-rev", 0, 200, now)
	seedLine(t, ledgerRepo, "acc-cash", 200, 0, now)
	seedLine(t, ledgerRepo, "acc-ar", 0, 200, now)

	uc := usecase.NewReportUseCase(accountRepo, ledgerRepo, nil, zerolog.Nop())

	report, err := uc.TrialBalance(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(report.Rows))
	}
	if report.Rows[0].Number != "1000" || report.Rows[1].Number != "1100" || report.Rows[2].Number != "4000" {
		t.Error("expected rows in account number order")
	}
	if !report.Rows[0].Debit.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected Cash debit 200, got %s", report.Rows[0].Debit)
	}
	if !report.Rows[1].Debit.IsZero() || !report.Rows[1].Credit.IsZero() {
		t.Errorf("expected AR netted to zero, got %+v", report.Rows[1])
	}
	if !report.Rows[2].Credit.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected Revenue credit 200, got %s", report.Rows[2].Credit)
	}
	if !report.Balanced() {
		t.Errorf("trial balance out of balance: %s vs %s", report.TotalDebit, report.TotalCredit)
	}
}

func TestReportUseCase_TrialBalance_ContraFlipsColumn(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	// Credit-normal account driven into a debit position.
	seedAccount(t, accountRepo, "acc-rev", "4000", "Revenue", domain.AccountTypeRevenue, domain.BalanceSideCredit)
	seedAccount(t, accountRepo, "acc-cash", "1000", "Cash", domain.AccountTypeAsset, domain.BalanceSideDebit)

	now := time.Now().UTC()
	seedLine(t, ledgerRepo, "acc-rev", 80, 0, now)
	seedLine(t, ledgerRepo, "acc-cash", 0, 80, now)

	uc := usecase.NewReportUseCase(accountRepo, ledgerRepo, nil, zerolog.Nop())

	report, err := uc.TrialBalance(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var revRow, cashRow *usecase.TrialBalanceRow
	for i := range report.Rows {
		switch report.Rows[i].AccountID {
		case "acc-rev":
			revRow = &report.Rows[i]
		case "acc-cash":
			cashRow = &report.Rows[i]
		}
	}

	if revRow == nil || cashRow == nil {
		t.Fatal("missing rows")
	}
	if !revRow.Debit.Equal(decimal.NewFromInt(80)) || !revRow.Credit.IsZero() {
		t.Errorf("contra revenue must land in the debit column, got %+v", revRow)
	}
	if !cashRow.Credit.Equal(decimal.NewFromInt(80)) || !cashRow.Debit.IsZero() {
		t.Errorf("overdrawn cash must land in the credit column, got %+v", cashRow)
	}
	if !report.Balanced() {
		t.Error("columns must still agree after contra flips")
	}
}

func TestReportUseCase_TrialBalance_UsesCache(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	cache := mocks.NewMockCache()

	seedAccount(t, accountRepo, "acc-cash", "1000", "Cash", domain.AccountTypeAsset, domain.BalanceSideDebit)
	seedAccount(t, accountRepo, "acc-eq", "3000", "Equity", domain.AccountTypeEquity, domain.BalanceSideCredit)

	now := time.Now().UTC()
	seedLine(t, ledgerRepo, "acc-cash", 500, 0, now)
	seedLine(t, ledgerRepo, "acc-eq", 0, 500, now)

	uc := usecase.NewReportUseCase(accountRepo, ledgerRepo, cache, zerolog.Nop())

	first, err := uc.TrialBalance(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sumCalls := 0
	ledgerRepo.SumByAccountFunc = func(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
		sumCalls++
		return decimal.Zero, decimal.Zero, nil
	}

	second, err := uc.TrialBalance(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sumCalls != 0 {
		t.Errorf("expected cached report, ledger was summed %d times", sumCalls)
	}
	if !second.TotalDebit.Equal(first.TotalDebit) || !second.TotalCredit.Equal(first.TotalCredit) {
		t.Error("cached report differs from computed report")
	}
}

func TestReportUseCase_ProfitAndLoss(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	ledgerRepo.ClassifyAccount("acc-rev", domain.AccountTypeRevenue)
	ledgerRepo.ClassifyAccount("acc-exp", domain.AccountTypeExpense)
	ledgerRepo.ClassifyAccount("acc-cash", domain.AccountTypeAsset)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	inPeriod := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	afterPeriod := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	// Two sales, one refund, one expense inside the window.
	seedLine(t, ledgerRepo, "acc-cash", 500, 0, inPeriod)
	seedLine(t, ledgerRepo, "acc-rev", 0, 500, inPeriod)
	seedLine(t, ledgerRepo, "acc-cash", 300, 0, inPeriod)
	seedLine(t, ledgerRepo, "acc-rev", 0, 300, inPeriod)
	seedLine(t, ledgerRepo, "acc-rev", 100, 0, inPeriod)
	seedLine(t, ledgerRepo, "acc-cash", 0, 100, inPeriod)
	seedLine(t, ledgerRepo, "acc-exp", 250, 0, inPeriod)
	seedLine(t, ledgerRepo, "acc-cash", 0, 250, inPeriod)

	// Next month's sale must not bleed into the report.
	seedLine(t, ledgerRepo, "acc-cash", 999, 0, afterPeriod)
	seedLine(t, ledgerRepo, "acc-rev", 0, 999, afterPeriod)

	uc := usecase.NewReportUseCase(accountRepo, ledgerRepo, nil, zerolog.Nop())

	report, err := uc.ProfitAndLoss(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Revenue.Equal(decimal.NewFromInt(700)) {
		t.Errorf("expected revenue 700, got %s", report.Revenue)
	}
	if !report.Expenses.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected expenses 250, got %s", report.Expenses)
	}
	if !report.NetProfit.Equal(decimal.NewFromInt(450)) {
		t.Errorf("expected net profit 450, got %s", report.NetProfit)
	}
}

func TestReportUseCase_NetCashChange(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	ledgerRepo.LinkBankAccount("acc-cash")

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	inPeriod := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	beforePeriod := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	// Opening deposit lands before the window.
	seedLine(t, ledgerRepo, "acc-cash", 1000, 0, beforePeriod)
	seedLine(t, ledgerRepo, "acc-eq", 0, 1000, beforePeriod)

	// One collection and one disbursement in the window.
	seedLine(t, ledgerRepo, "acc-cash", 400, 0, inPeriod)
	seedLine(t, ledgerRepo, "acc-ar", 0, 400, inPeriod)
	seedLine(t, ledgerRepo, "acc-exp", 150, 0, inPeriod)
	seedLine(t, ledgerRepo, "acc-cash", 0, 150, inPeriod)

	uc := usecase.NewReportUseCase(accountRepo, ledgerRepo, nil, zerolog.Nop())

	report, err := uc.NetCashChange(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Inflows.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected inflows 400, got %s", report.Inflows)
	}
	if !report.Outflows.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected outflows 150, got %s", report.Outflows)
	}
	if !report.NetChange.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected net change 250, got %s", report.NetChange)
	}
}

func TestReportUseCase_CheckConsistency(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	uc := usecase.NewReportUseCase(accountRepo, ledgerRepo, nil, zerolog.Nop())

	now := time.Now().UTC()
	seedLine(t, ledgerRepo, "acc-1", 100, 0, now)
	seedLine(t, ledgerRepo, "acc-2", 0, 100, now)

	ok, err := uc.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("balanced ledger must pass the consistency check")
	}

	// A stray one-sided line breaks the invariant.
	seedLine(t, ledgerRepo, "acc-3", 1, 0, now)

	ok, err = uc.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unbalanced ledger must fail the consistency check")
	}
}
