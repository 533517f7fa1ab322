package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

const trialBalanceCacheTTL = 30 * time.Second

// ReportUseCase produces ledger-wide reports.
type ReportUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	cache       Cache
	logger      zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase. Cache may be nil; reports
// are then recomputed on every call.
func NewReportUseCase(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	cache Cache,
	logger zerolog.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
		logger:      logger,
	}
}

// TrialBalanceRow is one account's line in the trial balance.
type TrialBalanceRow struct {
	AccountID string          `json:"account_id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every active account's oriented balance placed in
// its normal-balance column, with grand totals.
type TrialBalanceReport struct {
	AsOf        *time.Time        `json:"as_of,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

// Balanced reports whether the two columns agree.
func (r *TrialBalanceReport) Balanced() bool {
	return r.TotalDebit.Equal(r.TotalCredit)
}

// TrialBalance computes the trial balance over active accounts in account
// number order, optionally as of a cutoff date. A contra account (negative
// oriented balance) lands in the opposite column with the sign flipped, so
// both columns stay non-negative.
func (uc *ReportUseCase) TrialBalance(ctx context.Context, asOf *time.Time) (*TrialBalanceReport, error) {
	cacheKey := trialBalanceCacheKey(asOf)

	if cached := uc.cachedReport(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	accounts, err := uc.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &TrialBalanceReport{
		AsOf:        asOf,
		Rows:        make([]TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, account := range accounts {
		totalDebit, totalCredit, err := uc.ledgerRepo.SumByAccount(ctx, account.ID, asOf)
		if err != nil {
			return nil, err
		}

		balance := account.BalanceFromSums(totalDebit, totalCredit)

		row := TrialBalanceRow{
			AccountID: account.ID,
			Number:    account.Number,
			Name:      account.Name,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}

		side := account.NormalBalance
		if balance.IsNegative() {
			balance = balance.Neg()
			side = side.Opposite()
		}

		if side == domain.BalanceSideDebit {
			row.Debit = balance
		} else {
			row.Credit = balance
		}

		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	uc.storeReport(ctx, cacheKey, report)

	return report, nil
}

// ProfitAndLossReport summarizes revenue against expenses for a period.
type ProfitAndLossReport struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetProfit decimal.Decimal `json:"net_profit"`
}

// ProfitAndLoss computes period revenue and expenses from ledger sums.
// Revenue accounts carry credit balances, so revenue is credits minus
// debits; expenses are the mirror image. Contra activity (a debit against
// a revenue account) reduces the figure rather than inflating the other.
func (uc *ReportUseCase) ProfitAndLoss(ctx context.Context, from, to time.Time) (*ProfitAndLossReport, error) {
	revDebit, revCredit, err := uc.ledgerRepo.SumByAccountType(ctx, domain.AccountTypeRevenue, from, to)
	if err != nil {
		return nil, err
	}

	expDebit, expCredit, err := uc.ledgerRepo.SumByAccountType(ctx, domain.AccountTypeExpense, from, to)
	if err != nil {
		return nil, err
	}

	revenue := revCredit.Sub(revDebit)
	expenses := expDebit.Sub(expCredit)

	return &ProfitAndLossReport{
		From:      from,
		To:        to,
		Revenue:   revenue,
		Expenses:  expenses,
		NetProfit: revenue.Sub(expenses),
	}, nil
}

// CashFlowReport summarizes cash movement through bank-linked accounts
// for a period.
type CashFlowReport struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Inflows   decimal.Decimal `json:"inflows"`
	Outflows  decimal.Decimal `json:"outflows"`
	NetChange decimal.Decimal `json:"net_change"`
}

// NetCashChange computes period cash movement over the ledger accounts
// backing bank accounts. Debits to a cash account are inflows, credits are
// outflows; the net change equals the sum of bank cache deltas for the
// same period.
func (uc *ReportUseCase) NetCashChange(ctx context.Context, from, to time.Time) (*CashFlowReport, error) {
	totalDebit, totalCredit, err := uc.ledgerRepo.SumBankLinked(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &CashFlowReport{
		From:      from,
		To:        to,
		Inflows:   totalDebit,
		Outflows:  totalCredit,
		NetChange: totalDebit.Sub(totalCredit),
	}, nil
}

// CheckConsistency verifies the ledger-wide invariant that total debits
// equal total credits across every line ever posted.
func (uc *ReportUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	totalDebit, totalCredit, err := uc.ledgerRepo.SumAll(ctx)
	if err != nil {
		return false, err
	}

	if !totalDebit.Equal(totalCredit) {
		uc.logger.Error().
			Str("total_debit", totalDebit.String()).
			Str("total_credit", totalCredit.String()).
			Msg("ledger consistency check failed")

		return false, nil
	}

	return true, nil
}

func (uc *ReportUseCase) cachedReport(ctx context.Context, key string) *TrialBalanceReport {
	if uc.cache == nil {
		return nil
	}

	raw, err := uc.cache.Get(ctx, key)
	if err != nil || raw == nil {
		return nil
	}

	var report TrialBalanceReport
	if err := json.Unmarshal(raw, &report); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed cached report")
		return nil
	}

	return &report
}

func (uc *ReportUseCase) storeReport(ctx context.Context, key string, report *TrialBalanceReport) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, key, raw, trialBalanceCacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("failed to cache report")
	}
}

func trialBalanceCacheKey(asOf *time.Time) string {
	if asOf == nil {
		return "report:trial-balance:current"
	}

	return "report:trial-balance:" + asOf.UTC().Format(time.RFC3339)
}
