package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// CashUseCase records cash movements that are not tied to a party document:
// direct receipts, direct disbursements and transfers between bank accounts.
// Each operation posts a balanced GL entry and adjusts the affected bank
// balance caches in the same transaction.
type CashUseCase struct {
	txManager TransactionManager
	bankRepo  BankAccountRepository
	poster    BatchPoster
	idGen     IDGenerator
	retrier   Retrier
}

// NewCashUseCase creates a new CashUseCase.
func NewCashUseCase(
	txManager TransactionManager,
	bankRepo BankAccountRepository,
	poster BatchPoster,
	idGen IDGenerator,
) *CashUseCase {
	return &CashUseCase{
		txManager: txManager,
		bankRepo:  bankRepo,
		poster:    poster,
		idGen:     idGen,
	}
}

// WithRetrier enables retry on transient storage contention.
func (uc *CashUseCase) WithRetrier(r Retrier) *CashUseCase {
	uc.retrier = r
	return uc
}

// CashMovementInput represents input for a direct receipt or disbursement.
// CashAccountID is the ledger account linked to the bank account;
// OffsetAccountID is the income account for receipts and the expense account
// for disbursements.
type CashMovementInput struct {
	Date            time.Time
	Amount          decimal.Decimal
	Description     string
	BankAccountID   string
	CashAccountID   string
	OffsetAccountID string
	Reference       string
	CreatedBy       string
}

// RecordCashReceipt posts Dr cash / Cr income and raises the bank balance.
func (uc *CashUseCase) RecordCashReceipt(ctx context.Context, input CashMovementInput) (*domain.PostingBatch, error) {
	return uc.recordMovement(ctx, input, domain.PaymentDirectionReceipt)
}

// RecordCashDisbursement posts Dr expense / Cr cash and lowers the bank
// balance.
func (uc *CashUseCase) RecordCashDisbursement(ctx context.Context, input CashMovementInput) (*domain.PostingBatch, error) {
	return uc.recordMovement(ctx, input, domain.PaymentDirectionDisbursement)
}

func (uc *CashUseCase) recordMovement(ctx context.Context, input CashMovementInput, direction domain.PaymentDirection) (*domain.PostingBatch, error) {
	if input.CashAccountID == input.OffsetAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	delta := input.Amount
	lines := []domain.BatchLine{
		{AccountID: input.CashAccountID, Debit: input.Amount, Credit: decimal.Zero, Memo: input.Description},
		{AccountID: input.OffsetAccountID, Debit: decimal.Zero, Credit: input.Amount, Memo: input.Description},
	}
	entryType := EntryTypeCashReceipt

	if direction == domain.PaymentDirectionDisbursement {
		delta = input.Amount.Neg()
		lines = []domain.BatchLine{
			{AccountID: input.OffsetAccountID, Debit: input.Amount, Credit: decimal.Zero, Memo: input.Description},
			{AccountID: input.CashAccountID, Debit: decimal.Zero, Credit: input.Amount, Memo: input.Description},
		}
		entryType = EntryTypeCashDisbursement
	}

	ref := input.Reference
	if ref == "" {
		ref = "cash:" + uc.idGen.Generate()
	}

	var batch *domain.PostingBatch

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.bankRepo.AdjustBalance(ctx, tx, input.BankAccountID, delta, now); err != nil {
			return err
		}

		batch, err = uc.poster.PostBatchTx(ctx, tx, PostBatchInput{
			Lines:     lines,
			EntryDate: date,
			Ref:       ref,
			EntryType: entryType,
			CreatedBy: input.CreatedBy,
		})
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return batch, nil
}

// BankTransferInput represents input for moving funds between two bank
// accounts. Each side names its bank account and the linked cash ledger
// account.
type BankTransferInput struct {
	Date                time.Time
	Amount              decimal.Decimal
	Description         string
	SourceBankID        string
	SourceCashAccountID string
	TargetBankID        string
	TargetCashAccountID string
	Reference           string
	CreatedBy           string
}

// RecordBankTransfer posts Dr target cash / Cr source cash and moves the
// cached balances of both bank accounts. Both adjustments are server-side
// increments inside one transaction.
func (uc *CashUseCase) RecordBankTransfer(ctx context.Context, input BankTransferInput) (*domain.PostingBatch, error) {
	if input.SourceBankID == input.TargetBankID {
		return nil, domain.ErrSameBankAccount
	}

	if input.SourceCashAccountID == input.TargetCashAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	ref := input.Reference
	if ref == "" {
		ref = "transfer:" + uc.idGen.Generate()
	}

	var batch *domain.PostingBatch

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Adjust in sorted ID order so two opposite transfers between the
		// same pair of banks cannot deadlock.
		adjustments := []struct {
			bankID string
			delta  decimal.Decimal
		}{
			{input.SourceBankID, input.Amount.Neg()},
			{input.TargetBankID, input.Amount},
		}
		if adjustments[0].bankID > adjustments[1].bankID {
			adjustments[0], adjustments[1] = adjustments[1], adjustments[0]
		}

		for _, adj := range adjustments {
			if err := uc.bankRepo.AdjustBalance(ctx, tx, adj.bankID, adj.delta, now); err != nil {
				return err
			}
		}

		batch, err = uc.poster.PostBatchTx(ctx, tx, PostBatchInput{
			Lines: []domain.BatchLine{
				{AccountID: input.TargetCashAccountID, Debit: input.Amount, Credit: decimal.Zero, Memo: input.Description},
				{AccountID: input.SourceCashAccountID, Debit: decimal.Zero, Credit: input.Amount, Memo: input.Description},
			},
			EntryDate: date,
			Ref:       ref,
			EntryType: EntryTypeBankTransfer,
			CreatedBy: input.CreatedBy,
		})
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return batch, nil
}

func (uc *CashUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}
