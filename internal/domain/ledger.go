package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is one immutable debit-or-credit row in the general ledger.
// Lines are never edited or deleted; mistakes are corrected by posting
// reversing lines under a new batch reference.
type LedgerLine struct {
	ID        string
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	EntryDate time.Time
	Memo      string
	BatchRef  string
	EntryType string
	CreatedBy string
	CreatedAt time.Time
}

// BatchLine is one requested line of a posting batch.
type BatchLine struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// Reversed returns the line with its debit and credit sides swapped.
func (l BatchLine) Reversed() BatchLine {
	return BatchLine{
		AccountID: l.AccountID,
		Debit:     l.Credit,
		Credit:    l.Debit,
		Memo:      l.Memo,
	}
}

// PostingBatch is the handle returned after a batch of lines is persisted.
// The reference is the sole correlation key for finding the batch later.
type PostingBatch struct {
	Ref       string
	EntryType string
	EntryDate time.Time
	Lines     []*LedgerLine
}

// TotalDebit sums the debit side of the persisted lines.
func (b *PostingBatch) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side of the persisted lines.
func (b *PostingBatch) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// ValidateBatchLines checks a batch before any write: at least one line,
// no negative amounts, memos within bounds, and debits equal to credits in
// exact decimal terms.
func ValidateBatchLines(lines []BatchLine) error {
	if len(lines) == 0 {
		return ErrEmptyBatch
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, l := range lines {
		if l.AccountID == "" {
			return ErrAccountNotFound
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return ErrNegativeAmount
		}
		if len(l.Memo) > MaxMemoLength {
			return ErrMemoTooLong
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return ErrUnbalancedBatch
	}

	return nil
}
