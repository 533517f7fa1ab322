package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

// Valid reports whether the account type is one of the known types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// BalanceSide is the normal-balance polarity of an account.
type BalanceSide string

const (
	BalanceSideDebit  BalanceSide = "Debit"
	BalanceSideCredit BalanceSide = "Credit"
)

// Valid reports whether the balance side is Debit or Credit.
func (s BalanceSide) Valid() bool {
	return s == BalanceSideDebit || s == BalanceSideCredit
}

// Opposite returns the other side.
func (s BalanceSide) Opposite() BalanceSide {
	if s == BalanceSideDebit {
		return BalanceSideCredit
	}
	return BalanceSideDebit
}

// Account represents one general ledger account.
// The parent link builds the chart hierarchy; it plays no part in balance math.
type Account struct {
	ID            string
	Number        string
	Name          string
	Type          AccountType
	NormalBalance BalanceSide
	ParentID      *string
	Description   string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the account fields before creation.
func (a *Account) Validate() error {
	if a.Number == "" {
		return ErrInvalidAccountNumber
	}
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	if !a.NormalBalance.Valid() {
		return ErrInvalidBalanceSide
	}
	return nil
}

// BalanceFromSums converts raw debit/credit sums into the account's balance,
// honoring the normal-balance polarity. A negative result is a contra balance.
func (a *Account) BalanceFromSums(totalDebit, totalCredit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance == BalanceSideCredit {
		return totalCredit.Sub(totalDebit)
	}
	return totalDebit.Sub(totalCredit)
}
