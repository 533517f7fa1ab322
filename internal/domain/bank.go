package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount mirrors a physical bank account. Balance is a denormalized
// cache of the linked cash account's derived ledger balance; every
// cash-affecting posting adjusts it inside the same transaction, so the two
// stay consistent by construction rather than by reconciliation.
type BankAccount struct {
	ID              string
	Name            string
	LedgerAccountID string
	Balance         decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
