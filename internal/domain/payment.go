package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection tells cash receipts (from customers) apart from cash
// disbursements (to vendors).
type PaymentDirection string

const (
	PaymentDirectionReceipt      PaymentDirection = "receipt"
	PaymentDirectionDisbursement PaymentDirection = "disbursement"
)

// Valid reports whether the direction is receipt or disbursement.
func (d PaymentDirection) Valid() bool {
	return d == PaymentDirectionReceipt || d == PaymentDirectionDisbursement
}

// Payment is a recorded cash receipt or disbursement against a party.
// Payments are created once and never mutated; application to a document
// is a separate subledger-status operation.
type Payment struct {
	ID            string
	Direction     PaymentDirection
	PartyID       string
	Date          time.Time
	Amount        decimal.Decimal
	Method        string
	BankAccountID string
	Reference     string
	CreatedBy     string
	CreatedAt     time.Time
}

// Validate checks the payment fields before recording.
func (p *Payment) Validate() error {
	if !p.Direction.Valid() {
		return ErrInvalidPaymentDirection
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Covers reports whether the payment can fully settle the given balance.
func (p *Payment) Covers(balance decimal.Decimal) bool {
	return !p.Amount.LessThan(balance)
}
