package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes the two symmetric subledger documents:
// a customer invoice (AR side) and a vendor bill (AP side).
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "invoice"
	DocumentKindBill    DocumentKind = "bill"
)

// Valid reports whether the kind is invoice or bill.
func (k DocumentKind) Valid() bool {
	return k == DocumentKindInvoice || k == DocumentKindBill
}

// InitialStatus is the status a freshly created document carries.
func (k DocumentKind) InitialStatus() DocumentStatus {
	if k == DocumentKindBill {
		return DocumentStatusReceived
	}
	return DocumentStatusIssued
}

// NumberPrefix is the prefix used for generated document numbers.
func (k DocumentKind) NumberPrefix() string {
	if k == DocumentKindBill {
		return "BILL"
	}
	return "INV"
}

// DocumentStatus is the lifecycle state of a subledger document.
// Paid and Cancelled are terminal.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "Draft"
	DocumentStatusIssued    DocumentStatus = "Issued"
	DocumentStatusReceived  DocumentStatus = "Received"
	DocumentStatusPaid      DocumentStatus = "Paid"
	DocumentStatusCancelled DocumentStatus = "Cancelled"
)

// Terminal reports whether the status allows no further transitions.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusPaid || s == DocumentStatusCancelled
}

// DocumentItem is the single line item carried by a document.
type DocumentItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	TaxAmount   decimal.Decimal
	LineTotal   decimal.Decimal
	AccountID   string
}

// Document is a subledger document: an invoice or a bill.
// Balance is derived as Total minus Paid and must never go negative.
type Document struct {
	ID        string
	Kind      DocumentKind
	Number    string
	PartyID   string
	IssueDate time.Time
	DueDate   time.Time
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Balance   decimal.Decimal
	Status    DocumentStatus
	Item      DocumentItem
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the document still carries a collectible balance.
func (d *Document) Open() bool {
	if d.Status.Terminal() || d.Status == DocumentStatusDraft {
		return false
	}
	return d.Balance.IsPositive()
}

// CanSettle checks whether a payment may be applied.
func (d *Document) CanSettle() error {
	if d.Status.Terminal() || !d.Balance.IsPositive() {
		return ErrAlreadySettled
	}
	return nil
}

// Settle marks the document fully paid. Only full settlement is supported;
// partial allocation is rejected upstream.
func (d *Document) Settle() {
	d.Paid = d.Total
	d.Balance = decimal.Zero
	d.Status = DocumentStatusPaid
}

// CanVoid checks whether the document may be cancelled. Documents with any
// recorded payment need a credit note instead.
func (d *Document) CanVoid() error {
	if d.Paid.IsPositive() || d.Status.Terminal() {
		return ErrCannotVoidSettled
	}
	return nil
}

// Cancel marks the document void. Paid stays zero by the CanVoid precondition.
func (d *Document) Cancel() {
	d.Status = DocumentStatusCancelled
	d.Balance = decimal.Zero
}

// ValidateDocumentTerms checks the line item figures before creation.
func ValidateDocumentTerms(quantity, unitPrice, taxRate decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}
	if taxRate.IsNegative() {
		return ErrInvalidTaxRate
	}
	return nil
}

// ComputeDocumentTotals derives subtotal, tax and total for a single line
// item. The tax rate is a percentage (5.0 means 5%).
func ComputeDocumentTotals(quantity, unitPrice, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = quantity.Mul(unitPrice)
	tax = subtotal.Mul(taxRate).Div(decimal.NewFromInt(100))
	total = subtotal.Add(tax)
	return subtotal, tax, total
}
