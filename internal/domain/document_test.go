package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeDocumentTotals(t *testing.T) {
	tests := []struct {
		name             string
		quantity         string
		unitPrice        string
		taxRate          string
		expectedSubtotal string
		expectedTax      string
		expectedTotal    string
	}{
		{
			name:             "no tax",
			quantity:         "5",
			unitPrice:        "25.50",
			taxRate:          "0",
			expectedSubtotal: "127.5",
			expectedTax:      "0",
			expectedTotal:    "127.5",
		},
		{
			name:             "five percent tax",
			quantity:         "10",
			unitPrice:        "100",
			taxRate:          "5",
			expectedSubtotal: "1000",
			expectedTax:      "50",
			expectedTotal:    "1050",
		},
		{
			name:             "fractional quantity",
			quantity:         "2.5",
			unitPrice:        "19.99",
			taxRate:          "7.25",
			expectedSubtotal: "49.975",
			expectedTax:      "3.6231875",
			expectedTotal:    "53.5981875",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, _ := decimal.NewFromString(tt.quantity)
			price, _ := decimal.NewFromString(tt.unitPrice)
			rate, _ := decimal.NewFromString(tt.taxRate)

			subtotal, tax, total := ComputeDocumentTotals(qty, price, rate)

			assertDecimal(t, "subtotal", subtotal, tt.expectedSubtotal)
			assertDecimal(t, "tax", tax, tt.expectedTax)
			assertDecimal(t, "total", total, tt.expectedTotal)
		})
	}
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, expected string) {
	t.Helper()
	want, _ := decimal.NewFromString(expected)
	if !got.Equal(want) {
		t.Errorf("expected %s %s, got %s", field, want, got)
	}
}

func TestValidateDocumentTerms(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int64
		unitPrice   int64
		taxRate     int64
		expectError error
	}{
		{name: "valid", quantity: 5, unitPrice: 10, taxRate: 5},
		{name: "free item", quantity: 1, unitPrice: 0, taxRate: 0},
		{name: "zero quantity", quantity: 0, unitPrice: 10, expectError: ErrInvalidQuantity},
		{name: "negative quantity", quantity: -1, unitPrice: 10, expectError: ErrInvalidQuantity},
		{name: "negative price", quantity: 1, unitPrice: -10, expectError: ErrInvalidUnitPrice},
		{name: "negative tax rate", quantity: 1, unitPrice: 10, taxRate: -5, expectError: ErrInvalidTaxRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentTerms(
				decimal.NewFromInt(tt.quantity),
				decimal.NewFromInt(tt.unitPrice),
				decimal.NewFromInt(tt.taxRate),
			)
			if tt.expectError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestDocument_Lifecycle(t *testing.T) {
	newDoc := func(kind DocumentKind) *Document {
		total := decimal.NewFromFloat(127.50)
		return &Document{
			Kind:    kind,
			Total:   total,
			Paid:    decimal.Zero,
			Balance: total,
			Status:  kind.InitialStatus(),
		}
	}

	t.Run("invoice starts issued, bill starts received", func(t *testing.T) {
		if got := newDoc(DocumentKindInvoice).Status; got != DocumentStatusIssued {
			t.Errorf("expected Issued, got %s", got)
		}
		if got := newDoc(DocumentKindBill).Status; got != DocumentStatusReceived {
			t.Errorf("expected Received, got %s", got)
		}
	})

	t.Run("settle closes the document", func(t *testing.T) {
		doc := newDoc(DocumentKindInvoice)
		if err := doc.CanSettle(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc.Settle()

		if doc.Status != DocumentStatusPaid {
			t.Errorf("expected Paid, got %s", doc.Status)
		}
		if !doc.Paid.Equal(doc.Total) {
			t.Errorf("expected paid %s, got %s", doc.Total, doc.Paid)
		}
		if !doc.Balance.IsZero() {
			t.Errorf("expected zero balance, got %s", doc.Balance)
		}
		if doc.Open() {
			t.Error("settled document must not be open")
		}
	})

	t.Run("settled document cannot be settled again", func(t *testing.T) {
		doc := newDoc(DocumentKindInvoice)
		doc.Settle()

		if err := doc.CanSettle(); !errors.Is(err, ErrAlreadySettled) {
			t.Errorf("expected ErrAlreadySettled, got %v", err)
		}
	})

	t.Run("cancel zeroes the balance", func(t *testing.T) {
		doc := newDoc(DocumentKindBill)
		if err := doc.CanVoid(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc.Cancel()

		if doc.Status != DocumentStatusCancelled {
			t.Errorf("expected Cancelled, got %s", doc.Status)
		}
		if !doc.Balance.IsZero() {
			t.Errorf("expected zero balance, got %s", doc.Balance)
		}
		if !doc.Paid.IsZero() {
			t.Errorf("expected zero paid, got %s", doc.Paid)
		}
	})

	t.Run("document with payments cannot be voided", func(t *testing.T) {
		doc := newDoc(DocumentKindInvoice)
		doc.Paid = decimal.NewFromInt(50)

		if err := doc.CanVoid(); !errors.Is(err, ErrCannotVoidSettled) {
			t.Errorf("expected ErrCannotVoidSettled, got %v", err)
		}
	})

	t.Run("terminal statuses cannot be voided", func(t *testing.T) {
		for _, status := range []DocumentStatus{DocumentStatusPaid, DocumentStatusCancelled} {
			doc := newDoc(DocumentKindInvoice)
			doc.Status = status

			if err := doc.CanVoid(); !errors.Is(err, ErrCannotVoidSettled) {
				t.Errorf("status %s: expected ErrCannotVoidSettled, got %v", status, err)
			}
		}
	})

	t.Run("draft documents are not open", func(t *testing.T) {
		doc := newDoc(DocumentKindInvoice)
		doc.Status = DocumentStatusDraft

		if doc.Open() {
			t.Error("draft document must not be listed as open")
		}
	})
}
