package dto

import (
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// CreateAccountRequest represents a request to create a ledger account.
type CreateAccountRequest struct {
	Number        string  `json:"number"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	NormalBalance string  `json:"normal_balance"`
	ParentID      *string `json:"parent_id,omitempty"`
	Description   string  `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Number:        r.Number,
		Name:          r.Name,
		Type:          domain.AccountType(r.Type),
		NormalBalance: domain.BalanceSide(r.NormalBalance),
		ParentID:      r.ParentID,
		Description:   r.Description,
	}
}

// CreateBankAccountRequest represents a request to create a bank account.
type CreateBankAccountRequest struct {
	Name            string `json:"name"`
	LedgerAccountID string `json:"ledger_account_id"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBankAccountRequest) ToUseCaseInput() usecase.CreateBankAccountInput {
	return usecase.CreateBankAccountInput{
		Name:            r.Name,
		LedgerAccountID: r.LedgerAccountID,
	}
}

// BatchLineRequest is one line of a posting batch request.
type BatchLineRequest struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// PostBatchRequest represents a request to post a balanced batch.
type PostBatchRequest struct {
	Lines     []BatchLineRequest `json:"lines"`
	EntryDate *Date              `json:"entry_date,omitempty"`
	Ref       string             `json:"ref,omitempty"`
	CreatedBy string             `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostBatchRequest) ToUseCaseInput() usecase.PostBatchInput {
	lines := make([]domain.BatchLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.BatchLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}

	input := usecase.PostBatchInput{
		Lines:     lines,
		Ref:       r.Ref,
		CreatedBy: r.CreatedBy,
	}
	if r.EntryDate != nil {
		input.EntryDate = r.EntryDate.Time
	}

	return input
}

// JournalEntryRequest represents a simple two-line journal entry.
type JournalEntryRequest struct {
	EntryDate       *Date           `json:"entry_date,omitempty"`
	Description     string          `json:"description,omitempty"`
	DebitAccountID  string          `json:"debit_account_id"`
	CreditAccountID string          `json:"credit_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Ref             string          `json:"ref,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *JournalEntryRequest) ToUseCaseInput() usecase.JournalEntryInput {
	input := usecase.JournalEntryInput{
		Description:     r.Description,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Amount:          r.Amount,
		Ref:             r.Ref,
		CreatedBy:       r.CreatedBy,
	}
	if r.EntryDate != nil {
		input.EntryDate = r.EntryDate.Time
	}

	return input
}

// CreateDocumentRequest represents a request to create an invoice or bill.
type CreateDocumentRequest struct {
	Kind             string          `json:"kind"`
	PartyID          string          `json:"party_id"`
	Number           string          `json:"number,omitempty"`
	IssueDate        Date            `json:"issue_date"`
	DueDate          Date            `json:"due_date"`
	Description      string          `json:"description,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	PrimaryAccountID string          `json:"primary_account_id"`
	CounterAccountID string          `json:"counter_account_id"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDocumentRequest) ToUseCaseInput() usecase.CreateDocumentInput {
	return usecase.CreateDocumentInput{
		Kind:             domain.DocumentKind(r.Kind),
		PartyID:          r.PartyID,
		Number:           r.Number,
		IssueDate:        r.IssueDate.Time,
		DueDate:          r.DueDate.Time,
		Description:      r.Description,
		Quantity:         r.Quantity,
		UnitPrice:        r.UnitPrice,
		TaxRate:          r.TaxRate,
		PrimaryAccountID: r.PrimaryAccountID,
		CounterAccountID: r.CounterAccountID,
		CreatedBy:        r.CreatedBy,
	}
}

// VoidDocumentRequest represents a request to void a document.
type VoidDocumentRequest struct {
	ControlAccountID string `json:"control_account_id"`
	CounterAccountID string `json:"counter_account_id"`
	VoidedBy         string `json:"voided_by,omitempty"`
}

// RecordPaymentRequest represents a request to record a payment.
type RecordPaymentRequest struct {
	Direction        string          `json:"direction"`
	PartyID          string          `json:"party_id"`
	Date             Date            `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method,omitempty"`
	BankAccountID    string          `json:"bank_account_id"`
	CashAccountID    string          `json:"cash_account_id"`
	ControlAccountID string          `json:"control_account_id"`
	Reference        string          `json:"reference,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		Direction:        domain.PaymentDirection(r.Direction),
		PartyID:          r.PartyID,
		Date:             r.Date.Time,
		Amount:           r.Amount,
		Method:           r.Method,
		BankAccountID:    r.BankAccountID,
		CashAccountID:    r.CashAccountID,
		ControlAccountID: r.ControlAccountID,
		Reference:        r.Reference,
		CreatedBy:        r.CreatedBy,
	}
}

// ApplyPaymentRequest represents a request to apply a payment to a document.
type ApplyPaymentRequest struct {
	DocumentID string `json:"document_id"`
}

// CashMovementRequest represents a direct cash receipt or disbursement.
type CashMovementRequest struct {
	Date            Date            `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	BankAccountID   string          `json:"bank_account_id"`
	CashAccountID   string          `json:"cash_account_id"`
	OffsetAccountID string          `json:"offset_account_id"`
	Reference       string          `json:"reference,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CashMovementRequest) ToUseCaseInput() usecase.CashMovementInput {
	return usecase.CashMovementInput{
		Date:            r.Date.Time,
		Amount:          r.Amount,
		Description:     r.Description,
		BankAccountID:   r.BankAccountID,
		CashAccountID:   r.CashAccountID,
		OffsetAccountID: r.OffsetAccountID,
		Reference:       r.Reference,
		CreatedBy:       r.CreatedBy,
	}
}

// BankTransferRequest represents a transfer between two bank accounts.
type BankTransferRequest struct {
	Date                Date            `json:"date"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description,omitempty"`
	SourceBankID        string          `json:"source_bank_id"`
	SourceCashAccountID string          `json:"source_cash_account_id"`
	TargetBankID        string          `json:"target_bank_id"`
	TargetCashAccountID string          `json:"target_cash_account_id"`
	Reference           string          `json:"reference,omitempty"`
	CreatedBy           string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *BankTransferRequest) ToUseCaseInput() usecase.BankTransferInput {
	return usecase.BankTransferInput{
		Date:                r.Date.Time,
		Amount:              r.Amount,
		Description:         r.Description,
		SourceBankID:        r.SourceBankID,
		SourceCashAccountID: r.SourceCashAccountID,
		TargetBankID:        r.TargetBankID,
		TargetCashAccountID: r.TargetCashAccountID,
		Reference:           r.Reference,
		CreatedBy:           r.CreatedBy,
	}
}
