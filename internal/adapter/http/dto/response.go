package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// AccountResponse represents a ledger account in API responses.
type AccountResponse struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	NormalBalance string    `json:"normal_balance"`
	ParentID      *string   `json:"parent_id,omitempty"`
	Description   string    `json:"description,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		Number:        a.Number,
		Name:          a.Name,
		Type:          string(a.Type),
		NormalBalance: string(a.NormalBalance),
		ParentID:      a.ParentID,
		Description:   a.Description,
		Active:        a.Active,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BankAccountResponse represents a bank account in API responses.
type BankAccountResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	LedgerAccountID string          `json:"ledger_account_id"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BankAccountFromDomain converts domain bank account to response.
func BankAccountFromDomain(b *domain.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:              b.ID,
		Name:            b.Name,
		LedgerAccountID: b.LedgerAccountID,
		Balance:         b.Balance,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// LedgerLineResponse represents a ledger line in API responses.
type LedgerLineResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	EntryDate time.Time       `json:"entry_date"`
	Memo      string          `json:"memo,omitempty"`
	BatchRef  string          `json:"batch_ref"`
	EntryType string          `json:"entry_type"`
	CreatedBy string          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerLineFromDomain converts domain ledger line to response.
func LedgerLineFromDomain(l *domain.LedgerLine) *LedgerLineResponse {
	return &LedgerLineResponse{
		ID:        l.ID,
		AccountID: l.AccountID,
		Debit:     l.Debit,
		Credit:    l.Credit,
		EntryDate: l.EntryDate,
		Memo:      l.Memo,
		BatchRef:  l.BatchRef,
		EntryType: l.EntryType,
		CreatedBy: l.CreatedBy,
		CreatedAt: l.CreatedAt,
	}
}

// LedgerLinesFromDomain converts domain ledger lines to responses.
func LedgerLinesFromDomain(lines []*domain.LedgerLine) []*LedgerLineResponse {
	result := make([]*LedgerLineResponse, len(lines))
	for i, l := range lines {
		result[i] = LedgerLineFromDomain(l)
	}
	return result
}

// BatchResponse represents a posted batch in API responses.
type BatchResponse struct {
	Ref         string                `json:"ref"`
	EntryType   string                `json:"entry_type"`
	EntryDate   time.Time             `json:"entry_date"`
	TotalDebit  decimal.Decimal       `json:"total_debit"`
	TotalCredit decimal.Decimal       `json:"total_credit"`
	Lines       []*LedgerLineResponse `json:"lines"`
}

// BatchFromDomain converts a posted batch to response.
func BatchFromDomain(b *domain.PostingBatch) *BatchResponse {
	return &BatchResponse{
		Ref:         b.Ref,
		EntryType:   b.EntryType,
		EntryDate:   b.EntryDate,
		TotalDebit:  b.TotalDebit(),
		TotalCredit: b.TotalCredit(),
		Lines:       LedgerLinesFromDomain(b.Lines),
	}
}

// BalanceResponse represents an account balance in API responses.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      *time.Time      `json:"as_of,omitempty"`
}

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Number      string          `json:"number"`
	PartyID     string          `json:"party_id"`
	IssueDate   time.Time       `json:"issue_date"`
	DueDate     time.Time       `json:"due_date"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Balance     decimal.Decimal `json:"balance"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DocumentFromDomain converts domain document to response.
func DocumentFromDomain(d *domain.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:          d.ID,
		Kind:        string(d.Kind),
		Number:      d.Number,
		PartyID:     d.PartyID,
		IssueDate:   d.IssueDate,
		DueDate:     d.DueDate,
		Description: d.Item.Description,
		Quantity:    d.Item.Quantity,
		UnitPrice:   d.Item.UnitPrice,
		TaxRate:     d.Item.TaxRate,
		TaxAmount:   d.Item.TaxAmount,
		Total:       d.Total,
		Paid:        d.Paid,
		Balance:     d.Balance,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// DocumentsFromDomain converts domain documents to responses.
func DocumentsFromDomain(docs []*domain.Document) []*DocumentResponse {
	result := make([]*DocumentResponse, len(docs))
	for i, d := range docs {
		result[i] = DocumentFromDomain(d)
	}
	return result
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Direction     string          `json:"direction"`
	PartyID       string          `json:"party_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method,omitempty"`
	BankAccountID string          `json:"bank_account_id"`
	Reference     string          `json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentFromDomain converts domain payment to response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		Direction:     string(p.Direction),
		PartyID:       p.PartyID,
		Date:          p.Date,
		Amount:        p.Amount,
		Method:        p.Method,
		BankAccountID: p.BankAccountID,
		Reference:     p.Reference,
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// TrialBalanceResponse wraps a trial balance report. The use case report is
// already JSON-shaped, so it passes through unchanged.
type TrialBalanceResponse = usecase.TrialBalanceReport

// ConsistencyResponse reports whether the ledger debits equal credits.
type ConsistencyResponse struct {
	Consistent bool `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
