package domain

import "time"

// Event types
const (
	EventTypeBatchPosted     = "batch.posted"
	EventTypeDocumentCreated = "document.created"
	EventTypeDocumentPaid    = "document.paid"
	EventTypeDocumentVoided  = "document.voided"
	EventTypePaymentRecorded = "payment.recorded"
)

// Aggregate types
const (
	AggregateTypeBatch    = "batch"
	AggregateTypeDocument = "document"
	AggregateTypePayment  = "payment"
)

// OutboxEvent represents an event to be published. Collaborators (audit
// logging, budgeting) subscribe to these instead of reading ledger rows.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BatchPostedEvent payload
type BatchPostedEvent struct {
	BatchRef    string `json:"batch_ref"`
	EntryType   string `json:"entry_type"`
	LineCount   int    `json:"line_count"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
}

// DocumentCreatedEvent payload
type DocumentCreatedEvent struct {
	DocumentID string `json:"document_id"`
	Kind       string `json:"kind"`
	Number     string `json:"number"`
	PartyID    string `json:"party_id"`
	Total      string `json:"total"`
}

// DocumentPaidEvent payload
type DocumentPaidEvent struct {
	DocumentID string `json:"document_id"`
	PaymentID  string `json:"payment_id"`
	Amount     string `json:"amount"`
}

// DocumentVoidedEvent payload
type DocumentVoidedEvent struct {
	DocumentID string `json:"document_id"`
	Number     string `json:"number"`
	Total      string `json:"total"`
}

// PaymentRecordedEvent payload
type PaymentRecordedEvent struct {
	PaymentID string `json:"payment_id"`
	Direction string `json:"direction"`
	PartyID   string `json:"party_id"`
	Amount    string `json:"amount"`
}
