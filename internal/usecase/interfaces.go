package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Account, error)
	ListActive(ctx context.Context) ([]*domain.Account, error)
}

// LedgerRepository defines data access for ledger lines. Lines are
// append-only; there is no update or delete.
type LedgerRepository interface {
	CreateLine(ctx context.Context, tx Transaction, line *domain.LedgerLine) error
	GetByBatchRef(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error)
	GetRecentByAccount(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error)
	SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (totalDebit, totalCredit decimal.Decimal, err error)
	SumAll(ctx context.Context) (totalDebit, totalCredit decimal.Decimal, err error)
	SumByAccountType(ctx context.Context, accountType domain.AccountType, from, to time.Time) (totalDebit, totalCredit decimal.Decimal, err error)
	SumBankLinked(ctx context.Context, from, to time.Time) (totalDebit, totalCredit decimal.Decimal, err error)
}

// DocumentRepository defines data access for subledger documents.
type DocumentRepository interface {
	Create(ctx context.Context, tx Transaction, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Document, error)
	NextNumber(ctx context.Context, tx Transaction, kind domain.DocumentKind) (int64, error)
	ListOpenByParty(ctx context.Context, kind domain.DocumentKind, partyID string) ([]*domain.Document, error)
	UpdateSettlement(ctx context.Context, tx Transaction, id string, paid, balance decimal.Decimal, status domain.DocumentStatus, updatedAt time.Time) error
	SumOpenBalances(ctx context.Context, kind domain.DocumentKind) (decimal.Decimal, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error)
}

// BankAccountRepository defines data access for bank accounts. Balance
// changes are expressed as deltas so the increment runs server-side.
type BankAccountRepository interface {
	Create(ctx context.Context, bank *domain.BankAccount) error
	GetByID(ctx context.Context, id string) (*domain.BankAccount, error)
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// BatchPoster posts a balanced batch of ledger lines inside a caller-owned
// transaction. Document, payment and cash use cases depend on this instead
// of the concrete posting engine.
type BatchPoster interface {
	PostBatchTx(ctx context.Context, tx Transaction, input PostBatchInput) (*domain.PostingBatch, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage contention.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
