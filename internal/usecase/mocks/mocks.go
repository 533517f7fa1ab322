package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Account, error)
	ListFunc       func(ctx context.Context, includeInactive bool) ([]*domain.Account, error)
	ListActiveFunc func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Number == account.Number {
			return domain.ErrDuplicateAccountNumber
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, includeInactive bool) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, includeInactive)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if !includeInactive && !acc.Active {
			continue
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Number < accounts[j].Number })
	return accounts, nil
}

func (m *MockAccountRepository) ListActive(ctx context.Context) ([]*domain.Account, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return m.List(ctx, false)
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu           sync.RWMutex
	lines        []*domain.LedgerLine
	accountTypes map[string]domain.AccountType
	bankLinked   map[string]bool

	CreateLineFunc         func(ctx context.Context, tx usecase.Transaction, line *domain.LedgerLine) error
	GetByBatchRefFunc      func(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error)
	GetRecentByAccountFunc func(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error)
	SumByAccountFunc       func(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error)
	SumAllFunc             func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
	SumByAccountTypeFunc   func(ctx context.Context, accountType domain.AccountType, from, to time.Time) (decimal.Decimal, decimal.Decimal, error)
	SumBankLinkedFunc      func(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		accountTypes: make(map[string]domain.AccountType),
		bankLinked:   make(map[string]bool),
	}
}

// ClassifyAccount records the account type used by SumByAccountType.
func (m *MockLedgerRepository) ClassifyAccount(accountID string, accountType domain.AccountType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountTypes[accountID] = accountType
}

// LinkBankAccount marks an account as backing a bank account.
func (m *MockLedgerRepository) LinkBankAccount(accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bankLinked[accountID] = true
}

func (m *MockLedgerRepository) CreateLine(ctx context.Context, tx usecase.Transaction, line *domain.LedgerLine) error {
	if m.CreateLineFunc != nil {
		return m.CreateLineFunc(ctx, tx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
	return nil
}

func (m *MockLedgerRepository) GetByBatchRef(ctx context.Context, batchRef string) ([]*domain.LedgerLine, error) {
	if m.GetByBatchRefFunc != nil {
		return m.GetByBatchRefFunc(ctx, batchRef)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lines []*domain.LedgerLine
	for _, l := range m.lines {
		if l.BatchRef == batchRef {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

func (m *MockLedgerRepository) GetRecentByAccount(ctx context.Context, accountID string, limit int) ([]*domain.LedgerLine, error) {
	if m.GetRecentByAccountFunc != nil {
		return m.GetRecentByAccountFunc(ctx, accountID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lines []*domain.LedgerLine
	for i := len(m.lines) - 1; i >= 0 && len(lines) < limit; i-- {
		if m.lines[i].AccountID == accountID {
			lines = append(lines, m.lines[i])
		}
	}
	return lines, nil
}

func (m *MockLedgerRepository) SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range m.lines {
		if l.AccountID != accountID {
			continue
		}
		if asOf != nil && l.EntryDate.After(*asOf) {
			continue
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit, totalCredit, nil
}

func (m *MockLedgerRepository) SumAll(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumAllFunc != nil {
		return m.SumAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range m.lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit, totalCredit, nil
}

func (m *MockLedgerRepository) SumByAccountType(ctx context.Context, accountType domain.AccountType, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumByAccountTypeFunc != nil {
		return m.SumByAccountTypeFunc(ctx, accountType, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumWindow(from, to, func(l *domain.LedgerLine) bool {
		return m.accountTypes[l.AccountID] == accountType
	})
}

func (m *MockLedgerRepository) SumBankLinked(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumBankLinkedFunc != nil {
		return m.SumBankLinkedFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumWindow(from, to, func(l *domain.LedgerLine) bool {
		return m.bankLinked[l.AccountID]
	})
}

func (m *MockLedgerRepository) sumWindow(from, to time.Time, match func(*domain.LedgerLine) bool) (decimal.Decimal, decimal.Decimal, error) {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range m.lines {
		if !match(l) {
			continue
		}
		if l.EntryDate.Before(from) || l.EntryDate.After(to) {
			continue
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit, totalCredit, nil
}

// Lines returns a snapshot of all recorded lines.
func (m *MockLedgerRepository) Lines() []*domain.LedgerLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerLine, len(m.lines))
	copy(out, m.lines)
	return out
}

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	counters  map[domain.DocumentKind]int64

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Document, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Document, error)
	NextNumberFunc       func(ctx context.Context, tx usecase.Transaction, kind domain.DocumentKind) (int64, error)
	ListOpenByPartyFunc  func(ctx context.Context, kind domain.DocumentKind, partyID string) ([]*domain.Document, error)
	UpdateSettlementFunc func(ctx context.Context, tx usecase.Transaction, id string, paid, balance decimal.Decimal, status domain.DocumentStatus, updatedAt time.Time) error
	SumOpenBalancesFunc  func(ctx context.Context, kind domain.DocumentKind) (decimal.Decimal, error)
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{
		documents: make(map[string]*domain.Document),
		counters:  make(map[domain.DocumentKind]int64),
	}
}

func (m *MockDocumentRepository) Create(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.documents {
		if existing.Kind == doc.Kind && existing.Number == doc.Number {
			return domain.ErrDuplicateDocumentNumber
		}
	}
	m.documents[doc.ID] = doc
	return nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if doc, ok := m.documents[id]; ok {
		return doc, nil
	}
	return nil, domain.ErrDocumentNotFound
}

func (m *MockDocumentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Document, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDocumentRepository) NextNumber(ctx context.Context, tx usecase.Transaction, kind domain.DocumentKind) (int64, error) {
	if m.NextNumberFunc != nil {
		return m.NextNumberFunc(ctx, tx, kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[kind]++
	return m.counters[kind], nil
}

func (m *MockDocumentRepository) ListOpenByParty(ctx context.Context, kind domain.DocumentKind, partyID string) ([]*domain.Document, error) {
	if m.ListOpenByPartyFunc != nil {
		return m.ListOpenByPartyFunc(ctx, kind, partyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []*domain.Document
	for _, d := range m.documents {
		if d.Kind == kind && d.PartyID == partyID && d.Open() {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].DueDate.Before(docs[j].DueDate) })
	return docs, nil
}

func (m *MockDocumentRepository) UpdateSettlement(ctx context.Context, tx usecase.Transaction, id string, paid, balance decimal.Decimal, status domain.DocumentStatus, updatedAt time.Time) error {
	if m.UpdateSettlementFunc != nil {
		return m.UpdateSettlementFunc(ctx, tx, id, paid, balance, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Paid = paid
	doc.Balance = balance
	doc.Status = status
	doc.UpdatedAt = updatedAt
	return nil
}

func (m *MockDocumentRepository) SumOpenBalances(ctx context.Context, kind domain.DocumentKind) (decimal.Decimal, error) {
	if m.SumOpenBalancesFunc != nil {
		return m.SumOpenBalancesFunc(ctx, kind)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, d := range m.documents {
		if d.Kind == kind && d.Open() {
			total = total.Add(d.Balance)
		}
	}
	return total, nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Payment, error)
	ListByPartyFunc func(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error) {
	if m.ListByPartyFunc != nil {
		return m.ListByPartyFunc(ctx, partyID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.Payment
	for _, p := range m.payments {
		if p.PartyID == partyID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// MockBankAccountRepository is a mock implementation of BankAccountRepository.
type MockBankAccountRepository struct {
	mu    sync.RWMutex
	banks map[string]*domain.BankAccount

	CreateFunc        func(ctx context.Context, bank *domain.BankAccount) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.BankAccount, error)
	AdjustBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
}

func NewMockBankAccountRepository() *MockBankAccountRepository {
	return &MockBankAccountRepository{
		banks: make(map[string]*domain.BankAccount),
	}
}

func (m *MockBankAccountRepository) Create(ctx context.Context, bank *domain.BankAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, bank)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks[bank.ID] = bank
	return nil
}

func (m *MockBankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.banks[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBankAccountNotFound
}

func (m *MockBankAccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.banks[id]
	if !ok {
		return domain.ErrBankAccountNotFound
	}
	b.Balance = b.Balance.Add(delta)
	b.UpdatedAt = updatedAt
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && len(events) < limit {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// Events returns a snapshot of all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
