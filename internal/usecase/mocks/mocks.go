package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/usecase"
)

// MockCreditRepository is a mock implementation of CreditRepository.
type MockCreditRepository struct {
	mu      sync.RWMutex
	credits map[string]*domain.CreditAccount

	GetOutstandingByCustomerFunc func(ctx context.Context, customerID string) (*domain.CreditView, error)
	GetByIDForUpdateFunc         func(ctx context.Context, tx usecase.Transaction, id string) (*domain.CreditAccount, error)
	UpdateStatusFunc             func(ctx context.Context, tx usecase.Transaction, id string, status domain.CreditStatus, updatedAt time.Time) error
}

func NewMockCreditRepository() *MockCreditRepository {
	return &MockCreditRepository{
		credits: make(map[string]*domain.CreditAccount),
	}
}

// Put seeds a credit into the in-memory store.
func (m *MockCreditRepository) Put(credit *domain.CreditAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credits[credit.ID] = credit
}

func (m *MockCreditRepository) GetOutstandingByCustomer(ctx context.Context, customerID string) (*domain.CreditView, error) {
	if m.GetOutstandingByCustomerFunc != nil {
		return m.GetOutstandingByCustomerFunc(ctx, customerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.credits {
		if c.CustomerID == customerID && c.Status == domain.CreditPending {
			return &domain.CreditView{CreditAccount: *c}, nil
		}
	}
	return nil, domain.ErrCreditNotFound
}

func (m *MockCreditRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CreditAccount, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.credits[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCreditNotFound
}

func (m *MockCreditRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.CreditStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.credits[id]
	if !ok {
		return domain.ErrCreditNotFound
	}
	c.Status = status
	c.UpdatedAt = updatedAt
	return nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments []*domain.Payment

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	SumApprovedFunc func(ctx context.Context, tx usecase.Transaction, creditID string) (decimal.Decimal, error)
	ListViewsFunc   func(ctx context.Context, search string, limit, offset int) ([]*domain.PaymentView, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{}
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *MockPaymentRepository) SumApproved(ctx context.Context, tx usecase.Transaction, creditID string) (decimal.Decimal, error) {
	if m.SumApprovedFunc != nil {
		return m.SumApprovedFunc(ctx, tx, creditID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, p := range m.payments {
		if p.CreditID == creditID && p.Status.CountsTowardBalance() {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (m *MockPaymentRepository) ListViews(ctx context.Context, search string, limit, offset int) ([]*domain.PaymentView, error) {
	if m.ListViewsFunc != nil {
		return m.ListViewsFunc(ctx, search, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	views := make([]*domain.PaymentView, 0, len(m.payments))
	for _, p := range m.payments {
		views = append(views, &domain.PaymentView{Payment: *p})
	}
	return views, nil
}

// Payments returns a copy of all recorded payments.
func (m *MockPaymentRepository) Payments() []*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Payment, len(m.payments))
	copy(out, m.payments)
	return out
}

// MockClosureRepository is a mock implementation of ClosureRepository.
type MockClosureRepository struct {
	mu       sync.RWMutex
	closures []*domain.ClosureRecord

	ExistsFunc func(ctx context.Context, key domain.ClosureKey) (bool, error)
	CreateFunc func(ctx context.Context, record *domain.ClosureRecord) error
	ListFunc   func(ctx context.Context, q usecase.ClosureQuery) ([]*domain.ClosureView, error)
}

func NewMockClosureRepository() *MockClosureRepository {
	return &MockClosureRepository{}
}

func (m *MockClosureRepository) matches(rec *domain.ClosureRecord, key domain.ClosureKey) bool {
	if !rec.ClosureDate.Equal(key.Date) || rec.Scope != key.Scope {
		return false
	}
	if key.Scope == domain.ScopePersonal && rec.UserID != key.UserID {
		return false
	}
	return true
}

func (m *MockClosureRepository) Exists(ctx context.Context, key domain.ClosureKey) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.closures {
		if m.matches(rec, key) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockClosureRepository) Create(ctx context.Context, record *domain.ClosureRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := domain.ClosureKey{Date: record.ClosureDate, Scope: record.Scope, UserID: record.UserID}
	for _, rec := range m.closures {
		if m.matches(rec, key) {
			return domain.ErrDuplicateClosure
		}
	}
	m.closures = append(m.closures, record)
	return nil
}

func (m *MockClosureRepository) List(ctx context.Context, q usecase.ClosureQuery) ([]*domain.ClosureView, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	views := make([]*domain.ClosureView, 0)
	for _, rec := range m.closures {
		if rec.ClosureDate.Before(q.From) || rec.ClosureDate.After(q.To) {
			continue
		}
		if q.Scope != nil && rec.Scope != *q.Scope {
			continue
		}
		if q.UserID != nil && rec.Scope == domain.ScopePersonal && rec.UserID != *q.UserID {
			continue
		}
		if q.VisibleTo != nil && rec.Scope == domain.ScopePersonal && rec.UserID != *q.VisibleTo {
			continue
		}
		views = append(views, &domain.ClosureView{ClosureRecord: *rec})
	}
	return views, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
	ListFunc   func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

// Logs returns a copy of all recorded audit logs.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
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

// MockCache is an in-memory mock implementation of Cache.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		entries: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return v, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
