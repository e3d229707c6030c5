package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
)

// CreditRepository defines data access for credit accounts.
type CreditRepository interface {
	GetOutstandingByCustomer(ctx context.Context, customerID string) (*domain.CreditView, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CreditAccount, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.CreditStatus, updatedAt time.Time) error
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	SumApproved(ctx context.Context, tx Transaction, creditID string) (decimal.Decimal, error)
	ListViews(ctx context.Context, search string, limit, offset int) ([]*domain.PaymentView, error)
}

// ClosureQuery describes a closure listing filter. Scope and UserID
// follow the same matching rule as the closed-date check; VisibleTo
// restricts personal closures to a single owner without hiding
// general ones.
type ClosureQuery struct {
	From      time.Time
	To        time.Time
	Scope     *domain.ClosureScope
	UserID    *string
	VisibleTo *string
	Limit     int
	Offset    int
}

// ClosureRepository defines data access for closure records.
type ClosureRepository interface {
	Exists(ctx context.Context, key domain.ClosureKey) (bool, error)
	Create(ctx context.Context, record *domain.ClosureRecord) error
	List(ctx context.Context, q ClosureQuery) ([]*domain.ClosureView, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
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

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
