package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
)

const closedDateCacheTTL = 24 * time.Hour

// RegistrarUseCase owns the lifecycle of cash-closure records and
// enforces at-most-one closure per (date, scope[, user]) key.
type RegistrarUseCase struct {
	closureRepo ClosureRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	cache       Cache
}

// NewRegistrarUseCase creates a new RegistrarUseCase. cache may be nil.
func NewRegistrarUseCase(
	closureRepo ClosureRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
) *RegistrarUseCase {
	return &RegistrarUseCase{
		closureRepo: closureRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// IsDateClosed reports whether a closure exists for the given key.
// Closures are immutable, so a positive answer is cacheable.
func (uc *RegistrarUseCase) IsDateClosed(ctx context.Context, key domain.ClosureKey) (bool, error) {
	if err := key.Validate(); err != nil {
		return false, err
	}

	key.Date = domain.ClosureDateOnly(key.Date)

	if uc.cacheHit(ctx, key) {
		return true, nil
	}

	closed, err := uc.closureRepo.Exists(ctx, key)
	if err != nil {
		return false, err
	}

	if closed {
		uc.cacheMark(ctx, key)
	}

	return closed, nil
}

// CreateClosureInput represents input for creating a closure record.
type CreateClosureInput struct {
	Date       time.Time
	Amount     decimal.Decimal
	Difference decimal.Decimal
	UserID     string
	Scope      domain.ClosureScope
}

// CreateClosure records a cash closure. The existence pre-check is a
// fast path for a friendly error; race safety comes from the schema's
// uniqueness constraint, which the repository surfaces as
// ErrDuplicateClosure when a concurrent insert wins.
func (uc *RegistrarUseCase) CreateClosure(ctx context.Context, input CreateClosureInput) (*domain.ClosureRecord, error) {
	if !input.Scope.IsValid() {
		return nil, domain.ErrInvalidScope
	}

	if input.UserID == "" {
		return nil, domain.ErrMissingUser
	}

	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	key := domain.ClosureKey{
		Date:   domain.ClosureDateOnly(input.Date),
		Scope:  input.Scope,
		UserID: input.UserID,
	}

	closed, err := uc.closureRepo.Exists(ctx, key)
	if err != nil {
		return nil, err
	}

	if closed {
		return nil, domain.ErrDuplicateClosure
	}

	record := &domain.ClosureRecord{
		ID:          uc.idGen.Generate(),
		ClosureDate: key.Date,
		Amount:      input.Amount.Round(2),
		Difference:  input.Difference.Round(2),
		UserID:      input.UserID,
		Scope:       input.Scope,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.closureRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	uc.cacheMark(ctx, key)
	uc.audit(ctx, input.UserID, domain.AuditActionClosureCreate, "closure", record.ID, record)

	return record, nil
}

// ListClosuresInput represents input for listing closures. Both range
// bounds are mandatory and inclusive. ActorID and ViewAll carry the
// caller's capability: without ViewAll, personal closures belonging to
// other users are filtered out.
type ListClosuresInput struct {
	From    time.Time
	To      time.Time
	Scope   *domain.ClosureScope
	UserID  *string
	ActorID string
	ViewAll bool
	Limit   int
	Offset  int
}

// ListClosures lists closure records joined with the owning user's
// name, newest date first.
func (uc *RegistrarUseCase) ListClosures(ctx context.Context, input ListClosuresInput) ([]*domain.ClosureView, error) {
	if err := domain.ValidateDateRange(input.From, input.To); err != nil {
		return nil, err
	}

	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	q := ClosureQuery{
		From:   domain.ClosureDateOnly(input.From),
		To:     domain.ClosureDateOnly(input.To),
		Limit:  limit,
		Offset: offset,
	}

	if input.Scope != nil {
		scope := *input.Scope
		if !scope.IsValid() {
			return nil, domain.ErrInvalidScope
		}

		q.Scope = &scope

		if scope == domain.ScopePersonal {
			if input.UserID == nil {
				return nil, domain.ErrMissingUser
			}

			if !input.ViewAll && *input.UserID != input.ActorID {
				return nil, domain.ErrInsufficientRole
			}

			q.UserID = input.UserID
		}
	}

	if !input.ViewAll {
		actor := input.ActorID
		q.VisibleTo = &actor
	}

	return uc.closureRepo.List(ctx, q)
}

func (uc *RegistrarUseCase) cacheKey(key domain.ClosureKey) string {
	k := "closed:" + string(key.Scope) + ":" + key.Date.Format("2006-01-02")
	if key.Scope == domain.ScopePersonal {
		k += ":" + key.UserID
	}

	return k
}

// cacheHit treats any cache failure as a miss.
func (uc *RegistrarUseCase) cacheHit(ctx context.Context, key domain.ClosureKey) bool {
	if uc.cache == nil {
		return false
	}

	val, err := uc.cache.Get(ctx, uc.cacheKey(key))

	return err == nil && val == "1"
}

func (uc *RegistrarUseCase) cacheMark(ctx context.Context, key domain.ClosureKey) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Set(ctx, uc.cacheKey(key), "1", closedDateCacheTTL)
}

func (uc *RegistrarUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceType, resourceID string, state any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		UserID:       userID,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		AfterState:   domain.MarshalState(state),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
