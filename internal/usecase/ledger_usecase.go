package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
)

// LedgerUseCase owns the lifecycle of customer credits and the
// payments applied against them.
type LedgerUseCase struct {
	txManager   TransactionManager
	creditRepo  CreditRepository
	paymentRepo PaymentRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	creditRepo CreditRepository,
	paymentRepo PaymentRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		creditRepo:  creditRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
	}
}

// GetOutstandingCredit returns the customer's pending credit with
// computed payment totals, or ErrCreditNotFound when none is pending.
func (uc *LedgerUseCase) GetOutstandingCredit(ctx context.Context, customerID string) (*domain.CreditView, error) {
	view, err := uc.creditRepo.GetOutstandingByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	view.TotalPaid = view.TotalPaid.Round(2)
	view.PendingBalance = view.Principal.Sub(view.TotalPaid).Round(2)

	return view, nil
}

// RegisterPaymentInput represents input for recording a payment.
type RegisterPaymentInput struct {
	CreditID  string
	Amount    decimal.Decimal
	Method    string
	Reference string
	UserID    string
}

// RegisterPaymentResult carries the updated totals after a payment.
type RegisterPaymentResult struct {
	PaymentID        string
	TotalPaid        decimal.Decimal
	RemainingBalance decimal.Decimal
}

// RegisterPayment records a payment against a pending credit. The whole
// read-modify-write runs inside one transaction holding a row lock on
// the credit, so two concurrent payments cannot both pass the
// overpayment check against the same shrinking balance.
//
// Duplicate submissions produce two distinct payments; deduplication is
// the caller's responsibility.
func (uc *LedgerUseCase) RegisterPayment(ctx context.Context, input RegisterPaymentInput) (*RegisterPaymentResult, error) {
	// 0. Validate inputs before starting transaction
	if input.CreditID == "" || input.UserID == "" {
		return nil, domain.ErrCreditNotFound
	}

	if err := domain.ValidatePaymentAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidatePaymentMethod(input.Method); err != nil {
		return nil, err
	}

	// Bound the lock hold time: a stuck payment must not pin the
	// credit row indefinitely.
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 1. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 2. Lock the credit row for the duration of the balance check
	credit, err := uc.creditRepo.GetByIDForUpdate(ctx, tx, input.CreditID)
	if err != nil {
		return nil, err
	}

	// 3. Accumulated approved payments so far
	totalPaid, err := uc.paymentRepo.SumApproved(ctx, tx, input.CreditID)
	if err != nil {
		return nil, err
	}

	// 4. Reject non-pending credits and overpayment, strictly
	if err := credit.ValidatePayment(input.Amount, totalPaid); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// 5. Record the payment
	payment := &domain.Payment{
		ID:        uc.idGen.Generate(),
		CreditID:  input.CreditID,
		Amount:    input.Amount,
		Method:    input.Method,
		Reference: input.Reference,
		UserID:    input.UserID,
		Status:    domain.PaymentCompleted,
		PaidAt:    now,
		CreatedAt: now,
	}

	if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
		return nil, err
	}

	// 6. Settle the credit when the principal is fully covered
	if credit.IsSettledBy(input.Amount, totalPaid) {
		if err := uc.creditRepo.UpdateStatus(ctx, tx, credit.ID, domain.CreditPaid, now); err != nil {
			return nil, err
		}
	}

	// 7. Commit releases the row lock
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.UserID, domain.AuditActionPaymentRegister, "payment", payment.ID, payment)

	newTotal := totalPaid.Add(input.Amount)

	remaining := credit.Principal.Sub(newTotal)
	if remaining.IsNegative() {
		// rounding drift never owes the customer money
		remaining = decimal.Zero
	}

	return &RegisterPaymentResult{
		PaymentID:        payment.ID,
		TotalPaid:        newTotal.Round(2),
		RemainingBalance: remaining.Round(2),
	}, nil
}

// ListPaymentsInput represents input for listing payments.
type ListPaymentsInput struct {
	Search string
	Limit  int
	Offset int
}

// ListPayments lists recorded payments joined with customer data,
// newest first. Search matches case-insensitively against the
// customer's first, last, or full name.
func (uc *LedgerUseCase) ListPayments(ctx context.Context, input ListPaymentsInput) ([]*domain.PaymentView, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.paymentRepo.ListViews(ctx, input.Search, limit, offset)
}

// audit writes a best-effort audit entry after commit. Audit failures
// never fail the business operation.
func (uc *LedgerUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceType, resourceID string, state any) {
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
