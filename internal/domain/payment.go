package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a recorded payment.
type PaymentStatus string

const (
	// PaymentCompleted is the terminal state of a payment recorded at the till.
	PaymentCompleted PaymentStatus = "completed"

	// PaymentApproved is a payment confirmed through an external channel.
	PaymentApproved PaymentStatus = "approved"

	// PaymentRejected is a payment that failed external confirmation.
	// Rejected payments never count toward the credit balance.
	PaymentRejected PaymentStatus = "rejected"
)

// CountsTowardBalance reports whether a payment in this status
// contributes to the accumulated total of its credit.
func (s PaymentStatus) CountsTowardBalance() bool {
	return s == PaymentCompleted || s == PaymentApproved
}

// Payment is one payment applied to a CreditAccount. Payments are
// immutable once recorded; there is no edit or delete path.
type Payment struct {
	ID        string
	CreditID  string
	Amount    decimal.Decimal
	Method    string
	Reference string
	UserID    string
	Status    PaymentStatus
	PaidAt    time.Time
	CreatedAt time.Time
}

// PaymentView is a Payment joined with its credit's customer and principal.
type PaymentView struct {
	Payment

	CustomerName string
	Principal    decimal.Decimal
}
