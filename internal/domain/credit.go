package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus represents the lifecycle state of a credit account.
type CreditStatus string

const (
	// CreditPending means the credit still has an outstanding balance.
	CreditPending CreditStatus = "pending"

	// CreditPaid means accumulated payments reached the principal.
	CreditPaid CreditStatus = "paid"
)

// CreditAccount is one outstanding credit extended to a customer.
// Principal is immutable after creation; Status is mutated only by the ledger.
type CreditAccount struct {
	ID                string
	CustomerID        string
	CustomerFirstName string
	CustomerLastName  string
	Principal         decimal.Decimal
	Status            CreditStatus
	DueDate           time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CustomerName returns the customer's display name.
func (c *CreditAccount) CustomerName() string {
	if c.CustomerLastName == "" {
		return c.CustomerFirstName
	}
	return c.CustomerFirstName + " " + c.CustomerLastName
}

// Remaining returns the balance still owed given the approved payment total.
func (c *CreditAccount) Remaining(totalPaid decimal.Decimal) decimal.Decimal {
	return c.Principal.Sub(totalPaid)
}

// ValidatePayment checks that amount can be applied against the credit
// without exceeding the principal. totalPaid is the sum of approved
// payments already recorded.
func (c *CreditAccount) ValidatePayment(amount, totalPaid decimal.Decimal) error {
	if c.Status != CreditPending {
		return ErrCreditNotFound
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(c.Remaining(totalPaid)) {
		return ErrOverpayment
	}
	return nil
}

// IsSettledBy reports whether applying amount on top of totalPaid
// settles the credit in full.
func (c *CreditAccount) IsSettledBy(amount, totalPaid decimal.Decimal) bool {
	return c.Principal.Sub(totalPaid.Add(amount)).LessThanOrEqual(decimal.Zero)
}

// CreditView is a CreditAccount enriched with computed payment totals.
type CreditView struct {
	CreditAccount

	TotalPaid      decimal.Decimal
	PendingBalance decimal.Decimal
}
