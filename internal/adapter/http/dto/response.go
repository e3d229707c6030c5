package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
)

// CreditResponse represents an outstanding credit in API responses.
type CreditResponse struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Principal      decimal.Decimal `json:"principal"`
	Status         string          `json:"status"`
	DueDate        string          `json:"due_date"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
}

// CreditFromDomain converts a credit view to a response.
func CreditFromDomain(v *domain.CreditView) *CreditResponse {
	return &CreditResponse{
		ID:             v.ID,
		CustomerID:     v.CustomerID,
		CustomerName:   v.CustomerName(),
		Principal:      v.Principal,
		Status:         string(v.Status),
		DueDate:        v.DueDate.Format("2006-01-02"),
		TotalPaid:      v.TotalPaid,
		PendingBalance: v.PendingBalance,
	}
}

// PaymentResultResponse reports the updated totals after a payment.
type PaymentResultResponse struct {
	PaymentID        string          `json:"payment_id"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID           string          `json:"id"`
	CreditID     string          `json:"credit_id"`
	CustomerName string          `json:"customer_name"`
	Principal    decimal.Decimal `json:"principal"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Reference    string          `json:"reference,omitempty"`
	UserID       string          `json:"user_id"`
	Status       string          `json:"status"`
	PaidAt       time.Time       `json:"paid_at"`
}

// PaymentFromDomain converts a payment view to a response.
func PaymentFromDomain(v *domain.PaymentView) *PaymentResponse {
	return &PaymentResponse{
		ID:           v.ID,
		CreditID:     v.CreditID,
		CustomerName: v.CustomerName,
		Principal:    v.Principal,
		Amount:       v.Amount,
		Method:       v.Method,
		Reference:    v.Reference,
		UserID:       v.UserID,
		Status:       string(v.Status),
		PaidAt:       v.PaidAt,
	}
}

// PaymentsFromDomain converts payment views to responses.
func PaymentsFromDomain(views []*domain.PaymentView) []*PaymentResponse {
	result := make([]*PaymentResponse, len(views))
	for i, v := range views {
		result[i] = PaymentFromDomain(v)
	}
	return result
}

// ClosureResponse represents a closure record in API responses.
type ClosureResponse struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Difference decimal.Decimal `json:"difference"`
	UserID     string          `json:"user_id"`
	UserName   string          `json:"user_name,omitempty"`
	Scope      string          `json:"scope"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ClosureFromDomain converts a closure record to a response.
func ClosureFromDomain(c *domain.ClosureRecord) *ClosureResponse {
	return &ClosureResponse{
		ID:         c.ID,
		Date:       c.ClosureDate.Format("2006-01-02"),
		Amount:     c.Amount,
		Difference: c.Difference,
		UserID:     c.UserID,
		Scope:      string(c.Scope),
		CreatedAt:  c.CreatedAt,
	}
}

// ClosureViewFromDomain converts a closure view to a response.
func ClosureViewFromDomain(v *domain.ClosureView) *ClosureResponse {
	resp := ClosureFromDomain(&v.ClosureRecord)
	resp.UserName = v.UserName
	return resp
}

// ClosuresFromDomain converts closure views to responses.
func ClosuresFromDomain(views []*domain.ClosureView) []*ClosureResponse {
	result := make([]*ClosureResponse, len(views))
	for i, v := range views {
		result[i] = ClosureViewFromDomain(v)
	}
	return result
}

// ClosedStatusResponse reports whether a date is closed for a scope.
type ClosedStatusResponse struct {
	Date   string `json:"date"`
	Scope  string `json:"scope"`
	Closed bool   `json:"closed"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
