package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrInvalidMethod   = errors.New("invalid payment method")
	ErrInvalidDate     = errors.New("invalid date")
)

// Validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxPaymentAmount  = "10000000" // sanity ceiling, not a business rule
	MaxMethodLength   = 30
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: minimum %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: maximum %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}
	return nil
}

// ValidatePaymentAmount validates a payment amount before it reaches
// the balance check. Fixed-point with at most 2 decimal places.
func ValidatePaymentAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	max, _ := decimal.NewFromString(MaxPaymentAmount)
	if amount.GreaterThan(max) {
		return ErrAmountTooLarge
	}

	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: at most 2 decimal places", ErrInvalidAmount)
	}

	return nil
}

// ValidatePaymentMethod validates the payment method label
func ValidatePaymentMethod(method string) error {
	method = strings.TrimSpace(method)
	if method == "" || len(method) > MaxMethodLength {
		return ErrInvalidMethod
	}
	return nil
}

// ValidateDateRange validates an inclusive closure date range
func ValidateDateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return ErrInvalidDate
	}
	if ClosureDateOnly(from).After(ClosureDateOnly(to)) {
		return ErrInvalidRange
	}
	return nil
}

// ValidatePagination clamps limit and offset to sane bounds
func ValidatePagination(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}
