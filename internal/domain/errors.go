package domain

import "errors"

var (
	// Credit ledger errors
	ErrCreditNotFound = errors.New("credit not found or not pending")
	ErrOverpayment    = errors.New("payment exceeds remaining balance")
	ErrInvalidAmount  = errors.New("amount must be positive")

	// Closure registrar errors
	ErrDuplicateClosure = errors.New("closure already exists for this date")
	ErrInvalidScope     = errors.New("scope must be general or personal")
	ErrMissingUser      = errors.New("personal scope requires a user")
	ErrInvalidRange     = errors.New("from date must not be after to date")

	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidRole    = errors.New("role must be admin, cashier, or viewer")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)
