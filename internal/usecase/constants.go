package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents a stuck payment from holding the credit row lock
	DefaultTransactionTimeout = 10 * time.Second
)
