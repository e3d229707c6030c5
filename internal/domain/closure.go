package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosureScope distinguishes register-wide from per-operator closures.
type ClosureScope string

const (
	// ScopeGeneral covers the whole register for a date. At most one
	// general closure may exist per date.
	ScopeGeneral ClosureScope = "general"

	// ScopePersonal covers a single operator's sales for a date. At most
	// one personal closure may exist per (date, user).
	ScopePersonal ClosureScope = "personal"
)

// IsValid checks the scope is one of the two known values.
func (s ClosureScope) IsValid() bool {
	return s == ScopeGeneral || s == ScopePersonal
}

// ClosureRecord is one cash-closure event. Records are created once and
// never updated or deleted; a key transitions open → closed exactly once.
type ClosureRecord struct {
	ID          string
	ClosureDate time.Time
	Amount      decimal.Decimal
	Difference  decimal.Decimal
	UserID      string
	Scope       ClosureScope
	CreatedAt   time.Time
}

// ClosureView is a ClosureRecord joined with the owning user's name.
type ClosureView struct {
	ClosureRecord

	UserName string
}

// ClosureKey identifies the uniqueness key of a closure. UserID is
// ignored for the general scope.
type ClosureKey struct {
	Date   time.Time
	Scope  ClosureScope
	UserID string
}

// Validate checks the key is well formed.
func (k ClosureKey) Validate() error {
	if !k.Scope.IsValid() {
		return ErrInvalidScope
	}
	if k.Scope == ScopePersonal && k.UserID == "" {
		return ErrMissingUser
	}
	return nil
}

// ClosureDateOnly truncates t to date granularity in UTC. Closure dates
// carry no time component.
func ClosureDateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
