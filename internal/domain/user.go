package domain

import (
	"errors"
	"time"
)

// User represents a system user
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin has full access, including other operators' closures
	RoleAdmin Role = "admin"

	// RoleCashier can record payments and close their own register
	RoleCashier Role = "cashier"

	// RoleViewer can only view resources, no mutations
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleCashier: true,
	RoleViewer:  true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanRecordPayments checks if the role may register credit payments
func (r Role) CanRecordPayments() bool {
	return r == RoleAdmin || r == RoleCashier
}

// CanCreateClosures checks if the role may create cash closures
func (r Role) CanCreateClosures() bool {
	return r == RoleAdmin || r == RoleCashier
}

// CanViewAllClosures checks if the role may view closures owned by
// other users. Cashiers only see their own personal closures.
func (r Role) CanViewAllClosures() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
