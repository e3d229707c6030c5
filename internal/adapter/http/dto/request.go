package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/usecase"
)

var validate = validator.New()

// RegisterPaymentRequest represents a request to record a payment
// against a credit. Amount is a pointer so presence is validated
// separately from value.
type RegisterPaymentRequest struct {
	Amount    *decimal.Decimal `json:"amount"              validate:"required"`
	Method    string           `json:"method"              validate:"required,max=30"`
	Reference string           `json:"reference,omitempty" validate:"max=100"`
}

// Validate validates the request.
func (r *RegisterPaymentRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RegisterPaymentRequest) ToUseCaseInput(creditID, userID string) usecase.RegisterPaymentInput {
	return usecase.RegisterPaymentInput{
		CreditID:  creditID,
		Amount:    *r.Amount,
		Method:    r.Method,
		Reference: r.Reference,
		UserID:    userID,
	}
}

// CreateClosureRequest represents a request to create a cash closure.
// Amount and Difference are pointers because zero is a valid declared
// amount; absence is what gets rejected.
type CreateClosureRequest struct {
	Date       string           `json:"date"       validate:"required,datetime=2006-01-02"`
	Amount     *decimal.Decimal `json:"amount"     validate:"required"`
	Difference *decimal.Decimal `json:"difference" validate:"required"`
	Scope      string           `json:"scope"      validate:"required"`
}

// Validate validates the request.
func (r *CreateClosureRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *CreateClosureRequest) ToUseCaseInput(userID string) (usecase.CreateClosureInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return usecase.CreateClosureInput{}, err
	}

	return usecase.CreateClosureInput{
		Date:       date,
		Amount:     *r.Amount,
		Difference: *r.Difference,
		UserID:     userID,
		Scope:      domain.ClosureScope(r.Scope),
	}, nil
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the request.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}
