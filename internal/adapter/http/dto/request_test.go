package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/domain"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRegisterPaymentRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         RegisterPaymentRequest
		expectError bool
	}{
		{
			name: "valid",
			req:  RegisterPaymentRequest{Amount: decPtr("60"), Method: "cash"},
		},
		{
			name: "valid with reference",
			req:  RegisterPaymentRequest{Amount: decPtr("60"), Method: "transfer", Reference: "TRX-922"},
		},
		{
			name:        "missing amount",
			req:         RegisterPaymentRequest{Method: "cash"},
			expectError: true,
		},
		{
			name:        "missing method",
			req:         RegisterPaymentRequest{Amount: decPtr("60")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRegisterPaymentRequest_DecodesStringAmount(t *testing.T) {
	// Amounts arrive as JSON strings so precision survives the wire.
	var req RegisterPaymentRequest
	if err := json.Unmarshal([]byte(`{"amount": "40.01", "method": "cash"}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.Amount.Equal(decimal.RequireFromString("40.01")) {
		t.Errorf("expected 40.01, got %s", req.Amount)
	}
}

func TestCreateClosureRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         CreateClosureRequest
		expectError bool
	}{
		{
			name: "valid",
			req:  CreateClosureRequest{Date: "2025-03-10", Amount: decPtr("1500"), Difference: decPtr("-3.50"), Scope: "general"},
		},
		{
			name: "zero amount is a declared value, not an absence",
			req:  CreateClosureRequest{Date: "2025-03-10", Amount: decPtr("0"), Difference: decPtr("0"), Scope: "general"},
		},
		{
			name:        "missing date",
			req:         CreateClosureRequest{Amount: decPtr("10"), Difference: decPtr("0"), Scope: "general"},
			expectError: true,
		},
		{
			name:        "wrong date layout",
			req:         CreateClosureRequest{Date: "10/03/2025", Amount: decPtr("10"), Difference: decPtr("0"), Scope: "general"},
			expectError: true,
		},
		{
			name:        "missing amount",
			req:         CreateClosureRequest{Date: "2025-03-10", Difference: decPtr("0"), Scope: "general"},
			expectError: true,
		},
		{
			name:        "missing difference",
			req:         CreateClosureRequest{Date: "2025-03-10", Amount: decPtr("10"), Scope: "general"},
			expectError: true,
		},
		{
			name:        "missing scope",
			req:         CreateClosureRequest{Date: "2025-03-10", Amount: decPtr("10"), Difference: decPtr("0")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateClosureRequest_ToUseCaseInput(t *testing.T) {
	req := CreateClosureRequest{
		Date:       "2025-03-10",
		Amount:     decPtr("1500.00"),
		Difference: decPtr("-3.50"),
		Scope:      "personal",
	}

	input, err := req.ToUseCaseInput("usr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Date.Year() != 2025 || input.Date.Month() != 3 || input.Date.Day() != 10 {
		t.Errorf("unexpected date %s", input.Date)
	}
	if input.UserID != "usr-1" {
		t.Errorf("expected usr-1, got %s", input.UserID)
	}
	if input.Scope != domain.ScopePersonal {
		t.Errorf("expected personal scope, got %s", input.Scope)
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "cashier@example.com", Password: "supersecret1"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, req := range []LoginRequest{
		{Password: "supersecret1"},
		{Email: "not-an-email", Password: "supersecret1"},
		{Email: "cashier@example.com"},
	} {
		if err := req.Validate(); err == nil {
			t.Errorf("expected error for %+v, got nil", req)
		}
	}
}
