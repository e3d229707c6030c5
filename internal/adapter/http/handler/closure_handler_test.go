package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/druiz/poscaja/internal/adapter/http/dto"
	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/usecase"
	"github.com/druiz/poscaja/internal/usecase/mocks"
)

func newRegistrarFixture(t *testing.T) (*ClosureHandler, *mocks.MockClosureRepository) {
	t.Helper()

	repo := mocks.NewMockClosureRepository()
	uc := usecase.NewRegistrarUseCase(repo, nil, mocks.NewMockIDGenerator(), nil)

	return NewClosureHandler(uc, nil), repo
}

func admin() *domain.User {
	return &domain.User{ID: "usr-9", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func TestClosureHandler_Create(t *testing.T) {
	handler, _ := newRegistrarFixture(t)

	body, _ := json.Marshal(map[string]any{
		"date":       "2025-03-10",
		"amount":     "1500.00",
		"difference": "-3.50",
		"scope":      "general",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/closures", bytes.NewReader(body))
	req = asUser(req, cashier())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ClosureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Date != "2025-03-10" {
		t.Errorf("expected date 2025-03-10, got %s", resp.Date)
	}
	if resp.UserID != "usr-1" {
		t.Errorf("expected closure owned by usr-1, got %s", resp.UserID)
	}
}

func TestClosureHandler_Create_Duplicate(t *testing.T) {
	handler, _ := newRegistrarFixture(t)

	body, _ := json.Marshal(map[string]any{
		"date":       "2025-03-10",
		"amount":     "1500.00",
		"difference": "0",
		"scope":      "general",
	})

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/closures", bytes.NewReader(body))
		req = asUser(req, cashier())
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		if rec.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d: %s", i+1, want, rec.Code, rec.Body.String())
		}
	}
}

func TestClosureHandler_Create_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"date": `},
		{name: "missing date", body: `{"amount": "10", "difference": "0", "scope": "general"}`},
		{name: "bad date format", body: `{"date": "10/03/2025", "amount": "10", "difference": "0", "scope": "general"}`},
		{name: "missing amount", body: `{"date": "2025-03-10", "difference": "0", "scope": "general"}`},
		{name: "missing scope", body: `{"date": "2025-03-10", "amount": "10", "difference": "0"}`},
		{name: "unknown scope", body: `{"date": "2025-03-10", "amount": "10", "difference": "0", "scope": "weekly"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newRegistrarFixture(t)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/closures", bytes.NewReader([]byte(tt.body)))
			req = asUser(req, cashier())
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestClosureHandler_Create_ZeroAmountAllowed(t *testing.T) {
	handler, _ := newRegistrarFixture(t)

	// A register can close on a zero declared amount.
	body := []byte(`{"date": "2025-03-10", "amount": "0", "difference": "0", "scope": "general"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/closures", bytes.NewReader(body))
	req = asUser(req, cashier())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClosureHandler_Status(t *testing.T) {
	handler, repo := newRegistrarFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/closures/status?date=2025-03-10&scope=general", nil)
	req = asUser(req, cashier())
	rec := httptest.NewRecorder()

	handler.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ClosedStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Closed {
		t.Error("expected open date")
	}

	repo.Create(context.Background(), &domain.ClosureRecord{
		ID:          "cl-1",
		ClosureDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(100),
		UserID:      "usr-1",
		Scope:       domain.ScopeGeneral,
	})

	rec = httptest.NewRecorder()
	handler.Status(rec, req)

	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Closed {
		t.Error("expected closed date")
	}
}

func TestClosureHandler_Status_PersonalDefaultsToActor(t *testing.T) {
	handler, repo := newRegistrarFixture(t)

	repo.Create(context.Background(), &domain.ClosureRecord{
		ID:          "cl-1",
		ClosureDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(100),
		UserID:      "usr-1",
		Scope:       domain.ScopePersonal,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/closures/status?date=2025-03-10&scope=personal", nil)
	req = asUser(req, cashier())
	rec := httptest.NewRecorder()

	handler.Status(rec, req)

	var resp dto.ClosedStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Closed {
		t.Error("expected actor's own personal closure to be found")
	}
}

func TestClosureHandler_Status_InvalidDate(t *testing.T) {
	handler, _ := newRegistrarFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/closures/status?date=10-03-2025&scope=general", nil)
	req = asUser(req, cashier())
	rec := httptest.NewRecorder()

	handler.Status(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClosureHandler_List(t *testing.T) {
	handler, repo := newRegistrarFixture(t)

	records := []*domain.ClosureRecord{
		{ID: "cl-1", ClosureDate: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(800), UserID: "usr-1", Scope: domain.ScopeGeneral},
		{ID: "cl-2", ClosureDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(300), UserID: "usr-2", Scope: domain.ScopePersonal},
	}
	for _, r := range records {
		if err := repo.Create(context.Background(), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Admin sees both rows.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/closures?from=2025-03-09&to=2025-03-12", nil)
	req = asUser(req, admin())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.ClosureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("expected 2 closures, got %d", len(resp))
	}

	// A cashier loses the other user's personal row.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/closures?from=2025-03-09&to=2025-03-12", nil)
	req = asUser(req, cashier())
	rec = httptest.NewRecorder()

	handler.List(rec, req)

	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "cl-1" {
		t.Errorf("expected only the general closure, got %d rows", len(resp))
	}
}

func TestClosureHandler_List_Validation(t *testing.T) {
	tests := []struct {
		name   string
		target string
		user   *domain.User
		want   int
	}{
		{
			name:   "missing from",
			target: "/api/v1/closures?to=2025-03-12",
			user:   admin(),
			want:   http.StatusBadRequest,
		},
		{
			name:   "missing to",
			target: "/api/v1/closures?from=2025-03-09",
			user:   admin(),
			want:   http.StatusBadRequest,
		},
		{
			name:   "inverted range",
			target: "/api/v1/closures?from=2025-03-12&to=2025-03-09",
			user:   admin(),
			want:   http.StatusBadRequest,
		},
		{
			name:   "cashier asking for another user's personal list",
			target: "/api/v1/closures?from=2025-03-09&to=2025-03-12&scope=personal&user_id=usr-2",
			user:   cashier(),
			want:   http.StatusForbidden,
		},
		{
			name:   "admin asking for another user's personal list",
			target: "/api/v1/closures?from=2025-03-09&to=2025-03-12&scope=personal&user_id=usr-2",
			user:   admin(),
			want:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newRegistrarFixture(t)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = asUser(req, tt.user)
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
