package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/infrastructure/auth"
)

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("expected user in context")
		} else if user.ID != wantUser {
			t.Errorf("expected user %s, got %s", wantUser, user.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	token, err := jwtManager.Generate(&domain.User{
		ID: "usr-1", Email: "a@example.com", Role: domain.RoleCashier,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	mw := AuthMiddleware(jwtManager)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		mw(okHandler(t, "usr-1")).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	reject := func(name string, setup func(*http.Request)) {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			setup(req)
			rec := httptest.NewRecorder()

			mw(okHandler(t, "")).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}

	reject("missing header", func(r *http.Request) {})
	reject("malformed header", func(r *http.Request) { r.Header.Set("Authorization", token) })
	reject("wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) })
	reject("garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") })
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", -time.Minute)

	token, err := jwtManager.Generate(&domain.User{ID: "usr-1", Role: domain.RoleCashier})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("expected expired token to be rejected before the handler")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(domain.Role.CanViewAllClosures)

	run := func(user *domain.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != nil {
			req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))
		}
		rec := httptest.NewRecorder()

		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rec, req)

		return rec
	}

	if rec := run(&domain.User{ID: "usr-1", Role: domain.RoleAdmin}); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
	if rec := run(&domain.User{ID: "usr-1", Role: domain.RoleCashier}); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for cashier, got %d", rec.Code)
	}
	if rec := run(nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without user, got %d", rec.Code)
	}
}
