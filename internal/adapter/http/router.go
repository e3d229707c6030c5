package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/druiz/poscaja/internal/adapter/http/handler"
	"github.com/druiz/poscaja/internal/adapter/http/middleware"
	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	CreditHandler  *handler.CreditHandler
	ClosureHandler *handler.ClosureHandler
	HealthHandler  *handler.HealthHandler
	JWTManager     *auth.JWTManager
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	loginLimiter := middleware.NewRateLimiter(5, 10)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.With(loginLimiter.Limit).Post("/auth/login", cfg.AuthHandler.Login)

		// Everything else requires an authenticated actor
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			r.Get("/auth/me", cfg.AuthHandler.Me)

			// Credit ledger
			r.Route("/credits", func(r chi.Router) {
				r.Get("/customer/{customerID}", cfg.CreditHandler.GetOutstanding)
				r.With(middleware.RequireRole(domain.Role.CanRecordPayments)).
					Post("/{creditID}/payments", cfg.CreditHandler.RegisterPayment)
			})

			r.Get("/payments", cfg.CreditHandler.ListPayments)

			// Closure registrar
			r.Route("/closures", func(r chi.Router) {
				r.Get("/", cfg.ClosureHandler.List)
				r.Get("/status", cfg.ClosureHandler.Status)
				r.With(middleware.RequireRole(domain.Role.CanCreateClosures)).
					Post("/", cfg.ClosureHandler.Create)
			})
		})
	})

	return r
}
