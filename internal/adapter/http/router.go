package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tellergo/teller/internal/adapter/http/handler"
	"github.com/tellergo/teller/internal/adapter/http/middleware"
	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	LedgerHandler  *handler.LedgerHandler
	BankerHandler  *handler.BankerHandler
	HealthHandler  *handler.HealthHandler
	MetricsHandler http.Handler

	Authenticator *middleware.Authenticator
	Logging       *middleware.LoggingMiddleware
	Metrics       *middleware.MetricsMiddleware
	Recovery      *middleware.RecoveryMiddleware
	LoginLimiter  *middleware.RateLimiter

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(cfg.Logging.Wrap)
	r.Use(cfg.Metrics.Wrap)
	r.Use(cfg.Recovery.Wrap)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)

			if cfg.LoginLimiter != nil {
				r.With(cfg.LoginLimiter.Limit).Post("/login", cfg.AuthHandler.Login)
			} else {
				r.Post("/login", cfg.AuthHandler.Login)
			}

			r.Group(func(r chi.Router) {
				r.Use(cfg.Authenticator.Wrap)
				r.Post("/logout", cfg.AuthHandler.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticator.Wrap)

			// Idempotency runs after auth so keys are scoped per user.
			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotency.Wrap)
			}

			// Customers operate on their own accounts.
			r.Route("/accounts", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleCustomer))

				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/transactions", cfg.LedgerHandler.History)
				r.Post("/{id}/deposit", cfg.LedgerHandler.Deposit)
				r.Post("/{id}/withdraw", cfg.LedgerHandler.Withdraw)
			})

			// Bankers see everything, read-only.
			r.Route("/banker", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleBanker))

				r.Get("/customers", cfg.BankerHandler.ListCustomers)
				r.Get("/customers/search", cfg.BankerHandler.SearchCustomers)
				r.Get("/accounts", cfg.BankerHandler.ListAccounts)
				r.Get("/accounts/{id}/transactions", cfg.BankerHandler.AccountHistory)
			})
		})
	})

	return r
}
