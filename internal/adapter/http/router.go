package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finbook/finbook/internal/adapter/http/handler"
	"github.com/finbook/finbook/internal/adapter/http/middleware"
	"github.com/finbook/finbook/internal/infrastructure/auth"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
	"github.com/finbook/finbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	PostingHandler   *handler.PostingHandler
	DocumentHandler  *handler.DocumentHandler
	PaymentHandler   *handler.PaymentHandler
	CashHandler      *handler.CashHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	JWTManager       *auth.JWTManager
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.PostingHandler.GetBalance)
			r.Get("/{id}/lines", cfg.PostingHandler.ListLines)
		})

		// Bank accounts
		r.Route("/banks", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.CreateBank)
			r.Get("/{id}", cfg.AccountHandler.GetBank)
			r.Get("/{id}/balance", cfg.PostingHandler.GetBankBalance)
		})

		// Posting
		r.Route("/batches", func(r chi.Router) {
			r.Post("/", cfg.PostingHandler.PostBatch)
			r.Get("/{ref}", cfg.PostingHandler.GetBatch)
		})
		r.Post("/journal-entries", cfg.PostingHandler.PostJournalEntry)

		// Documents (invoices and bills)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", cfg.DocumentHandler.Create)
			r.Get("/", cfg.DocumentHandler.ListOpen)
			r.Get("/outstanding", cfg.DocumentHandler.Outstanding)
			r.Get("/{id}", cfg.DocumentHandler.Get)
			r.Post("/{id}/void", cfg.DocumentHandler.Void)
		})

		// Payments
		r.Route("/payments", func(r chi.Router) {
			r.Post("/", cfg.PaymentHandler.Record)
			r.Get("/", cfg.PaymentHandler.ListByParty)
			r.Get("/{id}", cfg.PaymentHandler.Get)
			r.Post("/{id}/apply", cfg.PaymentHandler.Apply)
		})

		// Cash movements
		r.Route("/cash", func(r chi.Router) {
			r.Post("/receipts", cfg.CashHandler.Receipt)
			r.Post("/disbursements", cfg.CashHandler.Disbursement)
			r.Post("/transfers", cfg.CashHandler.Transfer)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/profit-loss", cfg.ReportHandler.ProfitAndLoss)
			r.Get("/cash-flow", cfg.ReportHandler.CashFlow)
			r.Get("/consistency", cfg.ReportHandler.Consistency)
		})
	})

	return r
}
