package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/fleetledger/internal/adapter/http/handler"
	"github.com/iho/fleetledger/internal/adapter/http/middleware"
	"github.com/iho/fleetledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ClientHandler    *handler.ClientHandler
	BuiltyHandler    *handler.BuiltyHandler
	PaymentHandler   *handler.PaymentHandler
	TripHandler      *handler.TripHandler
	FleetHandler     *handler.FleetHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.ClientHandler.Create)
			r.Get("/", cfg.ClientHandler.List)
			r.Get("/{id}", cfg.ClientHandler.Get)
			r.Delete("/{id}", cfg.ClientHandler.Delete)
			r.Post("/{id}/deactivate", cfg.ClientHandler.Deactivate)
			r.Post("/{id}/reactivate", cfg.ClientHandler.Reactivate)
			r.Get("/{id}/builties", cfg.BuiltyHandler.ListByClient)
			r.Get("/{id}/payments", cfg.PaymentHandler.ListByClient)
			r.Get("/{id}/outstanding", cfg.ReportHandler.ClientOutstanding)
			r.Get("/{id}/aging", cfg.ReportHandler.ClientAging)
			r.Get("/{id}/consistency", cfg.ClientHandler.Audit)
		})

		// Ledger audit
		r.Get("/ledger/consistency", cfg.ClientHandler.AuditAll)

		// Builties
		r.Route("/builties", func(r chi.Router) {
			r.Post("/", cfg.BuiltyHandler.Create)
			r.Get("/{id}", cfg.BuiltyHandler.Get)
			r.Put("/{id}/charges", cfg.BuiltyHandler.AmendCharges)
			r.Get("/{id}/payments", cfg.PaymentHandler.ListByBuilty)
		})

		// Payments
		r.Route("/payments", func(r chi.Router) {
			r.Post("/", cfg.PaymentHandler.Create)
			r.Get("/{id}", cfg.PaymentHandler.Get)
			r.Post("/{id}/receive", cfg.PaymentHandler.MarkReceived)
			r.Post("/{id}/clear", cfg.PaymentHandler.MarkCleared)
			r.Post("/{id}/bounce", cfg.PaymentHandler.MarkBounced)
		})

		// Trips
		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.Create)
			r.Get("/", cfg.TripHandler.List)
			r.Get("/{id}", cfg.TripHandler.Get)
			r.Delete("/{id}", cfg.TripHandler.Delete)
			r.Post("/{id}/start", cfg.TripHandler.Start)
			r.Post("/{id}/complete", cfg.TripHandler.Complete)
			r.Post("/{id}/cancel", cfg.TripHandler.Cancel)
			r.Post("/{id}/expenses", cfg.TripHandler.AddExpense)
			r.Get("/{id}/expenses", cfg.TripHandler.ListExpenses)
			r.Post("/{id}/income", cfg.TripHandler.AddIncome)
			r.Get("/{id}/income", cfg.TripHandler.ListIncome)
			r.Get("/{id}/pnl", cfg.TripHandler.ProfitLoss)
			r.Get("/{id}/builties", cfg.BuiltyHandler.ListByTrip)
		})

		// Fleet registry
		r.Route("/trucks", func(r chi.Router) {
			r.Post("/", cfg.FleetHandler.CreateTruck)
			r.Get("/", cfg.FleetHandler.ListTrucks)
			r.Get("/{id}", cfg.FleetHandler.GetTruck)
		})
		r.Route("/drivers", func(r chi.Router) {
			r.Post("/", cfg.FleetHandler.CreateDriver)
			r.Get("/", cfg.FleetHandler.ListDrivers)
			r.Get("/{id}", cfg.FleetHandler.GetDriver)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/builties/pending", cfg.ReportHandler.PendingBuilties)
			r.Get("/builties/overdue", cfg.ReportHandler.OverdueBuilties)
		})
	})

	return r
}
