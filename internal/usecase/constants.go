package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// PnLCacheTTL is how long a trip P&L snapshot may be served from cache.
	// Any expense/income mutation for the trip invalidates it early.
	PnLCacheTTL = 5 * time.Minute

	// OutstandingCacheTTL is how long a client outstanding snapshot may be
	// served from cache. Reconciliation operations invalidate it early.
	OutstandingCacheTTL = 1 * time.Minute
)
