package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
)

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Client, error)
	UpdateOutstanding(ctx context.Context, tx Transaction, id string, outstanding decimal.Decimal, updatedAt time.Time) error
	SetActive(ctx context.Context, tx Transaction, id string, active bool, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Client, error)
	// HasFinancialHistory reports whether any builty or payment references
	// the client.
	HasFinancialHistory(ctx context.Context, id string) (bool, error)
}

// BuiltyRepository defines data access for builties.
type BuiltyRepository interface {
	Create(ctx context.Context, tx Transaction, builty *domain.Builty) error
	GetByID(ctx context.Context, id string) (*domain.Builty, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Builty, error)
	GetByNumber(ctx context.Context, number string) (*domain.Builty, error)
	// UpdateAmounts persists TotalCharges, AdvanceReceived and the derived
	// BalanceAmount/PaymentStatus together. There is no narrower write path
	// for the derived fields.
	UpdateAmounts(ctx context.Context, tx Transaction, builty *domain.Builty) error
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Builty, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Builty, error)
	ListByPaymentStatus(ctx context.Context, status domain.BuiltyPaymentStatus, limit, offset int) ([]*domain.Builty, error)
	ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Builty, error)
	// SumUnpaidByClient returns the sum of balance amounts over the
	// client's builties, for outstanding-balance audits.
	SumUnpaidByClient(ctx context.Context, clientID string) (decimal.Decimal, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Payment, error)
	// UpdateState persists State, AppliedAt and ReversedAt together.
	UpdateState(ctx context.Context, tx Transaction, payment *domain.Payment) error
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Payment, error)
	ListByBuilty(ctx context.Context, builtyID string, limit, offset int) ([]*domain.Payment, error)
	// CountByTrip counts payments recorded against any builty of the trip.
	CountByTrip(ctx context.Context, tripID string) (int64, error)
}

// TripRepository defines data access for trips.
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Trip, error)
	UpdateStatus(ctx context.Context, tx Transaction, trip *domain.Trip) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Trip, error)
	ListByStatus(ctx context.Context, status domain.TripStatus, limit, offset int) ([]*domain.Trip, error)
}

// ExpenseRepository defines data access for trip expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error)
	SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error)
	DeleteByTrip(ctx context.Context, tx Transaction, tripID string) error
}

// IncomeRepository defines data access for trip income records.
type IncomeRepository interface {
	Create(ctx context.Context, income *domain.Income) error
	GetByID(ctx context.Context, id string) (*domain.Income, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Income, error)
	SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error)
	DeleteByTrip(ctx context.Context, tx Transaction, tripID string) error
}

// TruckRepository defines data access for trucks.
type TruckRepository interface {
	Create(ctx context.Context, truck *domain.Truck) error
	GetByID(ctx context.Context, id string) (*domain.Truck, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Truck, error)
}

// DriverRepository defines data access for drivers.
type DriverRepository interface {
	Create(ctx context.Context, driver *domain.Driver) error
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Driver, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient write conflicts. Exhausted
// retries surface as domain.ErrConcurrentModification.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
