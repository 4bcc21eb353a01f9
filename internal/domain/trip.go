package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TripStatus string

const (
	TripStatusPending   TripStatus = "PENDING"
	TripStatusRunning   TripStatus = "RUNNING"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Trip represents a single truck journey. A trip owns its expense and income
// records (trip-scoped P&L); profit/loss is computed on demand from those
// collections, never stored.
type Trip struct {
	ID           string
	TruckID      string
	DriverID     string
	ClientID     *string
	Status       TripStatus
	FromLocation string
	ToLocation   string
	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time
	DistanceKM   decimal.Decimal
	FuelLitres   decimal.Decimal
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TransitionTo moves the trip through its status machine:
// PENDING -> RUNNING -> COMPLETED, and PENDING|RUNNING -> CANCELLED.
// ActualEnd is set exactly once, at the COMPLETED transition.
func (t *Trip) TransitionTo(next TripStatus, now time.Time) error {
	switch {
	case t.Status == TripStatusPending && next == TripStatusRunning:
		start := now
		t.ActualStart = &start
	case t.Status == TripStatusRunning && next == TripStatusCompleted:
		end := now
		t.ActualEnd = &end
	case (t.Status == TripStatusPending || t.Status == TripStatusRunning) && next == TripStatusCancelled:
	default:
		return fmt.Errorf("%w: trip %s -> %s", ErrInvalidStateTransition, t.Status, next)
	}

	t.Status = next
	return nil
}

// Validate validates a trip before creation.
func (t *Trip) Validate() error {
	if t.TruckID == "" || t.DriverID == "" {
		return fmt.Errorf("%w: trip requires a truck and a driver", ErrInvalidStateTransition)
	}
	if t.DistanceKM.IsNegative() || t.FuelLitres.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
