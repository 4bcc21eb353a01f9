package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type IncomePaymentStatus string

const (
	IncomePaymentPending  IncomePaymentStatus = "PENDING"
	IncomePaymentReceived IncomePaymentStatus = "RECEIVED"
)

// Income is a leaf revenue transaction outside the builty flow (detention
// charges, scrap sale, and the like). It feeds trip P&L.
type Income struct {
	ID            string
	TripID        *string
	TruckID       *string
	ClientID      *string
	BuiltyID      *string
	Source        string
	Description   string
	Amount        decimal.Decimal
	IncomeDate    time.Time
	PaymentStatus IncomePaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates an income record before recording.
func (i *Income) Validate() error {
	if i.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}
