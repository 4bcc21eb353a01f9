package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type BuiltyPaymentStatus string

const (
	BuiltyPaymentPending BuiltyPaymentStatus = "PENDING"
	BuiltyPaymentPartial BuiltyPaymentStatus = "PARTIAL"
	BuiltyPaymentPaid    BuiltyPaymentStatus = "PAID"
)

// Builty is a freight invoice (consignment note) issued per trip-client
// combination.
//
// BalanceAmount and PaymentStatus are derived from TotalCharges and
// AdvanceReceived through Recompute. The reconciliation service is the only
// writer of AdvanceReceived; no caller may set the derived fields
// independently of a recompute.
type Builty struct {
	ID               string
	BuiltyNumber     string
	TripID           string
	ClientID         string
	ConsignorName    string
	ConsigneeName    string
	GoodsDescription string
	WeightTonnes     decimal.Decimal
	FreightCharges   decimal.Decimal
	LoadingCharges   decimal.Decimal
	UnloadingCharges decimal.Decimal
	OtherCharges     decimal.Decimal
	TaxAmount        decimal.Decimal
	TotalCharges     decimal.Decimal
	AdvanceReceived  decimal.Decimal
	BalanceAmount    decimal.Decimal
	PaymentStatus    BuiltyPaymentStatus
	BuiltyDate       time.Time
	DueDate          time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ComputeTotalCharges sums the charge components at the currency scale.
// GST/TDS amounts are opaque inputs here, not computed from tax law.
func (b *Builty) ComputeTotalCharges() decimal.Decimal {
	total := b.FreightCharges.
		Add(b.LoadingCharges).
		Add(b.UnloadingCharges).
		Add(b.OtherCharges).
		Add(b.TaxAmount)
	return RoundCurrency(total)
}

// Recompute derives BalanceAmount and PaymentStatus from TotalCharges and
// AdvanceReceived. It is a pure function of current state and idempotent:
// running it twice with unchanged inputs yields identical outputs.
//
// Over-payment clamps the balance at zero rather than reporting negative
// debt. A charge amendment after payments exist may move the status backward
// (PAID -> PARTIAL); that is intentional, not an error.
func (b *Builty) Recompute() {
	b.BalanceAmount = SubClamped(b.TotalCharges, b.AdvanceReceived)

	switch {
	case b.BalanceAmount.IsZero():
		b.PaymentStatus = BuiltyPaymentPaid
	case b.AdvanceReceived.IsPositive():
		b.PaymentStatus = BuiltyPaymentPartial
	default:
		b.PaymentStatus = BuiltyPaymentPending
	}
}

// Validate validates a builty before creation.
func (b *Builty) Validate() error {
	if err := ValidateBuiltyNumber(b.BuiltyNumber); err != nil {
		return err
	}
	if b.TripID == "" || b.ClientID == "" {
		return fmt.Errorf("%w: builty requires a trip and a client", ErrInvalidStateTransition)
	}
	if b.TotalCharges.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: total charges must be positive", ErrInvalidAmount)
	}
	if b.AdvanceReceived.IsNegative() {
		return fmt.Errorf("%w: advance received cannot be negative", ErrInvalidAmount)
	}
	return nil
}

// IsOverdue reports whether the builty still carries a balance past its due
// date.
func (b *Builty) IsOverdue(asOf time.Time) bool {
	return b.BalanceAmount.IsPositive() && asOf.After(b.DueDate)
}
