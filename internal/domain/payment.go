package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentState string

const (
	PaymentStatePending  PaymentState = "PENDING"
	PaymentStateReceived PaymentState = "RECEIVED"
	PaymentStateCleared  PaymentState = "CLEARED"
	PaymentStateBounced  PaymentState = "BOUNCED"
)

type PaymentKind string

const (
	PaymentKindAdvance PaymentKind = "ADVANCE"
	PaymentKindPartial PaymentKind = "PARTIAL"
	PaymentKindFull    PaymentKind = "FULL"
)

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeUPI          PaymentMode = "UPI"
)

// Payment is money received from a client, optionally matched to a builty.
// A payment without a builty is a general client advance: it reduces the
// client's outstanding balance but touches no invoice.
//
// AppliedAt and ReversedAt record whether the payment's monetary effect is in
// force; they are written only by the reconciliation service.
type Payment struct {
	ID         string
	ClientID   string
	BuiltyID   *string
	Amount     decimal.Decimal
	Kind       PaymentKind
	Mode       PaymentMode
	Reference  string
	State      PaymentState
	AppliedAt  *time.Time
	ReversedAt *time.Time
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate validates a payment before recording.
func (p *Payment) Validate() error {
	if p.ClientID == "" {
		return fmt.Errorf("%w: payment requires a client", ErrInvalidStateTransition)
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidAmount)
	}
	return nil
}

// TransitionTo enforces the payment state machine:
// PENDING -> RECEIVED -> CLEARED; RECEIVED|CLEARED -> BOUNCED.
// BOUNCED is terminal. A CLEARED payment is immutable except for the bounce
// transition.
func (p *Payment) TransitionTo(next PaymentState) error {
	allowed := false
	switch p.State {
	case PaymentStatePending:
		allowed = next == PaymentStateReceived
	case PaymentStateReceived:
		allowed = next == PaymentStateCleared || next == PaymentStateBounced
	case PaymentStateCleared:
		allowed = next == PaymentStateBounced
	}

	if !allowed {
		return fmt.Errorf("%w: payment %s -> %s", ErrInvalidStateTransition, p.State, next)
	}

	p.State = next
	return nil
}

// Appliable reports whether the payment may have its monetary effect applied:
// funds confirmed, never applied before.
func (p *Payment) Appliable() bool {
	confirmed := p.State == PaymentStateReceived || p.State == PaymentStateCleared
	return confirmed && p.AppliedAt == nil && p.ReversedAt == nil
}

// Applied reports whether the payment's monetary effect is currently in
// force.
func (p *Payment) Applied() bool {
	return p.AppliedAt != nil && p.ReversedAt == nil
}
