package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPaymentTransitionTo(t *testing.T) {
	tests := []struct {
		from    PaymentState
		to      PaymentState
		wantErr bool
	}{
		{from: PaymentStatePending, to: PaymentStateReceived},
		{from: PaymentStateReceived, to: PaymentStateCleared},
		{from: PaymentStateReceived, to: PaymentStateBounced},
		{from: PaymentStateCleared, to: PaymentStateBounced},

		{from: PaymentStatePending, to: PaymentStateCleared, wantErr: true},
		{from: PaymentStatePending, to: PaymentStateBounced, wantErr: true},
		{from: PaymentStateCleared, to: PaymentStateReceived, wantErr: true},
		{from: PaymentStateBounced, to: PaymentStateReceived, wantErr: true},
		{from: PaymentStateBounced, to: PaymentStateCleared, wantErr: true},
		{from: PaymentStateBounced, to: PaymentStatePending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			p := &Payment{ID: "pay-1", ClientID: "client-1", Amount: decimal.NewFromInt(100), State: tt.from}

			err := p.TransitionTo(tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStateTransition) {
					t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.State != tt.to {
				t.Errorf("state = %s, want %s", p.State, tt.to)
			}
		})
	}
}

func TestPaymentAppliable(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		p    Payment
		want bool
	}{
		{name: "received unapplied", p: Payment{State: PaymentStateReceived}, want: true},
		{name: "cleared unapplied", p: Payment{State: PaymentStateCleared}, want: true},
		{name: "pending", p: Payment{State: PaymentStatePending}, want: false},
		{name: "already applied", p: Payment{State: PaymentStateCleared, AppliedAt: &now}, want: false},
		{name: "bounced after reversal", p: Payment{State: PaymentStateBounced, AppliedAt: &now, ReversedAt: &now}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Appliable(); got != tt.want {
				t.Errorf("Appliable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentValidate(t *testing.T) {
	p := &Payment{ID: "pay-1", ClientID: "client-1", Amount: decimal.Zero}
	if err := p.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount accepted: %v", err)
	}

	p.Amount = decimal.RequireFromString("-10.00")
	if err := p.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount accepted: %v", err)
	}

	p.Amount = decimal.RequireFromString("3000.00")
	if err := p.Validate(); err != nil {
		t.Errorf("valid payment rejected: %v", err)
	}
}
