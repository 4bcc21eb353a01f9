package integration

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

func TestChequePaymentLifecycle(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Sharma Transport Co", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	builty, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0100", decimal.NewFromInt(1000)))
	if err != nil {
		t.Fatalf("failed to create builty: %v", err)
	}

	// A cheque starts PENDING and has no monetary effect.
	payment, err := env.paymentUC.RecordPayment(ctx, usecase.RecordPaymentInput{
		ClientID:  client.ID,
		BuiltyID:  &builty.ID,
		Amount:    decimal.NewFromInt(400),
		Kind:      domain.PaymentKindPartial,
		Mode:      domain.PaymentModeCheque,
		Reference: "CHQ-778812",
	})
	if err != nil {
		t.Fatalf("failed to record payment: %v", err)
	}
	if payment.State != domain.PaymentStatePending {
		t.Fatalf("expected PENDING, got %s", payment.State)
	}

	got, _ := env.builtyRepo.GetByID(ctx, builty.ID)
	if !got.BalanceAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("pending cheque must not change balance, got %s", got.BalanceAmount)
	}

	// Realization applies the money.
	payment, err = env.paymentUC.MarkReceived(ctx, payment.ID)
	if err != nil {
		t.Fatalf("failed to mark received: %v", err)
	}
	if payment.State != domain.PaymentStateReceived {
		t.Fatalf("expected RECEIVED, got %s", payment.State)
	}
	if payment.AppliedAt == nil {
		t.Fatal("expected AppliedAt to be set")
	}

	got, _ = env.builtyRepo.GetByID(ctx, builty.ID)
	if !got.BalanceAmount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected balance 600, got %s", got.BalanceAmount)
	}
	if got.PaymentStatus != domain.BuiltyPaymentPartial {
		t.Errorf("expected PARTIAL, got %s", got.PaymentStatus)
	}

	gotClient, _ := env.clientRepo.GetByID(ctx, client.ID)
	if !gotClient.OutstandingBalance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected outstanding 600, got %s", gotClient.OutstandingBalance)
	}

	// Clearing finalizes state without re-applying money.
	payment, err = env.paymentUC.MarkCleared(ctx, payment.ID)
	if err != nil {
		t.Fatalf("failed to mark cleared: %v", err)
	}
	if payment.State != domain.PaymentStateCleared {
		t.Fatalf("expected CLEARED, got %s", payment.State)
	}

	got, _ = env.builtyRepo.GetByID(ctx, builty.ID)
	if !got.BalanceAmount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("clearing must not re-apply, got balance %s", got.BalanceAmount)
	}
}

func TestBouncedChequeReversesEffect(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Gupta Logistics", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	builty, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0101", decimal.NewFromInt(1000)))
	if err != nil {
		t.Fatalf("failed to create builty: %v", err)
	}

	// Cash payment is applied immediately.
	payment, err := env.paymentUC.RecordPayment(ctx, usecase.RecordPaymentInput{
		ClientID: client.ID,
		BuiltyID: &builty.ID,
		Amount:   decimal.NewFromInt(1000),
		Kind:     domain.PaymentKindFull,
		Mode:     domain.PaymentModeCheque,
		Received: true,
	})
	if err != nil {
		t.Fatalf("failed to record payment: %v", err)
	}

	got, _ := env.builtyRepo.GetByID(ctx, builty.ID)
	if got.PaymentStatus != domain.BuiltyPaymentPaid {
		t.Fatalf("expected PAID before bounce, got %s", got.PaymentStatus)
	}

	payment, err = env.paymentUC.MarkBounced(ctx, payment.ID)
	if err != nil {
		t.Fatalf("failed to bounce payment: %v", err)
	}
	if payment.State != domain.PaymentStateBounced {
		t.Fatalf("expected BOUNCED, got %s", payment.State)
	}
	if payment.ReversedAt == nil {
		t.Fatal("expected ReversedAt to be set")
	}

	got, _ = env.builtyRepo.GetByID(ctx, builty.ID)
	if !got.BalanceAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected balance restored to 1000, got %s", got.BalanceAmount)
	}
	if got.PaymentStatus != domain.BuiltyPaymentPending {
		t.Errorf("expected PENDING after bounce, got %s", got.PaymentStatus)
	}

	gotClient, _ := env.clientRepo.GetByID(ctx, client.ID)
	if !gotClient.OutstandingBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected outstanding restored to 1000, got %s", gotClient.OutstandingBalance)
	}
}

func TestPendingPaymentCannotClear(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Strict Client", decimal.Zero)

	payment, err := env.paymentUC.RecordPayment(ctx, usecase.RecordPaymentInput{
		ClientID: client.ID,
		Amount:   decimal.NewFromInt(200),
		Kind:     domain.PaymentKindAdvance,
		Mode:     domain.PaymentModeCheque,
	})
	if err != nil {
		t.Fatalf("failed to record payment: %v", err)
	}

	_, err = env.paymentUC.MarkCleared(ctx, payment.ID)
	if !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestGeneralAdvanceReducesOutstanding(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Advance Payer", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	if _, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0102", decimal.NewFromInt(500))); err != nil {
		t.Fatalf("failed to create builty: %v", err)
	}

	// Advance without a builty reference only touches the client balance.
	if _, err := env.paymentUC.RecordPayment(ctx, usecase.RecordPaymentInput{
		ClientID: client.ID,
		Amount:   decimal.NewFromInt(300),
		Kind:     domain.PaymentKindAdvance,
		Mode:     domain.PaymentModeUPI,
		Received: true,
	}); err != nil {
		t.Fatalf("failed to record advance: %v", err)
	}

	gotClient, _ := env.clientRepo.GetByID(ctx, client.ID)
	if !gotClient.OutstandingBalance.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected outstanding 200, got %s", gotClient.OutstandingBalance)
	}
}
