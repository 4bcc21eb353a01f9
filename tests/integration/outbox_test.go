package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/infrastructure/eventpublisher"
	"github.com/iho/fleetledger/internal/usecase"
)

func TestReconciliationWritesOutboxEvents(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Event Client", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	builty, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0400", decimal.NewFromInt(500)))
	if err != nil {
		t.Fatalf("failed to create builty: %v", err)
	}

	payment, err := env.paymentUC.RecordPayment(ctx, usecase.RecordPaymentInput{
		ClientID: client.ID,
		BuiltyID: &builty.ID,
		Amount:   decimal.NewFromInt(500),
		Kind:     domain.PaymentKindFull,
		Mode:     domain.PaymentModeCheque,
		Received: true,
	})
	if err != nil {
		t.Fatalf("failed to record payment: %v", err)
	}
	if _, err := env.paymentUC.MarkBounced(ctx, payment.ID); err != nil {
		t.Fatalf("failed to bounce payment: %v", err)
	}

	events, err := env.outboxRepo.GetUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("failed to fetch outbox events: %v", err)
	}

	types := make(map[string]int)
	for _, ev := range events {
		types[ev.EventType]++
	}
	if types[domain.EventTypeChargeRegistered] != 1 {
		t.Errorf("expected 1 charge_registered event, got %d", types[domain.EventTypeChargeRegistered])
	}
	if types[domain.EventTypePaymentApplied] != 1 {
		t.Errorf("expected 1 payment.applied event, got %d", types[domain.EventTypePaymentApplied])
	}
	if types[domain.EventTypePaymentReversed] != 1 {
		t.Errorf("expected 1 payment.reversed event, got %d", types[domain.EventTypePaymentReversed])
	}
}

func TestPublisherDrainsOutbox(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Drained Client", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	if _, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0401", decimal.NewFromInt(500))); err != nil {
		t.Fatalf("failed to create builty: %v", err)
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: env.outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(zerolog.Nop()),
		Logger:     zerolog.Nop(),
		BatchSize:  10,
		Interval:   50 * time.Millisecond,
	})

	pubCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = publisher.Start(pubCtx)

	events, err := env.outboxRepo.GetUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("failed to fetch outbox events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected outbox to be drained, %d events remain", len(events))
	}
}
