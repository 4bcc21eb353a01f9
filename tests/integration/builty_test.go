package integration

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

func builtyInput(tripID, clientID, number string, freight decimal.Decimal) usecase.CreateBuiltyInput {
	now := time.Now().UTC()
	return usecase.CreateBuiltyInput{
		BuiltyNumber:   number,
		TripID:         tripID,
		ClientID:       clientID,
		ConsignorName:  "Acme Mills",
		ConsigneeName:  "Delhi Depot",
		WeightTonnes:   decimal.NewFromInt(12),
		FreightCharges: freight,
		BuiltyDate:     now,
		DueDate:        now.Add(30 * 24 * time.Hour),
	}
}

func TestBuiltyCreationUpdatesOutstanding(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Sharma Transport Co", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	input := builtyInput(tripID, client.ID, "BLT/2026/0001", decimal.NewFromInt(800))
	input.LoadingCharges = decimal.NewFromInt(100)
	input.UnloadingCharges = decimal.NewFromInt(50)
	input.TaxAmount = decimal.NewFromInt(50)

	builty, err := env.builtyUC.CreateBuilty(ctx, input)
	if err != nil {
		t.Fatalf("failed to create builty: %v", err)
	}

	if !builty.TotalCharges.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected total charges 1000, got %s", builty.TotalCharges)
	}
	if !builty.BalanceAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected balance 1000, got %s", builty.BalanceAmount)
	}
	if builty.PaymentStatus != domain.BuiltyPaymentPending {
		t.Errorf("expected PENDING status, got %s", builty.PaymentStatus)
	}

	got, err := env.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		t.Fatalf("failed to reload client: %v", err)
	}
	if !got.OutstandingBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected outstanding 1000, got %s", got.OutstandingBalance)
	}
}

func TestDuplicateBuiltyNumberRejected(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Gupta Logistics", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	if _, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0002", decimal.NewFromInt(500))); err != nil {
		t.Fatalf("failed to create first builty: %v", err)
	}

	_, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0002", decimal.NewFromInt(300)))
	if !errors.Is(err, domain.ErrDuplicateBuiltyNumber) {
		t.Fatalf("expected ErrDuplicateBuiltyNumber, got %v", err)
	}
}

func TestCreditLimitBlocksBuilty(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Small Trader", decimal.NewFromInt(1000))
	tripID := env.newBillableTrip(ctx, t)

	if _, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0003", decimal.NewFromInt(800))); err != nil {
		t.Fatalf("failed to create builty within limit: %v", err)
	}

	_, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0004", decimal.NewFromInt(300)))
	if !errors.Is(err, domain.ErrCreditLimitExceeded) {
		t.Fatalf("expected ErrCreditLimitExceeded, got %v", err)
	}

	// The rejected builty must not touch the outstanding balance.
	got, _ := env.clientRepo.GetByID(ctx, client.ID)
	if !got.OutstandingBalance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("expected outstanding 800 after rejection, got %s", got.OutstandingBalance)
	}
}

func TestAdvisoryModeAllowsBreach(t *testing.T) {
	env, ctx := newTestEnv(t, false)

	client := env.db.CreateTestClient(ctx, "Trusted Partner", decimal.NewFromInt(1000))
	tripID := env.newBillableTrip(ctx, t)

	if _, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0005", decimal.NewFromInt(1500))); err != nil {
		t.Fatalf("expected advisory mode to allow breach, got %v", err)
	}

	got, _ := env.clientRepo.GetByID(ctx, client.ID)
	if !got.OutstandingBalance.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected outstanding 1500, got %s", got.OutstandingBalance)
	}
}

func TestZeroCreditLimitIsUnlimited(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Unlimited Client", decimal.Zero)
	tripID := env.newBillableTrip(ctx, t)

	if _, err := env.builtyUC.CreateBuilty(ctx, builtyInput(tripID, client.ID, "BLT/2026/0006", decimal.NewFromInt(1_000_000))); err != nil {
		t.Fatalf("expected zero limit to mean unlimited, got %v", err)
	}
}

func TestCancelledTripCannotBeBilled(t *testing.T) {
	env, ctx := newTestEnv(t, true)

	client := env.db.CreateTestClient(ctx, "Late Client", decimal.Zero)
	truck := env.db.CreateTestTruck(ctx, "MH-14-XY-9999")
	driver := env.db.CreateTestDriver(ctx, "Suresh Yadav")
	trip := env.db.CreateTestTrip(ctx, truck.ID, driver.ID, domain.TripStatusCancelled)

	_, err := env.builtyUC.CreateBuilty(ctx, builtyInput(trip.ID, client.ID, "BLT/2026/0007", decimal.NewFromInt(500)))
	if !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}
