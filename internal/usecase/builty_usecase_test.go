package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
	"github.com/iho/fleetledger/internal/usecase/mocks"
)

type builtyFixture struct {
	clientRepo *mocks.MockClientRepository
	builtyRepo *mocks.MockBuiltyRepository
	tripRepo   *mocks.MockTripRepository
}

func newBuiltyFixture() *builtyFixture {
	return &builtyFixture{
		clientRepo: mocks.NewMockClientRepository(),
		builtyRepo: mocks.NewMockBuiltyRepository(),
		tripRepo:   mocks.NewMockTripRepository(),
	}
}

func (f *builtyFixture) usecase(enforceCredit bool) *usecase.BuiltyUseCase {
	reconciler := usecase.NewReconciliationUseCase(
		mocks.NewMockTransactionManager(),
		f.clientRepo,
		f.builtyRepo,
		mocks.NewMockPaymentRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
		nil,
		nil,
	)
	return usecase.NewBuiltyUseCase(
		f.builtyRepo,
		f.clientRepo,
		f.tripRepo,
		reconciler,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
		nil,
		enforceCredit,
	)
}

func (f *builtyFixture) seed(creditLimit, outstanding string) {
	f.clientRepo.Put(&domain.Client{
		ID:                 "c1",
		Name:               "Gupta Logistics",
		CreditLimit:        decimal.RequireFromString(creditLimit),
		OutstandingBalance: decimal.RequireFromString(outstanding),
		Active:             true,
	})
	f.tripRepo.Put(&domain.Trip{
		ID:       "trip-1",
		TruckID:  "truck-1",
		DriverID: "driver-1",
		Status:   domain.TripStatusRunning,
	})
}

func validInput(number, freight string) usecase.CreateBuiltyInput {
	return usecase.CreateBuiltyInput{
		BuiltyNumber:   number,
		TripID:         "trip-1",
		ClientID:       "c1",
		ConsignorName:  "Acme Mills",
		ConsigneeName:  "Kanpur Depot",
		FreightCharges: decimal.RequireFromString(freight),
		BuiltyDate:     time.Now().UTC(),
		DueDate:        time.Now().UTC().AddDate(0, 0, 30),
	}
}

func TestBuiltyUseCase_CreateBuilty(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and registers the charge", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("0", "0")

		builty, err := f.usecase(true).CreateBuilty(ctx, validInput("BLT-1001", "10000"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if builty.PaymentStatus != domain.BuiltyPaymentPending {
			t.Errorf("expected PENDING, got %s", builty.PaymentStatus)
		}
		if !builty.BalanceAmount.Equal(decimal.RequireFromString("10000")) {
			t.Errorf("expected balance 10000, got %s", builty.BalanceAmount)
		}

		client, _ := f.clientRepo.GetByID(ctx, "c1")
		if !client.OutstandingBalance.Equal(decimal.RequireFromString("10000")) {
			t.Errorf("expected outstanding 10000, got %s", client.OutstandingBalance)
		}
	})

	t.Run("credit limit blocks creation when enforced", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("50000", "48000")

		_, err := f.usecase(true).CreateBuilty(ctx, validInput("BLT-1002", "7000"))
		if !errors.Is(err, domain.ErrCreditLimitExceeded) {
			t.Fatalf("expected ErrCreditLimitExceeded, got %v", err)
		}

		// Nothing may be written on rejection.
		client, _ := f.clientRepo.GetByID(ctx, "c1")
		if !client.OutstandingBalance.Equal(decimal.RequireFromString("48000")) {
			t.Errorf("outstanding changed on rejected builty: %s", client.OutstandingBalance)
		}
		if _, err := f.builtyRepo.GetByNumber(ctx, "BLT-1002"); !errors.Is(err, domain.ErrBuiltyNotFound) {
			t.Error("builty persisted despite credit rejection")
		}
	})

	t.Run("advisory mode warns but proceeds", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("50000", "48000")

		builty, err := f.usecase(false).CreateBuilty(ctx, validInput("BLT-1003", "7000"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if builty == nil {
			t.Fatal("expected builty")
		}

		client, _ := f.clientRepo.GetByID(ctx, "c1")
		if !client.OutstandingBalance.Equal(decimal.RequireFromString("55000")) {
			t.Errorf("expected outstanding 55000, got %s", client.OutstandingBalance)
		}
	})

	t.Run("zero credit limit never blocks", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("0", "900000")

		if _, err := f.usecase(true).CreateBuilty(ctx, validInput("BLT-1004", "10000")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate builty number", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("0", "0")
		uc := f.usecase(true)

		if _, err := uc.CreateBuilty(ctx, validInput("BLT-1005", "1000")); err != nil {
			t.Fatalf("first create: %v", err)
		}
		_, err := uc.CreateBuilty(ctx, validInput("BLT-1005", "2000"))
		if !errors.Is(err, domain.ErrDuplicateBuiltyNumber) {
			t.Errorf("expected ErrDuplicateBuiltyNumber, got %v", err)
		}
	})

	t.Run("inactive client", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("0", "0")
		client, _ := f.clientRepo.GetByID(ctx, "c1")
		client.Active = false

		_, err := f.usecase(true).CreateBuilty(ctx, validInput("BLT-1006", "1000"))
		if !errors.Is(err, domain.ErrClientInactive) {
			t.Errorf("expected ErrClientInactive, got %v", err)
		}
	})

	t.Run("cancelled trip cannot be billed", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("0", "0")
		trip, _ := f.tripRepo.GetByID(ctx, "trip-1")
		trip.Status = domain.TripStatusCancelled

		_, err := f.usecase(true).CreateBuilty(ctx, validInput("BLT-1007", "1000"))
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("expected ErrInvalidStateTransition, got %v", err)
		}
	})

	t.Run("zero charges rejected", func(t *testing.T) {
		f := newBuiltyFixture()
		f.seed("0", "0")

		_, err := f.usecase(true).CreateBuilty(ctx, validInput("BLT-1008", "0"))
		if err == nil {
			t.Error("expected validation error for zero total charges")
		}
	})
}
