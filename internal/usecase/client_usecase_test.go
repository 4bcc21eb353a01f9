package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
	"github.com/iho/fleetledger/internal/usecase/mocks"
)

func newClientUC(clientRepo *mocks.MockClientRepository, builtyRepo *mocks.MockBuiltyRepository) (*usecase.ClientUseCase, *mocks.MockOutboxRepository) {
	outboxRepo := mocks.NewMockOutboxRepository()
	uc := usecase.NewClientUseCase(
		mocks.NewMockTransactionManager(),
		clientRepo,
		builtyRepo,
		outboxRepo,
		mocks.NewMockIDGenerator(),
	)
	return uc, outboxRepo
}

func TestClientUseCase_RegisterClient(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.RegisterClientInput
		expectError bool
	}{
		{
			name: "valid client",
			input: usecase.RegisterClientInput{
				Name:        "Agarwal Freight Carriers",
				Phone:       "+91-9876543210",
				GSTNumber:   "09ABCDE1234F1Z5",
				CreditLimit: decimal.RequireFromString("50000"),
			},
		},
		{
			name: "zero credit limit allowed",
			input: usecase.RegisterClientInput{
				Name:        "Cash Counter Walk-in",
				CreditLimit: decimal.Zero,
			},
		},
		{
			name:        "empty name",
			input:       usecase.RegisterClientInput{Name: "  "},
			expectError: true,
		},
		{
			name: "negative credit limit",
			input: usecase.RegisterClientInput{
				Name:        "Bad Limit Co",
				CreditLimit: decimal.RequireFromString("-1"),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newClientUC(mocks.NewMockClientRepository(), mocks.NewMockBuiltyRepository())

			client, err := uc.RegisterClient(context.Background(), tt.input)
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !client.Active {
				t.Error("new client must be active")
			}
			if !client.OutstandingBalance.IsZero() {
				t.Errorf("new client must start with zero outstanding, got %s", client.OutstandingBalance)
			}
		})
	}
}

func TestClientUseCase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clientRepo := mocks.NewMockClientRepository()
	uc, outboxRepo := newClientUC(clientRepo, mocks.NewMockBuiltyRepository())

	client, err := uc.RegisterClient(ctx, usecase.RegisterClientInput{Name: "Singh Movers"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := uc.DeactivateClient(ctx, client.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, _ := uc.GetClient(ctx, client.ID)
	if got.Active {
		t.Error("expected inactive client")
	}

	events := outboxRepo.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(events))
	}
	if events[0].EventType != domain.EventTypeClientDeactivated {
		t.Errorf("expected %s event, got %s", domain.EventTypeClientDeactivated, events[0].EventType)
	}
	if events[0].AggregateType != domain.AggregateTypeClient || events[0].AggregateID != client.ID {
		t.Errorf("expected client aggregate %s, got %s %s", client.ID, events[0].AggregateType, events[0].AggregateID)
	}

	if err := uc.ReactivateClient(ctx, client.ID); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	got, _ = uc.GetClient(ctx, client.ID)
	if !got.Active {
		t.Error("expected active client")
	}
	if len(outboxRepo.Events()) != 1 {
		t.Error("reactivation must not write an event")
	}
}

func TestClientUseCase_DeleteClient(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes client without history", func(t *testing.T) {
		clientRepo := mocks.NewMockClientRepository()
		uc, _ := newClientUC(clientRepo, mocks.NewMockBuiltyRepository())

		client, err := uc.RegisterClient(ctx, usecase.RegisterClientInput{Name: "Short Lived"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := uc.DeleteClient(ctx, client.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := uc.GetClient(ctx, client.ID); !errors.Is(err, domain.ErrClientNotFound) {
			t.Errorf("expected ErrClientNotFound, got %v", err)
		}
	})

	t.Run("rejected once financial history exists", func(t *testing.T) {
		clientRepo := mocks.NewMockClientRepository()
		clientRepo.HasFinancialHistoryFunc = func(ctx context.Context, id string) (bool, error) {
			return true, nil
		}
		uc, _ := newClientUC(clientRepo, mocks.NewMockBuiltyRepository())

		client, err := uc.RegisterClient(ctx, usecase.RegisterClientInput{Name: "Billed Already"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := uc.DeleteClient(ctx, client.ID); !errors.Is(err, domain.ErrClientHasFinancialHistory) {
			t.Errorf("expected ErrClientHasFinancialHistory, got %v", err)
		}
		if _, err := uc.GetClient(ctx, client.ID); err != nil {
			t.Error("client must survive a rejected delete")
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		uc, _ := newClientUC(mocks.NewMockClientRepository(), mocks.NewMockBuiltyRepository())
		if err := uc.DeleteClient(ctx, "nope"); !errors.Is(err, domain.ErrClientNotFound) {
			t.Errorf("expected ErrClientNotFound, got %v", err)
		}
	})
}

func TestClientUseCase_CheckOutstandingConsistency(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	seedBuilty := func(repo *mocks.MockBuiltyRepository, id, clientID, freight, advance string) {
		builty := &domain.Builty{
			ID:              id,
			BuiltyNumber:    "BLT-" + id,
			TripID:          "trip-1",
			ClientID:        clientID,
			FreightCharges:  decimal.RequireFromString(freight),
			AdvanceReceived: decimal.RequireFromString(advance),
			BuiltyDate:      now,
			DueDate:         now.AddDate(0, 0, 30),
		}
		builty.TotalCharges = builty.ComputeTotalCharges()
		builty.Recompute()
		repo.Put(builty)
	}

	t.Run("consistent ledger", func(t *testing.T) {
		clientRepo := mocks.NewMockClientRepository()
		builtyRepo := mocks.NewMockBuiltyRepository()
		clientRepo.Put(&domain.Client{
			ID:                 "c1",
			Name:               "Balanced Books",
			OutstandingBalance: decimal.RequireFromString("9000"),
			Active:             true,
		})
		seedBuilty(builtyRepo, "b1", "c1", "10000", "4000")
		seedBuilty(builtyRepo, "b2", "c1", "3000", "0")

		uc, _ := newClientUC(clientRepo, builtyRepo)
		audit, err := uc.CheckOutstandingConsistency(ctx, "c1")
		if err != nil {
			t.Fatalf("audit: %v", err)
		}
		if !audit.Consistent {
			t.Errorf("expected consistent, diff %s", audit.Difference)
		}
	})

	t.Run("drift detected", func(t *testing.T) {
		clientRepo := mocks.NewMockClientRepository()
		builtyRepo := mocks.NewMockBuiltyRepository()
		clientRepo.Put(&domain.Client{
			ID:                 "c1",
			Name:               "Drifted Books",
			OutstandingBalance: decimal.RequireFromString("9500"),
			Active:             true,
		})
		seedBuilty(builtyRepo, "b1", "c1", "9000", "0")

		uc, _ := newClientUC(clientRepo, builtyRepo)
		audit, err := uc.CheckOutstandingConsistency(ctx, "c1")
		if err != nil {
			t.Fatalf("audit: %v", err)
		}
		if audit.Consistent {
			t.Error("expected inconsistency")
		}
		if !audit.Difference.Equal(decimal.RequireFromString("500")) {
			t.Errorf("expected difference 500, got %s", audit.Difference)
		}
	})
}
