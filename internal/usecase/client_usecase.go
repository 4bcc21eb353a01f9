package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
)

// ClientUseCase handles client registration and lifecycle. The outstanding
// balance is owned by the reconciliation service; this use case never writes
// it.
type ClientUseCase struct {
	txManager  TransactionManager
	clientRepo ClientRepository
	builtyRepo BuiltyRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(
	txManager TransactionManager,
	clientRepo ClientRepository,
	builtyRepo BuiltyRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *ClientUseCase {
	return &ClientUseCase{
		txManager:  txManager,
		clientRepo: clientRepo,
		builtyRepo: builtyRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// RegisterClientInput represents input for registering a client.
type RegisterClientInput struct {
	Name      string
	Phone     string
	Address   string
	GSTNumber string
	// CreditLimit of zero means no limit is enforced.
	CreditLimit decimal.Decimal
}

// RegisterClient validates and persists a new client.
func (uc *ClientUseCase) RegisterClient(ctx context.Context, input RegisterClientInput) (*domain.Client, error) {
	if err := domain.ValidateClientName(input.Name); err != nil {
		return nil, err
	}
	if input.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit cannot be negative", domain.ErrInvalidAmount)
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:                 uc.idGen.Generate(),
		Name:               input.Name,
		Phone:              input.Phone,
		Address:            input.Address,
		GSTNumber:          input.GSTNumber,
		CreditLimit:        input.CreditLimit,
		OutstandingBalance: decimal.Zero,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client by ID.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.clientRepo.GetByID(ctx, id)
}

// ListClients lists clients.
func (uc *ClientUseCase) ListClients(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.clientRepo.List(ctx, limit, offset)
}

// DeactivateClient soft-deactivates a client and writes a deactivation event
// in the same transaction. Clients are never physically deleted once they
// carry financial history.
func (uc *ClientUseCase) DeactivateClient(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, false)
}

// ReactivateClient re-enables a deactivated client.
func (uc *ClientUseCase) ReactivateClient(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, true)
}

func (uc *ClientUseCase) setActive(ctx context.Context, id string, active bool) error {
	if _, err := uc.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	if err := uc.clientRepo.SetActive(txCtx, tx, id, active, now); err != nil {
		return err
	}

	if !active {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   id,
			AggregateType: domain.AggregateTypeClient,
			EventType:     domain.EventTypeClientDeactivated,
			Payload:       map[string]any{"client_id": id},
			CreatedAt:     now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}

// DeleteClient physically removes a client. Rejected once any builty or
// payment references the client; deactivate instead.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, id string) error {
	if _, err := uc.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}

	hasHistory, err := uc.clientRepo.HasFinancialHistory(ctx, id)
	if err != nil {
		return err
	}
	if hasHistory {
		return fmt.Errorf("%w: client %s", domain.ErrClientHasFinancialHistory, id)
	}

	return uc.clientRepo.Delete(ctx, id)
}

// OutstandingAudit compares a client's recorded outstanding balance with the
// sum of unpaid builty balances.
type OutstandingAudit struct {
	ClientID    string
	Recorded    decimal.Decimal
	Calculated  decimal.Decimal
	Difference  decimal.Decimal
	Consistent  bool
	LastChecked time.Time
}

// CheckOutstandingConsistency verifies the client outstanding-balance
// invariant: the recorded balance must equal the sum of unpaid builty
// balances. Drift indicates a write that bypassed the reconciliation
// service.
func (uc *ClientUseCase) CheckOutstandingConsistency(ctx context.Context, clientID string) (*OutstandingAudit, error) {
	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.builtyRepo.SumUnpaidByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	diff := client.OutstandingBalance.Sub(calculated)
	return &OutstandingAudit{
		ClientID:    clientID,
		Recorded:    client.OutstandingBalance,
		Calculated:  calculated,
		Difference:  diff,
		Consistent:  diff.IsZero(),
		LastChecked: time.Now().UTC(),
	}, nil
}

// CheckAllOutstandingConsistency audits every client.
func (uc *ClientUseCase) CheckAllOutstandingConsistency(ctx context.Context) ([]*OutstandingAudit, error) {
	limit, offset := domain.ValidatePagination(10000, 0)
	clients, err := uc.clientRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	audits := make([]*OutstandingAudit, 0, len(clients))
	for _, client := range clients {
		audit, err := uc.CheckOutstandingConsistency(ctx, client.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to audit client %s: %w", client.ID, err)
		}
		audits = append(audits, audit)
	}

	return audits, nil
}
