package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
)

// PaymentUseCase records payments and drives the payment state machine.
// Monetary effects (advance received, outstanding balance) are applied and
// reversed exclusively by the reconciliation service.
type PaymentUseCase struct {
	txManager   TransactionManager
	paymentRepo PaymentRepository
	clientRepo  ClientRepository
	builtyRepo  BuiltyRepository
	reconciler  *ReconciliationUseCase
	idGen       IDGenerator
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	paymentRepo PaymentRepository,
	clientRepo ClientRepository,
	builtyRepo BuiltyRepository,
	reconciler *ReconciliationUseCase,
	idGen IDGenerator,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		builtyRepo:  builtyRepo,
		reconciler:  reconciler,
		idGen:       idGen,
	}
}

// RecordPaymentInput represents input for recording a payment.
type RecordPaymentInput struct {
	ClientID  string
	BuiltyID  *string
	Amount    decimal.Decimal
	Kind      domain.PaymentKind
	Mode      domain.PaymentMode
	Reference string
	// Received marks the payment as funds-confirmed on creation (cash in
	// hand); it is applied immediately. Otherwise the payment starts
	// PENDING (e.g. a cheque awaiting realization).
	Received bool
}

// RecordPayment validates and persists a payment. Payments recorded as
// received are applied immediately.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	client, err := uc.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	if input.BuiltyID != nil {
		builty, err := uc.builtyRepo.GetByID(ctx, *input.BuiltyID)
		if err != nil {
			return nil, err
		}
		if builty.ClientID != client.ID {
			return nil, fmt.Errorf("%w: builty %s does not belong to client %s",
				domain.ErrInvalidStateTransition, builty.ID, client.ID)
		}
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:        uc.idGen.Generate(),
		ClientID:  input.ClientID,
		BuiltyID:  input.BuiltyID,
		Amount:    input.Amount,
		Kind:      input.Kind,
		Mode:      input.Mode,
		Reference: input.Reference,
		State:     domain.PaymentStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Received {
		payment.State = domain.PaymentStateReceived
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateChargeAmount(payment.Amount); err != nil {
		return nil, err
	}

	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if payment.State == domain.PaymentStateReceived {
		return uc.reconciler.ApplyPayment(ctx, payment.ID)
	}

	return payment, nil
}

// MarkReceived transitions a pending payment to RECEIVED and applies it. The
// transition and the monetary effect commit in a single transaction inside
// the reconciler; a payment left RECEIVED with no applied effect by an
// earlier failure is applied on re-invocation.
func (uc *PaymentUseCase) MarkReceived(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return uc.reconciler.ApplyPayment(ctx, paymentID)
}

// MarkCleared transitions a received payment to CLEARED. The monetary effect
// was already applied at RECEIVED; clearing only finalizes the state.
func (uc *PaymentUseCase) MarkCleared(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if err := uc.transition(ctx, paymentID, domain.PaymentStateCleared); err != nil {
		return nil, err
	}
	return uc.paymentRepo.GetByID(ctx, paymentID)
}

// MarkBounced transitions a payment to BOUNCED and reverses its monetary
// effect if it had been applied. The transition and the reversal commit in a
// single transaction inside the reconciler, so a failed bounce leaves the
// payment in its prior state and can simply be retried.
func (uc *PaymentUseCase) MarkBounced(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return uc.reconciler.ReversePayment(ctx, paymentID)
}

// transition performs a locked state machine step on a payment.
func (uc *PaymentUseCase) transition(ctx context.Context, paymentID string, next domain.PaymentState) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, paymentID)
	if err != nil {
		return err
	}

	if err := payment.TransitionTo(next); err != nil {
		return err
	}

	payment.UpdatedAt = time.Now().UTC()
	if err := uc.paymentRepo.UpdateState(txCtx, tx, payment); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// GetPayment retrieves a payment by ID.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

// ListPaymentsByClient lists payments for a client.
func (uc *PaymentUseCase) ListPaymentsByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Payment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.paymentRepo.ListByClient(ctx, clientID, limit, offset)
}

// ListPaymentsByBuilty lists payments matched to a builty.
func (uc *PaymentUseCase) ListPaymentsByBuilty(ctx context.Context, builtyID string, limit, offset int) ([]*domain.Payment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.paymentRepo.ListByBuilty(ctx, builtyID, limit, offset)
}
