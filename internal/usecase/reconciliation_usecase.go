package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase is the only component permitted to apply a payment's
// monetary effect to a builty and a client, to reverse it, and to register
// charges against a client's outstanding balance.
//
// Every operation runs as a single database transaction: either all derived
// fields (builty advance/balance/status, client outstanding) update together,
// or none do. Rows are locked FOR UPDATE in a fixed order (client before
// builty) so concurrent payments against the same invoice serialize instead
// of losing updates. Transient write conflicts are retried a bounded number
// of times by the Retrier; exhaustion surfaces as
// domain.ErrConcurrentModification.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	clientRepo  ClientRepository
	builtyRepo  BuiltyRepository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. cache and
// metrics are optional.
func NewReconciliationUseCase(
	txManager TransactionManager,
	clientRepo ClientRepository,
	builtyRepo BuiltyRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		clientRepo:  clientRepo,
		builtyRepo:  builtyRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		metrics:     m,
	}
}

// ApplyPayment applies a payment's monetary effect: the target builty's
// advance received grows by the payment amount and its balance/status are
// recomputed, and the client's outstanding balance shrinks by the same
// amount, floored at zero. A payment without a builty (a general client
// advance) only reduces the outstanding balance.
//
// A PENDING payment is transitioned to RECEIVED in the same transaction as
// the monetary effect, so the state and the effect commit or roll back
// together. The payment must be positive and not yet applied; a RECEIVED
// payment whose effect never committed is appliable again.
func (uc *ReconciliationUseCase) ApplyPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var payment *domain.Payment

	err := uc.retrier.Retry(ctx, func() error {
		p, err := uc.applyPaymentOnce(ctx, paymentID)
		if err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateClientCache(ctx, payment.ClientID)

	if uc.metrics != nil {
		uc.metrics.PaymentsApplied.Inc()
		uc.metrics.PaymentAmount.Observe(payment.Amount.InexactFloat64())
	}

	return payment, nil
}

func (uc *ReconciliationUseCase) applyPaymentOnce(ctx context.Context, paymentID string) (*domain.Payment, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment %s has non-positive amount", domain.ErrInvalidAmount, payment.ID)
	}
	if payment.State == domain.PaymentStatePending {
		if err := payment.TransitionTo(domain.PaymentStateReceived); err != nil {
			return nil, err
		}
	}
	if !payment.Appliable() {
		return nil, fmt.Errorf("%w: payment %s in state %s cannot be applied",
			domain.ErrInvalidStateTransition, payment.ID, payment.State)
	}

	now := time.Now().UTC()

	// Lock order: client, then builty. All reconciliation paths follow it.
	client, err := uc.clientRepo.GetByIDForUpdate(txCtx, tx, payment.ClientID)
	if err != nil {
		return nil, err
	}

	if payment.BuiltyID != nil {
		builty, err := uc.builtyRepo.GetByIDForUpdate(txCtx, tx, *payment.BuiltyID)
		if err != nil {
			return nil, err
		}

		builty.AdvanceReceived = builty.AdvanceReceived.Add(payment.Amount)
		builty.Recompute()
		builty.UpdatedAt = now

		if err := uc.builtyRepo.UpdateAmounts(txCtx, tx, builty); err != nil {
			return nil, err
		}
	}

	newOutstanding := client.ApplyPaymentAmount(payment.Amount)
	if err := uc.clientRepo.UpdateOutstanding(txCtx, tx, client.ID, newOutstanding, now); err != nil {
		return nil, err
	}

	payment.AppliedAt = &now
	payment.UpdatedAt = now
	if err := uc.paymentRepo.UpdateState(txCtx, tx, payment); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentApplied,
		Payload: map[string]any{
			"payment_id":         payment.ID,
			"client_id":          payment.ClientID,
			"amount":             payment.Amount.String(),
			"client_outstanding": newOutstanding.String(),
		},
		CreatedAt: now,
	}
	if payment.BuiltyID != nil {
		event.Payload["builty_id"] = *payment.BuiltyID
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return payment, nil
}

// ReversePayment bounces a payment and undoes its monetary effect, the exact
// inverse of ApplyPayment: the builty's advance received shrinks by the
// payment amount (floored at zero), its balance/status are recomputed, and
// the client's outstanding balance grows back by the same amount.
//
// The BOUNCED transition and the reversal commit in one transaction. A
// payment that is already BOUNCED but still applied (a reversal that never
// committed) is reversed on re-invocation. A payment may be reversed at most
// once; reversing an already-reversed payment fails with
// domain.ErrInvalidStateTransition.
func (uc *ReconciliationUseCase) ReversePayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var payment *domain.Payment

	err := uc.retrier.Retry(ctx, func() error {
		p, err := uc.reversePaymentOnce(ctx, paymentID)
		if err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateClientCache(ctx, payment.ClientID)

	if uc.metrics != nil {
		uc.metrics.PaymentsReversed.Inc()
	}

	return payment, nil
}

func (uc *ReconciliationUseCase) reversePaymentOnce(ctx context.Context, paymentID string) (*domain.Payment, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, paymentID)
	if err != nil {
		return nil, err
	}

	alreadyBounced := payment.State == domain.PaymentStateBounced
	if !alreadyBounced {
		if err := payment.TransitionTo(domain.PaymentStateBounced); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	if !payment.Applied() {
		if alreadyBounced {
			return nil, fmt.Errorf("%w: payment %s was never applied or is already reversed",
				domain.ErrInvalidStateTransition, payment.ID)
		}

		// Bounced before any funds were applied; only the state changes.
		payment.UpdatedAt = now
		if err := uc.paymentRepo.UpdateState(txCtx, tx, payment); err != nil {
			return nil, err
		}
		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}
		return payment, nil
	}

	client, err := uc.clientRepo.GetByIDForUpdate(txCtx, tx, payment.ClientID)
	if err != nil {
		return nil, err
	}

	if payment.BuiltyID != nil {
		builty, err := uc.builtyRepo.GetByIDForUpdate(txCtx, tx, *payment.BuiltyID)
		if err != nil {
			return nil, err
		}

		builty.AdvanceReceived = domain.SubClamped(builty.AdvanceReceived, payment.Amount)
		builty.Recompute()
		builty.UpdatedAt = now

		if err := uc.builtyRepo.UpdateAmounts(txCtx, tx, builty); err != nil {
			return nil, err
		}
	}

	newOutstanding := client.OutstandingBalance.Add(payment.Amount)
	if err := uc.clientRepo.UpdateOutstanding(txCtx, tx, client.ID, newOutstanding, now); err != nil {
		return nil, err
	}

	payment.ReversedAt = &now
	payment.UpdatedAt = now
	if err := uc.paymentRepo.UpdateState(txCtx, tx, payment); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentReversed,
		Payload: map[string]any{
			"payment_id":         payment.ID,
			"client_id":          payment.ClientID,
			"amount":             payment.Amount.String(),
			"client_outstanding": newOutstanding.String(),
		},
		CreatedAt: now,
	}
	if payment.BuiltyID != nil {
		event.Payload["builty_id"] = *payment.BuiltyID
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return payment, nil
}

// RegisterNewBuilty persists a freshly validated builty and registers its
// full balance against the client's outstanding balance, atomically.
func (uc *ReconciliationUseCase) RegisterNewBuilty(ctx context.Context, builty *domain.Builty) error {
	err := uc.retrier.Retry(ctx, func() error {
		return uc.registerNewBuiltyOnce(ctx, builty)
	})
	if err != nil {
		return err
	}

	uc.invalidateClientCache(ctx, builty.ClientID)

	if uc.metrics != nil {
		uc.metrics.ChargesRegistered.Inc()
	}

	return nil
}

func (uc *ReconciliationUseCase) registerNewBuiltyOnce(ctx context.Context, builty *domain.Builty) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	client, err := uc.clientRepo.GetByIDForUpdate(txCtx, tx, builty.ClientID)
	if err != nil {
		return err
	}

	if err := uc.builtyRepo.Create(txCtx, tx, builty); err != nil {
		return err
	}

	now := time.Now().UTC()

	newOutstanding := client.ApplyChargeDelta(builty.BalanceAmount)
	if err := uc.clientRepo.UpdateOutstanding(txCtx, tx, client.ID, newOutstanding, now); err != nil {
		return err
	}

	event := uc.chargeEvent(builty, builty.BalanceAmount, now)
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// ChargeAmendment carries the corrected charge components of a builty.
type ChargeAmendment struct {
	FreightCharges   decimal.Decimal
	LoadingCharges   decimal.Decimal
	UnloadingCharges decimal.Decimal
	OtherCharges     decimal.Decimal
	TaxAmount        decimal.Decimal
}

// AmendCharges corrects a builty's charges after creation and adjusts the
// client's outstanding balance by the resulting balance delta.
//
// The delta registered against the client is the change in the builty's
// clamped balance, not the raw charge change: an over-paid builty whose
// charges grow within the over-payment does not add client debt. Charges may
// be amended after payments exist; the recompute may move the payment status
// backward (PAID -> PARTIAL), which is intentional.
func (uc *ReconciliationUseCase) AmendCharges(ctx context.Context, builtyID string, amendment ChargeAmendment) (*domain.Builty, error) {
	var builty *domain.Builty

	err := uc.retrier.Retry(ctx, func() error {
		b, err := uc.amendChargesOnce(ctx, builtyID, amendment)
		if err != nil {
			return err
		}
		builty = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateClientCache(ctx, builty.ClientID)

	if uc.metrics != nil {
		uc.metrics.ChargesRegistered.Inc()
	}

	return builty, nil
}

func (uc *ReconciliationUseCase) amendChargesOnce(ctx context.Context, builtyID string, amendment ChargeAmendment) (*domain.Builty, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Resolve the client without a lock first so the client row can be
	// locked before the builty row, matching the payment paths. The
	// client reference of a builty never changes after creation.
	existing, err := uc.builtyRepo.GetByID(txCtx, builtyID)
	if err != nil {
		return nil, err
	}

	client, err := uc.clientRepo.GetByIDForUpdate(txCtx, tx, existing.ClientID)
	if err != nil {
		return nil, err
	}

	builty, err := uc.builtyRepo.GetByIDForUpdate(txCtx, tx, builtyID)
	if err != nil {
		return nil, err
	}

	oldBalance := builty.BalanceAmount

	builty.FreightCharges = amendment.FreightCharges
	builty.LoadingCharges = amendment.LoadingCharges
	builty.UnloadingCharges = amendment.UnloadingCharges
	builty.OtherCharges = amendment.OtherCharges
	builty.TaxAmount = amendment.TaxAmount
	builty.TotalCharges = builty.ComputeTotalCharges()

	if builty.TotalCharges.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amended total charges must be positive", domain.ErrInvalidAmount)
	}

	builty.Recompute()

	now := time.Now().UTC()
	builty.UpdatedAt = now

	if err := uc.builtyRepo.UpdateAmounts(txCtx, tx, builty); err != nil {
		return nil, err
	}

	delta := builty.BalanceAmount.Sub(oldBalance)
	newOutstanding := client.ApplyChargeDelta(delta)
	if err := uc.clientRepo.UpdateOutstanding(txCtx, tx, client.ID, newOutstanding, now); err != nil {
		return nil, err
	}

	event := uc.chargeEvent(builty, delta, now)
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return builty, nil
}

func (uc *ReconciliationUseCase) chargeEvent(builty *domain.Builty, delta decimal.Decimal, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   builty.ID,
		AggregateType: domain.AggregateTypeBuilty,
		EventType:     domain.EventTypeChargeRegistered,
		Payload: map[string]any{
			"builty_id":     builty.ID,
			"builty_number": builty.BuiltyNumber,
			"client_id":     builty.ClientID,
			"delta":         delta.String(),
			"total_charges": builty.TotalCharges.String(),
		},
		CreatedAt: now,
	}
}

func (uc *ReconciliationUseCase) invalidateClientCache(ctx context.Context, clientID string) {
	if uc.cache == nil {
		return
	}
	// Best effort: a stale snapshot expires on its own TTL.
	_ = uc.cache.Delete(ctx, "client:outstanding:"+clientID)
}
