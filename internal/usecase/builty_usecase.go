package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/infrastructure/metrics"
)

// BuiltyUseCase handles the builty lifecycle: creation behind the credit
// gate, charge amendments, lookups. All balance effects go through the
// reconciliation service.
type BuiltyUseCase struct {
	builtyRepo BuiltyRepository
	clientRepo ClientRepository
	tripRepo   TripRepository
	reconciler *ReconciliationUseCase
	idGen      IDGenerator
	logger     zerolog.Logger
	metrics    *metrics.Metrics

	// enforceCredit decides whether a WOULD_EXCEED credit decision blocks
	// builty creation or only logs a warning.
	enforceCredit bool
}

// NewBuiltyUseCase creates a new BuiltyUseCase.
func NewBuiltyUseCase(
	builtyRepo BuiltyRepository,
	clientRepo ClientRepository,
	tripRepo TripRepository,
	reconciler *ReconciliationUseCase,
	idGen IDGenerator,
	logger zerolog.Logger,
	m *metrics.Metrics,
	enforceCredit bool,
) *BuiltyUseCase {
	return &BuiltyUseCase{
		builtyRepo:    builtyRepo,
		clientRepo:    clientRepo,
		tripRepo:      tripRepo,
		reconciler:    reconciler,
		idGen:         idGen,
		logger:        logger,
		metrics:       m,
		enforceCredit: enforceCredit,
	}
}

// CreateBuiltyInput represents input for creating a builty.
type CreateBuiltyInput struct {
	BuiltyNumber     string
	TripID           string
	ClientID         string
	ConsignorName    string
	ConsigneeName    string
	GoodsDescription string
	WeightTonnes     decimal.Decimal
	FreightCharges   decimal.Decimal
	LoadingCharges   decimal.Decimal
	UnloadingCharges decimal.Decimal
	OtherCharges     decimal.Decimal
	TaxAmount        decimal.Decimal
	BuiltyDate       time.Time
	DueDate          time.Time
}

// CreateBuilty validates the input, evaluates the client's credit exposure
// and registers the new charge through the reconciliation service.
func (uc *BuiltyUseCase) CreateBuilty(ctx context.Context, input CreateBuiltyInput) (*domain.Builty, error) {
	client, err := uc.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.Active {
		return nil, fmt.Errorf("%w: client %s", domain.ErrClientInactive, client.ID)
	}

	trip, err := uc.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status == domain.TripStatusCancelled {
		return nil, fmt.Errorf("%w: cannot bill a cancelled trip", domain.ErrInvalidStateTransition)
	}

	if existing, err := uc.builtyRepo.GetByNumber(ctx, input.BuiltyNumber); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateBuiltyNumber, input.BuiltyNumber)
	} else if err != nil && !errors.Is(err, domain.ErrBuiltyNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	builty := &domain.Builty{
		ID:               uc.idGen.Generate(),
		BuiltyNumber:     input.BuiltyNumber,
		TripID:           input.TripID,
		ClientID:         input.ClientID,
		ConsignorName:    input.ConsignorName,
		ConsigneeName:    input.ConsigneeName,
		GoodsDescription: input.GoodsDescription,
		WeightTonnes:     input.WeightTonnes,
		FreightCharges:   input.FreightCharges,
		LoadingCharges:   input.LoadingCharges,
		UnloadingCharges: input.UnloadingCharges,
		OtherCharges:     input.OtherCharges,
		TaxAmount:        input.TaxAmount,
		AdvanceReceived:  decimal.Zero,
		BuiltyDate:       input.BuiltyDate,
		DueDate:          input.DueDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	builty.TotalCharges = builty.ComputeTotalCharges()
	builty.Recompute()

	if err := builty.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateChargeAmount(builty.TotalCharges); err != nil {
		return nil, err
	}

	decision := domain.EvaluateCredit(client, builty.TotalCharges)
	if !decision.OK {
		if uc.metrics != nil {
			uc.metrics.CreditLimitRejections.Inc()
		}
		if uc.enforceCredit {
			return nil, fmt.Errorf("%w: client %s would exceed limit by %s",
				domain.ErrCreditLimitExceeded, client.ID, decision.Excess)
		}
		uc.logger.Warn().
			Str("client_id", client.ID).
			Str("builty_number", builty.BuiltyNumber).
			Str("excess", decision.Excess.String()).
			Msg("credit limit would be exceeded, proceeding in advisory mode")
	}

	if err := uc.reconciler.RegisterNewBuilty(ctx, builty); err != nil {
		return nil, err
	}

	return builty, nil
}

// AmendCharges corrects a builty's charge components through the
// reconciliation service.
func (uc *BuiltyUseCase) AmendCharges(ctx context.Context, builtyID string, amendment ChargeAmendment) (*domain.Builty, error) {
	return uc.reconciler.AmendCharges(ctx, builtyID, amendment)
}

// GetBuilty retrieves a builty by ID.
func (uc *BuiltyUseCase) GetBuilty(ctx context.Context, id string) (*domain.Builty, error) {
	return uc.builtyRepo.GetByID(ctx, id)
}

// ListBuiltiesByClient lists builties for a client.
func (uc *BuiltyUseCase) ListBuiltiesByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Builty, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.builtyRepo.ListByClient(ctx, clientID, limit, offset)
}

// ListBuiltiesByTrip lists builties raised for a trip.
func (uc *BuiltyUseCase) ListBuiltiesByTrip(ctx context.Context, tripID string) ([]*domain.Builty, error) {
	return uc.builtyRepo.ListByTrip(ctx, tripID)
}
