package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
)

// TripUseCase handles trips and their trip-scoped expense/income ledger.
type TripUseCase struct {
	txManager   TransactionManager
	tripRepo    TripRepository
	truckRepo   TruckRepository
	driverRepo  DriverRepository
	expenseRepo ExpenseRepository
	incomeRepo  IncomeRepository
	builtyRepo  BuiltyRepository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	cache       Cache
}

// NewTripUseCase creates a new TripUseCase. cache is optional.
func NewTripUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	truckRepo TruckRepository,
	driverRepo DriverRepository,
	expenseRepo ExpenseRepository,
	incomeRepo IncomeRepository,
	builtyRepo BuiltyRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
) *TripUseCase {
	return &TripUseCase{
		txManager:   txManager,
		tripRepo:    tripRepo,
		truckRepo:   truckRepo,
		driverRepo:  driverRepo,
		expenseRepo: expenseRepo,
		incomeRepo:  incomeRepo,
		builtyRepo:  builtyRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// CreateTripInput represents input for creating a trip.
type CreateTripInput struct {
	TruckID      string
	DriverID     string
	ClientID     *string
	FromLocation string
	ToLocation   string
	PlannedStart time.Time
	PlannedEnd   time.Time
	DistanceKM   decimal.Decimal
}

// CreateTrip validates references and persists a new PENDING trip.
func (uc *TripUseCase) CreateTrip(ctx context.Context, input CreateTripInput) (*domain.Trip, error) {
	if _, err := uc.truckRepo.GetByID(ctx, input.TruckID); err != nil {
		return nil, err
	}
	if _, err := uc.driverRepo.GetByID(ctx, input.DriverID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trip := &domain.Trip{
		ID:           uc.idGen.Generate(),
		TruckID:      input.TruckID,
		DriverID:     input.DriverID,
		ClientID:     input.ClientID,
		Status:       domain.TripStatusPending,
		FromLocation: input.FromLocation,
		ToLocation:   input.ToLocation,
		PlannedStart: input.PlannedStart,
		PlannedEnd:   input.PlannedEnd,
		DistanceKM:   input.DistanceKM,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// StartTrip transitions a trip to RUNNING.
func (uc *TripUseCase) StartTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return uc.transition(ctx, tripID, domain.TripStatusRunning, nil)
}

// CompleteTripInput carries the actuals recorded at trip completion.
type CompleteTripInput struct {
	DistanceKM decimal.Decimal
	FuelLitres decimal.Decimal
}

// CompleteTrip transitions a trip to COMPLETED, records its actuals and
// emits a completion event.
func (uc *TripUseCase) CompleteTrip(ctx context.Context, tripID string, input CompleteTripInput) (*domain.Trip, error) {
	return uc.transition(ctx, tripID, domain.TripStatusCompleted, func(trip *domain.Trip) {
		if input.DistanceKM.IsPositive() {
			trip.DistanceKM = input.DistanceKM
		}
		if input.FuelLitres.IsPositive() {
			trip.FuelLitres = input.FuelLitres
		}
	})
}

// CancelTrip transitions a trip to CANCELLED.
func (uc *TripUseCase) CancelTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return uc.transition(ctx, tripID, domain.TripStatusCancelled, nil)
}

func (uc *TripUseCase) transition(ctx context.Context, tripID string, next domain.TripStatus, mutate func(*domain.Trip)) (*domain.Trip, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	trip, err := uc.tripRepo.GetByIDForUpdate(txCtx, tx, tripID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := trip.TransitionTo(next, now); err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(trip)
	}
	trip.UpdatedAt = now

	if err := uc.tripRepo.UpdateStatus(txCtx, tx, trip); err != nil {
		return nil, err
	}

	if next == domain.TripStatusCompleted {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   trip.ID,
			AggregateType: domain.AggregateTypeTrip,
			EventType:     domain.EventTypeTripCompleted,
			Payload: map[string]any{
				"trip_id":     trip.ID,
				"truck_id":    trip.TruckID,
				"driver_id":   trip.DriverID,
				"distance_km": trip.DistanceKM.String(),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return trip, nil
}

// AddExpenseInput represents input for recording a trip expense.
type AddExpenseInput struct {
	TripID      string
	Category    domain.ExpenseCategory
	Description string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Paid        bool
}

// AddExpense records an expense against a trip and invalidates the cached
// P&L snapshot.
func (uc *TripUseCase) AddExpense(ctx context.Context, input AddExpenseInput) (*domain.Expense, error) {
	trip, err := uc.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	status := domain.ExpensePaymentPending
	if input.Paid {
		status = domain.ExpensePaymentPaid
	}

	expense := &domain.Expense{
		ID:            uc.idGen.Generate(),
		TripID:        &trip.ID,
		TruckID:       &trip.TruckID,
		DriverID:      &trip.DriverID,
		Category:      input.Category,
		Description:   input.Description,
		Amount:        input.Amount,
		ExpenseDate:   input.ExpenseDate,
		PaymentStatus: status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	uc.invalidatePnL(ctx, trip.ID)
	return expense, nil
}

// AddIncomeInput represents input for recording trip income.
type AddIncomeInput struct {
	TripID      string
	Source      string
	Description string
	Amount      decimal.Decimal
	IncomeDate  time.Time
	Received    bool
}

// AddIncome records an income entry against a trip and invalidates the
// cached P&L snapshot.
func (uc *TripUseCase) AddIncome(ctx context.Context, input AddIncomeInput) (*domain.Income, error) {
	trip, err := uc.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	status := domain.IncomePaymentPending
	if input.Received {
		status = domain.IncomePaymentReceived
	}

	income := &domain.Income{
		ID:            uc.idGen.Generate(),
		TripID:        &trip.ID,
		TruckID:       &trip.TruckID,
		ClientID:      trip.ClientID,
		Source:        input.Source,
		Description:   input.Description,
		Amount:        input.Amount,
		IncomeDate:    input.IncomeDate,
		PaymentStatus: status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := income.Validate(); err != nil {
		return nil, err
	}

	if err := uc.incomeRepo.Create(ctx, income); err != nil {
		return nil, err
	}

	uc.invalidatePnL(ctx, trip.ID)
	return income, nil
}

// TripPnL is a computed-on-demand profit/loss snapshot for a trip. It is
// never stored as entity state; a cached copy is invalidated on any
// expense/income mutation for the trip.
type TripPnL struct {
	TripID        string          `json:"trip_id"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	ProfitLoss    decimal.Decimal `json:"profit_loss"`
	ComputedAt    time.Time       `json:"computed_at"`
}

// ProfitLoss computes totalIncome - totalExpenses over the trip's ledger.
func (uc *TripUseCase) ProfitLoss(ctx context.Context, tripID string) (*TripPnL, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, pnlCacheKey(tripID)); err == nil && len(raw) > 0 {
			var cached TripPnL
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.SumByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	income, err := uc.incomeRepo.SumByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	pnl := &TripPnL{
		TripID:        tripID,
		TotalExpenses: expenses,
		TotalIncome:   income,
		ProfitLoss:    income.Sub(expenses),
		ComputedAt:    time.Now().UTC(),
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(pnl); err == nil {
			_ = uc.cache.Set(ctx, pnlCacheKey(tripID), raw, PnLCacheTTL)
		}
	}

	return pnl, nil
}

// DeleteTrip removes a trip together with its expense/income collections.
// Deletion is rejected once any payment has been recorded against the trip's
// builties; financial history must be preserved.
func (uc *TripUseCase) DeleteTrip(ctx context.Context, tripID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// The trip row is locked before the history checks. A concurrent builty
	// insert takes a key-share lock on its trip reference and blocks until
	// this transaction ends, so no builty can slip in between the checks and
	// the delete.
	if _, err := uc.tripRepo.GetByIDForUpdate(txCtx, tx, tripID); err != nil {
		return err
	}

	count, err := uc.paymentRepo.CountByTrip(txCtx, tripID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: trip %s", domain.ErrTripHasFinancialHistory, tripID)
	}

	builties, err := uc.builtyRepo.ListByTrip(txCtx, tripID)
	if err != nil {
		return err
	}
	if len(builties) > 0 {
		return fmt.Errorf("%w: trip %s has builties", domain.ErrTripHasFinancialHistory, tripID)
	}

	if err := uc.expenseRepo.DeleteByTrip(txCtx, tx, tripID); err != nil {
		return err
	}
	if err := uc.incomeRepo.DeleteByTrip(txCtx, tx, tripID); err != nil {
		return err
	}
	if err := uc.tripRepo.Delete(txCtx, tx, tripID); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	uc.invalidatePnL(ctx, tripID)
	return nil
}

// GetTrip retrieves a trip by ID.
func (uc *TripUseCase) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	return uc.tripRepo.GetByID(ctx, id)
}

// ListTrips lists trips.
func (uc *TripUseCase) ListTrips(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.tripRepo.List(ctx, limit, offset)
}

// ListExpensesByTrip lists the expense ledger of a trip.
func (uc *TripUseCase) ListExpensesByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	return uc.expenseRepo.ListByTrip(ctx, tripID)
}

// ListIncomeByTrip lists the income ledger of a trip.
func (uc *TripUseCase) ListIncomeByTrip(ctx context.Context, tripID string) ([]*domain.Income, error) {
	return uc.incomeRepo.ListByTrip(ctx, tripID)
}

func (uc *TripUseCase) invalidatePnL(ctx context.Context, tripID string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, pnlCacheKey(tripID))
}

func pnlCacheKey(tripID string) string {
	return "trip:pnl:" + tripID
}

// RegisterTruckInput represents input for registering a truck.
type RegisterTruckInput struct {
	RegistrationNumber string
	Model              string
	CapacityTonnes     decimal.Decimal
	OdometerKM         decimal.Decimal
}

// RegisterTruck persists a new truck in the fleet registry.
func (uc *TripUseCase) RegisterTruck(ctx context.Context, input RegisterTruckInput) (*domain.Truck, error) {
	if input.RegistrationNumber == "" {
		return nil, fmt.Errorf("%w: registration number cannot be empty", domain.ErrInvalidRegistration)
	}

	now := time.Now().UTC()
	truck := &domain.Truck{
		ID:                 uc.idGen.Generate(),
		RegistrationNumber: input.RegistrationNumber,
		Model:              input.Model,
		CapacityTonnes:     input.CapacityTonnes,
		OdometerKM:         input.OdometerKM,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.truckRepo.Create(ctx, truck); err != nil {
		return nil, err
	}
	return truck, nil
}

// GetTruck retrieves a truck by ID.
func (uc *TripUseCase) GetTruck(ctx context.Context, id string) (*domain.Truck, error) {
	return uc.truckRepo.GetByID(ctx, id)
}

// ListTrucks lists the fleet.
func (uc *TripUseCase) ListTrucks(ctx context.Context, limit, offset int) ([]*domain.Truck, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.truckRepo.List(ctx, limit, offset)
}

// RegisterDriverInput represents input for registering a driver.
type RegisterDriverInput struct {
	Name          string
	Phone         string
	LicenseNumber string
}

// RegisterDriver persists a new driver.
func (uc *TripUseCase) RegisterDriver(ctx context.Context, input RegisterDriverInput) (*domain.Driver, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidDriverName)
	}

	now := time.Now().UTC()
	driver := &domain.Driver{
		ID:            uc.idGen.Generate(),
		Name:          input.Name,
		Phone:         input.Phone,
		LicenseNumber: input.LicenseNumber,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// GetDriver retrieves a driver by ID.
func (uc *TripUseCase) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	return uc.driverRepo.GetByID(ctx, id)
}

// ListDrivers lists drivers.
func (uc *TripUseCase) ListDrivers(ctx context.Context, limit, offset int) ([]*domain.Driver, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.driverRepo.List(ctx, limit, offset)
}
