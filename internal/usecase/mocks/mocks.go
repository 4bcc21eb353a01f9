package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	CreateFunc              func(ctx context.Context, client *domain.Client) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Client, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Client, error)
	UpdateOutstandingFunc   func(ctx context.Context, tx usecase.Transaction, id string, outstanding decimal.Decimal, updatedAt time.Time) error
	HasFinancialHistoryFunc func(ctx context.Context, id string) (bool, error)
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[string]*domain.Client)}
}

// Put seeds a client directly.
func (m *MockClientRepository) Put(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, client)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Client, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockClientRepository) UpdateOutstanding(ctx context.Context, tx usecase.Transaction, id string, outstanding decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateOutstandingFunc != nil {
		return m.UpdateOutstandingFunc(ctx, tx, id, outstanding, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		c.OutstandingBalance = outstanding
		c.Version++
		c.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockClientRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		c.Active = active
		c.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
	return nil
}

func (m *MockClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var clients []*domain.Client
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	return clients, nil
}

func (m *MockClientRepository) HasFinancialHistory(ctx context.Context, id string) (bool, error) {
	if m.HasFinancialHistoryFunc != nil {
		return m.HasFinancialHistoryFunc(ctx, id)
	}
	return false, nil
}

// MockBuiltyRepository is a mock implementation of BuiltyRepository.
type MockBuiltyRepository struct {
	mu       sync.RWMutex
	builties map[string]*domain.Builty

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, builty *domain.Builty) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Builty, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Builty, error)
	UpdateAmountsFunc    func(ctx context.Context, tx usecase.Transaction, builty *domain.Builty) error
}

func NewMockBuiltyRepository() *MockBuiltyRepository {
	return &MockBuiltyRepository{builties: make(map[string]*domain.Builty)}
}

// Put seeds a builty directly.
func (m *MockBuiltyRepository) Put(builty *domain.Builty) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builties[builty.ID] = builty
}

func (m *MockBuiltyRepository) Create(ctx context.Context, tx usecase.Transaction, builty *domain.Builty) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, builty)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.builties {
		if b.BuiltyNumber == builty.BuiltyNumber {
			return domain.ErrDuplicateBuiltyNumber
		}
	}
	m.builties[builty.ID] = builty
	return nil
}

func (m *MockBuiltyRepository) GetByID(ctx context.Context, id string) (*domain.Builty, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.builties[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBuiltyNotFound
}

func (m *MockBuiltyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Builty, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockBuiltyRepository) GetByNumber(ctx context.Context, number string) (*domain.Builty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.builties {
		if b.BuiltyNumber == number {
			return b, nil
		}
	}
	return nil, domain.ErrBuiltyNotFound
}

func (m *MockBuiltyRepository) UpdateAmounts(ctx context.Context, tx usecase.Transaction, builty *domain.Builty) error {
	if m.UpdateAmountsFunc != nil {
		return m.UpdateAmountsFunc(ctx, tx, builty)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.builties[builty.ID]; ok {
		b.FreightCharges = builty.FreightCharges
		b.LoadingCharges = builty.LoadingCharges
		b.UnloadingCharges = builty.UnloadingCharges
		b.OtherCharges = builty.OtherCharges
		b.TaxAmount = builty.TaxAmount
		b.TotalCharges = builty.TotalCharges
		b.AdvanceReceived = builty.AdvanceReceived
		b.BalanceAmount = builty.BalanceAmount
		b.PaymentStatus = builty.PaymentStatus
		b.Version++
		b.UpdatedAt = builty.UpdatedAt
	}
	return nil
}

func (m *MockBuiltyRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Builty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var builties []*domain.Builty
	for _, b := range m.builties {
		if b.ClientID == clientID {
			builties = append(builties, b)
		}
	}
	return builties, nil
}

func (m *MockBuiltyRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Builty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var builties []*domain.Builty
	for _, b := range m.builties {
		if b.TripID == tripID {
			builties = append(builties, b)
		}
	}
	return builties, nil
}

func (m *MockBuiltyRepository) ListByPaymentStatus(ctx context.Context, status domain.BuiltyPaymentStatus, limit, offset int) ([]*domain.Builty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var builties []*domain.Builty
	for _, b := range m.builties {
		if b.PaymentStatus == status {
			builties = append(builties, b)
		}
	}
	return builties, nil
}

func (m *MockBuiltyRepository) ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Builty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var builties []*domain.Builty
	for _, b := range m.builties {
		if b.IsOverdue(asOf) {
			builties = append(builties, b)
		}
	}
	return builties, nil
}

func (m *MockBuiltyRepository) SumUnpaidByClient(ctx context.Context, clientID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, b := range m.builties {
		if b.ClientID == clientID {
			sum = sum.Add(b.BalanceAmount)
		}
	}
	return sum, nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error)
	UpdateStateFunc      func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	CountByTripFunc      func(ctx context.Context, tripID string) (int64, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

// Put seeds a payment directly.
func (m *MockPaymentRepository) Put(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockPaymentRepository) UpdateState(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.payments[payment.ID]; ok {
		p.State = payment.State
		p.AppliedAt = payment.AppliedAt
		p.ReversedAt = payment.ReversedAt
		p.Version++
		p.UpdatedAt = payment.UpdatedAt
	}
	return nil
}

func (m *MockPaymentRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.Payment
	for _, p := range m.payments {
		if p.ClientID == clientID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (m *MockPaymentRepository) ListByBuilty(ctx context.Context, builtyID string, limit, offset int) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.Payment
	for _, p := range m.payments {
		if p.BuiltyID != nil && *p.BuiltyID == builtyID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (m *MockPaymentRepository) CountByTrip(ctx context.Context, tripID string) (int64, error) {
	if m.CountByTripFunc != nil {
		return m.CountByTripFunc(ctx, tripID)
	}
	return 0, nil
}

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]*domain.Trip)}
}

// Put seeds a trip directly.
func (m *MockTripRepository) Put(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.trips[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTripNotFound
}

func (m *MockTripRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Trip, error) {
	return m.GetByID(ctx, id)
}

func (m *MockTripRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trips[trip.ID]; ok {
		t.Status = trip.Status
		t.ActualStart = trip.ActualStart
		t.ActualEnd = trip.ActualEnd
		t.DistanceKM = trip.DistanceKM
		t.FuelLitres = trip.FuelLitres
		t.Version++
		t.UpdatedAt = trip.UpdatedAt
	}
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, id)
	return nil
}

func (m *MockTripRepository) List(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, t := range m.trips {
		trips = append(trips, t)
	}
	return trips, nil
}

func (m *MockTripRepository) ListByStatus(ctx context.Context, status domain.TripStatus, limit, offset int) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, t := range m.trips {
		if t.Status == status {
			trips = append(trips, t)
		}
	}
	return trips, nil
}

// MockTruckRepository is a mock implementation of TruckRepository.
type MockTruckRepository struct {
	mu     sync.RWMutex
	trucks map[string]*domain.Truck
}

func NewMockTruckRepository() *MockTruckRepository {
	return &MockTruckRepository{trucks: make(map[string]*domain.Truck)}
}

func (m *MockTruckRepository) Put(truck *domain.Truck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trucks[truck.ID] = truck
}

func (m *MockTruckRepository) Create(ctx context.Context, truck *domain.Truck) error {
	m.Put(truck)
	return nil
}

func (m *MockTruckRepository) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.trucks[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTruckNotFound
}

func (m *MockTruckRepository) List(ctx context.Context, limit, offset int) ([]*domain.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trucks []*domain.Truck
	for _, t := range m.trucks {
		trucks = append(trucks, t)
	}
	return trucks, nil
}

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
}

func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{drivers: make(map[string]*domain.Driver)}
}

func (m *MockDriverRepository) Put(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	m.Put(driver)
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.drivers[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDriverNotFound
}

func (m *MockDriverRepository) List(ctx context.Context, limit, offset int) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var drivers []*domain.Driver
	for _, d := range m.drivers {
		drivers = append(drivers, d)
	}
	return drivers, nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{expenses: make(map[string]*domain.Expense)}
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrTripNotFound
}

func (m *MockExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var expenses []*domain.Expense
	for _, e := range m.expenses {
		if e.TripID != nil && *e.TripID == tripID {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

func (m *MockExpenseRepository) SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error) {
	expenses, _ := m.ListByTrip(ctx, tripID)
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func (m *MockExpenseRepository) DeleteByTrip(ctx context.Context, tx usecase.Transaction, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.expenses {
		if e.TripID != nil && *e.TripID == tripID {
			delete(m.expenses, id)
		}
	}
	return nil
}

// MockIncomeRepository is a mock implementation of IncomeRepository.
type MockIncomeRepository struct {
	mu      sync.RWMutex
	incomes map[string]*domain.Income
}

func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{incomes: make(map[string]*domain.Income)}
}

func (m *MockIncomeRepository) Create(ctx context.Context, income *domain.Income) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incomes[income.ID] = income
	return nil
}

func (m *MockIncomeRepository) GetByID(ctx context.Context, id string) (*domain.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i, ok := m.incomes[id]; ok {
		return i, nil
	}
	return nil, domain.ErrTripNotFound
}

func (m *MockIncomeRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var incomes []*domain.Income
	for _, i := range m.incomes {
		if i.TripID != nil && *i.TripID == tripID {
			incomes = append(incomes, i)
		}
	}
	return incomes, nil
}

func (m *MockIncomeRepository) SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error) {
	incomes, _ := m.ListByTrip(ctx, tripID)
	sum := decimal.Zero
	for _, i := range incomes {
		sum = sum.Add(i.Amount)
	}
	return sum, nil
}

func (m *MockIncomeRepository) DeleteByTrip(ctx context.Context, tx usecase.Transaction, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, i := range m.incomes {
		if i.TripID != nil && *i.TripID == tripID {
			delete(m.incomes, id)
		}
	}
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var unpublished []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			unpublished = append(unpublished, e)
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{store: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

// Has reports whether a key is present.
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[key]
	return ok
}
