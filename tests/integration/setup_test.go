package integration

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	postgresrepo "github.com/iho/fleetledger/internal/adapter/repository/postgres"
	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
	"github.com/iho/fleetledger/tests/testutil"
)

// testEnv wires the billing stack against a real database. Cache and metrics
// are left nil; both are optional.
type testEnv struct {
	db          *testutil.TestDB
	clientRepo  *postgresrepo.ClientRepository
	builtyRepo  *postgresrepo.BuiltyRepository
	paymentRepo *postgresrepo.PaymentRepository
	outboxRepo  *postgresrepo.OutboxRepository
	reconciler  *usecase.ReconciliationUseCase
	builtyUC    *usecase.BuiltyUseCase
	paymentUC   *usecase.PaymentUseCase
	clientUC    *usecase.ClientUseCase
}

func newTestEnv(t *testing.T, enforceCredit bool) (*testEnv, context.Context) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)
	db.TruncateAll(ctx)

	pool := db.Pool
	txManager := postgresrepo.NewTxManager(pool)
	clientRepo := postgresrepo.NewClientRepository(pool)
	builtyRepo := postgresrepo.NewBuiltyRepository(pool)
	paymentRepo := postgresrepo.NewPaymentRepository(pool)
	tripRepo := postgresrepo.NewTripRepository(pool)
	outboxRepo := postgresrepo.NewOutboxRepository(pool)
	retrier := postgresrepo.NewRetrier(zerolog.Nop(), nil)
	idGen := postgresrepo.NewULIDGenerator()

	reconciler := usecase.NewReconciliationUseCase(
		txManager, clientRepo, builtyRepo, paymentRepo, outboxRepo, idGen, retrier, nil, nil)
	builtyUC := usecase.NewBuiltyUseCase(
		builtyRepo, clientRepo, tripRepo, reconciler, idGen, zerolog.Nop(), nil, enforceCredit)
	paymentUC := usecase.NewPaymentUseCase(
		txManager, paymentRepo, clientRepo, builtyRepo, reconciler, idGen)
	clientUC := usecase.NewClientUseCase(txManager, clientRepo, builtyRepo, outboxRepo, idGen)

	return &testEnv{
		db:          db,
		clientRepo:  clientRepo,
		builtyRepo:  builtyRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		reconciler:  reconciler,
		builtyUC:    builtyUC,
		paymentUC:   paymentUC,
		clientUC:    clientUC,
	}, ctx
}

// newBillableTrip creates a truck, driver and running trip so builties can
// reference it.
func (env *testEnv) newBillableTrip(ctx context.Context, t *testing.T) string {
	t.Helper()

	truck := env.db.CreateTestTruck(ctx, "MH-12-"+testutil.GenerateID()[:6])
	driver := env.db.CreateTestDriver(ctx, "Ramesh Kumar")
	trip := env.db.CreateTestTrip(ctx, truck.ID, driver.ID, domain.TripStatusRunning)
	return trip.ID
}
