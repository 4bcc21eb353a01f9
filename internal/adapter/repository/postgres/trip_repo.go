package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// TripRepository implements usecase.TripRepository.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

const tripColumns = `id, truck_id, driver_id, client_id, status,
	from_location, to_location, planned_start, planned_end, actual_start,
	actual_end, distance_km, fuel_litres, version, created_at, updated_at`

// Create creates a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		trip.ID,
		trip.TruckID,
		trip.DriverID,
		ptrToPgText(trip.ClientID),
		string(trip.Status),
		trip.FromLocation,
		trip.ToLocation,
		timeToPgTimestamptz(trip.PlannedStart),
		timeToPgTimestamptz(trip.PlannedEnd),
		ptrToPgTimestamptz(trip.ActualStart),
		ptrToPgTimestamptz(trip.ActualEnd),
		decimalToNumeric(trip.DistanceKM),
		decimalToNumeric(trip.FuelLitres),
		trip.Version,
		timeToPgTimestamptz(trip.CreatedAt),
		timeToPgTimestamptz(trip.UpdatedAt),
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)

	return scanTrip(row)
}

// GetByIDForUpdate retrieves a trip by ID with a FOR UPDATE lock.
func (r *TripRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Trip, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `
		SELECT `+tripColumns+` FROM trips WHERE id = $1 FOR UPDATE`, id)

	return scanTrip(row)
}

// UpdateStatus persists the status machine fields and actuals of a trip.
func (r *TripRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, trip *domain.Trip) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `
		UPDATE trips
		SET status = $2, actual_start = $3, actual_end = $4, distance_km = $5,
		    fuel_litres = $6, version = version + 1, updated_at = $7
		WHERE id = $1`,
		trip.ID,
		string(trip.Status),
		ptrToPgTimestamptz(trip.ActualStart),
		ptrToPgTimestamptz(trip.ActualEnd),
		decimalToNumeric(trip.DistanceKM),
		decimalToNumeric(trip.FuelLitres),
		timeToPgTimestamptz(trip.UpdatedAt),
	)

	return err
}

// Delete physically removes a trip within a transaction.
func (r *TripRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)

	return err
}

// List lists trips with pagination.
func (r *TripRepository) List(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tripColumns+` FROM trips
		ORDER BY planned_start DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectTrips(rows)
}

// ListByStatus lists trips by status.
func (r *TripRepository) ListByStatus(ctx context.Context, status domain.TripStatus, limit, offset int) ([]*domain.Trip, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE status = $1
		ORDER BY planned_start DESC, id
		LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, err
	}

	return collectTrips(rows)
}

func collectTrips(rows pgx.Rows) ([]*domain.Trip, error) {
	defer rows.Close()

	trips := make([]*domain.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

func scanTrip(row pgx.Row) (*domain.Trip, error) {
	var (
		trip         domain.Trip
		clientID     pgtype.Text
		status       string
		plannedStart pgtype.Timestamptz
		plannedEnd   pgtype.Timestamptz
		actualStart  pgtype.Timestamptz
		actualEnd    pgtype.Timestamptz
		distance     pgtype.Numeric
		fuel         pgtype.Numeric
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&trip.ID,
		&trip.TruckID,
		&trip.DriverID,
		&clientID,
		&status,
		&trip.FromLocation,
		&trip.ToLocation,
		&plannedStart,
		&plannedEnd,
		&actualStart,
		&actualEnd,
		&distance,
		&fuel,
		&trip.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}

		return nil, err
	}

	trip.ClientID = pgTextToPtr(clientID)
	trip.Status = domain.TripStatus(status)
	trip.PlannedStart = plannedStart.Time
	trip.PlannedEnd = plannedEnd.Time
	trip.ActualStart = pgTimestamptzToPtr(actualStart)
	trip.ActualEnd = pgTimestamptzToPtr(actualEnd)
	trip.DistanceKM = numericToDecimal(distance)
	trip.FuelLitres = numericToDecimal(fuel)
	trip.CreatedAt = createdAt.Time
	trip.UpdatedAt = updatedAt.Time

	return &trip, nil
}
