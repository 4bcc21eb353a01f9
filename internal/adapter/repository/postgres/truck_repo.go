package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fleetledger/internal/domain"
)

// TruckRepository implements usecase.TruckRepository.
type TruckRepository struct {
	pool *pgxpool.Pool
}

// NewTruckRepository creates a new TruckRepository.
func NewTruckRepository(pool *pgxpool.Pool) *TruckRepository {
	return &TruckRepository{pool: pool}
}

const truckColumns = `id, registration_number, model, capacity_tonnes,
	odometer_km, active, created_at, updated_at`

// Create creates a new truck.
func (r *TruckRepository) Create(ctx context.Context, truck *domain.Truck) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trucks (`+truckColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		truck.ID,
		truck.RegistrationNumber,
		truck.Model,
		decimalToNumeric(truck.CapacityTonnes),
		decimalToNumeric(truck.OdometerKM),
		truck.Active,
		timeToPgTimestamptz(truck.CreatedAt),
		timeToPgTimestamptz(truck.UpdatedAt),
	)

	return err
}

// GetByID retrieves a truck by ID.
func (r *TruckRepository) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+truckColumns+` FROM trucks WHERE id = $1`, id)

	return scanTruck(row)
}

// List lists trucks with pagination.
func (r *TruckRepository) List(ctx context.Context, limit, offset int) ([]*domain.Truck, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+truckColumns+` FROM trucks
		ORDER BY registration_number
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trucks := make([]*domain.Truck, 0)
	for rows.Next() {
		truck, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, truck)
	}

	return trucks, rows.Err()
}

func scanTruck(row pgx.Row) (*domain.Truck, error) {
	var (
		truck     domain.Truck
		capacity  pgtype.Numeric
		odometer  pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&truck.ID,
		&truck.RegistrationNumber,
		&truck.Model,
		&capacity,
		&odometer,
		&truck.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTruckNotFound
		}

		return nil, err
	}

	truck.CapacityTonnes = numericToDecimal(capacity)
	truck.OdometerKM = numericToDecimal(odometer)
	truck.CreatedAt = createdAt.Time
	truck.UpdatedAt = updatedAt.Time

	return &truck, nil
}
