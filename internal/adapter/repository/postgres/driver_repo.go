package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fleetledger/internal/domain"
)

// DriverRepository implements usecase.DriverRepository.
type DriverRepository struct {
	pool *pgxpool.Pool
}

// NewDriverRepository creates a new DriverRepository.
func NewDriverRepository(pool *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{pool: pool}
}

const driverColumns = `id, name, phone, license_number, active, created_at, updated_at`

// Create creates a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO drivers (`+driverColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		driver.ID,
		driver.Name,
		driver.Phone,
		driver.LicenseNumber,
		driver.Active,
		timeToPgTimestamptz(driver.CreatedAt),
		timeToPgTimestamptz(driver.UpdatedAt),
	)

	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)

	return scanDriver(row)
}

// List lists drivers with pagination.
func (r *DriverRepository) List(ctx context.Context, limit, offset int) ([]*domain.Driver, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+driverColumns+` FROM drivers
		ORDER BY name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0)
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

func scanDriver(row pgx.Row) (*domain.Driver, error) {
	var (
		driver    domain.Driver
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.LicenseNumber,
		&driver.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}

		return nil, err
	}

	driver.CreatedAt = createdAt.Time
	driver.UpdatedAt = updatedAt.Time

	return &driver, nil
}
