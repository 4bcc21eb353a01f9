package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// IncomeRepository implements usecase.IncomeRepository.
type IncomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new IncomeRepository.
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{pool: pool}
}

const incomeColumns = `id, trip_id, truck_id, client_id, builty_id, source,
	description, amount, income_date, payment_status, created_at, updated_at`

// Create creates a new income record.
func (r *IncomeRepository) Create(ctx context.Context, income *domain.Income) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO income (`+incomeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		income.ID,
		ptrToPgText(income.TripID),
		ptrToPgText(income.TruckID),
		ptrToPgText(income.ClientID),
		ptrToPgText(income.BuiltyID),
		income.Source,
		income.Description,
		decimalToNumeric(income.Amount),
		timeToPgTimestamptz(income.IncomeDate),
		string(income.PaymentStatus),
		timeToPgTimestamptz(income.CreatedAt),
		timeToPgTimestamptz(income.UpdatedAt),
	)

	return err
}

// GetByID retrieves an income record by ID.
func (r *IncomeRepository) GetByID(ctx context.Context, id string) (*domain.Income, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+incomeColumns+` FROM income WHERE id = $1`, id)

	return scanIncome(row)
}

// ListByTrip lists the income ledger of a trip.
func (r *IncomeRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Income, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+incomeColumns+` FROM income
		WHERE trip_id = $1
		ORDER BY income_date, id`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := make([]*domain.Income, 0)
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}

	return incomes, rows.Err()
}

// SumByTrip sums income amounts for a trip.
func (r *IncomeRepository) SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM income WHERE trip_id = $1`,
		tripID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// DeleteByTrip removes the income ledger of a trip within a transaction.
func (r *IncomeRepository) DeleteByTrip(ctx context.Context, tx usecase.Transaction, tripID string) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `DELETE FROM income WHERE trip_id = $1`, tripID)

	return err
}

func scanIncome(row pgx.Row) (*domain.Income, error) {
	var (
		income     domain.Income
		tripID     pgtype.Text
		truckID    pgtype.Text
		clientID   pgtype.Text
		builtyID   pgtype.Text
		amount     pgtype.Numeric
		incomeDate pgtype.Timestamptz
		status     string
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&income.ID,
		&tripID,
		&truckID,
		&clientID,
		&builtyID,
		&income.Source,
		&income.Description,
		&amount,
		&incomeDate,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}

		return nil, err
	}

	income.TripID = pgTextToPtr(tripID)
	income.TruckID = pgTextToPtr(truckID)
	income.ClientID = pgTextToPtr(clientID)
	income.BuiltyID = pgTextToPtr(builtyID)
	income.Amount = numericToDecimal(amount)
	income.IncomeDate = incomeDate.Time
	income.PaymentStatus = domain.IncomePaymentStatus(status)
	income.CreatedAt = createdAt.Time
	income.UpdatedAt = updatedAt.Time

	return &income, nil
}
