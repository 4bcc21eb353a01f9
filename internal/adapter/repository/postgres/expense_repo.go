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

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, trip_id, truck_id, driver_id, category,
	description, amount, expense_date, payment_status, created_at, updated_at`

// Create creates a new expense record.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		expense.ID,
		ptrToPgText(expense.TripID),
		ptrToPgText(expense.TruckID),
		ptrToPgText(expense.DriverID),
		string(expense.Category),
		expense.Description,
		decimalToNumeric(expense.Amount),
		timeToPgTimestamptz(expense.ExpenseDate),
		string(expense.PaymentStatus),
		timeToPgTimestamptz(expense.CreatedAt),
		timeToPgTimestamptz(expense.UpdatedAt),
	)

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)

	return scanExpense(row)
}

// ListByTrip lists the expense ledger of a trip.
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE trip_id = $1
		ORDER BY expense_date, id`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// SumByTrip sums expense amounts for a trip.
func (r *ExpenseRepository) SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE trip_id = $1`,
		tripID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// DeleteByTrip removes the expense ledger of a trip within a transaction.
func (r *ExpenseRepository) DeleteByTrip(ctx context.Context, tx usecase.Transaction, tripID string) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `DELETE FROM expenses WHERE trip_id = $1`, tripID)

	return err
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		expense     domain.Expense
		tripID      pgtype.Text
		truckID     pgtype.Text
		driverID    pgtype.Text
		category    string
		amount      pgtype.Numeric
		expenseDate pgtype.Timestamptz
		status      string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&expense.ID,
		&tripID,
		&truckID,
		&driverID,
		&category,
		&expense.Description,
		&amount,
		&expenseDate,
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

	expense.TripID = pgTextToPtr(tripID)
	expense.TruckID = pgTextToPtr(truckID)
	expense.DriverID = pgTextToPtr(driverID)
	expense.Category = domain.ExpenseCategory(category)
	expense.Amount = numericToDecimal(amount)
	expense.ExpenseDate = expenseDate.Time
	expense.PaymentStatus = domain.ExpensePaymentStatus(status)
	expense.CreatedAt = createdAt.Time
	expense.UpdatedAt = updatedAt.Time

	return &expense, nil
}
