package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// BuiltyRepository implements usecase.BuiltyRepository.
type BuiltyRepository struct {
	pool *pgxpool.Pool
}

// NewBuiltyRepository creates a new BuiltyRepository.
func NewBuiltyRepository(pool *pgxpool.Pool) *BuiltyRepository {
	return &BuiltyRepository{pool: pool}
}

const builtyColumns = `id, builty_number, trip_id, client_id, consignor_name,
	consignee_name, goods_description, weight_tonnes, freight_charges,
	loading_charges, unloading_charges, other_charges, tax_amount,
	total_charges, advance_received, balance_amount, payment_status,
	builty_date, due_date, version, created_at, updated_at`

// Create creates a new builty within a transaction.
func (r *BuiltyRepository) Create(ctx context.Context, tx usecase.Transaction, builty *domain.Builty) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `
		INSERT INTO builties (`+builtyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22)`,
		builty.ID,
		builty.BuiltyNumber,
		builty.TripID,
		builty.ClientID,
		builty.ConsignorName,
		builty.ConsigneeName,
		builty.GoodsDescription,
		decimalToNumeric(builty.WeightTonnes),
		decimalToNumeric(builty.FreightCharges),
		decimalToNumeric(builty.LoadingCharges),
		decimalToNumeric(builty.UnloadingCharges),
		decimalToNumeric(builty.OtherCharges),
		decimalToNumeric(builty.TaxAmount),
		decimalToNumeric(builty.TotalCharges),
		decimalToNumeric(builty.AdvanceReceived),
		decimalToNumeric(builty.BalanceAmount),
		string(builty.PaymentStatus),
		timeToPgTimestamptz(builty.BuiltyDate),
		timeToPgTimestamptz(builty.DueDate),
		builty.Version,
		timeToPgTimestamptz(builty.CreatedAt),
		timeToPgTimestamptz(builty.UpdatedAt),
	)

	return err
}

// GetByID retrieves a builty by ID.
func (r *BuiltyRepository) GetByID(ctx context.Context, id string) (*domain.Builty, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+builtyColumns+` FROM builties WHERE id = $1`, id)

	return scanBuilty(row)
}

// GetByIDForUpdate retrieves a builty by ID with a FOR UPDATE lock.
func (r *BuiltyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Builty, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `
		SELECT `+builtyColumns+` FROM builties WHERE id = $1 FOR UPDATE`, id)

	return scanBuilty(row)
}

// GetByNumber retrieves a builty by its builty number.
func (r *BuiltyRepository) GetByNumber(ctx context.Context, number string) (*domain.Builty, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+builtyColumns+` FROM builties WHERE builty_number = $1`, number)

	return scanBuilty(row)
}

// UpdateAmounts persists the charge components, advance and derived fields
// of a builty together.
func (r *BuiltyRepository) UpdateAmounts(ctx context.Context, tx usecase.Transaction, builty *domain.Builty) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `
		UPDATE builties
		SET freight_charges = $2, loading_charges = $3, unloading_charges = $4,
		    other_charges = $5, tax_amount = $6, total_charges = $7,
		    advance_received = $8, balance_amount = $9, payment_status = $10,
		    version = version + 1, updated_at = $11
		WHERE id = $1`,
		builty.ID,
		decimalToNumeric(builty.FreightCharges),
		decimalToNumeric(builty.LoadingCharges),
		decimalToNumeric(builty.UnloadingCharges),
		decimalToNumeric(builty.OtherCharges),
		decimalToNumeric(builty.TaxAmount),
		decimalToNumeric(builty.TotalCharges),
		decimalToNumeric(builty.AdvanceReceived),
		decimalToNumeric(builty.BalanceAmount),
		string(builty.PaymentStatus),
		timeToPgTimestamptz(builty.UpdatedAt),
	)

	return err
}

// ListByClient lists builties for a client.
func (r *BuiltyRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Builty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+builtyColumns+` FROM builties
		WHERE client_id = $1
		ORDER BY builty_date DESC, id
		LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBuilties(rows)
}

// ListByTrip lists builties raised for a trip.
func (r *BuiltyRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Builty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+builtyColumns+` FROM builties
		WHERE trip_id = $1
		ORDER BY builty_date DESC, id`, tripID)
	if err != nil {
		return nil, err
	}

	return collectBuilties(rows)
}

// ListByPaymentStatus lists builties by payment status.
func (r *BuiltyRepository) ListByPaymentStatus(ctx context.Context, status domain.BuiltyPaymentStatus, limit, offset int) ([]*domain.Builty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+builtyColumns+` FROM builties
		WHERE payment_status = $1
		ORDER BY due_date, id
		LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBuilties(rows)
}

// ListOverdue lists builties with a balance past their due date.
func (r *BuiltyRepository) ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Builty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+builtyColumns+` FROM builties
		WHERE balance_amount > 0 AND due_date < $1
		ORDER BY due_date, id
		LIMIT $2 OFFSET $3`, timeToPgTimestamptz(asOf), limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBuilties(rows)
}

// SumUnpaidByClient returns the sum of balance amounts over the client's
// builties.
func (r *BuiltyRepository) SumUnpaidByClient(ctx context.Context, clientID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance_amount), 0) FROM builties WHERE client_id = $1`,
		clientID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func collectBuilties(rows pgx.Rows) ([]*domain.Builty, error) {
	defer rows.Close()

	builties := make([]*domain.Builty, 0)
	for rows.Next() {
		builty, err := scanBuilty(rows)
		if err != nil {
			return nil, err
		}
		builties = append(builties, builty)
	}

	return builties, rows.Err()
}

func scanBuilty(row pgx.Row) (*domain.Builty, error) {
	var (
		builty        domain.Builty
		weight        pgtype.Numeric
		freight       pgtype.Numeric
		loading       pgtype.Numeric
		unloading     pgtype.Numeric
		other         pgtype.Numeric
		tax           pgtype.Numeric
		total         pgtype.Numeric
		advance       pgtype.Numeric
		balance       pgtype.Numeric
		paymentStatus string
		builtyDate    pgtype.Timestamptz
		dueDate       pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&builty.ID,
		&builty.BuiltyNumber,
		&builty.TripID,
		&builty.ClientID,
		&builty.ConsignorName,
		&builty.ConsigneeName,
		&builty.GoodsDescription,
		&weight,
		&freight,
		&loading,
		&unloading,
		&other,
		&tax,
		&total,
		&advance,
		&balance,
		&paymentStatus,
		&builtyDate,
		&dueDate,
		&builty.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBuiltyNotFound
		}

		return nil, err
	}

	builty.WeightTonnes = numericToDecimal(weight)
	builty.FreightCharges = numericToDecimal(freight)
	builty.LoadingCharges = numericToDecimal(loading)
	builty.UnloadingCharges = numericToDecimal(unloading)
	builty.OtherCharges = numericToDecimal(other)
	builty.TaxAmount = numericToDecimal(tax)
	builty.TotalCharges = numericToDecimal(total)
	builty.AdvanceReceived = numericToDecimal(advance)
	builty.BalanceAmount = numericToDecimal(balance)
	builty.PaymentStatus = domain.BuiltyPaymentStatus(paymentStatus)
	builty.BuiltyDate = builtyDate.Time
	builty.DueDate = dueDate.Time
	builty.CreatedAt = createdAt.Time
	builty.UpdatedAt = updatedAt.Time

	return &builty, nil
}
