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

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, client_id, builty_id, amount, kind, mode,
	reference, state, applied_at, reversed_at, version, created_at, updated_at`

// Create creates a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		payment.ID,
		payment.ClientID,
		ptrToPgText(payment.BuiltyID),
		decimalToNumeric(payment.Amount),
		string(payment.Kind),
		string(payment.Mode),
		payment.Reference,
		string(payment.State),
		ptrToPgTimestamptz(payment.AppliedAt),
		ptrToPgTimestamptz(payment.ReversedAt),
		payment.Version,
		timeToPgTimestamptz(payment.CreatedAt),
		timeToPgTimestamptz(payment.UpdatedAt),
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)

	return scanPayment(row)
}

// GetByIDForUpdate retrieves a payment by ID with a FOR UPDATE lock.
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)

	return scanPayment(row)
}

// UpdateState persists the state machine fields of a payment together.
func (r *PaymentRepository) UpdateState(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `
		UPDATE payments
		SET state = $2, applied_at = $3, reversed_at = $4,
		    version = version + 1, updated_at = $5
		WHERE id = $1`,
		payment.ID,
		string(payment.State),
		ptrToPgTimestamptz(payment.AppliedAt),
		ptrToPgTimestamptz(payment.ReversedAt),
		timeToPgTimestamptz(payment.UpdatedAt),
	)

	return err
}

// ListByClient lists payments for a client.
func (r *PaymentRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE client_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectPayments(rows)
}

// ListByBuilty lists payments matched to a builty.
func (r *PaymentRepository) ListByBuilty(ctx context.Context, builtyID string, limit, offset int) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE builty_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, builtyID, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectPayments(rows)
}

// CountByTrip counts payments recorded against any builty of the trip.
func (r *PaymentRepository) CountByTrip(ctx context.Context, tripID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM payments p
		JOIN builties b ON b.id = p.builty_id
		WHERE b.trip_id = $1`, tripID).Scan(&count)

	return count, err
}

func collectPayments(rows pgx.Rows) ([]*domain.Payment, error) {
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment    domain.Payment
		builtyID   pgtype.Text
		amount     pgtype.Numeric
		kind       string
		mode       string
		state      string
		appliedAt  pgtype.Timestamptz
		reversedAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&payment.ID,
		&payment.ClientID,
		&builtyID,
		&amount,
		&kind,
		&mode,
		&payment.Reference,
		&state,
		&appliedAt,
		&reversedAt,
		&payment.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	payment.BuiltyID = pgTextToPtr(builtyID)
	payment.Amount = numericToDecimal(amount)
	payment.Kind = domain.PaymentKind(kind)
	payment.Mode = domain.PaymentMode(mode)
	payment.State = domain.PaymentState(state)
	payment.AppliedAt = pgTimestamptzToPtr(appliedAt)
	payment.ReversedAt = pgTimestamptzToPtr(reversedAt)
	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return &payment, nil
}
