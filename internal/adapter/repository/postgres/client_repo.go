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

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, name, phone, address, gst_number, credit_limit,
	outstanding_balance, active, version, created_at, updated_at`

// Create creates a new client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		client.ID,
		client.Name,
		client.Phone,
		client.Address,
		client.GSTNumber,
		decimalToNumeric(client.CreditLimit),
		decimalToNumeric(client.OutstandingBalance),
		client.Active,
		client.Version,
		timeToPgTimestamptz(client.CreatedAt),
		timeToPgTimestamptz(client.UpdatedAt),
	)

	return err
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)

	return scanClient(row)
}

// GetByIDForUpdate retrieves a client by ID with a FOR UPDATE lock.
func (r *ClientRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Client, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `
		SELECT `+clientColumns+` FROM clients WHERE id = $1 FOR UPDATE`, id)

	return scanClient(row)
}

// UpdateOutstanding updates the outstanding balance of a client.
func (r *ClientRepository) UpdateOutstanding(ctx context.Context, tx usecase.Transaction, id string, outstanding decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `
		UPDATE clients
		SET outstanding_balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1`,
		id, decimalToNumeric(outstanding), timeToPgTimestamptz(updatedAt))

	return err
}

// SetActive flips the active flag of a client. It runs on the caller's
// transaction so the flag and any outbox event commit together.
func (r *ClientRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, `
		UPDATE clients SET active = $2, updated_at = $3 WHERE id = $1`,
		id, active, timeToPgTimestamptz(updatedAt))

	return err
}

// Delete physically removes a client.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)

	return err
}

// List lists clients with pagination.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

// HasFinancialHistory reports whether any builty or payment references the
// client.
func (r *ClientRepository) HasFinancialHistory(ctx context.Context, id string) (bool, error) {
	var hasHistory bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM builties WHERE client_id = $1)
		    OR EXISTS (SELECT 1 FROM payments WHERE client_id = $1)`, id).
		Scan(&hasHistory)

	return hasHistory, err
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		client      domain.Client
		creditLimit pgtype.Numeric
		outstanding pgtype.Numeric
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.Address,
		&client.GSTNumber,
		&creditLimit,
		&outstanding,
		&client.Active,
		&client.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}

		return nil, err
	}

	client.CreditLimit = numericToDecimal(creditLimit)
	client.OutstandingBalance = numericToDecimal(outstanding)
	client.CreatedAt = createdAt.Time
	client.UpdatedAt = updatedAt.Time

	return &client, nil
}
