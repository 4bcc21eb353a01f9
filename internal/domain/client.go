package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a freight client that is billed through builties.
//
// OutstandingBalance is derived state: it always equals the sum of unpaid
// builty balances for the client and is written only by the reconciliation
// service. Any other write path is a bug.
type Client struct {
	ID                 string
	Name               string
	Phone              string
	Address            string
	GSTNumber          string
	CreditLimit        decimal.Decimal
	OutstandingBalance decimal.Decimal
	Active             bool
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ApplyPaymentAmount returns the outstanding balance after a payment,
// floored at zero.
func (c *Client) ApplyPaymentAmount(amount decimal.Decimal) decimal.Decimal {
	return SubClamped(c.OutstandingBalance, amount)
}

// ApplyChargeDelta returns the outstanding balance after a charge delta.
// Negative deltas (downward charge corrections) are floored at zero.
func (c *Client) ApplyChargeDelta(delta decimal.Decimal) decimal.Decimal {
	if delta.IsNegative() {
		return SubClamped(c.OutstandingBalance, delta.Neg())
	}
	return c.OutstandingBalance.Add(delta)
}
