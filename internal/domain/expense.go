package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	ExpenseCategoryFuel        ExpenseCategory = "FUEL"
	ExpenseCategoryToll        ExpenseCategory = "TOLL"
	ExpenseCategoryAllowance   ExpenseCategory = "DRIVER_ALLOWANCE"
	ExpenseCategoryMaintenance ExpenseCategory = "MAINTENANCE"
	ExpenseCategoryOther       ExpenseCategory = "OTHER"
)

type ExpensePaymentStatus string

const (
	ExpensePaymentPending ExpensePaymentStatus = "PENDING"
	ExpensePaymentPaid    ExpensePaymentStatus = "PAID"
)

// Expense is a leaf cost transaction. It feeds trip P&L but is not itself an
// aggregated balance.
type Expense struct {
	ID            string
	TripID        *string
	TruckID       *string
	DriverID      *string
	Category      ExpenseCategory
	Description   string
	Amount        decimal.Decimal
	ExpenseDate   time.Time
	PaymentStatus ExpensePaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates an expense before recording.
func (e *Expense) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}
