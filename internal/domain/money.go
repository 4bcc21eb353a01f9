package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of fraction digits carried by currency amounts.
// Weights and odometer readings use the decimal type's full precision.
const CurrencyScale = 2

// ParseAmount parses an exact-decimal string into an amount. Monetary values
// cross the API boundary as strings, never as binary floats.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParsePositiveAmount parses an amount and rejects zero or negative values.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}
	return d, nil
}

// RoundCurrency rounds to the currency scale. Amounts in this system are
// never negative, so decimal's round-away-from-zero is round-half-up here.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}

// SubClamped returns a-b floored at zero. Balances must never be reported as
// negative debt; callers that need the raw difference use decimal.Sub.
func SubClamped(a, b decimal.Decimal) decimal.Decimal {
	d := a.Sub(b)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// PercentageOf returns pct percent of amount, rounded at the currency scale.
func PercentageOf(amount, pct decimal.Decimal) decimal.Decimal {
	return RoundCurrency(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}
