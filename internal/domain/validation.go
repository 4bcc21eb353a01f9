package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidClientName   = errors.New("invalid client name")
	ErrInvalidBuiltyNumber = errors.New("invalid builty number")
	ErrInvalidRegistration = errors.New("invalid truck registration number")
	ErrInvalidDriverName   = errors.New("invalid driver name")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxClientNameLength = 255
	MinClientNameLength = 1
	MaxChargeAmount     = "1000000000" // 1 billion, per-builty sanity cap
)

var builtyNumberRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9/-]{1,31}$`)

// ValidateClientName validates a client name.
func ValidateClientName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinClientNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidClientName)
	}

	if len(name) > MaxClientNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidClientName, MaxClientNameLength)
	}

	return nil
}

// ValidateBuiltyNumber validates a builty number (uppercase alphanumeric with
// slashes and dashes, e.g. "BLT/2026/0042").
func ValidateBuiltyNumber(number string) error {
	if !builtyNumberRegex.MatchString(strings.TrimSpace(number)) {
		return fmt.Errorf("%w: %q", ErrInvalidBuiltyNumber, number)
	}
	return nil
}

// ValidateChargeAmount validates a charge or payment amount against the
// system-wide sanity cap.
func ValidateChargeAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxChargeAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxChargeAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
