package domain

import "errors"

var (
	// Money errors
	ErrInvalidAmount = errors.New("amount is malformed or not positive")

	// State machine errors
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification of balance state")

	// Lookup errors
	ErrClientNotFound  = errors.New("client not found")
	ErrTruckNotFound   = errors.New("truck not found")
	ErrDriverNotFound  = errors.New("driver not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrBuiltyNotFound  = errors.New("builty not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// Billing errors
	ErrCreditLimitExceeded       = errors.New("client credit limit exceeded")
	ErrDuplicateBuiltyNumber     = errors.New("builty number already exists")
	ErrClientInactive            = errors.New("client is deactivated")
	ErrClientHasFinancialHistory = errors.New("client has financial history and cannot be deleted")
	ErrTripHasFinancialHistory   = errors.New("trip has recorded payments and cannot be deleted")
)
