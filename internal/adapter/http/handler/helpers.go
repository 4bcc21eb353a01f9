package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/fleetledger/internal/adapter/http/dto"
	"github.com/iho/fleetledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrBuiltyNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, domain.ErrTruckNotFound),
		errors.Is(err, domain.ErrDriverNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateBuiltyNumber),
		errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCreditLimitExceeded),
		errors.Is(err, domain.ErrClientHasFinancialHistory),
		errors.Is(err, domain.ErrTripHasFinancialHistory),
		errors.Is(err, domain.ErrClientInactive),
		errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidClientName),
		errors.Is(err, domain.ErrInvalidBuiltyNumber),
		errors.Is(err, domain.ErrInvalidRegistration),
		errors.Is(err, domain.ErrInvalidDriverName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery parses an RFC3339 time query parameter, defaulting to now.
func parseTimeQuery(r *http.Request, key string) time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
