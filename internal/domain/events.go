package domain

import "time"

// Event types
const (
	EventTypePaymentApplied    = "payment.applied"
	EventTypePaymentReversed   = "payment.reversed"
	EventTypeChargeRegistered  = "builty.charge_registered"
	EventTypeTripCompleted     = "trip.completed"
	EventTypeClientDeactivated = "client.deactivated"
)

// Aggregate types
const (
	AggregateTypePayment = "payment"
	AggregateTypeBuilty  = "builty"
	AggregateTypeTrip    = "trip"
	AggregateTypeClient  = "client"
)

// OutboxEvent represents an event to be published. Events are written in the
// same transaction as the state change they describe and drained by a
// polling publisher.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PaymentAppliedEvent payload
type PaymentAppliedEvent struct {
	PaymentID         string  `json:"payment_id"`
	ClientID          string  `json:"client_id"`
	BuiltyID          *string `json:"builty_id,omitempty"`
	Amount            string  `json:"amount"`
	ClientOutstanding string  `json:"client_outstanding"`
}

// PaymentReversedEvent payload
type PaymentReversedEvent struct {
	PaymentID         string  `json:"payment_id"`
	ClientID          string  `json:"client_id"`
	BuiltyID          *string `json:"builty_id,omitempty"`
	Amount            string  `json:"amount"`
	ClientOutstanding string  `json:"client_outstanding"`
}

// ChargeRegisteredEvent payload
type ChargeRegisteredEvent struct {
	BuiltyID     string `json:"builty_id"`
	BuiltyNumber string `json:"builty_number"`
	ClientID     string `json:"client_id"`
	Delta        string `json:"delta"`
	TotalCharges string `json:"total_charges"`
}

// ClientDeactivatedEvent payload
type ClientDeactivatedEvent struct {
	ClientID string `json:"client_id"`
}

// TripCompletedEvent payload
type TripCompletedEvent struct {
	TripID     string `json:"trip_id"`
	TruckID    string `json:"truck_id"`
	DriverID   string `json:"driver_id"`
	DistanceKM string `json:"distance_km"`
}
