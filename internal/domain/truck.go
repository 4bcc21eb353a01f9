package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Truck is a fleet vehicle.
type Truck struct {
	ID                 string
	RegistrationNumber string
	Model              string
	CapacityTonnes     decimal.Decimal
	OdometerKM         decimal.Decimal
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
