package domain

import "time"

// Driver is a fleet driver.
type Driver struct {
	ID            string
	Name          string
	Phone         string
	LicenseNumber string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
