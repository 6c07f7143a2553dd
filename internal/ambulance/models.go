// Package ambulance provides the ambulance fleet directory.
package ambulance

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrAmbulanceNotFound = errors.New("ambulance not found")
)

// Ambulance represents a vehicle in the fleet.
type Ambulance struct {
	ID            string
	VehicleNumber string
	DriverName    string
	DriverPhone   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
