// Package request provides the emergency request store and lifecycle
// surface. The service never runs dispatch or matching; status
// transitions are made by operators through the dispatch API and are
// only observed here.
package request

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrRequestNotFound = errors.New("request not found")
)

// EmergencyType classifies an emergency request.
type EmergencyType string

// Emergency types accepted on submission.
const (
	EmergencyCardiac   EmergencyType = "cardiac"
	EmergencyAccident  EmergencyType = "accident"
	EmergencyBreathing EmergencyType = "breathing"
	EmergencyTrauma    EmergencyType = "trauma"
	EmergencyStroke    EmergencyType = "stroke"
	EmergencyOther     EmergencyType = "other"
)

// ParseEmergencyType validates an emergency type string.
func ParseEmergencyType(s string) (EmergencyType, bool) {
	switch EmergencyType(s) {
	case EmergencyCardiac, EmergencyAccident, EmergencyBreathing,
		EmergencyTrauma, EmergencyStroke, EmergencyOther:
		return EmergencyType(s), true
	}
	return "", false
}

// Status is the lifecycle state of a request.
type Status string

// Request statuses. New requests always start as pending.
const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusEnRoute   Status = "en_route"
	StatusArrived   Status = "arrived"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status string. Writes reject anything outside
// the enumeration; reads tolerate unknown values (see Presentation).
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusAssigned, StatusEnRoute,
		StatusArrived, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Terminal reports whether the status ends the request lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Presentation maps a status to its display color and text. Unknown
// values get a neutral color and the raw string, so rendering never
// fails on data written by a newer version of the service.
func (s Status) Presentation() (color, text string) {
	switch s {
	case StatusPending:
		return "warning", "Finding Ambulance..."
	case StatusAssigned:
		return "info", "Ambulance Assigned"
	case StatusEnRoute:
		return "orange", "Ambulance On The Way"
	case StatusArrived:
		return "success", "Ambulance Arrived"
	case StatusCompleted:
		return "neutral", "Request Completed"
	case StatusCancelled:
		return "danger", "Request Cancelled"
	}
	return "neutral", string(s)
}

// Request represents an emergency ambulance request.
type Request struct {
	ID            string
	UserID        string
	PatientName   string
	PatientPhone  string
	EmergencyType EmergencyType
	PickupLat     float64
	PickupLon     float64
	PickupAddress string
	Notes         *string
	Status        Status
	AmbulanceID   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
