// Package user provides user profile management.
//
// Profiles carry the contact details (full name, phone number) used to
// prefill the ambulance request form. They are advisory: a missing profile
// is not an error, the form simply starts blank.
package user

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// Profile represents a user's contact profile.
type Profile struct {
	// UserID is the owning user's identifier.
	UserID string

	// FullName is the user's display name, used as the default patient name.
	FullName string

	// PhoneNumber is the user's contact number, used as the default patient phone.
	PhoneNumber string

	// UpdatedAt is when the profile was last updated.
	UpdatedAt time.Time
}
