// Package geocode provides best-effort reverse geocoding of pickup coordinates.
package geocode

import (
	"context"
	"errors"
	"strconv"
)

// Provider errors.
var (
	// ErrNoResult is returned when the provider has no address for the coordinates.
	ErrNoResult = errors.New("no address found for coordinates")

	// ErrProviderUnavailable is returned when the provider cannot be reached.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Reverser resolves a coordinate pair to a human-readable address.
type Reverser interface {
	// Reverse returns a display address for the given coordinates.
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// FormatCoordinates renders a coordinate pair as the "lat, lon" fallback string
// used when reverse geocoding fails.
func FormatCoordinates(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + ", " + strconv.FormatFloat(lon, 'f', -1, 64)
}
