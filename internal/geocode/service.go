package geocode

import (
	"context"

	"github.com/rs/zerolog"
)

// Service wraps a Reverser with the degradation policy for submissions:
// a failed or empty lookup falls back to the raw coordinate string and is
// never surfaced to the caller as an error.
type Service struct {
	reverser Reverser
	logger   zerolog.Logger
}

// NewService creates a new geocode service.
func NewService(reverser Reverser, logger zerolog.Logger) *Service {
	return &Service{
		reverser: reverser,
		logger:   logger,
	}
}

// ResolveAddress returns a display address for the coordinates, degrading to
// the "lat, lon" string when the lookup fails. It never returns an error;
// geocoding is advisory and must not block a submission.
func (s *Service) ResolveAddress(ctx context.Context, lat, lon float64) string {
	if s.reverser == nil {
		return FormatCoordinates(lat, lon)
	}

	address, err := s.reverser.Reverse(ctx, lat, lon)
	if err != nil || address == "" {
		s.logger.Debug().
			Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("reverse geocode failed, falling back to coordinates")
		return FormatCoordinates(lat, lon)
	}

	return address
}
