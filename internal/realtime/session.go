package realtime

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/ambulance"
	"github.com/rapidaid/rapidaid/internal/api/models"
)

// Directory resolves assigned ambulance ids to fleet records.
type Directory interface {
	Get(ctx context.Context, id string) (*ambulance.Ambulance, error)
}

// Sink receives tracking frames. The WebSocket handler implements this
// over its connection.
type Sink interface {
	Send(event *models.TrackEvent) error
}

// Session streams one request's change feed to a sink. Each delivered
// snapshot replaces the previous one wholesale. The ambulance directory
// is queried exactly once each time the assigned ambulance id appears
// or changes; frames without an ambulance change carry no ambulance
// payload and the consumer retains the last one it saw.
type Session struct {
	bus       Bus
	directory Directory
	logger    zerolog.Logger
}

// NewSession creates a tracking session factory.
func NewSession(bus Bus, directory Directory, logger zerolog.Logger) *Session {
	return &Session{
		bus:       bus,
		directory: directory,
		logger:    logger.With().Str("component", "tracking_session").Logger(),
	}
}

// Run subscribes to the request's subject, pushes the initial snapshot,
// then forwards change events until the context is cancelled, the bus
// shuts down, or the sink fails. The subscription is torn down before
// Run returns; no frames are sent after that.
func (s *Session) Run(ctx context.Context, initial *models.Request, sink Sink) error {
	sub, err := s.bus.SubscribeRequest(initial.ID)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	lastAmbulanceID := ""

	snapshot := &models.TrackEvent{Type: models.TrackEventSnapshot, Request: initial}
	if id := ambulanceID(initial); id != "" {
		snapshot.Ambulance = s.lookupAmbulance(ctx, id)
		lastAmbulanceID = id
	}
	if err := sink.Send(snapshot); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case req, ok := <-sub.Updates():
			if !ok {
				return nil
			}

			event := &models.TrackEvent{Type: models.TrackEventUpdate, Request: req}
			if id := ambulanceID(req); id != lastAmbulanceID {
				if id != "" {
					event.Ambulance = s.lookupAmbulance(ctx, id)
				}
				lastAmbulanceID = id
			}

			if err := sink.Send(event); err != nil {
				return err
			}
		}
	}
}

// lookupAmbulance fetches the directory record for an assigned
// ambulance. A failed lookup degrades to a frame without the payload;
// it is not retried until the id changes again.
func (s *Session) lookupAmbulance(ctx context.Context, id string) *models.Ambulance {
	amb, err := s.directory.Get(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("ambulance_id", id).
			Msg("failed to resolve assigned ambulance")
		return nil
	}

	return &models.Ambulance{
		ID:            amb.ID,
		VehicleNumber: amb.VehicleNumber,
		DriverName:    amb.DriverName,
		DriverPhone:   amb.DriverPhone,
		CreatedAt:     models.Timestamp(amb.CreatedAt),
		UpdatedAt:     models.Timestamp(amb.UpdatedAt),
	}
}

func ambulanceID(req *models.Request) string {
	if req.AmbulanceID == nil {
		return ""
	}
	return *req.AmbulanceID
}
