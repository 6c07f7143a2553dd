package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/ambulance"
	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/geocode"
)

// Validation constants.
const (
	MaxPatientNameLength  = 120
	MaxPatientPhoneLength = 20
	MaxNotesLength        = 500
)

// Publisher publishes request change events to the realtime feed.
// Publishing is best-effort: the store write has already committed when
// the publisher runs, and a delivery failure never fails the update.
type Publisher interface {
	PublishRequestUpdated(ctx context.Context, req *models.Request) error
}

// Service provides emergency request operations.
type Service struct {
	repo       Repository
	ambulances ambulance.Repository
	geocoder   *geocode.Service
	publisher  Publisher
	logger     zerolog.Logger
}

// NewService creates a new request service. The publisher may be nil,
// in which case dispatch updates are stored without a realtime event.
func NewService(repo Repository, ambulances ambulance.Repository, geocoder *geocode.Service, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		ambulances: ambulances,
		geocoder:   geocoder,
		publisher:  publisher,
		logger:     logger.With().Str("component", "request_service").Logger(),
	}
}

// Create submits a new emergency request for a user. The pickup address
// is resolved best-effort from the coordinates; on geocoder failure the
// literal "lat, lon" string is stored and submission proceeds. Exactly
// one row is inserted, always pending with no ambulance. The insert is
// a single attempt with no retry.
func (s *Service) Create(ctx context.Context, userID string, input *models.RequestCreateRequest) (*models.Request, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	address := s.geocoder.ResolveAddress(ctx, input.Pickup.Lat, input.Pickup.Lon)

	now := time.Now()
	emergencyType, _ := ParseEmergencyType(input.EmergencyType)

	req := &Request{
		ID:            "req_" + uuid.New().String()[:22],
		UserID:        userID,
		PatientName:   input.PatientName,
		PatientPhone:  input.PatientPhone,
		EmergencyType: emergencyType,
		PickupLat:     input.Pickup.Lat,
		PickupLon:     input.Pickup.Lon,
		PickupAddress: address,
		Notes:         input.Notes,
		Status:        StatusPending,
		AmbulanceID:   nil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	result := toAPIRequest(req)
	return &result, nil
}

// Get retrieves a request by ID for its owner. When an ambulance is
// assigned, the directory record is embedded; a missing directory row
// degrades to the bare identifier rather than failing the read.
func (s *Service) Get(ctx context.Context, userID, requestID string) (*models.Request, error) {
	req, err := s.repo.GetByUserAndID(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}

	result := toAPIRequest(req)
	s.attachAmbulance(ctx, &result)
	return &result, nil
}

// List retrieves all requests for a user, newest first. A single
// unbounded fetch; the history is one user's submissions.
func (s *Service) List(ctx context.Context, userID string) (*models.RequestList, error) {
	requests, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.Request, 0, len(requests))
	for _, req := range requests {
		items = append(items, toAPIRequest(req))
	}

	return &models.RequestList{Items: items}, nil
}

// DispatchList retrieves requests not yet completed or cancelled,
// oldest first, for the operator board.
func (s *Service) DispatchList(ctx context.Context) (*models.RequestList, error) {
	requests, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Request, 0, len(requests))
	for _, req := range requests {
		items = append(items, toAPIRequest(req))
	}

	return &models.RequestList{Items: items}, nil
}

// DispatchUpdate applies an operator update to a request: a status
// change, an ambulance assignment, or both. Status values outside the
// enumeration are rejected; no transition state machine is imposed.
// After the row is written, a change event is published to the
// realtime feed.
func (s *Service) DispatchUpdate(ctx context.Context, requestID string, input *models.DispatchUpdateRequest) (*models.Request, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateDispatchInput(ctx, input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Status != nil {
		status, _ := ParseStatus(*input.Status)
		req.Status = status
	}
	if input.AmbulanceID != nil {
		if *input.AmbulanceID == "" {
			req.AmbulanceID = nil
		} else {
			id := *input.AmbulanceID
			req.AmbulanceID = &id
		}
	}
	req.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}

	result := toAPIRequest(req)

	if s.publisher != nil {
		if err := s.publisher.PublishRequestUpdated(ctx, &result); err != nil {
			s.logger.Warn().Err(err).
				Str("request_id", req.ID).
				Msg("failed to publish request update")
		}
	}

	s.attachAmbulance(ctx, &result)
	return &result, nil
}

// attachAmbulance embeds the assigned ambulance's directory record.
func (s *Service) attachAmbulance(ctx context.Context, result *models.Request) {
	if result.AmbulanceID == nil || s.ambulances == nil {
		return
	}

	amb, err := s.ambulances.Get(ctx, *result.AmbulanceID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("ambulance_id", *result.AmbulanceID).
			Msg("assigned ambulance not found in directory")
		return
	}

	result.Ambulance = &models.Ambulance{
		ID:            amb.ID,
		VehicleNumber: amb.VehicleNumber,
		DriverName:    amb.DriverName,
		DriverPhone:   amb.DriverPhone,
		CreatedAt:     models.Timestamp(amb.CreatedAt),
		UpdatedAt:     models.Timestamp(amb.UpdatedAt),
	}
}

// validateCreateInput validates a submission. A missing pickup location
// is rejected here, before any repository call.
func (s *Service) validateCreateInput(input *models.RequestCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.PatientName == "" {
		errs = append(errs, models.FieldError{Field: "patientName", Message: "is required"})
	} else if len(input.PatientName) > MaxPatientNameLength {
		errs = append(errs, models.FieldError{Field: "patientName", Message: "must be at most 120 characters"})
	}

	if input.PatientPhone == "" {
		errs = append(errs, models.FieldError{Field: "patientPhone", Message: "is required"})
	} else if len(input.PatientPhone) > MaxPatientPhoneLength {
		errs = append(errs, models.FieldError{Field: "patientPhone", Message: "must be at most 20 characters"})
	}

	if _, ok := ParseEmergencyType(input.EmergencyType); !ok {
		errs = append(errs, models.FieldError{Field: "emergencyType", Message: "must be one of: cardiac, accident, breathing, trauma, stroke, other"})
	}

	if input.Pickup == nil {
		errs = append(errs, models.FieldError{Field: "pickup", Message: "is required"})
	} else {
		if input.Pickup.Lat < -90 || input.Pickup.Lat > 90 {
			errs = append(errs, models.FieldError{Field: "pickup.lat", Message: "must be between -90 and 90"})
		}
		if input.Pickup.Lon < -180 || input.Pickup.Lon > 180 {
			errs = append(errs, models.FieldError{Field: "pickup.lon", Message: "must be between -180 and 180"})
		}
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateDispatchInput validates an operator update.
func (s *Service) validateDispatchInput(ctx context.Context, input *models.DispatchUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Status == nil && input.AmbulanceID == nil {
		return []models.FieldError{{Field: "status", Message: "at least one of status or ambulanceId is required"}}
	}

	if input.Status != nil {
		if _, ok := ParseStatus(*input.Status); !ok {
			errs = append(errs, models.FieldError{Field: "status", Message: "must be one of: pending, assigned, en_route, arrived, completed, cancelled"})
		}
	}

	if input.AmbulanceID != nil && *input.AmbulanceID != "" {
		if _, err := s.ambulances.Get(ctx, *input.AmbulanceID); err != nil {
			if errors.Is(err, ambulance.ErrAmbulanceNotFound) {
				errs = append(errs, models.FieldError{Field: "ambulanceId", Message: "unknown ambulance"})
			} else {
				errs = append(errs, models.FieldError{Field: "ambulanceId", Message: "could not be verified"})
			}
		}
	}

	return errs
}

// toAPIRequest converts a domain Request to an API Request, including
// the status presentation so clients render without a local table.
func toAPIRequest(r *Request) models.Request {
	color, text := r.Status.Presentation()

	return models.Request{
		ID:            r.ID,
		PatientName:   r.PatientName,
		PatientPhone:  r.PatientPhone,
		EmergencyType: string(r.EmergencyType),
		Pickup:        models.Point{Lat: r.PickupLat, Lon: r.PickupLon},
		PickupAddress: r.PickupAddress,
		Notes:         r.Notes,
		Status:        string(r.Status),
		StatusColor:   color,
		StatusText:    text,
		AmbulanceID:   r.AmbulanceID,
		CreatedAt:     models.Timestamp(r.CreatedAt),
		UpdatedAt:     models.Timestamp(r.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
