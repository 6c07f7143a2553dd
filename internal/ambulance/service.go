package ambulance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rapidaid/rapidaid/internal/api/models"
)

// Validation constants.
const (
	MaxVehicleNumberLength = 20
	MaxDriverNameLength    = 120
	MaxDriverPhoneLength   = 20
)

// Service provides ambulance fleet operations.
type Service struct {
	repo Repository
}

// NewService creates a new ambulance service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves an ambulance by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Ambulance, error) {
	amb, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAmbulanceNotFound) {
			return nil, ErrAmbulanceNotFound
		}
		return nil, err
	}

	result := toAPIAmbulance(amb)
	return &result, nil
}

// List retrieves all ambulances.
func (s *Service) List(ctx context.Context) ([]models.Ambulance, error) {
	ambulances, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Ambulance, 0, len(ambulances))
	for _, amb := range ambulances {
		items = append(items, toAPIAmbulance(amb))
	}

	return items, nil
}

// Create registers a new ambulance in the fleet.
func (s *Service) Create(ctx context.Context, input *models.AmbulanceInput) (*models.Ambulance, error) {
	if fieldErrors := validateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	amb := &Ambulance{
		ID:            "amb_" + uuid.New().String()[:22],
		VehicleNumber: input.VehicleNumber,
		DriverName:    input.DriverName,
		DriverPhone:   input.DriverPhone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, amb); err != nil {
		return nil, err
	}

	result := toAPIAmbulance(amb)
	return &result, nil
}

// Update updates an ambulance's details.
func (s *Service) Update(ctx context.Context, id string, input *models.AmbulanceInput) (*models.Ambulance, error) {
	amb, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAmbulanceNotFound) {
			return nil, ErrAmbulanceNotFound
		}
		return nil, err
	}

	if fieldErrors := validateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	amb.VehicleNumber = input.VehicleNumber
	amb.DriverName = input.DriverName
	amb.DriverPhone = input.DriverPhone
	amb.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, amb); err != nil {
		return nil, err
	}

	result := toAPIAmbulance(amb)
	return &result, nil
}

// Delete removes an ambulance from the fleet.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAmbulanceNotFound) {
			return ErrAmbulanceNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}

func validateInput(input *models.AmbulanceInput) []models.FieldError {
	var errs []models.FieldError

	if input.VehicleNumber == "" {
		errs = append(errs, models.FieldError{Field: "vehicleNumber", Message: "is required"})
	} else if len(input.VehicleNumber) > MaxVehicleNumberLength {
		errs = append(errs, models.FieldError{Field: "vehicleNumber", Message: "must be at most 20 characters"})
	}

	if input.DriverName == "" {
		errs = append(errs, models.FieldError{Field: "driverName", Message: "is required"})
	} else if len(input.DriverName) > MaxDriverNameLength {
		errs = append(errs, models.FieldError{Field: "driverName", Message: "must be at most 120 characters"})
	}

	if input.DriverPhone == "" {
		errs = append(errs, models.FieldError{Field: "driverPhone", Message: "is required"})
	} else if len(input.DriverPhone) > MaxDriverPhoneLength {
		errs = append(errs, models.FieldError{Field: "driverPhone", Message: "must be at most 20 characters"})
	}

	return errs
}

// toAPIAmbulance converts a domain Ambulance to an API Ambulance.
func toAPIAmbulance(a *Ambulance) models.Ambulance {
	return models.Ambulance{
		ID:            a.ID,
		VehicleNumber: a.VehicleNumber,
		DriverName:    a.DriverName,
		DriverPhone:   a.DriverPhone,
		CreatedAt:     models.Timestamp(a.CreatedAt),
		UpdatedAt:     models.Timestamp(a.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
