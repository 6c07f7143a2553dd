package user

import (
	"context"
	"errors"
	"time"

	"github.com/rapidaid/rapidaid/internal/api/models"
)

// Validation constants.
const (
	MaxFullNameLength = 120
	MaxPhoneLength    = 20
)

// Service provides profile operations.
type Service struct {
	repo Repository
}

// NewService creates a new profile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile retrieves a user's profile. A user without a stored profile
// gets an empty one; the submission form then starts blank.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return &models.Profile{UserID: userID}, nil
		}
		return nil, err
	}

	return toAPIProfile(profile), nil
}

// UpsertProfile creates or updates a user's profile.
func (s *Service) UpsertProfile(ctx context.Context, userID string, input *models.ProfileInput) (*models.Profile, error) {
	if fieldErrors := validateProfileInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	profile := &Profile{
		UserID:      userID,
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return toAPIProfile(profile), nil
}

// SeedProfile stores initial contact details captured at registration.
// Blank input is ignored; it never overwrites an existing profile.
func (s *Service) SeedProfile(ctx context.Context, userID, fullName, phoneNumber string) error {
	if fullName == "" && phoneNumber == "" {
		return nil
	}

	if _, err := s.repo.Get(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, ErrProfileNotFound) {
		return err
	}

	return s.repo.Upsert(ctx, &Profile{
		UserID:      userID,
		FullName:    fullName,
		PhoneNumber: phoneNumber,
		UpdatedAt:   time.Now(),
	})
}

func validateProfileInput(input *models.ProfileInput) []models.FieldError {
	var errs []models.FieldError

	if len(input.FullName) > MaxFullNameLength {
		errs = append(errs, models.FieldError{Field: "fullName", Message: "must be at most 120 characters"})
	}
	if len(input.PhoneNumber) > MaxPhoneLength {
		errs = append(errs, models.FieldError{Field: "phoneNumber", Message: "must be at most 20 characters"})
	}

	return errs
}

func toAPIProfile(p *Profile) *models.Profile {
	return &models.Profile{
		UserID:      p.UserID,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		UpdatedAt:   models.Timestamp(p.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
