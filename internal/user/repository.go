package user

import "context"

// Repository defines the interface for profile persistence.
type Repository interface {
	// Get retrieves a profile by user ID.
	// Returns ErrProfileNotFound if no profile exists for the user.
	Get(ctx context.Context, userID string) (*Profile, error)

	// Upsert creates or replaces a user's profile.
	Upsert(ctx context.Context, profile *Profile) error
}
