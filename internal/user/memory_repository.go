package user

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*Profile),
	}
}

// Get retrieves a profile by user ID.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	cpy := *p
	return &cpy, nil
}

// Upsert creates or replaces a user's profile.
func (r *InMemoryRepository) Upsert(_ context.Context, profile *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *profile
	r.profiles[profile.UserID] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
