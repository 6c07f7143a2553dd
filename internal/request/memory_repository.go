package request

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	requests map[string]*Request
}

// NewInMemoryRepository creates a new in-memory request repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		requests: make(map[string]*Request),
	}
}

// Get retrieves a request by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}

	// Return a copy
	cpy := *req
	return &cpy, nil
}

// GetByUserAndID retrieves a request by user ID and request ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, requestID string) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[requestID]
	if !ok {
		return nil, ErrRequestNotFound
	}

	if req.UserID != userID {
		return nil, ErrRequestNotFound
	}

	// Return a copy
	cpy := *req
	return &cpy, nil
}

// ListByUser retrieves all requests for a user, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []*Request
	for _, req := range r.requests {
		if req.UserID != userID {
			continue
		}
		cpy := *req
		requests = append(requests, &cpy)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests, nil
}

// ListActive retrieves all requests not yet completed or cancelled, oldest first.
func (r *InMemoryRepository) ListActive(_ context.Context) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []*Request
	for _, req := range r.requests {
		if req.Status.Terminal() {
			continue
		}
		cpy := *req
		requests = append(requests, &cpy)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})

	return requests, nil
}

// Create creates a new request.
func (r *InMemoryRepository) Create(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *req
	r.requests[req.ID] = &cpy
	return nil
}

// Update updates an existing request.
func (r *InMemoryRepository) Update(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[req.ID]; !ok {
		return ErrRequestNotFound
	}

	cpy := *req
	r.requests[req.ID] = &cpy
	return nil
}

// Len reports the number of stored requests.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.requests)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
