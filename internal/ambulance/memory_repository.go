package ambulance

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu         sync.RWMutex
	ambulances map[string]*Ambulance
}

// NewInMemoryRepository creates a new in-memory ambulance repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		ambulances: make(map[string]*Ambulance),
	}
}

// Get retrieves an ambulance by ID.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Ambulance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	amb, ok := r.ambulances[id]
	if !ok {
		return nil, ErrAmbulanceNotFound
	}

	copied := *amb
	return &copied, nil
}

// List retrieves all ambulances ordered by vehicle number.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Ambulance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ambulances := make([]*Ambulance, 0, len(r.ambulances))
	for _, amb := range r.ambulances {
		copied := *amb
		ambulances = append(ambulances, &copied)
	}

	sort.Slice(ambulances, func(i, j int) bool {
		return ambulances[i].VehicleNumber < ambulances[j].VehicleNumber
	})

	return ambulances, nil
}

// Create creates a new ambulance.
func (r *InMemoryRepository) Create(ctx context.Context, amb *Ambulance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *amb
	r.ambulances[amb.ID] = &copied
	return nil
}

// Update updates an existing ambulance.
func (r *InMemoryRepository) Update(ctx context.Context, amb *Ambulance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ambulances[amb.ID]; !ok {
		return ErrAmbulanceNotFound
	}

	copied := *amb
	r.ambulances[amb.ID] = &copied
	return nil
}

// Delete deletes an ambulance by ID.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ambulances, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
