package ambulance

import "context"

// Repository defines the interface for ambulance data persistence.
type Repository interface {
	// Get retrieves an ambulance by ID.
	// Returns ErrAmbulanceNotFound if no ambulance exists with the ID.
	Get(ctx context.Context, id string) (*Ambulance, error)

	// List retrieves all ambulances ordered by vehicle number.
	List(ctx context.Context) ([]*Ambulance, error)

	// Create creates a new ambulance.
	Create(ctx context.Context, amb *Ambulance) error

	// Update updates an existing ambulance.
	Update(ctx context.Context, amb *Ambulance) error

	// Delete deletes an ambulance by ID.
	Delete(ctx context.Context, id string) error
}
