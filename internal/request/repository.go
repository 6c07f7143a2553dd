package request

import "context"

// Repository defines the interface for request data persistence.
type Repository interface {
	// Get retrieves a request by ID.
	// Returns ErrRequestNotFound if no request exists with the ID.
	Get(ctx context.Context, id string) (*Request, error)

	// GetByUserAndID retrieves a request by user ID and request ID.
	// Returns ErrRequestNotFound if the request doesn't exist or doesn't
	// belong to the user.
	GetByUserAndID(ctx context.Context, userID, requestID string) (*Request, error)

	// ListByUser retrieves all requests for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Request, error)

	// ListActive retrieves all requests not yet completed or cancelled,
	// oldest first, for the dispatch board.
	ListActive(ctx context.Context) ([]*Request, error)

	// Create creates a new request. A single attempt; callers do not
	// retry on failure.
	Create(ctx context.Context, req *Request) error

	// Update updates an existing request.
	Update(ctx context.Context, req *Request) error
}
