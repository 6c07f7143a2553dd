package request

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `
	id, user_id, patient_name, patient_phone, emergency_type,
	pickup_latitude, pickup_longitude, pickup_address, notes,
	status, ambulance_id, created_at, updated_at
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL request repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a request by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM ambulance_requests WHERE id = $1`
	return r.scanRequest(ctx, query, id)
}

// GetByUserAndID retrieves a request by user ID and request ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, requestID string) (*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM ambulance_requests WHERE id = $1 AND user_id = $2`
	return r.scanRequest(ctx, query, requestID, userID)
}

// scanRequest scans a request from a single-row query.
func (r *PostgresRepository) scanRequest(ctx context.Context, query string, args ...interface{}) (*Request, error) {
	var req Request

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&req.ID,
		&req.UserID,
		&req.PatientName,
		&req.PatientPhone,
		&req.EmergencyType,
		&req.PickupLat,
		&req.PickupLon,
		&req.PickupAddress,
		&req.Notes,
		&req.Status,
		&req.AmbulanceID,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	return &req, nil
}

// ListByUser retrieves all requests for a user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM ambulance_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListActive retrieves all requests not yet completed or cancelled, oldest first.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM ambulance_requests
		WHERE status NOT IN ('completed', 'cancelled')
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]*Request, error) {
	var requests []*Request
	for rows.Next() {
		var req Request
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.PatientName,
			&req.PatientPhone,
			&req.EmergencyType,
			&req.PickupLat,
			&req.PickupLon,
			&req.PickupAddress,
			&req.Notes,
			&req.Status,
			&req.AmbulanceID,
			&req.CreatedAt,
			&req.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// Create creates a new request.
func (r *PostgresRepository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO ambulance_requests (
			id, user_id, patient_name, patient_phone, emergency_type,
			pickup_latitude, pickup_longitude, pickup_address, notes,
			status, ambulance_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.UserID,
		req.PatientName,
		req.PatientPhone,
		req.EmergencyType,
		req.PickupLat,
		req.PickupLon,
		req.PickupAddress,
		req.Notes,
		req.Status,
		req.AmbulanceID,
		req.CreatedAt,
		req.UpdatedAt,
	)
	return err
}

// Update updates an existing request.
func (r *PostgresRepository) Update(ctx context.Context, req *Request) error {
	query := `
		UPDATE ambulance_requests SET
			status = $2,
			ambulance_id = $3,
			updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		req.ID,
		req.Status,
		req.AmbulanceID,
		req.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
