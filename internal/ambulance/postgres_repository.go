package ambulance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL ambulance repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an ambulance by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Ambulance, error) {
	query := `
		SELECT id, vehicle_number, driver_name, driver_phone, created_at, updated_at
		FROM ambulances
		WHERE id = $1
	`

	var amb Ambulance
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&amb.ID,
		&amb.VehicleNumber,
		&amb.DriverName,
		&amb.DriverPhone,
		&amb.CreatedAt,
		&amb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAmbulanceNotFound
		}
		return nil, err
	}

	return &amb, nil
}

// List retrieves all ambulances ordered by vehicle number.
func (r *PostgresRepository) List(ctx context.Context) ([]*Ambulance, error) {
	query := `
		SELECT id, vehicle_number, driver_name, driver_phone, created_at, updated_at
		FROM ambulances
		ORDER BY vehicle_number
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ambulances []*Ambulance
	for rows.Next() {
		var amb Ambulance
		err := rows.Scan(
			&amb.ID,
			&amb.VehicleNumber,
			&amb.DriverName,
			&amb.DriverPhone,
			&amb.CreatedAt,
			&amb.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		ambulances = append(ambulances, &amb)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ambulances, nil
}

// Create creates a new ambulance.
func (r *PostgresRepository) Create(ctx context.Context, amb *Ambulance) error {
	query := `
		INSERT INTO ambulances (id, vehicle_number, driver_name, driver_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		amb.ID,
		amb.VehicleNumber,
		amb.DriverName,
		amb.DriverPhone,
		amb.CreatedAt,
		amb.UpdatedAt,
	)
	return err
}

// Update updates an existing ambulance.
func (r *PostgresRepository) Update(ctx context.Context, amb *Ambulance) error {
	query := `
		UPDATE ambulances SET
			vehicle_number = $2,
			driver_name = $3,
			driver_phone = $4,
			updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		amb.ID,
		amb.VehicleNumber,
		amb.DriverName,
		amb.DriverPhone,
		amb.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrAmbulanceNotFound
	}

	return nil
}

// Delete deletes an ambulance by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM ambulances WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
