package user

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

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a profile by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT user_id, full_name, phone_number, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.PhoneNumber,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &profile, nil
}

// Upsert creates or replaces a user's profile.
func (r *PostgresRepository) Upsert(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, phone_number, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone_number = EXCLUDED.phone_number,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.PhoneNumber,
		profile.UpdatedAt,
	)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
