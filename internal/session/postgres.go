package session

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store with a single-row parameterized insert,
// as opposed to the bulk sink's COPY path.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateSession(ctx context.Context, carID int64, trackID string, tuningConfigID *int64) (int64, error) {
	var id int64
	err := s.pool.QueryRow(
		ctx,
		`INSERT INTO sessions (car_id, track_id, tuning_config_id) VALUES ($1, $2, $3) RETURNING id`,
		carID, trackID, tuningConfigID,
	).Scan(&id)
	return id, err
}
