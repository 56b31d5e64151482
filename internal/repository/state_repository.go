package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStateRepository implements StateRepository using PostgreSQL.
type postgresStateRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStateRepository creates a new PostgreSQL-backed state repository.
func NewPostgresStateRepository(pool *pgxpool.Pool, logger zerolog.Logger) StateRepository {
	return &postgresStateRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "state").Logger(),
	}
}

// Get returns the value stored under key.
func (r *postgresStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM client_state
		WHERE key = $1
	`

	var value string
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("key", key).Msg("state key not found")
			return "", false, nil
		}
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query state")
		return "", false, fmt.Errorf("failed to query state: %w", err)
	}

	return value, true, nil
}

// Set upserts value under key.
func (r *postgresStateRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO client_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to write state")
		return fmt.Errorf("failed to write state: %w", err)
	}

	r.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("state written")

	return nil
}

// Delete removes key.
func (r *postgresStateRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM client_state WHERE key = $1`

	if _, err := r.pool.Exec(ctx, query, key); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to delete state")
		return fmt.Errorf("failed to delete state: %w", err)
	}

	return nil
}
