package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const stateSchema = `
	CREATE TABLE IF NOT EXISTS client_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// EnsureSchema creates the state store table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, stateSchema); err != nil {
		return fmt.Errorf("failed to create state schema: %w", err)
	}
	return nil
}
