package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStateRepositoryContract exercises behaviour every StateRepository must share.
func runStateRepositoryContract(t *testing.T, repo StateRepository) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, ok, err := repo.Get(ctx, "u1:cart")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "u1:cart", `[{"product_id":5}]`))

		value, ok, err := repo.Get(ctx, "u1:cart")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"product_id":5}]`, value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "u1:cart", `[]`))

		value, ok, err := repo.Get(ctx, "u1:cart")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[]`, value)
	})

	t.Run("keys are isolated", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "u2:cart", `[{"product_id":9}]`))

		value, _, err := repo.Get(ctx, "u1:cart")
		require.NoError(t, err)
		assert.Equal(t, `[]`, value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "u1:cart"))
		require.NoError(t, repo.Delete(ctx, "u1:cart"))

		_, ok, err := repo.Get(ctx, "u1:cart")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPostgresStateRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPostgresStateRepository(pool, zerolog.Nop())
	runStateRepositoryContract(t, repo)
}

func TestPostgresStateRepository_ClosedPool(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	cleanup()

	repo := NewPostgresStateRepository(pool, zerolog.Nop())
	ctx := context.Background()

	_, _, err := repo.Get(ctx, "u1:cart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query state")

	err = repo.Set(ctx, "u1:cart", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write state")
}

func TestMemoryStateRepository(t *testing.T) {
	runStateRepositoryContract(t, NewMemoryStateRepository())
}

func TestMemoryStateRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryStateRepository()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Set(ctx, "k", "v"), context.Canceled)
	assert.ErrorIs(t, repo.Delete(ctx, "k"), context.Canceled)
}
