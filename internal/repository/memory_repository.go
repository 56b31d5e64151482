package repository

import (
	"context"
	"sync"
)

// memoryStateRepository keeps state in process memory. Used for local runs
// without PostgreSQL and in tests.
type memoryStateRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStateRepository creates an empty in-memory state repository.
func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{
		data: make(map[string]string),
	}
}

func (r *memoryStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.data[key]
	return value, ok, nil
}

func (r *memoryStateRepository) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = value
	return nil
}

func (r *memoryStateRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key)
	return nil
}
