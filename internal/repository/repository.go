package repository

import (
	"context"
)

// StateRepository is a string key-value store for per-user client state
// such as the cart and the selected customer.
type StateRepository interface {
	// Get returns the value stored under key. The boolean is false when the
	// key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
