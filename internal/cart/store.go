package cart

import (
	"context"
	"encoding/json"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Storage keys, namespaced per owner.
const (
	itemsKey    = "cart"
	customerKey = "cartCustomer"
)

// Store persists carts in a StateRepository. Items and customer are stored
// under separate keys. Persistence failures never reach the caller: Load
// falls back to an empty cart and Save only logs.
type Store struct {
	repo   repository.StateRepository
	logger zerolog.Logger
}

// NewStore creates a cart store on top of repo.
func NewStore(repo repository.StateRepository, logger zerolog.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// ItemsKey is the storage key of owner's cart items.
func ItemsKey(owner string) string {
	return owner + ":" + itemsKey
}

// CustomerKey is the storage key of owner's selected customer.
func CustomerKey(owner string) string {
	return owner + ":" + customerKey
}

// Load returns owner's persisted cart. Missing or unreadable data yields an
// empty cart; the two keys degrade independently.
func (s *Store) Load(ctx context.Context, owner string) model.Cart {
	c := Clear()

	if raw, ok := s.read(ctx, ItemsKey(owner)); ok {
		var items []model.LineItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.logger.Warn().Err(err).Str("owner", owner).Msg("discarding corrupt cart items")
		} else if items != nil {
			c.Items = items
		}
	}

	if raw, ok := s.read(ctx, CustomerKey(owner)); ok {
		var customer *model.Customer
		if err := json.Unmarshal([]byte(raw), &customer); err != nil {
			s.logger.Warn().Err(err).Str("owner", owner).Msg("discarding corrupt cart customer")
		} else {
			c.Customer = customer
		}
	}

	return c
}

// Save writes owner's cart through to the repository.
func (s *Store) Save(ctx context.Context, owner string, c model.Cart) {
	items := c.Items
	if items == nil {
		items = []model.LineItem{}
	}
	s.write(ctx, owner, ItemsKey(owner), items)

	if c.Customer == nil {
		if err := s.repo.Delete(ctx, CustomerKey(owner)); err != nil {
			s.logger.Error().Err(err).Str("owner", owner).Msg("failed to clear persisted customer")
		}
		return
	}
	s.write(ctx, owner, CustomerKey(owner), c.Customer)
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to read persisted cart state")
		return "", false
	}
	return raw, ok
}

func (s *Store) write(ctx context.Context, owner, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Str("key", key).Msg("failed to encode cart state")
		return
	}
	if err := s.repo.Set(ctx, key, string(data)); err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Str("key", key).Msg("failed to persist cart state")
	}
}
