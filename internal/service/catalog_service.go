package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService with a TTL cache over a loader.
type catalogService struct {
	loader catalog.Loader
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	products []model.Product
	loadedAt time.Time
}

// NewCatalogService creates a catalogue service. A zero ttl disables caching.
func NewCatalogService(loader catalog.Loader, ttl time.Duration, now func() time.Time, logger zerolog.Logger) CatalogService {
	return &catalogService{
		loader: loader,
		ttl:    ttl,
		now:    now,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// Products returns the cached catalogue, reloading it once the TTL expires.
func (s *catalogService) Products(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.products != nil && s.ttl > 0 && s.now().Sub(s.loadedAt) < s.ttl {
		return s.products, nil
	}

	products, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalogue")
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	s.products = products
	s.loadedAt = s.now()
	s.logger.Debug().Int("count", len(products)).Msg("catalogue refreshed")

	return products, nil
}

// List filters the catalogue for display.
func (s *catalogService) List(ctx context.Context, filter model.CatalogFilter) (*model.CatalogResponse, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	brand := filter.Brand
	if brand == "" {
		brand = pricing.AllFilter
	}
	category := filter.Category
	if category == "" {
		category = pricing.AllFilter
	}

	filtered := pricing.FilterCatalog(products, filter.Search, brand, category)

	s.logger.Debug().
		Str("search", filter.Search).
		Str("brand", brand).
		Str("category", category).
		Int("matched", len(filtered)).
		Msg("catalogue filtered")

	return &model.CatalogResponse{
		Products:   filtered,
		Brands:     pricing.Brands(products),
		Categories: pricing.Categories(products),
		Count:      len(filtered),
	}, nil
}

// Lookup returns a single product or model.ErrProductNotFound.
func (s *catalogService) Lookup(ctx context.Context, id int64) (*model.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}

	s.logger.Debug().Int64("product_id", id).Msg("product not found")
	return nil, model.ErrProductNotFound
}
