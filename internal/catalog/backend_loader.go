package catalog

import (
	"context"
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ProductFetcher retrieves the live catalogue from the backend.
type ProductFetcher interface {
	FetchProducts(ctx context.Context, token string) ([]model.Product, error)
}

// backendLoader implements Loader using the caller's bearer token.
type backendLoader struct {
	fetcher ProductFetcher
	logger  zerolog.Logger
}

// NewBackendLoader creates a loader that fetches products from the backend.
func NewBackendLoader(fetcher ProductFetcher, logger zerolog.Logger) Loader {
	return &backendLoader{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "backend-catalog-loader").Logger(),
	}
}

// Load fetches the catalogue with the token stored in ctx.
func (l *backendLoader) Load(ctx context.Context) ([]model.Product, error) {
	token, ok := auth.TokenFrom(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no token for catalogue fetch", model.ErrUnauthenticated)
	}

	products, err := l.fetcher.FetchProducts(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	visible := Visible(products)
	l.logger.Info().
		Int("products_loaded", len(visible)).
		Int("masked", len(products)-len(visible)).
		Msg("catalogue loaded from backend")

	return visible, nil
}
