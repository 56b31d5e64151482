package catalog

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// fallbackLoader tries each loader in order; the first success wins.
type fallbackLoader struct {
	loaders []Loader
	logger  zerolog.Logger
}

// NewFallbackLoader chains loaders, skipping nil entries.
func NewFallbackLoader(logger zerolog.Logger, loaders ...Loader) Loader {
	chain := make([]Loader, 0, len(loaders))
	for _, l := range loaders {
		if l != nil {
			chain = append(chain, l)
		}
	}
	return &fallbackLoader{
		loaders: chain,
		logger:  logger.With().Str("component", "fallback-catalog-loader").Logger(),
	}
}

// Load returns the first successful result. An authentication failure from
// the primary loader is returned as is so the caller can re-authenticate.
func (l *fallbackLoader) Load(ctx context.Context) ([]model.Product, error) {
	if len(l.loaders) == 0 {
		return nil, fmt.Errorf("no catalogue loaders configured")
	}

	var errs []error
	for i, loader := range l.loaders {
		products, err := loader.Load(ctx)
		if err == nil {
			if i > 0 {
				l.logger.Warn().Int("source", i).Msg("serving catalogue from snapshot")
			}
			return products, nil
		}
		if errors.Is(err, model.ErrUnauthenticated) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		l.logger.Warn().Err(err).Int("source", i).Msg("catalogue source failed, trying next")
		errs = append(errs, err)
	}

	return nil, fmt.Errorf("all catalogue sources failed: %w", errors.Join(errs...))
}
