package catalog

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for a gzipped snapshot on local disk.
type fileLoader struct {
	path   string
	logger zerolog.Logger
}

// NewFileLoader creates a loader reading the snapshot at path.
func NewFileLoader(path string, logger zerolog.Logger) Loader {
	return &fileLoader{
		path:   path,
		logger: logger.With().Str("component", "file-catalog-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue snapshot %s: %w", l.path, err)
	}
	defer file.Close()

	products, err := ReadSnapshot(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", l.path).Msg("failed to read catalogue snapshot")
		return nil, fmt.Errorf("failed to read catalogue snapshot %s: %w", l.path, err)
	}

	visible := Visible(products)
	l.logger.Info().
		Str("file", l.path).
		Int("products_loaded", len(visible)).
		Msg("catalogue loaded from snapshot")

	return visible, nil
}
