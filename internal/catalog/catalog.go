// Package catalog loads the product catalogue from the backend or from
// gzipped JSON snapshots kept in S3 or on local disk.
package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storefront/internal/model"
)

// SnapshotName is the object name of a catalogue snapshot.
const SnapshotName = "catalog.json.gz"

// Loader defines the interface for loading the product catalogue.
// Implementations never return products with status Mask.
type Loader interface {
	Load(ctx context.Context) ([]model.Product, error)
}

// Visible drops masked products, keeping order.
func Visible(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !p.Masked() {
			out = append(out, p)
		}
	}
	return out
}

// ReadSnapshot decodes a gzipped JSON array of products.
func ReadSnapshot(r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var products []model.Product
	if err := json.NewDecoder(gzipReader).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return products, nil
}

// WriteSnapshot encodes products as a gzipped JSON array.
func WriteSnapshot(w io.Writer, products []model.Product) error {
	gzipWriter := gzip.NewWriter(w)
	if products == nil {
		products = []model.Product{}
	}
	if err := json.NewEncoder(gzipWriter).Encode(products); err != nil {
		gzipWriter.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return nil
}
