package catalog

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the subset of the S3 client used by the loader.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for a gzipped snapshot stored in S3.
type s3Loader struct {
	client objectGetter
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Loader creates a loader for the snapshot under prefix in bucket.
func NewS3Loader(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	loader := newS3Loader(s3.NewFromConfig(cfg), bucket, prefix+SnapshotName, logger)
	loader.logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", loader.key).
		Msg("S3 catalogue loader initialised")

	return loader, nil
}

func newS3Loader(client objectGetter, bucket, key string, logger zerolog.Logger) *s3Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger.With().Str("component", "s3-catalog-loader").Logger(),
	}
}

func (l *s3Loader) Load(ctx context.Context) ([]model.Product, error) {
	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", l.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, l.key, err)
	}
	defer result.Body.Close()

	products, err := ReadSnapshot(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 snapshot %s: %w", l.key, err)
	}

	visible := Visible(products)
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", l.key).
		Int("products_loaded", len(visible)).
		Msg("catalogue loaded from S3")

	return visible, nil
}
