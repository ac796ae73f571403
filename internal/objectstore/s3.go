package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client used by the opener.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Opener implements Opener for objects in a single S3 bucket.
type s3Opener struct {
	client s3API
	bucket string
	logger zerolog.Logger
}

// NewS3Opener creates an S3-backed opener using the default AWS credential chain.
func NewS3Opener(ctx context.Context, bucket, region string, logger zerolog.Logger) (Opener, error) {
	logger = logger.With().Str("component", "s3-opener").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 opener initialised")

	return newS3Opener(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Opener(client s3API, bucket string, logger zerolog.Logger) *s3Opener {
	return &s3Opener{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Open fetches the object body for key.
func (o *s3Opener) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	o.logger.Debug().
		Str("bucket", o.bucket).
		Str("key", key).
		Msg("getting object from S3")

	result, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, o.bucket, key)
		}
		o.logger.Error().
			Err(err).
			Str("bucket", o.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", o.bucket, key, err)
	}

	return result.Body, nil
}

// fallbackOpener tries S3 first and falls back to the local file system.
type fallbackOpener struct {
	s3       Opener
	file     Opener
	s3Prefix string
	logger   zerolog.Logger
}

// NewFallbackOpener creates an opener that tries s3 with s3Prefix prepended
// to the key, then file with the key as-is. A nil s3 opener uses file only.
func NewFallbackOpener(s3 Opener, file Opener, s3Prefix string, logger zerolog.Logger) Opener {
	return &fallbackOpener{
		s3:       s3,
		file:     file,
		s3Prefix: s3Prefix,
		logger:   logger.With().Str("component", "fallback-opener").Logger(),
	}
}

// Open attempts S3 first, then the local file system.
func (o *fallbackOpener) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if o.s3 != nil {
		s3Key := o.s3Prefix + key

		body, err := o.s3.Open(ctx, s3Key)
		if err == nil {
			return body, nil
		}

		o.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to open from S3, falling back to local file system")
	}

	return o.file.Open(ctx, key)
}
