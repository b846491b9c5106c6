package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3API is the subset of the S3 client used by the archive.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Archive implements Archive on an S3 bucket. Names are used as object
// keys without modification; prefixes are added by the fallback archive.
type s3Archive struct {
	client S3API
	bucket string
	logger zerolog.Logger
}

// NewS3Archive creates an S3-backed archive using the default AWS credential
// chain for region.
func NewS3Archive(ctx context.Context, bucket, region string, logger zerolog.Logger) (Archive, error) {
	logger = logger.With().Str("component", "s3-archive").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 archive initialised")

	return NewS3ArchiveWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3ArchiveWithClient creates an S3-backed archive on an existing client.
func NewS3ArchiveWithClient(client S3API, bucket string, logger zerolog.Logger) Archive {
	return &s3Archive{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Save uploads data under key.
func (a *s3Archive) Save(ctx context.Context, key string, data []byte) error {
	payload, err := encode(key, data)
	if err != nil {
		return err
	}

	contentType := "application/json"
	if compressed(key) {
		contentType = "application/gzip"
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", a.bucket, key, err)
	}

	a.logger.Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Int("bytes", len(payload)).
		Msg("archive saved to S3")

	return nil
}

// Load downloads the object stored under key.
func (a *s3Archive) Load(ctx context.Context, key string) ([]byte, error) {
	a.logger.Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Msg("loading archive from S3")

	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", a.bucket, key, err)
	}
	defer result.Body.Close()

	data, err := decode(key, result.Body)
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("error reading archive from S3")
		return nil, err
	}

	return data, nil
}

// fallbackArchive tries S3 first, then falls back to the local file system.
type fallbackArchive struct {
	s3Archive   Archive
	fileArchive Archive
	s3Prefix    string
	s3Enabled   bool
	logger      zerolog.Logger
}

// NewFallbackArchive creates an archive that tries S3 first and falls back to
// the file archive. If s3Archive is nil, only the file archive is used.
func NewFallbackArchive(s3Archive, fileArchive Archive, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Archive {
	return &fallbackArchive{
		s3Archive:   s3Archive,
		fileArchive: fileArchive,
		s3Prefix:    s3Prefix,
		s3Enabled:   s3Enabled,
		logger:      logger.With().Str("component", "fallback-archive").Logger(),
	}
}

func (a *fallbackArchive) useS3() bool {
	if a.s3Enabled && a.s3Archive != nil {
		return true
	}
	a.logger.Debug().
		Bool("s3_enabled", a.s3Enabled).
		Bool("has_s3_archive", a.s3Archive != nil).
		Msg("S3 disabled or not configured, using local file system")
	return false
}

// Save uploads to S3 under s3Prefix+name, falling back to a local file.
func (a *fallbackArchive) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if a.useS3() {
		s3Key := a.s3Prefix + name
		err := a.s3Archive.Save(ctx, s3Key, data)
		if err == nil {
			return nil
		}

		a.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to save to S3, falling back to local file system")
	}

	return a.fileArchive.Save(ctx, name, data)
}

// Load reads s3Prefix+name from S3, falling back to a local file.
func (a *fallbackArchive) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if a.useS3() {
		s3Key := a.s3Prefix + name

		a.logger.Info().
			Str("s3_key", s3Key).
			Str("local_fallback", name).
			Msg("attempting to load from S3")

		data, err := a.s3Archive.Load(ctx, s3Key)
		if err == nil {
			a.logger.Info().Str("s3_key", s3Key).Msg("successfully loaded from S3")
			return data, nil
		}

		a.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to load from S3, falling back to local file system")
	}

	a.logger.Info().Str("name", name).Msg("loading from local file system")
	return a.fileArchive.Load(ctx, name)
}
