package archive

import (
	"context"

	"meal-planner/internal/config"

	"github.com/rs/zerolog"
)

// FromConfig builds the backup archive: a local directory, fronted by S3
// when it is enabled. An S3 client that fails to initialise leaves the local
// directory as the only target.
func FromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger) Archive {
	fileArchive := NewFileArchive(cfg.Backup.Dir, logger)

	if !cfg.S3.Enabled {
		logger.Info().Str("dir", cfg.Backup.Dir).Msg("using local file system for backups (S3 disabled)")
		return fileArchive
	}

	s3Archive, err := NewS3Archive(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 archive, falling back to local file system only")
		return fileArchive
	}

	return NewFallbackArchive(s3Archive, fileArchive, cfg.S3.Prefix, true, logger)
}
