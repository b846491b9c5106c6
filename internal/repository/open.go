package repository

import (
	"context"
	"fmt"

	"meal-planner/internal/config"
	"meal-planner/internal/database"

	"github.com/rs/zerolog"
)

// Open builds the store described by cfg. The local store is always opened.
// When the remote store is enabled but unreachable at start, the process runs
// on the local store alone and logs a warning.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Store, error) {
	db, err := OpenLocalDB(ctx, cfg.Local.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	local := NewLocalStore(db, logger)

	logger.Info().Str("path", cfg.Local.Path).Msg("local store opened")

	if !cfg.Database.Enabled {
		logger.Info().Msg("remote store disabled, using local store only")
		return NewFallbackStore(nil, local, logger), nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("remote store unavailable, using local store only")
		return NewFallbackStore(nil, local, logger), nil
	}

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		pool.Close()
		logger.Warn().Err(err).Msg("remote schema bootstrap failed, using local store only")
		return NewFallbackStore(nil, local, logger), nil
	}

	return NewFallbackStore(NewRemoteStore(pool, logger), local, logger), nil
}
