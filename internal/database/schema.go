package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the two tables backing the remote store. Statements are
// idempotent so it is safe to apply on every start.
const Schema = `
	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients JSONB NOT NULL DEFAULT '[]'::jsonb,
		instructions TEXT NOT NULL DEFAULT '',
		cook_time INTEGER NOT NULL DEFAULT 0,
		servings INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_recipes_name ON recipes(name);

	CREATE TABLE IF NOT EXISTS meal_plans (
		id UUID PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		meals JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// EnsureSchema applies Schema to the pool's database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply remote schema")
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Debug().Msg("remote schema is up to date")
	return nil
}
