package main

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/archive"
	"meal-planner/internal/config"
	"meal-planner/internal/repository"
	"meal-planner/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs. It is built before a subcommand runs;
// the caller of Execute closes it.
type app struct {
	logger   zerolog.Logger
	store    repository.Store
	shopping service.ShoppingService
	data     service.DataService
	now      func() time.Time
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to close store")
	}
}

func newApp() *app {
	return &app{now: time.Now}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mealctl",
		Short: "Manage meal-planner recipes, meal plans and backups",
		Long: `mealctl works directly against the configured store.

It reads the same environment variables as the API server (LOCAL_STORE_PATH,
REMOTE_ENABLED, DB_*, S3_*, BACKUP_DIR) and writes logs to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	root.AddCommand(
		newExportCmd(a),
		newImportCmd(a),
		newShoppingListCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newPingCmd(a),
	)

	return root
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.logger = config.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr())

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	a.store = store
	a.shopping = service.NewShoppingService(store, a.logger)
	a.data = service.NewDataService(store, archive.FromConfig(cmd.Context(), cfg, a.logger), a.logger)
	return nil
}
