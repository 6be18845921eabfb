package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/config"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations for the metadata database.

This command applies pending database migrations to the configured metadata
database (SQLite or PostgreSQL). It is required after upgrading Loreleaf when
schema changes have been made.

Examples:
  # Run migrations with default config
  loreleaf migrate

  # Run migrations with custom config
  loreleaf migrate --config /etc/loreleaf/config.yaml`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	logger.Info("Running database migrations", "type", cfg.Database.Type)

	// Open the metadata store (this triggers auto-migration)
	ctx := context.Background()
	metaStore, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer func() { _ = metaStore.Close() }()

	// Verify the migration worked by checking if we can query users
	_, err = metaStore.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("migration verification failed: %w", err)
	}

	fmt.Printf("Migrations completed successfully (database type: %s)\n", cfg.Database.Type)
	return nil
}
