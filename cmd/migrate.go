package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/blog-server/database"
	"github.com/dtroode/blog-server/internal/config"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the PostgreSQL database named by DATABASE_DSN.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	cmd.Println("Running migrations...")
	if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
