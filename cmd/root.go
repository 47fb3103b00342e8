package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"armory/internal/core/logger"
	"armory/internal/database"
	"armory/internal/database/migration"
	"armory/internal/database/seed"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		migrationDir, _ := cmd.Flags().GetString("dir")

		log := logger.NewLogger()
		defer log.Sync()

		if err := migration.Migrate(dbURL, fmt.Sprintf("file://%s", migrationDir), log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample dataset. Wipes existing data, development only.",
	RunE: func(_ *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")

		log := logger.NewLogger()
		defer log.Sync()

		db, err := database.NewPostgresConnection(dbURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := seed.Run(db, log); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}

		log.Info("Sample data loaded")
		return nil
	},
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:   "armory",
		Short: "Military asset management service",
	}
	MigrateCmd.Flags().String("dir", "migrations", "Directory containing the migration files")
	rootCmd.AddCommand(MigrateCmd)
	rootCmd.AddCommand(SeedCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
