package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linkshelf/internal/pkg/logger"
	"linkshelf/internal/platform/config"
	"linkshelf/internal/platform/database"
)

var (
	configPath    string
	migrationsDir string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply SQL migrations to the linkshelf database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "migrations directory (default from config)")

	cmd.AddCommand(newUpCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, dir string) error {
				db, err := database.Open(ctx, cfg.Database)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer db.Close()

				ran, err := database.ApplyMigrations(ctx, db, dir)
				if err != nil {
					return err
				}
				if len(ran) == 0 {
					fmt.Println("Database is up to date.")
					return nil
				}
				for _, name := range ran {
					fmt.Printf("applied %s\n", name)
				}
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations that have not been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, dir string) error {
				db, err := database.Open(ctx, cfg.Database)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer db.Close()

				pending, err := database.PendingMigrations(ctx, db, dir)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Println("No pending migrations.")
					return nil
				}
				for _, name := range pending {
					fmt.Printf("pending %s\n", name)
				}
				return nil
			})
		},
	}
}

// withDatabase loads configuration without the serving checks, since
// migrations do not need a signing secret.
func withDatabase(ctx context.Context, run func(context.Context, *config.Config, string) error) error {
	cfg, err := config.Read(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Logging)

	dir := migrationsDir
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}
	return run(ctx, cfg, dir)
}
