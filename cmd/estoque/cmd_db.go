package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/app"
)

func loadConfig() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// withApp boots the application for one command and closes it afterwards.
func withApp(ctx context.Context, fn func(*app.Application) error) error {
	a, err := app.Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return fn(a)
}

// estoque migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return app.Migrate(cmd.Context(), cmd.OutOrStdout())
	},
}

// estoque migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return app.Rollback(cmd.Context(), cmd.OutOrStdout())
	},
}

// estoque migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		return app.MigrationStatus(cmd.Context(), cmd.OutOrStdout())
	},
}

// estoque seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo products and user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.Application) error {
			return a.Seed(cmd.Context(), cmd.OutOrStdout())
		})
	},
}

var exportDisk string

// estoque db:export
var exportCmd = &cobra.Command{
	Use:   "db:export",
	Short: "Write a JSON snapshot of every product to a storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.Application) error {
			return a.ExportTo(cmd.Context(), exportDisk, cmd.OutOrStdout())
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDisk, "disk", "", "storage disk (local or s3); defaults to STORAGE_DISK")
}
