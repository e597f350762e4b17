package main

import (
	"log/slog"

	"github.com/pscheid92/pomodoro/internal/adapter/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long:  `Apply all pending schema migrations. Safe to run while servers are starting; the migration holds an advisory lock.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.RunMigrationsWithLock(cmd.Context(), pool); err != nil {
				return err
			}
			slog.Info("Migrations applied")
			return nil
		},
	}
}
