package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pscheid92/pomodoro/internal/adapter/postgres"
	"github.com/pscheid92/pomodoro/internal/domain"
	"github.com/spf13/cobra"
)

// orphanStore is the part of postgres.SessionRepo the orphans command needs.
type orphanStore interface {
	ListOrphans(ctx context.Context) ([]domain.Session, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

func newOrphansCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "List sessions whose task was deleted",
		Long: `List sessions that reference a task which no longer exists.
Deleting a task keeps its sessions; with --delete they are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return runOrphans(cmd.Context(), cmd.OutOrStdout(), postgres.NewSessionRepo(pool), apply)
		},
	}

	cmd.Flags().BoolVar(&apply, "delete", false, "Delete the orphaned sessions instead of only listing them")
	return cmd
}

func runOrphans(ctx context.Context, out io.Writer, store orphanStore, apply bool) error {
	orphans, err := store.ListOrphans(ctx)
	if err != nil {
		return err
	}

	if len(orphans) == 0 {
		fmt.Fprintln(out, "No orphaned sessions.")
		return nil
	}

	for _, s := range orphans {
		fmt.Fprintf(out, "%s\ttask=%s\tstart=%s\tduration=%g\n",
			s.ID, s.TaskID, s.StartTime.UTC().Format(time.RFC3339), s.Duration)
	}

	if !apply {
		fmt.Fprintf(out, "%d orphaned sessions (dry run, pass --delete to remove)\n", len(orphans))
		return nil
	}

	deleted, err := store.DeleteOrphans(ctx)
	if err != nil {
		return err
	}
	slog.Info("Deleted orphaned sessions", "count", deleted)
	fmt.Fprintf(out, "Deleted %d orphaned sessions\n", deleted)
	return nil
}
