// Command pomodoro-admin runs operational tasks against the Postgres store:
// applying migrations and cleaning up sessions whose task was deleted.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/pscheid92/pomodoro/internal/adapter/postgres"
	"github.com/pscheid92/pomodoro/internal/platform/logging"
	"github.com/spf13/cobra"
)

const connectTimeout = 10 * time.Second

var (
	databaseURL string
	logLevel    string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pomodoro-admin",
		Short:         "Operational tasks for the pomodoro store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.InitLogger(logLevel, "text")
		},
	}

	root.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres URL (or set DATABASE_URL)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(newMigrateCmd(), newOrphansCmd(), newVersionCmd())
	return root
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL required (--database-url or DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := postgres.Connect(ctx, databaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", sanitizeURL(databaseURL), err)
	}
	return pool, nil
}

// sanitizeURL hides the password so the URL can be logged.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
