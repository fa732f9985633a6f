package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/skillpath-api/internal/config"
	"github.com/phrazzld/skillpath-api/internal/platform/logger"
	"github.com/phrazzld/skillpath-api/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL response-cache schema",
		Long:  "Apply, roll back or inspect the response-cache migrations. Only the postgres and sqlite cache drivers keep a schema.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: migrateRunE(func(ctx context.Context, m *sqlstore.Migrator, out io.Writer) error {
				results, err := m.Up(ctx)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "no pending migrations")
				}
				for _, r := range results {
					fmt.Fprintf(out, "applied %d %s (%s)\n", r.Source.Version, r.Source.Path, r.Duration.Round(time.Millisecond))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: migrateRunE(func(ctx context.Context, m *sqlstore.Migrator, out io.Writer) error {
				r, err := m.Down(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "rolled back %d %s\n", r.Source.Version, r.Source.Path)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which migrations are applied",
			Args:  cobra.NoArgs,
			RunE: migrateRunE(func(ctx context.Context, m *sqlstore.Migrator, out io.Writer) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
				for _, s := range statuses {
					applied := "-"
					if !s.AppliedAt.IsZero() {
						applied = s.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
				}
				return tw.Flush()
			}),
		},
	)
	return cmd
}

type migrateFunc func(ctx context.Context, m *sqlstore.Migrator, out io.Writer) error

// migrateRunE opens the configured cache database and hands a migrator to fn.
func migrateRunE(fn migrateFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log, err := logger.Setup(cfg.Server)
		if err != nil {
			return fmt.Errorf("failed to set up logger: %w", err)
		}

		return withMigrator(cmd.Context(), cfg.Cache, log, func(m *sqlstore.Migrator) error {
			return fn(cmd.Context(), m, cmd.OutOrStdout())
		})
	}
}

// withMigrator opens the SQL cache database described by cfg, runs fn and
// closes the connection.
func withMigrator(ctx context.Context, cfg config.CacheConfig, log *slog.Logger, fn func(*sqlstore.Migrator) error) (err error) {
	if cfg.Driver != sqlstore.DriverPostgres && cfg.Driver != sqlstore.DriverSQLite {
		return fmt.Errorf("cache driver %q has no schema to migrate", cfg.Driver)
	}

	var db *sql.DB
	db, err = sqlstore.Open(ctx, cfg.Driver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
	}()

	m, err := sqlstore.NewMigrator(db, cfg.Driver, log)
	if err != nil {
		return err
	}
	return fn(m)
}
