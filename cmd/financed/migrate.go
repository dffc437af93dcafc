package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cashflowgame/finance-service/internal/infrastructure/config"
	pgstore "github.com/cashflowgame/finance-service/internal/infrastructure/postgres"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withDSN(func(cmd *cobra.Command, dsn string) error {
				if err := pkgpostgres.RunMigrations(dsn, pgstore.Migrations()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: withDSN(func(cmd *cobra.Command, dsn string) error {
				if err := pkgpostgres.RunMigrationsDown(dsn, pgstore.Migrations()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: withDSN(func(cmd *cobra.Command, dsn string) error {
				v, dirty, err := pkgpostgres.MigrationVersion(dsn, pgstore.Migrations())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			}),
		},
	)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
}

// withDSN runs fn with the database URL from the environment. Migrations
// only make sense for the postgres store.
func withDSN(fn func(cmd *cobra.Command, dsn string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig(os.Stderr)
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.StorePostgres {
			return fmt.Errorf("migrations need STORE_DRIVER=%s", config.StorePostgres)
		}
		return fn(cmd, cfg.PostgresConfig().DSN())
	}
}
