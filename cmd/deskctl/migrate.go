package main

import (
	"github.com/spf13/cobra"

	"github.com/soporteit/support-desk/internal/persistence"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				env, err := openEnvironment(cmd.Context())
				if err != nil {
					return err
				}
				defer env.Close()
				return persistence.RunMigrations(cmd.Context(), env.pg.PoolHandle(), env.logger)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: func(cmd *cobra.Command, _ []string) error {
				env, err := openEnvironment(cmd.Context())
				if err != nil {
					return err
				}
				defer env.Close()
				return persistence.MigrationStatus(cmd.Context(), env.pg.PoolHandle())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				env, err := openEnvironment(cmd.Context())
				if err != nil {
					return err
				}
				defer env.Close()
				return persistence.RollbackMigration(cmd.Context(), env.pg.PoolHandle())
			},
		},
	)
	return cmd
}
