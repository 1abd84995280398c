package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soporteit/support-desk/internal/repository"
	"github.com/soporteit/support-desk/internal/service"
)

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator account tools",
	}
	cmd.AddCommand(newResetPasswordCommand())
	return cmd
}

func newResetPasswordCommand() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new administrator password",
		Long:  `Hash and store a new password for the administrator, creating the account when it does not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := promptPassword(cmd.OutOrStdout(), os.Stdin)
			if err != nil {
				return err
			}
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}

			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			if username == "" {
				username = env.cfg.Auth.AdminUsername
			}
			repos := repository.NewPostgresSet(env.pg.PoolHandle())
			migrator := service.NewCredentialMigrator(repos.Users, env.cfg.Auth, env.logger)
			if err := migrator.ResetAdminPassword(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username (defaults to ADMIN_USERNAME)")

	return cmd
}
