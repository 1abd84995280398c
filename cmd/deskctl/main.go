package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/config"
	"github.com/soporteit/support-desk/internal/observability"
	"github.com/soporteit/support-desk/internal/persistence"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deskctl",
		Short:         "Support desk maintenance tools",
		Long:          `Run schema migrations and manage staff accounts of the support desk database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newMigrateCommand(),
		newUserCommand(),
		newAdminCommand(),
	)
	return cmd
}

// environment holds what every subcommand needs to reach the database.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
}

func openEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}
	if !pg.Enabled() {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	return &environment{cfg: cfg, logger: logger, pg: pg}, nil
}

func (e *environment) Close() {
	e.pg.Close()
	_ = e.logger.Sync()
}
