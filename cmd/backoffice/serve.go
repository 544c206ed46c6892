package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/infutrix/backoffice-api/internal/config"
	"github.com/infutrix/backoffice-api/internal/database"
	"github.com/infutrix/backoffice-api/internal/di"
	"github.com/infutrix/backoffice-api/internal/observability"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(os.Stdout, cfg.LogLevel)

	if migrate {
		if err := migrateWith(ctx, database.OptionsFromConfig(cfg)); err != nil {
			return err
		}
		logger.Info("schema migrated")
	}

	runtime, err := observability.InitRuntime(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	logger = runtime.Logger

	a, err := di.InitializeApp(cfg, logger, runtime)
	if err != nil {
		_ = runtime.Shutdown(context.Background())
		return fmt.Errorf("initialize app: %w", err)
	}
	logger.Info("starting server", "addr", cfg.Addr(), "env", cfg.AppEnv, "version", version)
	return a.Run(ctx)
}

func migrateWith(ctx context.Context, opts database.Options) error {
	db, err := database.Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	return database.Migrate(ctx, db)
}
