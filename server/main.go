// Command canvas-server serves the layout, pattern and workflow HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/api"
	"github.com/meikuraledutech/canvas/config"
	"github.com/meikuraledutech/canvas/memory"
	"github.com/meikuraledutech/canvas/postgres"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "canvas-server",
		Short:         "Serve the canvas layout and workflow API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := hclog.New(&hclog.LoggerOptions{
				Name:   "canvas",
				Level:  hclog.LevelFromString(cfg.LogLevel),
				Output: cmd.ErrOrStderr(),
			})
			return serve(cmd.Context(), cfg, logger)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (.yaml or .toml)")
	return root
}

// openStore returns the Postgres store when a database is configured and the
// in-memory store otherwise. The returned func releases the store.
func openStore(ctx context.Context, cfg *config.Config, logger hclog.Logger) (canvas.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, workflows are kept in memory")
		return memory.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	pg := postgres.New(pool)
	if err := pg.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create schema: %w", err)
	}
	return pg, pool.Close, nil
}

func serve(ctx context.Context, cfg *config.Config, logger hclog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	app := api.New(store, logger.Named("api"),
		api.WithLayoutStart(cfg.Layout.StartX, cfg.Layout.StartY),
	)

	logger.Info("listening", "addr", cfg.HTTPAddr)
	return app.Listen(cfg.HTTPAddr)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		hclog.Default().Error("server stopped", "error", err)
		os.Exit(1)
	}
}
