// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/areaguard/areaguard/internal/area/postgres"
	"github.com/areaguard/areaguard/internal/config"
	"github.com/areaguard/areaguard/internal/engine"
	"github.com/areaguard/areaguard/internal/logging"
	"github.com/areaguard/areaguard/internal/observability"
	"github.com/areaguard/areaguard/internal/preset"
	"github.com/areaguard/areaguard/internal/store"
	"github.com/areaguard/areaguard/pkg/errutil"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the permission engine standalone",
		Long: `Load all regions and grants from the database and serve the
metrics and health endpoints. Without a live world host there are no
actors to gate; serve exists for operating on the region store and for
watching the engine's state from the outside.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("database_url", "", "PostgreSQL connection string")
	cmd.Flags().String("presets_dir", "", "directory with extra permission preset files")
	cmd.Flags().String("log_format", "", "log format (text or json)")
	cmd.Flags().String("log_level", "", "log level (debug, info, warn, error)")
	cmd.Flags().String("observability_addr", "", "metrics/health listen address (empty = disabled)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logging.SetDefault("areaguard", version, cfg.LogFormat, level)
	log := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to database")

	presets, err := preset.Load(cfg.PresetsDir)
	if err != nil {
		return err
	}
	log.Info("presets loaded", "presets", len(presets.All()))

	repo := engine.Repositories{
		Regions:   postgres.NewRegionRepository(pool),
		Overrides: postgres.NewOverrideRepository(pool),
		Groups:    postgres.NewGroupRepository(pool),
		Audit:     postgres.NewAuditRepository(pool),
	}
	eng, err := engine.New(ctx, engine.Config{AdminBypass: cfg.AdminBypass},
		engine.NullHost{}, repo, nil, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	var obsServer *observability.Server
	if cfg.ObservabilityAddr != "" {
		ready := func() bool { return pool.Ping(ctx) == nil }
		obsServer = observability.NewServer(cfg.ObservabilityAddr, ready, eng)
		errChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, errChan, "observability")
		log.Info("observability server started", "addr", obsServer.Addr())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("AreaGuard serving")
	log.Info("engine ready", "regions", eng.RegionCount())

	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		log.Info("context cancelled, shutting down")
	}

	if obsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obsServer.Stop(shutdownCtx); err != nil {
			log.Warn("error stopping observability server", "error", err)
		}
	}

	log.Info("shutdown complete")
	return nil
}

// monitorServerErrors cancels the context when a background server fails, so
// that one dead listener takes the whole process down cleanly.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			errutil.LogError(slog.Default().With("server", serverName),
				"server error, triggering shutdown", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
