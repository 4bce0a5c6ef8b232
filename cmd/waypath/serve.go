package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sanonone/waypath/internal/config"
	"github.com/sanonone/waypath/internal/server"
	"github.com/sanonone/waypath/pkg/engine"
	"github.com/sanonone/waypath/pkg/surface"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Log.SlogLevel())
	logger := newLogger(cmd.ErrOrStderr(), level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// The recorder is the authoritative scene: it owns the zoom and seeds
	// every new websocket client.
	rec := surface.NewRecorder(cfg.Graph.InitialZoom)
	hub := server.NewHub(rec.Zoom(), rec.Scene, logger)

	eng, err := engine.Open(ctx, engineOptions(cfg, store, surface.NewFanout(rec, hub), logger))
	if err != nil {
		store.Close()
		return fmt.Errorf("open engine: %w", err)
	}

	srv := server.NewServer(eng, hub, cfg.HTTPAddr, cfg.AuthToken, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if configPath != "" {
		w, err := config.NewWatcher(configPath, func(c config.Config) {
			applyReload(eng, level, c, logger)
		}, logger)
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	runErr := g.Wait()

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	closeErr := eng.Close(sctx)
	if closeErr != nil {
		logger.Error("failed to close engine", "error", closeErr)
	}
	logger.Info("shutdown complete")
	return errors.Join(runErr, closeErr)
}

// applyReload applies the settings that can change without a restart.
// Address, token, store and snapshot strictness need one.
func applyReload(eng *engine.Engine, level *slog.LevelVar, c config.Config, logger *slog.Logger) {
	level.Set(c.Log.SlogLevel())
	eng.SetAutoSave(c.AutoSave.Interval, c.AutoSave.Threshold)
	if err := eng.SetAffordanceThreshold(c.Graph.AffordanceThresholdPx); err != nil {
		logger.Warn("ignoring affordance threshold", "error", err)
	}
	logger.Info("runtime settings updated",
		"log_level", c.Log.Level,
		"autosave_interval", c.AutoSave.Interval.String(),
		"affordance_threshold_px", c.Graph.AffordanceThresholdPx,
	)
}
