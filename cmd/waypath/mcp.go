package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/waypath/internal/config"
	waypathmcp "github.com/sanonone/waypath/internal/mcp"
	"github.com/sanonone/waypath/pkg/engine"
	"github.com/sanonone/waypath/pkg/surface"
	"github.com/spf13/cobra"
)

// runMCP serves the editing tools on stdin/stdout. Logs go to stderr so
// they never mix with protocol messages.
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Log.SlogLevel())
	logger := newLogger(os.Stderr, level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	rec := surface.NewRecorder(cfg.Graph.InitialZoom)
	eng, err := engine.Open(ctx, engineOptions(cfg, store, rec, logger))
	if err != nil {
		store.Close()
		return fmt.Errorf("open engine: %w", err)
	}

	logger.Info("MCP server running on stdio")
	runErr := waypathmcp.NewMCPServer(eng).Run(ctx, &mcp.StdioTransport{})
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	closeErr := eng.Close(context.Background())
	return errors.Join(runErr, closeErr)
}
