package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/sanonone/waypath/internal/config"
	"github.com/sanonone/waypath/pkg/engine"
	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/sanonone/waypath/pkg/persistence"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string
	storeKey   string
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:   "waypath",
		Short: "Interactive map path editor backend",
		Long: `waypath keeps an ordered path of waypoints on a map, persists it,
and serves it to rendering clients over HTTP, WebSocket and MCP.`,
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the WebSocket bridge and the map UI",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	mcpCmd = &cobra.Command{
		Use:   "mcp",
		Short: "Expose the path editing actions as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print the stored path and check its invariants",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&storeKey, "key", persistence.DefaultKey, "store key of the path")

	inspectCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw snapshot as JSON")

	rootCmd.AddCommand(serveCmd, mcpCmd, inspectCmd)
}

// newLogger builds the process logger. level may be changed later, which
// is how config reloads adjust verbosity.
func newLogger(w io.Writer, level *slog.LevelVar, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openStore opens the snapshot store selected by the config.
func openStore(cfg config.StoreConfig, logger *slog.Logger) (persistence.Store, error) {
	switch cfg.Backend {
	case "file":
		opts := persistence.DefaultFileOptions(cfg.Dir)
		opts.SyncWrites = cfg.SyncWrites
		opts.CompactAfter = cfg.CompactAfter
		opts.Logger = logger
		return persistence.OpenFileStore(opts)
	case "badger":
		opts := persistence.DefaultBadgerOptions(filepath.Join(cfg.Dir, "badger"))
		opts.SyncWrites = cfg.SyncWrites
		opts.Logger = logger
		return persistence.OpenBadgerStore(opts)
	case "memory":
		return persistence.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// engineOptions maps the config onto engine options around store and surface.
func engineOptions(cfg config.Config, store persistence.Store, surface pathgraph.Surface, logger *slog.Logger) engine.Options {
	opts := engine.DefaultOptions(store)
	opts.Key = storeKey
	opts.Logger = logger
	opts.AutoSaveInterval = cfg.AutoSave.Interval
	opts.AutoSaveThreshold = cfg.AutoSave.Threshold
	opts.Graph.Surface = surface
	opts.Graph.Logger = logger
	opts.Graph.AffordanceThresholdPx = cfg.Graph.AffordanceThresholdPx
	opts.Graph.StrictSnapshots = cfg.Graph.StrictSnapshots
	return opts
}
