package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sanonone/waypath/internal/config"
	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/sanonone/waypath/pkg/persistence"
	"github.com/spf13/cobra"
)

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := newLogger(cmd.ErrOrStderr(), level, cfg.Log.Format)

	store, err := openStore(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	data, err := store.Load(cmd.Context(), storeKey)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "no path stored under %q\n", storeKey)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %q: %w", storeKey, err)
	}

	return inspectSnapshot(cmd.OutOrStdout(), data, jsonOutput, logger)
}

// inspectSnapshot decodes data, rebuilds the graph off-screen and reports
// what it holds. It returns an error when the snapshot is unreadable or
// breaks a chain invariant, so scripts can rely on the exit code.
func inspectSnapshot(w io.Writer, data []byte, asJSON bool, logger *slog.Logger) error {
	snap, err := pathgraph.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	opts := pathgraph.DefaultOptions()
	opts.Logger = logger
	g := pathgraph.New(opts)
	if err := g.Deserialize(snap); err != nil {
		return err
	}

	fmt.Fprintf(w, "path %s: %d waypoints, %d segments (%d bytes)\n", snap.ID, g.Len(), g.SegmentCount(), len(data))
	for _, wp := range g.Waypoints() {
		state := "usable"
		if !wp.Usable() {
			state = "unusable"
		}
		fmt.Fprintf(w, "  %3d  %s  %s  %s\n", wp.Index(), wp.ID(), wp.Position(), state)
	}

	if err := g.Validate(); err != nil {
		fmt.Fprintf(w, "invariants: FAILED\n%v\n", err)
		return fmt.Errorf("path %s breaks its invariants", snap.ID)
	}
	fmt.Fprintln(w, "invariants: ok")
	return nil
}
