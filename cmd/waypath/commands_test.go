package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/sanonone/waypath/internal/config"
	"github.com/sanonone/waypath/pkg/engine"
	"github.com/sanonone/waypath/pkg/geo"
	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/sanonone/waypath/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	logger := newLogger(&buf, level, "json")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	level.Set(slog.LevelInfo)
	logger.Info("shown", "k", "v")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	buf.Reset()
	newLogger(&buf, level, "text").Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{"file", "badger", "memory"} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.Default().Store
			cfg.Backend = backend
			cfg.Dir = t.TempDir()
			cfg.SyncWrites = false

			store, err := openStore(cfg, quietLogger())
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Save(ctx, "k", []byte("v")))
			got, err := store.Load(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)
		})
	}

	_, err := openStore(config.StoreConfig{Backend: "tape"}, quietLogger())
	assert.Error(t, err)
}

func TestEngineOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.AffordanceThresholdPx = 80
	cfg.Graph.StrictSnapshots = true
	cfg.AutoSave.Threshold = 5

	opts := engineOptions(cfg, persistence.NewMemoryStore(), nil, quietLogger())
	assert.Equal(t, 80.0, opts.Graph.AffordanceThresholdPx)
	assert.True(t, opts.Graph.StrictSnapshots)
	assert.Equal(t, int64(5), opts.AutoSaveThreshold)
	assert.Equal(t, cfg.AutoSave.Interval, opts.AutoSaveInterval)
	assert.Equal(t, persistence.DefaultKey, opts.Key)
}

func storedPath(t *testing.T) []byte {
	t.Helper()
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	opts := engine.DefaultOptions(store)
	opts.Logger = quietLogger()
	eng, err := engine.Open(ctx, opts)
	require.NoError(t, err)

	_, err = eng.AddWaypoint(geo.LatLng(51.50, -0.10))
	require.NoError(t, err)
	w, err := eng.AddWaypoint(geo.LatLng(51.52, -0.10))
	require.NoError(t, err)
	require.NoError(t, eng.SetWaypointUsable(w.ID, false))
	require.NoError(t, eng.Save(ctx))

	data, err := store.Load(ctx, persistence.DefaultKey)
	require.NoError(t, err)
	require.NoError(t, eng.Close(ctx))
	return data
}

func TestInspectSnapshot(t *testing.T) {
	data := storedPath(t)

	var out bytes.Buffer
	require.NoError(t, inspectSnapshot(&out, data, false, quietLogger()))
	assert.Contains(t, out.String(), "2 waypoints, 1 segments")
	assert.Contains(t, out.String(), "unusable")
	assert.Contains(t, out.String(), "invariants: ok")

	out.Reset()
	require.NoError(t, inspectSnapshot(&out, data, true, quietLogger()))
	snap, err := pathgraph.DecodeSnapshot(out.Bytes())
	require.NoError(t, err)
	assert.Len(t, snap.Markers, 2)
}

func TestInspectReportsBrokenChains(t *testing.T) {
	// Two markers both claiming index 0 decode fine but break density.
	doc := `{"id":"g","markers":[
	  {"id":"a","in":null,"out":"l","idx":0,"position":[1,2],"usable":true},
	  {"id":"b","in":"l","out":null,"idx":0,"position":[1,3],"usable":true}],
	 "links":[{"id":"l","from":"a","to":"b"}]}`

	var out bytes.Buffer
	err := inspectSnapshot(&out, []byte(doc), false, quietLogger())
	require.Error(t, err)
	assert.Contains(t, out.String(), "invariants: FAILED")

	assert.Error(t, inspectSnapshot(&out, []byte(`{"id":1}`), false, quietLogger()))
}
