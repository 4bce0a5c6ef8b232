package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "waypath.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":9191", cfg.HTTPAddr)
	assert.Equal(t, 50.0, cfg.Graph.AffordanceThresholdPx)
	assert.Equal(t, 30*time.Second, cfg.AutoSave.Interval)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
http_addr: "127.0.0.1:8080"
log:
  level: debug
  format: json
store:
  backend: badger
  dir: /var/lib/waypath
graph:
  strict_snapshots: true
  initial_zoom: 15
autosave:
  interval: 5s
  threshold: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "badger", cfg.Store.Backend)
	assert.True(t, cfg.Graph.StrictSnapshots)
	assert.Equal(t, 15.0, cfg.Graph.InitialZoom)
	assert.Equal(t, 50.0, cfg.Graph.AffordanceThresholdPx, "unset fields keep defaults")
	assert.Equal(t, 5*time.Second, cfg.AutoSave.Interval)
	assert.Equal(t, int64(10), cfg.AutoSave.Threshold)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), ""))
	require.NoError(t, err)
	assert.Equal(t, Default().HTTPAddr, cfg.HTTPAddr)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, t.TempDir(), "http_adr: ':1'\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_adr")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"backend":   "store:\n  backend: postgres\n",
		"level":     "log:\n  level: loud\n",
		"threshold": "graph:\n  affordance_threshold_px: 0\n",
		"dir":       "store:\n  backend: file\n  dir: ''\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), body))
			assert.Error(t, err)
		})
	}
}

func TestMemoryBackendNeedsNoDir(t *testing.T) {
	_, err := Load(writeConfig(t, t.TempDir(), "store:\n  backend: memory\n  dir: ''\n"))
	assert.NoError(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WAYPATH_HTTP_ADDR", ":7000")
	t.Setenv("WAYPATH_AUTH_TOKEN", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, "secret", cfg.AuthToken)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "log:\n  level: info\n")

	var (
		mu   sync.Mutex
		seen []string
	)
	w, err := NewWatcher(path, func(c Config) {
		mu.Lock()
		seen = append(seen, c.Log.Level)
		mu.Unlock()
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Invalid content is ignored.
	writeConfig(t, dir, "log:\n  level: loud\n")
	time.Sleep(300 * time.Millisecond)
	writeConfig(t, dir, "log:\n  level: debug\n")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == "debug"
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, seen, "loud")
}
