// Package engine provides the thread-safe, persistent editing session for a
// waypath.
//
// It owns the in-memory path graph and a snapshot store, serializes every
// operation behind a mutex, and saves the path automatically in the
// background once enough edits have accumulated.
//
// Basic usage:
//
//	store, _ := persistence.OpenFileStore(persistence.DefaultFileOptions("./data"))
//	eng, err := engine.Open(ctx, engine.DefaultOptions(store))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sanonone/waypath/pkg/metrics"
	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/sanonone/waypath/pkg/persistence"
)

// Options configures an Engine.
type Options struct {
	// Store persists snapshots. The Engine closes it on Close.
	Store persistence.Store

	// Key is the store key of the path (default: persistence.DefaultKey).
	Key string

	// Graph configures the underlying path graph, including its Surface.
	Graph pathgraph.Options

	// AutoSaveInterval is the minimum time between two automatic saves.
	// Set to 0 to disable auto-saving.
	AutoSaveInterval time.Duration

	// AutoSaveThreshold is the number of edits that must accumulate before
	// an automatic save. Set to 0 to disable auto-saving.
	AutoSaveThreshold int64

	// CheckInterval is how often the background task evaluates the
	// auto-save policy. Default: 1 second.
	CheckInterval time.Duration

	Logger *slog.Logger
}

// DefaultOptions returns the standard configuration around store.
//
// Defaults:
//   - Key: "map"
//   - AutoSave: every 30s if at least 1 edit occurred
//   - Affordance threshold: 50px
func DefaultOptions(store persistence.Store) Options {
	return Options{
		Store:             store,
		Key:               persistence.DefaultKey,
		Graph:             pathgraph.DefaultOptions(),
		AutoSaveInterval:  30 * time.Second,
		AutoSaveThreshold: 1,
		CheckInterval:     time.Second,
	}
}

// Engine is the editing session. All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex
	// saveMu orders saves so snapshots reach the store in serialize order.
	saveMu sync.Mutex
	graph *pathgraph.Graph
	store persistence.Store

	opts   Options
	logger *slog.Logger

	// dirtyCounter tracks edits since the last save.
	dirtyCounter int64
	lastSaveTime time.Time

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Open creates the session and restores the stored path if there is one.
// A stored path that cannot be decoded is logged and discarded: the session
// starts empty rather than failing.
func Open(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("engine: a store is required")
	}
	if opts.Key == "" {
		opts.Key = persistence.DefaultKey
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Graph.Logger == nil {
		opts.Graph.Logger = opts.Logger
	}

	e := &Engine{
		graph:        pathgraph.New(opts.Graph),
		store:        opts.Store,
		opts:         opts,
		logger:       opts.Logger.With("component", "engine"),
		lastSaveTime: time.Now(),
		closed:       make(chan struct{}),
	}

	if err := e.load(ctx); err != nil {
		return nil, err
	}
	e.updateGauges()

	e.wg.Add(1)
	go e.backgroundTasks()

	return e, nil
}

// load restores the stored path. Only context errors are fatal.
func (e *Engine) load(ctx context.Context) error {
	data, err := e.store.Load(ctx, e.opts.Key)
	switch {
	case errors.Is(err, persistence.ErrKeyNotFound):
		e.logger.Info("no stored path, starting empty", "key", e.opts.Key)
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case err != nil:
		metrics.SnapshotLoadFailures.Inc()
		e.logger.Warn("failed to read stored path, starting empty", "key", e.opts.Key, "error", err)
		return nil
	}

	snap, err := pathgraph.DecodeSnapshot(data)
	if err == nil {
		err = e.graph.Deserialize(snap)
	}
	if err != nil {
		metrics.SnapshotLoadFailures.Inc()
		e.logger.Warn("stored path is corrupted, starting empty", "key", e.opts.Key, "error", err)
		return nil
	}

	e.logger.Info("path restored", "key", e.opts.Key, "waypoints", e.graph.Len())
	return nil
}

// Close stops background tasks, saves the path if it has unsaved edits and
// closes the store.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	e.closeOnce.Do(func() {
		close(e.closed)
		e.wg.Wait()

		if atomic.LoadInt64(&e.dirtyCounter) > 0 {
			if saveErr := e.Save(ctx); saveErr != nil {
				err = fmt.Errorf("final save: %w", saveErr)
			}
		}
		if closeErr := e.store.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	})
	return err
}

// Save persists the current path.
func (e *Engine) Save(ctx context.Context) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	snap := e.graph.Serialize()
	dirty := atomic.LoadInt64(&e.dirtyCounter)
	e.mu.Unlock()

	data, err := pathgraph.EncodeSnapshot(snap)
	if err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := e.store.Save(ctx, e.opts.Key, data); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("save snapshot: %w", err)
	}

	// Edits made while writing stay counted.
	e.settleDirty(dirty)
	e.mu.Lock()
	e.lastSaveTime = time.Now()
	e.mu.Unlock()

	metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	metrics.SnapshotBytes.Set(float64(len(data)))
	e.logger.Debug("path saved", "key", e.opts.Key, "bytes", len(data))
	return nil
}

// settleDirty subtracts the edits covered by a save, never dropping below 0.
func (e *Engine) settleDirty(saved int64) {
	for {
		cur := atomic.LoadInt64(&e.dirtyCounter)
		next := max(cur-saved, 0)
		if atomic.CompareAndSwapInt64(&e.dirtyCounter, cur, next) {
			return
		}
	}
}

// Dirty returns the number of edits since the last save.
func (e *Engine) Dirty() int64 {
	return atomic.LoadInt64(&e.dirtyCounter)
}

func (e *Engine) backgroundTasks() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.opts.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.closed:
			return
		case <-ticker.C:
			e.checkMaintenance()
		}
	}
}

// checkMaintenance saves when both auto-save conditions are met.
func (e *Engine) checkMaintenance() {
	e.mu.Lock()
	interval, threshold := e.opts.AutoSaveInterval, e.opts.AutoSaveThreshold
	since := time.Since(e.lastSaveTime)
	e.mu.Unlock()

	if threshold <= 0 || interval <= 0 {
		return
	}
	dirty := atomic.LoadInt64(&e.dirtyCounter)

	if dirty >= threshold && since >= interval {
		if err := e.Save(context.Background()); err != nil {
			e.logger.Error("Background save failed", "error", err)
		}
	}
}

// SetAutoSave changes the auto-save policy of a running session. A zero
// interval or threshold disables auto-saving.
func (e *Engine) SetAutoSave(interval time.Duration, threshold int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.AutoSaveInterval = interval
	e.opts.AutoSaveThreshold = threshold
}

// markDirty records an applied edit. Callers hold e.mu.
func (e *Engine) markDirty(op string) {
	atomic.AddInt64(&e.dirtyCounter, 1)
	metrics.Operations.WithLabelValues(op, "ok").Inc()
	e.updateGauges()
}

func (e *Engine) fail(op string, err error) error {
	metrics.Operations.WithLabelValues(op, "error").Inc()
	return err
}

func (e *Engine) updateGauges() {
	metrics.Waypoints.Set(float64(e.graph.Len()))
	metrics.Segments.Set(float64(e.graph.SegmentCount()))
}
