package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "snapshot/"

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Dir is ignored when InMemory is set.
	Dir      string
	InMemory bool

	SyncWrites bool

	// GCInterval is how often value log garbage collection runs. Zero
	// disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64

	// Logger receives BadgerDB's own messages. Nil silences them.
	Logger *slog.Logger
}

func DefaultBadgerOptions(dir string) BadgerOptions {
	return BadgerOptions{
		Dir:            dir,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore keeps snapshots in an embedded BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger

	stopGC chan struct{}
	gcDone chan struct{}
}

// OpenBadgerStore opens (or creates) the database.
func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("persistence: directory is required for persistent database")
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Dir, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", opts.Dir, err)
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	bopts = bopts.WithSyncWrites(opts.SyncWrites).WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger.With("component", "badger")})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &BadgerStore{db: db, logger: logger}

	if opts.GCInterval > 0 && !opts.InMemory {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(opts.GCInterval, opts.GCDiscardRatio)
	}
	return s, nil
}

func (s *BadgerStore) runGC(interval time.Duration, ratio float64) {
	defer close(s.gcDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			// ErrNoRewrite means there was nothing worth collecting.
			if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("badger value log GC error", "error", err)
			}
		}
	}
}

func (s *BadgerStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	case errors.Is(err, badger.ErrDBClosed):
		return nil, ErrClosed
	case err != nil:
		return nil, fmt.Errorf("badger load %s: %w", key, err)
	}
	return payload, nil
}

func (s *BadgerStore) Save(ctx context.Context, key string, payload []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+key), payload)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	if err != nil {
		return fmt.Errorf("badger save %s: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerKeyPrefix + key))
	})
	if err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}

// Close stops garbage collection and closes the database.
func (s *BadgerStore) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.gcDone
		s.stopGC = nil
	}
	return s.db.Close()
}
