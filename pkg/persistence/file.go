package persistence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const logExt = ".wpl"

// FileOptions configures a FileStore.
type FileOptions struct {
	Dir        string
	SyncWrites bool

	// CompactAfter is the number of frames a log may hold before it is
	// rewritten down to the latest snapshot.
	CompactAfter int

	Logger *slog.Logger
}

// DefaultFileOptions returns durable defaults rooted at dir.
func DefaultFileOptions(dir string) FileOptions {
	return FileOptions{
		Dir:          dir,
		SyncWrites:   true,
		CompactAfter: 16,
	}
}

type keyLog struct {
	w *aofWriter
	// damaged logs are rewritten on the next save instead of appended to.
	damaged bool
}

// FileStore keeps one append-only snapshot log per key.
type FileStore struct {
	mu     sync.Mutex
	opts   FileOptions
	logger *slog.Logger
	logs   map[string]*keyLog
	closed bool
}

// OpenFileStore creates the directory if needed.
func OpenFileStore(opts FileOptions) (*FileStore, error) {
	if opts.Dir == "" {
		return nil, errors.New("persistence: directory is required")
	}
	if opts.CompactAfter <= 0 {
		opts.CompactAfter = DefaultFileOptions(opts.Dir).CompactAfter
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if err := os.MkdirAll(opts.Dir, 0750); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", opts.Dir, err)
	}
	return &FileStore{
		opts:   opts,
		logger: opts.Logger.With("component", "filestore"),
		logs:   make(map[string]*keyLog),
	}, nil
}

// Path returns the log file used for key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.opts.Dir, key+logExt)
}

type scanResult struct {
	payload []byte
	present bool
	frames  int
	damaged bool
}

// scanLog reads every frame and keeps the last intact snapshot. Frames with
// a bad checksum are skipped; a torn or unsynchronized tail ends the scan.
func scanLog(r io.Reader) scanResult {
	var res scanResult
	br := bufio.NewReader(r)
	for {
		f, _, err := ReadFrame(br)
		switch {
		case err == io.EOF:
			return res
		case errors.Is(err, ErrChecksumMismatch):
			res.frames++
			res.damaged = true
			continue
		case err != nil:
			res.damaged = true
			return res
		}
		res.frames++
		if f.OpCode == OpCodeSnapshot {
			res.payload = f.Payload
			res.present = true
		}
	}
}

func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	f, err := os.Open(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("open snapshot log: %w", err)
	}
	defer f.Close()

	res := scanLog(f)
	switch {
	case res.present && res.damaged:
		s.logger.Warn("snapshot log damaged, recovered last intact snapshot", "key", key, "frames", res.frames)
	case !res.present && res.damaged:
		return nil, fmt.Errorf("%w: no intact snapshot in %s", ErrCorruptedData, s.Path(key))
	case !res.present:
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if l, ok := s.logs[key]; ok && res.damaged {
		l.damaged = true
	}
	return res.payload, nil
}

func (s *FileStore) Save(ctx context.Context, key string, payload []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	l, err := s.open(key)
	if err != nil {
		return err
	}

	if l.damaged || l.w.Frames() >= s.opts.CompactAfter {
		if err := l.w.Rewrite(OpCodeSnapshot, payload); err != nil {
			return fmt.Errorf("rewrite snapshot log: %w", err)
		}
		s.logger.Debug("snapshot log rewritten", "key", key, "damaged", l.damaged)
		l.damaged = false
		return nil
	}

	if err := l.w.Append(OpCodeSnapshot, payload); err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}
	return nil
}

// open returns the writer for key, scanning the existing log once to learn
// its frame count and health.
func (s *FileStore) open(key string) (*keyLog, error) {
	if l, ok := s.logs[key]; ok {
		return l, nil
	}

	path := s.Path(key)
	var res scanResult
	if f, err := os.Open(path); err == nil {
		res = scanLog(f)
		f.Close()
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open snapshot log: %w", err)
	}

	w, err := openAOF(path, s.opts.SyncWrites, res.frames)
	if err != nil {
		return nil, err
	}
	l := &keyLog{w: w, damaged: res.damaged}
	s.logs[key] = l
	return l, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if l, ok := s.logs[key]; ok {
		_ = l.w.Close()
		delete(s.logs, key)
	}
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot log: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for key, l := range s.logs {
		if err := l.w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", key, err))
		}
	}
	s.logs = nil
	return errors.Join(errs...)
}
