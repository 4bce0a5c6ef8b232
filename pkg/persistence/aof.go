package persistence

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// aofWriter appends frames to a snapshot log.
type aofWriter struct {
	mu     sync.Mutex
	file   *os.File
	buf    *bufio.Writer
	frames *FrameWriter
	path   string
	sync   bool

	// count is the number of frames written since the file was (re)created.
	count int
}

func openAOF(path string, syncWrites bool, existing int) (*aofWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot log: %w", err)
	}
	buf := bufio.NewWriter(file)
	return &aofWriter{
		file:   file,
		buf:    buf,
		frames: NewFrameWriter(buf),
		path:   path,
		sync:   syncWrites,
		count:  existing,
	}, nil
}

// Append writes one frame and flushes it to the OS, fsyncing when the log
// was opened with sync writes.
func (a *aofWriter) Append(op byte, payload []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.frames.WriteFrame(op, payload); err != nil {
		return err
	}
	if err := a.buf.Flush(); err != nil {
		return err
	}
	a.count++
	if a.sync {
		return a.file.Sync()
	}
	return nil
}

// Frames returns how many frames the log holds.
func (a *aofWriter) Frames() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

func (a *aofWriter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.buf.Flush(); err != nil {
		_ = a.file.Close()
		return err
	}
	return a.file.Close()
}

// Rewrite replaces the log with a single frame, atomically (write to a temp
// file, fsync, rename) and reopens it.
func (a *aofWriter) Rewrite(op byte, payload []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tmp := a.path + ".rewrite"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create rewrite file: %w", err)
	}
	if err := NewFrameWriter(f).WriteFrame(op, payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	_ = a.buf.Flush()
	_ = a.file.Close()

	if err := os.Rename(tmp, a.path); err != nil {
		return fmt.Errorf("failed to replace snapshot log: %w", err)
	}

	file, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to reopen snapshot log after rewrite: %w", err)
	}
	a.file = file
	a.buf.Reset(file)
	a.count = 1
	return nil
}
