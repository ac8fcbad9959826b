package backend

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

// FileConfig holds configuration for the file backend.
type FileConfig struct {
	// Path is the log file to append to. Required.
	Path string
	// BufferSize is the write buffer in bytes (default: 4096).
	BufferSize int
	// MaxSize is the size in bytes that triggers rotation (0 = no size
	// rotation).
	MaxSize int64
	// MaxBackups is the number of rotated files to retain (0 = keep all).
	MaxBackups int
	// RotateInterval rotates on age regardless of size (0 = no interval
	// rotation).
	RotateInterval time.Duration
	// Compress gzips rotated files.
	Compress bool
	// Mode is the permission for created files (default: 0644).
	Mode os.FileMode
}

// File appends to a log file through a write buffer and rotates it by size
// or age. Rotated files move aside under timestamped names and are pruned
// oldest-first past MaxBackups. It is safe for concurrent use.
type File struct {
	path           string
	mode           os.FileMode
	bufferSize     int
	maxSize        int64
	maxBackups     int
	rotateInterval time.Duration
	compress       bool

	mu         sync.Mutex
	file       *os.File
	w          *bufio.Writer
	size       int64
	lastRotate time.Time
	closed     bool
}

// NewFile opens (creating if needed) the log file at cfg.Path.
func NewFile(cfg FileConfig) (*File, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("backend: file path is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 4096
	}
	if cfg.Mode == 0 {
		cfg.Mode = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	b := &File{
		path:           cfg.Path,
		mode:           cfg.Mode,
		bufferSize:     cfg.BufferSize,
		maxSize:        cfg.MaxSize,
		maxBackups:     cfg.MaxBackups,
		rotateInterval: cfg.RotateInterval,
		compress:       cfg.Compress,
	}
	if err := b.openFile(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *File) openFile() error {
	file, err := os.OpenFile(b.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, b.mode)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	b.file = file
	if b.w == nil {
		b.w = bufio.NewWriterSize(file, b.bufferSize)
	} else {
		b.w.Reset(file)
	}
	b.size = info.Size()
	b.lastRotate = time.Now()
	return nil
}

// Write implements core.Backend.
func (b *File) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.file == nil {
		return 0, os.ErrClosed
	}
	if err := b.rotateIfNeeded(int64(len(p))); err != nil {
		return 0, err
	}
	n, err := b.w.Write(p)
	b.size += int64(n)
	return n, err
}

func (b *File) rotateIfNeeded(incoming int64) error {
	rotate := false
	// A single record larger than MaxSize still goes into a fresh file
	// whole, so an empty file never rotates.
	if b.maxSize > 0 && b.size > 0 && b.size+incoming > b.maxSize {
		rotate = true
	}
	if b.rotateInterval > 0 && time.Since(b.lastRotate) >= b.rotateInterval {
		rotate = true
	}
	if !rotate {
		return nil
	}
	return b.rotate()
}

func (b *File) rotate() error {
	if err := b.w.Flush(); err != nil {
		return err
	}
	if err := b.file.Sync(); err != nil {
		return err
	}
	if err := b.file.Close(); err != nil {
		return err
	}

	rotated := b.backupName(time.Now())
	if err := os.Rename(b.path, rotated); err != nil {
		// Keep appending to the old file rather than losing the handle.
		if openErr := b.openFile(); openErr != nil {
			return fmt.Errorf("backend: rotate %s: %v, reopen: %w", b.path, err, openErr)
		}
		return err
	}

	if err := b.openFile(); err != nil {
		return err
	}
	if b.compress {
		// A failed compression keeps the plain backup; rotation itself
		// already succeeded.
		b.compressBackup(rotated)
	}
	b.pruneBackups()
	return nil
}

// backupName picks a timestamped name next to the log file, disambiguating
// rotations that land in the same second.
func (b *File) backupName(now time.Time) string {
	stamp := now.Format("2006-01-02T15-04-05")
	name := fmt.Sprintf("%s.%s", b.path, stamp)
	for i := 1; backupExists(name); i++ {
		name = fmt.Sprintf("%s.%s-%d", b.path, stamp, i)
	}
	return name
}

func backupExists(name string) bool {
	if _, err := os.Lstat(name); err == nil {
		return true
	}
	_, err := os.Lstat(name + ".gz")
	return err == nil
}

func (b *File) compressBackup(name string) error {
	src, err := os.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(name+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, b.mode)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(dst)
	_, err = io.Copy(zw, src)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name + ".gz")
		return err
	}
	return os.Remove(name)
}

// pruneBackups removes the oldest rotated files past MaxBackups.
func (b *File) pruneBackups() {
	if b.maxBackups <= 0 {
		return
	}
	matches, err := filepath.Glob(b.path + ".*")
	if err != nil {
		return
	}
	type backup struct {
		name string
		mod  time.Time
	}
	backups := make([]backup, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil {
			continue
		}
		backups = append(backups, backup{m, info.ModTime()})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].mod.Before(backups[j].mod)
	})
	for len(backups) > b.maxBackups {
		if os.Remove(backups[0].name) != nil {
			return
		}
		backups = backups[1:]
	}
}

// Flush implements core.Backend: it empties the write buffer and fsyncs.
func (b *File) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.file == nil {
		return os.ErrClosed
	}
	if err := b.w.Flush(); err != nil {
		return err
	}
	return b.file.Sync()
}

// IsOpen reports whether the backend still holds a usable file handle.
func (b *File) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.file != nil
}

// Path returns the log file path.
func (b *File) Path() string { return b.path }

// Close flushes, syncs and closes the file. Further writes fail. Close is
// idempotent.
func (b *File) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.file == nil {
		return nil
	}
	err := b.w.Flush()
	if serr := b.file.Sync(); err == nil {
		err = serr
	}
	if cerr := b.file.Close(); err == nil {
		err = cerr
	}
	b.file = nil
	return err
}

// WantsSynchronization reports false: the backend serializes its own writes.
func (b *File) WantsSynchronization() bool { return false }
