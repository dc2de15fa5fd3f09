// Package storage provides the single-file, exclusively-locked append log
// that backs the Bitcask engine. Unlike a buffered writer that batches
// flushes on size or interval thresholds, every Append here lands in the OS
// page cache immediately; only an explicit Sync forces it to stable storage.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// DefaultFilePerm and DefaultDirPerm are the permissions bitkv falls back
// to when the caller has no configured preference.
const (
	DefaultFilePerm = os.FileMode(0o644)
	DefaultDirPerm  = os.FileMode(0o755)
)

// LockedFile is an os.File held under an exclusive advisory lock for its
// entire lifetime. It is the sole persistent artifact for a Bitcask log:
// there are no sidecar files and no internal buffering.
type LockedFile struct {
	file *os.File
	lock *flock.Flock
	path string
}

// Open creates parent directories if missing (using dirPerm), opens path
// read/write (creating it with filePerm if absent), and acquires a
// non-blocking exclusive lock. TryLock fails fast instead of blocking, so a
// second opener of the same path observes "already open" immediately
// rather than hanging.
func Open(path string, filePerm, dirPerm os.FileMode) (*LockedFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePerm)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("lock log file %s: %w", path, err)
	}
	if !locked {
		file.Close()
		return nil, fmt.Errorf("log file %s is already open by another process", path)
	}

	return &LockedFile{file: file, lock: lock, path: path}, nil
}

// Path returns the filesystem path this handle was opened against.
func (f *LockedFile) Path() string { return f.path }

// Size returns the current file length.
func (f *LockedFile) Size() (int64, error) {
	info, err := f.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", f.path, err)
	}
	return info.Size(), nil
}

// Append writes data at the current end of file and returns the offset it
// was written at.
func (f *LockedFile) Append(data []byte) (int64, error) {
	offset, err := f.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek to end of %s: %w", f.path, err)
	}
	if _, err := f.file.Write(data); err != nil {
		return 0, fmt.Errorf("append to %s: %w", f.path, err)
	}
	return offset, nil
}

// ReadAt reads into buf starting at offset, with os.File.ReadAt semantics:
// the returned error is io.EOF when fewer than len(buf) bytes remain. The
// log's recovery scan detects a trailing partial entry by checking lengths
// against the file size before reading, so its callers treat any short
// read here as fatal.
func (f *LockedFile) ReadAt(buf []byte, offset int64) (int, error) {
	return f.file.ReadAt(buf, offset)
}

// Truncate shrinks the file to size bytes.
func (f *LockedFile) Truncate(size int64) error {
	if err := f.file.Truncate(size); err != nil {
		return fmt.Errorf("truncate %s to %d: %w", f.path, size, err)
	}
	return nil
}

// Sync forces all previously written bytes to stable storage.
func (f *LockedFile) Sync() error {
	if err := f.file.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", f.path, err)
	}
	return nil
}

// ReplaceWith atomically renames other's file over f's path, then takes
// over other's open handle and lock. The rename carries the open handle
// with it on POSIX, so other must not be used after this returns (whether
// it errors or not); after the rename, f's previous handle is closed and
// unlocked before other's is adopted.
func (f *LockedFile) ReplaceWith(other *LockedFile) error {
	if err := os.Rename(other.path, f.path); err != nil {
		return fmt.Errorf("rename %s over %s: %w", other.path, f.path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	f.file = other.file
	f.lock = other.lock
	return nil
}

// Close unlocks and closes the underlying file handle. Safe to call once.
func (f *LockedFile) Close() error {
	var errs []error
	if err := f.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("unlock %s: %w", f.path, err))
	}
	if err := f.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", f.path, err))
	}
	return errors.Join(errs...)
}
