// Package bitcask implements the durable, log-structured Engine: a single
// append-only log file paired with an in-memory KeyDir mapping each live
// key to the (offset, length) of its current value in the log.
package bitcask

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rohanchhabra/bitkv/internal/dberr"
	"github.com/rohanchhabra/bitkv/internal/engine"
	"go.uber.org/zap"
)

// BitCask is a durable Engine backed by a single locked log file.
type BitCask struct {
	log *Log
}

// New opens (creating if absent, with filePerm and dirPerm) the log at
// path, reconstructing its KeyDir by a full linear scan and truncating any
// trailing partial entry left by a crash mid-append.
func New(path string, filePerm, dirPerm os.FileMode) (*BitCask, error) {
	log, err := openLog(path, filePerm, dirPerm)
	if err != nil {
		return nil, err
	}
	return &BitCask{log: log}, nil
}

// NewCompact opens path like New, then compacts immediately if garbage
// exists and its ratio of total disk size is at or above threshold.
// Thresholds <= 0 force compaction whenever any garbage exists; thresholds
// > 1 never trigger. log may be nil, in which case the decision is silent.
func NewCompact(path string, threshold float64, filePerm, dirPerm os.FileMode, log *zap.SugaredLogger) (*BitCask, error) {
	b, err := New(path, filePerm, dirPerm)
	if err != nil {
		return nil, err
	}

	st, err := b.Status()
	if err != nil {
		b.Close()
		return nil, err
	}
	if st.GarbageDiskSize == 0 {
		return b, nil
	}

	ratio := float64(st.GarbageDiskSize) / float64(st.TotalDiskSize)
	if ratio < threshold {
		return b, nil
	}

	if log != nil {
		log.Infow("bitcask: compacting on open",
			"garbage_bytes", st.GarbageDiskSize,
			"garbage_ratio", ratio,
			"total_disk_size", st.TotalDiskSize,
			"threshold", threshold)
	}
	if err := b.Compact(); err != nil {
		b.Close()
		return nil, err
	}
	if log != nil {
		st, _ := b.Status()
		log.Infow("bitcask: compaction on open complete", "total_disk_size", st.TotalDiskSize)
	}
	return b, nil
}

// Set appends a Put entry and updates the KeyDir with its new location.
func (b *BitCask) Set(key, value []byte) error {
	data, err := encodePut(key, value)
	if err != nil {
		return dberr.Value("bitcask.Set", err.Error())
	}

	offset, err := b.log.appendEntry(data)
	if err != nil {
		return err
	}

	valueOffset := offset + headerSize + int64(len(key))
	b.log.keyDir.Set(cloneBytes(key), location{offset: valueOffset, length: int32(len(value))})
	return nil
}

// Get looks up key in the KeyDir and, if present, reads its value from the
// log. It never touches the log for a key that is absent from the KeyDir.
func (b *BitCask) Get(key []byte) ([]byte, bool, error) {
	loc, ok := b.log.keyDir.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, err := b.log.readValue(loc)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Delete appends a Tombstone entry unconditionally, even if key is absent
// from the KeyDir, then removes key from the KeyDir. The unconditional
// append is intentional: it keeps a legible history and status garbage
// accounting depends on it.
func (b *BitCask) Delete(key []byte) error {
	if _, err := b.log.appendEntry(encodeTombstone(key)); err != nil {
		return err
	}
	b.log.keyDir.Delete(key)
	return nil
}

// Flush fsyncs the log file, forcing durability of all previously
// appended entries.
func (b *BitCask) Flush() error {
	return b.log.flush()
}

// Status reports KeyDir size and on-disk accounting. live_disk_size
// assumes every live key occupies exactly one 8-byte header; garbage
// therefore covers tombstones, superseded Puts, and their headers.
func (b *BitCask) Status() (engine.Status, error) {
	total, err := b.log.size()
	if err != nil {
		return engine.Status{}, err
	}

	var size uint64
	entries := b.log.keyDir.All()
	for _, e := range entries {
		size += uint64(len(e.Key)) + uint64(e.Value.length)
	}
	keyCount := uint64(len(entries))
	live := size + 8*keyCount

	return engine.Status{
		Name:            "bitcask",
		KeyCount:        keyCount,
		Size:            size,
		TotalDiskSize:   uint64(total),
		LiveDiskSize:    live,
		GarbageDiskSize: uint64(total) - live,
	}, nil
}

// Scan returns a lazy, double-ended iterator over the KeyDir range r,
// reading each value from the log on demand.
func (b *BitCask) Scan(r engine.Range) engine.ScanIterator {
	return newScanIterator(b.log, b.log.keyDir.Range(r))
}

// ScanPrefix scans the derived range [prefix, next(prefix)).
func (b *BitCask) ScanPrefix(prefix []byte) engine.ScanIterator {
	return b.Scan(engine.PrefixRange(prefix))
}

// Compact rewrites the log to contain exactly one Put entry per live key,
// in ascending key order, then atomically replaces the live log. After it
// returns, total_disk_size == live_disk_size and garbage_disk_size == 0;
// key_count and size are unchanged.
func (b *BitCask) Compact() error {
	newLog, err := openLog(compactPath(b.log.Path()), b.log.filePerm, b.log.dirPerm)
	if err != nil {
		return err
	}
	if err := newLog.reset(); err != nil {
		newLog.close()
		return err
	}

	for _, e := range b.log.keyDir.All() {
		value, err := b.log.readValue(e.Value)
		if err != nil {
			newLog.close()
			return err
		}

		data, err := encodePut(e.Key, value)
		if err != nil {
			newLog.close()
			return dberr.Value("bitcask.Compact", err.Error())
		}

		offset, err := newLog.appendEntry(data)
		if err != nil {
			newLog.close()
			return err
		}

		valueOffset := offset + headerSize + int64(len(e.Key))
		newLog.keyDir.Set(e.Key, location{offset: valueOffset, length: int32(len(value))})
	}

	if err := newLog.flush(); err != nil {
		newLog.close()
		return err
	}

	return b.log.replaceWith(newLog)
}

// Close flushes and releases the log's file handle and lock. Safe to call
// once.
func (b *BitCask) Close() error {
	if err := b.log.flush(); err != nil {
		b.log.close()
		return err
	}
	return b.log.close()
}

// compactPath derives the sibling path compaction rewrites into, by
// changing the log's extension to .new.
func compactPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".new"
}

func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
