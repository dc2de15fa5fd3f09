package bitcask

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rohanchhabra/bitkv/internal/dberr"
	"github.com/rohanchhabra/bitkv/internal/index"
	"github.com/rohanchhabra/bitkv/internal/storage"
)

// location is the KeyDir's value: the byte offset at which a key's current
// value begins in the log, and its length.
type location struct {
	offset int64
	length int32
}

// Log pairs a single locked on-disk append log with the in-memory KeyDir
// built from it. It is the unit New and Compact both build and swap.
type Log struct {
	file              *storage.LockedFile
	keyDir            *index.Index[location]
	filePerm, dirPerm os.FileMode
}

// openLog opens path (creating it with filePerm, and any missing parent
// directory with dirPerm, if absent) and reconstructs its KeyDir by a full
// linear scan from offset 0, truncating away any trailing partial entry
// left by a crash mid-append.
func openLog(path string, filePerm, dirPerm os.FileMode) (*Log, error) {
	file, err := storage.Open(path, filePerm, dirPerm)
	if err != nil {
		return nil, dberr.IO("open log", err)
	}

	l := &Log{file: file, keyDir: index.New[location](), filePerm: filePerm, dirPerm: dirPerm}
	if err := l.rebuildKeyDir(); err != nil {
		file.Close()
		return nil, err
	}
	return l, nil
}

// Path returns the underlying file's path.
func (l *Log) Path() string { return l.file.Path() }

// rebuildKeyDir scans the log from offset 0, replaying each entry into the
// KeyDir, and truncates the file at the first trailing partial entry it
// finds — the only form of corruption the engine tolerates, since a crash
// can only ever leave an incomplete write at the very end of the log.
func (l *Log) rebuildKeyDir() error {
	size, err := l.file.Size()
	if err != nil {
		return dberr.IO("stat log", err)
	}

	var offset int64
	for offset < size {
		consumed, err := l.scanOne(offset, size)
		if err != nil {
			return err
		}
		if consumed == 0 {
			if err := l.file.Truncate(offset); err != nil {
				return dberr.IO("truncate partial entry", err)
			}
			break
		}
		offset += consumed
	}
	return nil
}

// scanOne reads and replays the single entry starting at offset. It
// returns the number of bytes the entry occupies, or 0 if the bytes
// remaining before size do not form a complete entry.
func (l *Log) scanOne(offset, size int64) (int64, error) {
	if size-offset < headerSize {
		return 0, nil
	}

	header := make([]byte, headerSize)
	if err := l.readAtFull(header, offset); err != nil {
		return 0, err
	}
	keyLen, marker := decodeHeader(header)

	keyStart := offset + headerSize
	valueOffset := keyStart + int64(keyLen)
	if valueOffset > size {
		return 0, nil
	}

	key := make([]byte, keyLen)
	if keyLen > 0 {
		if err := l.readAtFull(key, keyStart); err != nil {
			return 0, err
		}
	}

	if marker < 0 {
		l.keyDir.Delete(key)
		return valueOffset - offset, nil
	}

	valueLen := int64(marker)
	if valueOffset+valueLen > size {
		return 0, nil
	}
	l.keyDir.Set(key, location{offset: valueOffset, length: marker})
	return valueOffset + valueLen - offset, nil
}

// readAtFull reads exactly len(buf) bytes at offset, treating a short read
// as a fatal I/O error (the caller has already bounds-checked against the
// known file size, so a short read here means something other than a
// trailing partial entry went wrong).
func (l *Log) readAtFull(buf []byte, offset int64) error {
	n, err := l.file.ReadAt(buf, offset)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return dberr.IO("scan log entry", err)
	}
	return nil
}

// appendEntry writes data at the end of the log and returns the offset it
// landed at.
func (l *Log) appendEntry(data []byte) (int64, error) {
	offset, err := l.file.Append(data)
	if err != nil {
		return 0, dberr.IO("append log entry", err)
	}
	return offset, nil
}

// readValue reads the value bytes described by loc.
func (l *Log) readValue(loc location) ([]byte, error) {
	if loc.length == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, loc.length)
	if err := l.readAtFull(buf, loc.offset); err != nil {
		return nil, err
	}
	return buf, nil
}

// size returns the current log file length.
func (l *Log) size() (int64, error) {
	size, err := l.file.Size()
	if err != nil {
		return 0, dberr.IO("stat log", err)
	}
	return size, nil
}

// flush forces all previously appended entries to stable storage.
func (l *Log) flush() error {
	if err := l.file.Sync(); err != nil {
		return dberr.IO("flush log", err)
	}
	return nil
}

// debugDump writes one line per live KeyDir entry (key, offset, length),
// in ascending key order, for use in tests inspecting recovery/compaction
// output without asserting on exact scan results.
func (l *Log) debugDump(w io.Writer) error {
	for _, e := range l.keyDir.All() {
		if _, err := fmt.Fprintf(w, "%q offset=%d length=%d\n", e.Key, e.Value.offset, e.Value.length); err != nil {
			return err
		}
	}
	return nil
}

// reset truncates the log to zero length and discards its KeyDir, used to
// prepare a freshly opened compaction target even if a stale `.new` file
// from a previous crashed compaction was left behind.
func (l *Log) reset() error {
	if err := l.file.Truncate(0); err != nil {
		return dberr.IO("truncate new log", err)
	}
	l.keyDir = index.New[location]()
	return nil
}

// replaceWith atomically renames other's file over l's path and adopts
// its handle and KeyDir; other must not be used afterward.
func (l *Log) replaceWith(other *Log) error {
	if err := l.file.ReplaceWith(other.file); err != nil {
		return dberr.IO("replace log", err)
	}
	l.keyDir = other.keyDir
	return nil
}

// close releases the log's file handle and lock.
func (l *Log) close() error {
	if err := l.file.Close(); err != nil {
		return dberr.IO("close log", err)
	}
	return nil
}
