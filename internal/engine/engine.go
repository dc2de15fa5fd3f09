// Package engine defines the storage engine contract every implementation
// (Memory, Bitcask) satisfies: point get/set/delete, an ordered restartable
// range scan, a prefix-scan default derived from it, flush, and a status
// snapshot. All implementations are single-threaded with respect to their
// own state.
package engine

import "github.com/rohanchhabra/bitkv/internal/index"

// Status is a snapshot of an engine's accounting. Size is the logical user
// data size; the three disk fields are zero for non-persistent engines.
type Status struct {
	Name            string
	KeyCount        uint64
	Size            uint64
	TotalDiskSize   uint64
	LiveDiskSize    uint64
	GarbageDiskSize uint64
}

// BoundKind and Bound/Range mirror internal/index's, re-exported here so
// callers of the Engine contract never need to import internal/index
// directly.
type BoundKind = index.BoundKind

const (
	Unbounded = index.Unbounded
	Included  = index.Included
	Excluded  = index.Excluded
)

type Bound = index.Bound
type Range = index.Range

// RangeAll scans every key.
func RangeAll() Range { return Range{} }

// RangeFrom scans [start, ...).
func RangeFrom(start []byte) Range {
	return Range{Start: Bound{Kind: Included, Key: start}}
}

// RangeTo scans [..., end).
func RangeTo(end []byte) Range {
	return Range{End: Bound{Kind: Excluded, Key: end}}
}

// RangeBetween scans [start, end).
func RangeBetween(start, end []byte) Range {
	return Range{
		Start: Bound{Kind: Included, Key: start},
		End:   Bound{Kind: Excluded, Key: end},
	}
}

// PrefixRange derives the range [prefix, next(prefix)) that scan_prefix
// uses, where next(p) is the shortest byte sequence obtained by stripping
// trailing 0xFF bytes from p and incrementing the last remaining byte. If
// p is all 0xFF (or empty), the upper bound is unbounded. This is the one
// "derived default" operation spec'd once at the contract level and
// shared by every Engine implementation rather than reimplemented per
// engine.
func PrefixRange(prefix []byte) Range {
	r := Range{Start: Bound{Kind: Included, Key: prefix}}

	i := len(prefix) - 1
	for i >= 0 && prefix[i] == 0xff {
		i--
	}
	if i < 0 {
		return r
	}

	upper := make([]byte, i+1)
	copy(upper, prefix[:i+1])
	upper[i]++
	r.End = Bound{Kind: Excluded, Key: upper}
	return r
}

// KVPair is one key/value pair yielded by a ScanIterator.
type KVPair struct {
	Key   []byte
	Value []byte
}

// ScanIterator is a lazy, restartable, double-ended ordered sequence of
// key/value pairs. It is produced by Scan/ScanPrefix and borrows its
// engine exclusively for its lifetime: no mutating call may be made on
// the engine while an iterator from it is still in use.
type ScanIterator interface {
	// Next returns the next pair in ascending key order. ok is false once
	// the range is exhausted (from either direction).
	Next() (pair KVPair, ok bool, err error)
	// NextBack returns the next pair in descending key order. Next and
	// NextBack may be interleaved; together they partition the
	// remaining range.
	NextBack() (pair KVPair, ok bool, err error)
}

// Engine is the contract every storage engine implementation satisfies.
type Engine interface {
	// Set inserts or overwrites key with value.
	Set(key, value []byte) error
	// Get returns the current value for key, or ok=false if absent.
	Get(key []byte) (value []byte, ok bool, err error)
	// Delete removes key if present. A no-op on an absent key still
	// succeeds.
	Delete(key []byte) error
	// Flush forces all buffered writes and OS caches for this engine's
	// persistent state to stable storage. A no-op for non-persistent
	// engines.
	Flush() error
	// Status returns a snapshot of the engine's accounting.
	Status() (Status, error)
	// Scan returns an iterator over keys within r.
	Scan(r Range) ScanIterator
	// ScanPrefix returns an iterator over keys with the given prefix.
	ScanPrefix(prefix []byte) ScanIterator
	// Close releases any resources (file handles, locks) held by the
	// engine, after a best-effort Flush. Safe to call once.
	Close() error
}
