// Package index provides a generic ordered byte-string-keyed map with
// bounded ascending/descending range queries. It backs both the Memory
// engine's value store and the Bitcask engine's KeyDir, mirroring the
// shape of a single BTreeMap<Vec<u8>, _> used for both in the reference
// implementation this engine was distilled from.
package index

import (
	"bytes"

	"github.com/google/btree"
)

// degree is the btree branching factor. 32 is the value google/btree's
// own benchmarks settle on for byte-slice keys of modest size.
const degree = 32

// Entry is one key/value pair as returned by Range.
type Entry[V any] struct {
	Key   []byte
	Value V
}

// Index is an ordered map from byte-string key to V, backed by a B-tree.
type Index[V any] struct {
	tree *btree.BTreeG[Entry[V]]
}

// New returns an empty Index.
func New[V any]() *Index[V] {
	return &Index[V]{
		tree: btree.NewG(degree, func(a, b Entry[V]) bool {
			return bytes.Compare(a.Key, b.Key) < 0
		}),
	}
}

// Set inserts or overwrites the value for key.
func (idx *Index[V]) Set(key []byte, value V) {
	idx.tree.ReplaceOrInsert(Entry[V]{Key: key, Value: value})
}

// Delete removes key, if present. Reports whether it was present.
func (idx *Index[V]) Delete(key []byte) bool {
	_, ok := idx.tree.Delete(Entry[V]{Key: key})
	return ok
}

// Get looks up key.
func (idx *Index[V]) Get(key []byte) (V, bool) {
	e, ok := idx.tree.Get(Entry[V]{Key: key})
	return e.Value, ok
}

// Len returns the number of keys.
func (idx *Index[V]) Len() int {
	return idx.tree.Len()
}

// BoundKind classifies one end of a Range.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is one endpoint of a Range.
type Bound struct {
	Kind BoundKind
	Key  []byte
}

// Range is a half-open-by-default key range; Start/End independently
// select Unbounded, Included, or Excluded semantics.
type Range struct {
	Start Bound
	End   Bound
}

// contains reports whether key falls within r.
func (r Range) contains(key []byte) bool {
	switch r.Start.Kind {
	case Included:
		if bytes.Compare(key, r.Start.Key) < 0 {
			return false
		}
	case Excluded:
		if bytes.Compare(key, r.Start.Key) <= 0 {
			return false
		}
	}
	switch r.End.Kind {
	case Included:
		if bytes.Compare(key, r.End.Key) > 0 {
			return false
		}
	case Excluded:
		if bytes.Compare(key, r.End.Key) >= 0 {
			return false
		}
	}
	return true
}

// pastEnd reports whether key is strictly beyond r's End bound, allowing
// ascending iteration to stop early once it is true.
func (r Range) pastEnd(key []byte) bool {
	switch r.End.Kind {
	case Included:
		return bytes.Compare(key, r.End.Key) > 0
	case Excluded:
		return bytes.Compare(key, r.End.Key) >= 0
	default:
		return false
	}
}

// Range returns the entries whose keys fall within r, in ascending key
// order. The engine is single-threaded and holds exclusive access for the
// lifetime of any scan, so a snapshot slice is equivalent to a live cursor
// and far simpler to make double-ended in Go, which has no borrow checker
// to keep a live B-tree range paired with mutable file access safely
// across calls.
func (idx *Index[V]) Range(r Range) []Entry[V] {
	var out []Entry[V]
	visit := func(e Entry[V]) bool {
		if r.pastEnd(e.Key) {
			return false
		}
		if r.contains(e.Key) {
			out = append(out, e)
		}
		return true
	}

	switch r.Start.Kind {
	case Unbounded:
		idx.tree.Ascend(visit)
	default:
		idx.tree.AscendGreaterOrEqual(Entry[V]{Key: r.Start.Key}, visit)
	}
	return out
}

// All returns every entry in ascending key order.
func (idx *Index[V]) All() []Entry[V] {
	return idx.Range(Range{})
}

// Cursor walks a fixed snapshot of entries from both ends, advancing a
// front index on Next and retreating a back index on NextBack; the two
// may be interleaved and together partition the remaining window. Shared
// by every Engine implementation's ScanIterator so each only has to
// supply how a single Entry[V] becomes a result pair.
type Cursor[V any] struct {
	entries []Entry[V]
	lo, hi  int
}

// NewCursor returns a Cursor over entries (typically the result of Range).
func NewCursor[V any](entries []Entry[V]) *Cursor[V] {
	return &Cursor[V]{entries: entries, hi: len(entries)}
}

// Next returns the next entry in ascending order, or ok=false if the
// window is exhausted.
func (c *Cursor[V]) Next() (Entry[V], bool) {
	if c.lo >= c.hi {
		return Entry[V]{}, false
	}
	e := c.entries[c.lo]
	c.lo++
	return e, true
}

// NextBack returns the next entry in descending order, or ok=false if the
// window is exhausted.
func (c *Cursor[V]) NextBack() (Entry[V], bool) {
	if c.lo >= c.hi {
		return Entry[V]{}, false
	}
	c.hi--
	return c.entries[c.hi], true
}
