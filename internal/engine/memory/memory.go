// Package memory provides a reference key/value engine backed by an
// ordered in-memory map. It is used as an oracle for property tests of
// the Engine contract: Bitcask must produce identical observable results
// to Memory for any sequence of operations.
package memory

import (
	"github.com/rohanchhabra/bitkv/internal/engine"
	"github.com/rohanchhabra/bitkv/internal/index"
)

// Memory is an in-memory Engine implementation. All operations are
// infallible in practice but still return an error for interface
// uniformity with Bitcask.
type Memory struct {
	data *index.Index[[]byte]
}

// New returns an empty Memory engine.
func New() *Memory {
	return &Memory{data: index.New[[]byte]()}
}

func (m *Memory) Set(key, value []byte) error {
	cp := append([]byte{}, value...)
	m.data.Set(append([]byte(nil), key...), cp)
	return nil
}

func (m *Memory) Get(key []byte) ([]byte, bool, error) {
	v, ok := m.data.Get(key)
	return v, ok, nil
}

func (m *Memory) Delete(key []byte) error {
	m.data.Delete(key)
	return nil
}

func (m *Memory) Flush() error { return nil }

func (m *Memory) Status() (engine.Status, error) {
	var size uint64
	for _, e := range m.data.All() {
		size += uint64(len(e.Key)) + uint64(len(e.Value))
	}
	return engine.Status{
		Name:     "memory",
		KeyCount: uint64(m.data.Len()),
		Size:     size,
	}, nil
}

func (m *Memory) Scan(r engine.Range) engine.ScanIterator {
	return newIterator(m.data.Range(r))
}

func (m *Memory) ScanPrefix(prefix []byte) engine.ScanIterator {
	return m.Scan(engine.PrefixRange(prefix))
}

func (m *Memory) Close() error { return nil }

// iterator adapts an index.Cursor to engine.ScanIterator: each entry's
// value is already the stored value, so no lazy disk read is needed here
// (contrast internal/engine/bitcask's iterator, which reads lazily).
type iterator struct {
	cursor *index.Cursor[[]byte]
}

func newIterator(entries []index.Entry[[]byte]) *iterator {
	return &iterator{cursor: index.NewCursor(entries)}
}

func (it *iterator) Next() (engine.KVPair, bool, error) {
	e, ok := it.cursor.Next()
	if !ok {
		return engine.KVPair{}, false, nil
	}
	return engine.KVPair{Key: e.Key, Value: e.Value}, true, nil
}

func (it *iterator) NextBack() (engine.KVPair, bool, error) {
	e, ok := it.cursor.NextBack()
	if !ok {
		return engine.KVPair{}, false, nil
	}
	return engine.KVPair{Key: e.Key, Value: e.Value}, true, nil
}
