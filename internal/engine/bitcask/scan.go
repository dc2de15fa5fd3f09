package bitcask

import (
	"github.com/rohanchhabra/bitkv/internal/engine"
	"github.com/rohanchhabra/bitkv/internal/index"
)

// iterator is a double-ended ScanIterator over a KeyDir range snapshot.
// Unlike the Memory engine's iterator, each entry's value bytes are read
// from the log lazily, on the Next/NextBack call that yields it, rather
// than eagerly materialized when the scan is constructed.
type iterator struct {
	log    *Log
	cursor *index.Cursor[location]
}

func newScanIterator(log *Log, entries []index.Entry[location]) *iterator {
	return &iterator{log: log, cursor: index.NewCursor(entries)}
}

func (it *iterator) Next() (engine.KVPair, bool, error) {
	e, ok := it.cursor.Next()
	return it.resolve(e, ok)
}

func (it *iterator) NextBack() (engine.KVPair, bool, error) {
	e, ok := it.cursor.NextBack()
	return it.resolve(e, ok)
}

func (it *iterator) resolve(e index.Entry[location], ok bool) (engine.KVPair, bool, error) {
	if !ok {
		return engine.KVPair{}, false, nil
	}
	value, err := it.log.readValue(e.Value)
	if err != nil {
		return engine.KVPair{}, false, err
	}
	return engine.KVPair{Key: e.Key, Value: value}, true, nil
}
