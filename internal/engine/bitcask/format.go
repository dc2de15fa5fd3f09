package bitcask

import (
	"encoding/binary"
	"fmt"
	"math"
)

// headerSize is the fixed 8-byte header preceding every log entry: a
// 4-byte big-endian unsigned key length followed by a 4-byte big-endian
// signed value marker. No magic number, version, checksum, or padding.
const headerSize = 8

// tombstoneMarker is the value_marker sentinel denoting a deleted key.
const tombstoneMarker int32 = -1

// encodePut returns the on-disk bytes for a Put entry. It rejects values
// that would overflow the signed 32-bit marker rather than silently
// truncating at the cast boundary.
func encodePut(key, value []byte) ([]byte, error) {
	if len(value) > math.MaxInt32 {
		return nil, fmt.Errorf("value length %d exceeds maximum %d", len(value), math.MaxInt32)
	}
	return encodeEntry(key, value, int32(len(value))), nil
}

// encodeTombstone returns the on-disk bytes for a Tombstone entry.
func encodeTombstone(key []byte) []byte {
	return encodeEntry(key, nil, tombstoneMarker)
}

func encodeEntry(key, value []byte, marker int32) []byte {
	buf := make([]byte, headerSize+len(key)+len(value))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(key)))
	binary.BigEndian.PutUint32(buf[4:8], uint32(marker))
	copy(buf[headerSize:headerSize+len(key)], key)
	copy(buf[headerSize+len(key):], value)
	return buf
}

// decodeHeader parses an 8-byte header into the key length and value
// marker it encodes.
func decodeHeader(buf []byte) (keyLen uint32, marker int32) {
	keyLen = binary.BigEndian.Uint32(buf[0:4])
	marker = int32(binary.BigEndian.Uint32(buf[4:8]))
	return keyLen, marker
}
