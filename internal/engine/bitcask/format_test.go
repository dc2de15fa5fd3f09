package bitcask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePutHeader(t *testing.T) {
	data, err := encodePut([]byte("key"), []byte("value!"))
	require.NoError(t, err)

	keyLen, marker := decodeHeader(data[:headerSize])
	assert.Equal(t, uint32(3), keyLen)
	assert.Equal(t, int32(6), marker)
	assert.Equal(t, "key", string(data[headerSize:headerSize+3]))
	assert.Equal(t, "value!", string(data[headerSize+3:]))
}

func TestEncodeTombstoneHeader(t *testing.T) {
	data := encodeTombstone([]byte("gone"))

	keyLen, marker := decodeHeader(data[:headerSize])
	assert.Equal(t, uint32(4), keyLen)
	assert.Equal(t, int32(-1), marker)
	assert.Len(t, data, headerSize+4)
}

func TestEncodeEmptyKeyAndValue(t *testing.T) {
	data, err := encodePut(nil, nil)
	require.NoError(t, err)
	assert.Len(t, data, headerSize)

	keyLen, marker := decodeHeader(data)
	assert.Zero(t, keyLen)
	assert.Zero(t, marker)
}
