package bitcask

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenLogRebuildsKeyDirFromScratch(t *testing.T) {
	e1, err := encodePut([]byte("a"), []byte{1})
	require.NoError(t, err)
	e2, err := encodePut([]byte("b"), []byte{2})
	require.NoError(t, err)
	e3 := encodeTombstone([]byte("a"))

	data := append(append(append([]byte{}, e1...), e2...), e3...)
	path := filepath.Join(t.TempDir(), "db.log")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l, err := openLog(path, 0o644, 0o755)
	require.NoError(t, err)
	defer l.close()

	_, ok := l.keyDir.Get([]byte("a"))
	require.False(t, ok)
	loc, ok := l.keyDir.Get([]byte("b"))
	require.True(t, ok)

	value, err := l.readValue(loc)
	require.NoError(t, err)
	require.Equal(t, []byte{2}, value)
}

func TestLogDebugDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.log")
	l, err := openLog(path, 0o644, 0o755)
	require.NoError(t, err)
	defer l.close()

	data, err := encodePut([]byte("k"), []byte{9})
	require.NoError(t, err)
	offset, err := l.appendEntry(data)
	require.NoError(t, err)
	l.keyDir.Set([]byte("k"), location{offset: offset + headerSize + 1, length: 1})

	var sb strings.Builder
	require.NoError(t, l.debugDump(&sb))
	require.Contains(t, sb.String(), `"k"`)
	require.Contains(t, sb.String(), "length=1")
}
