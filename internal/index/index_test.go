package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(entries []Entry[int]) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = string(e.Key)
	}
	return out
}

func TestSetGetDelete(t *testing.T) {
	idx := New[int]()
	idx.Set([]byte("b"), 2)
	idx.Set([]byte("a"), 1)

	v, ok := idx.Get([]byte("a"))
	require.True(t, ok)
	assert.Equal(t, 1, v)

	require.True(t, idx.Delete([]byte("a")))
	_, ok = idx.Get([]byte("a"))
	assert.False(t, ok)
	assert.False(t, idx.Delete([]byte("a")))
	assert.Equal(t, 1, idx.Len())
}

func TestRangeAscendingOrder(t *testing.T) {
	idx := New[int]()
	for i, k := range []string{"d", "b", "a", "c", ""} {
		idx.Set([]byte(k), i)
	}

	assert.Equal(t, []string{"", "a", "b", "c", "d"}, keys(idx.All()))
}

func TestRangeBounds(t *testing.T) {
	idx := New[int]()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		idx.Set([]byte(k), 0)
	}

	t.Run("included start excluded end", func(t *testing.T) {
		got := idx.Range(Range{
			Start: Bound{Kind: Included, Key: []byte("b")},
			End:   Bound{Kind: Excluded, Key: []byte("d")},
		})
		assert.Equal(t, []string{"b", "c"}, keys(got))
	})

	t.Run("excluded start included end", func(t *testing.T) {
		got := idx.Range(Range{
			Start: Bound{Kind: Excluded, Key: []byte("b")},
			End:   Bound{Kind: Included, Key: []byte("d")},
		})
		assert.Equal(t, []string{"c", "d"}, keys(got))
	})

	t.Run("unbounded start", func(t *testing.T) {
		got := idx.Range(Range{End: Bound{Kind: Excluded, Key: []byte("b")}})
		assert.Equal(t, []string{"a"}, keys(got))
	})

	t.Run("unbounded end", func(t *testing.T) {
		got := idx.Range(Range{Start: Bound{Kind: Included, Key: []byte("d")}})
		assert.Equal(t, []string{"d", "e"}, keys(got))
	})

	t.Run("fully unbounded", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys(idx.Range(Range{})))
	})
}
