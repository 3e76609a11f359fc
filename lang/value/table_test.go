package value_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvm/loxvm/lang/value"
)

func internedKey(s string) *value.ObjString {
	k := value.NewString(s)
	return k
}

func TestTableGetSetDelete(t *testing.T) {
	var tbl value.Table
	key := internedKey("count")

	_, ok := tbl.Get(key)
	assert.False(t, ok, "missing key should report not found")

	isNew := tbl.Set(key, value.Number(1))
	assert.True(t, isNew, "first insert of a key is new")

	v, ok := tbl.Get(key)
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)

	isNew = tbl.Set(key, value.Number(2))
	assert.False(t, isNew, "overwriting an existing key is not new")
	v, _ = tbl.Get(key)
	assert.Equal(t, value.Number(2), v)

	require.True(t, tbl.Delete(key))
	_, ok = tbl.Get(key)
	assert.False(t, ok, "deleted key should no longer be found")
	assert.False(t, tbl.Delete(key), "deleting twice reports not found the second time")
}

// TestTableTombstoneProbing checks that deleting a key in the middle of a
// probe chain does not hide the keys that come after it, which is exactly
// what the tombstone encoding exists to guarantee.
func TestTableTombstoneProbing(t *testing.T) {
	var tbl value.Table
	keys := make([]*value.ObjString, 0, 64)
	for i := 0; i < 64; i++ {
		k := internedKey(fmt.Sprintf("key%02d", i))
		keys = append(keys, k)
		tbl.Set(k, value.Number(float64(i)))
	}

	for i := 0; i < len(keys); i += 2 {
		require.True(t, tbl.Delete(keys[i]))
	}

	for i, k := range keys {
		v, ok := tbl.Get(k)
		if i%2 == 0 {
			assert.False(t, ok, "key%02d should have been deleted", i)
			continue
		}
		require.True(t, ok, "key%02d should still be reachable past a tombstone", i)
		assert.Equal(t, value.Number(float64(i)), v)
	}
}

func TestTableGrows(t *testing.T) {
	var tbl value.Table
	const n = 200
	for i := 0; i < n; i++ {
		tbl.Set(internedKey(fmt.Sprintf("g%d", i)), value.Number(float64(i)))
	}

	count := 0
	tbl.Walk(func(_ *value.ObjString, _ value.Value) { count++ })
	assert.Equal(t, n, count, "every inserted key should survive growth")
}

func TestTableFindString(t *testing.T) {
	var tbl value.Table
	str := value.NewString("hello")
	tbl.Set(str, value.True)

	found := tbl.FindString("hello", value.FNV1a("hello"))
	require.NotNil(t, found)
	assert.Same(t, str, found)

	assert.Nil(t, tbl.FindString("goodbye", value.FNV1a("goodbye")))
}

func TestTableCopyTo(t *testing.T) {
	var src, dst value.Table
	a, b := internedKey("a"), internedKey("b")
	src.Set(a, value.Number(1))
	src.Set(b, value.Number(2))

	src.CopyTo(&dst)

	v, ok := dst.Get(a)
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)
	v, ok = dst.Get(b)
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)
}

func TestRemoveWhite(t *testing.T) {
	var tbl value.Table
	marked := value.NewString("kept")
	unmarked := value.NewString("dropped")
	value.SetMarked(marked, true)

	tbl.Set(marked, value.True)
	tbl.Set(unmarked, value.True)

	value.RemoveWhite(&tbl)

	_, ok := tbl.Get(marked)
	assert.True(t, ok, "marked entries survive RemoveWhite")
	_, ok = tbl.Get(unmarked)
	assert.False(t, ok, "unmarked entries are deleted by RemoveWhite")
}
