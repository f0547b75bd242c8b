package factorcache

import (
	"math/big"
	"testing"

	"github.com/kryc/aliquot/primefactors"
	"github.com/stretchr/testify/require"
)

func factorsOf(t *testing.T, pairs ...int64) *primefactors.Factors {
	t.Helper()
	f := primefactors.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		f.AddFactorN(big.NewInt(pairs[i]), uint64(pairs[i+1]))
	}
	return f
}

func TestInsertLookupRoundTrip(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	factors := factorsOf(t, 2, 2, 5, 2) // 100 = 2^2 * 5^2
	require.NoError(t, cache.Insert(factors))

	got, ok, err := cache.Lookup(big.NewInt(100))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2), got.ExponentOf(big.NewInt(2)))
	require.Equal(t, uint64(2), got.ExponentOf(big.NewInt(5)))
}

func TestLookupMissReturnsFalse(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	_, ok, err := cache.Lookup(big.NewInt(42))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClosedCacheIsNoop(t *testing.T) {
	cache, err := New("")
	require.NoError(t, err)
	require.False(t, cache.IsOpen())

	require.NoError(t, cache.Insert(factorsOf(t, 2, 1)))
	_, ok, err := cache.Lookup(big.NewInt(2))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStageAndFlush(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	cache.Stage(factorsOf(t, 2, 2, 3, 1)) // 12
	cache.Stage(factorsOf(t, 3, 1, 5, 1)) // 15
	require.NoError(t, cache.Flush())

	got, ok, err := cache.Lookup(big.NewInt(12))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2), got.ExponentOf(big.NewInt(2)))

	got, ok, err = cache.Lookup(big.NewInt(15))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1), got.ExponentOf(big.NewInt(5)))
}

func TestMultipleInsertsStaySearchable(t *testing.T) {
	cache, err := New(t.TempDir())
	require.NoError(t, err)

	products := []int64{6, 100, 12, 2}
	for _, p := range products {
		require.NoError(t, cache.Insert(factorsOf(t, p, 1)))
	}
	require.NoError(t, cache.Sort())

	for _, p := range products {
		_, ok, err := cache.Lookup(big.NewInt(p))
		require.NoError(t, err)
		require.True(t, ok, "product %d", p)
	}
}
