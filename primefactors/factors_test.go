package primefactors

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func bi(v int64) *big.Int { return big.NewInt(v) }

func TestAddFactorAccumulatesExponent(t *testing.T) {
	f := New()
	f.AddFactor(bi(2))
	f.AddFactor(bi(2))
	f.AddFactorN(bi(3), 1)

	require.Equal(t, uint64(2), f.ExponentOf(bi(2)))
	require.Equal(t, uint64(1), f.ExponentOf(bi(3)))
	require.Equal(t, 2, f.Size())
	require.Equal(t, uint64(3), f.Omega())
	require.True(t, f.HasFactor(bi(2)))
	require.False(t, f.HasFactor(bi(5)))
}

func TestProduct(t *testing.T) {
	f := New()
	f.AddFactorN(bi(2), 2)
	f.AddFactorN(bi(5), 2)

	require.Equal(t, 0, bi(100).Cmp(f.Product()))
}

func TestDivisorsSorted(t *testing.T) {
	// divisors({2:2,3:1,5:1}) sorted.
	f := New()
	f.AddFactorN(bi(2), 2)
	f.AddFactorN(bi(3), 1)
	f.AddFactorN(bi(5), 1)

	want := []int64{1, 2, 3, 4, 5, 6, 10, 12, 15, 20, 30, 60}
	divisors := f.Divisors(true)
	require.Len(t, divisors, len(want))
	for i, w := range want {
		require.Equal(t, 0, bi(w).Cmp(divisors[i]), "index %d", i)
	}
}

func TestSumOfDivisorsMatchesBruteForce(t *testing.T) {
	f := New()
	f.AddFactorN(bi(2), 2)
	f.AddFactorN(bi(3), 1)
	f.AddFactorN(bi(5), 1)

	sum := big.NewInt(0)
	for _, d := range f.Divisors(false) {
		sum.Add(sum, d)
	}
	require.Equal(t, 0, sum.Cmp(f.SumOfDivisors()))
}

func TestMergeCombinesExponents(t *testing.T) {
	a := New()
	a.AddFactorN(bi(2), 1)
	b := New()
	b.AddFactorN(bi(2), 2)
	b.AddFactorN(bi(7), 1)

	a.Merge(b)
	require.Equal(t, uint64(3), a.ExponentOf(bi(2)))
	require.Equal(t, uint64(1), a.ExponentOf(bi(7)))
}

func TestMaxFactorAndEmpty(t *testing.T) {
	f := New()
	require.True(t, f.Empty())
	require.Nil(t, f.MaxFactor())

	f.AddFactor(bi(3))
	f.AddFactor(bi(11))
	f.AddFactor(bi(5))
	require.Equal(t, 0, bi(11).Cmp(f.MaxFactor()))

	f.Clear()
	require.True(t, f.Empty())
}
