package primegap

import (
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table := &Table{}
	table.SetLogger(zerolog.Nop())
	return table
}

func TestWalkYieldsFirstPrimes(t *testing.T) {
	table := newTestTable(t)
	table.Generate(big.NewInt(30), false)

	want := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	walker := table.Walk()
	for _, w := range want {
		p, ok := walker.Next()
		require.True(t, ok)
		require.Equal(t, big.NewInt(w), p)
	}
	_, ok := walker.Next()
	require.False(t, ok)
}

func TestNthPrime(t *testing.T) {
	table := newTestTable(t)
	table.Generate(big.NewInt(100), false)

	require.Equal(t, big.NewInt(2), table.NthPrime(0))
	require.Equal(t, big.NewInt(3), table.NthPrime(1))
	require.Equal(t, big.NewInt(97), table.NthPrime(24))
}

func TestNthPrimeBeyondTableFallsBack(t *testing.T) {
	table := newTestTable(t)
	table.Generate(big.NewInt(65536), false)

	// The table ends at 65521, so NthPrime must continue past it with its
	// on-the-fly search: getNthPrime(70000) == 882389.
	require.Equal(t, big.NewInt(882389), table.NthPrime(70000))
}

func TestPrimeIndexRoundTrip(t *testing.T) {
	table := newTestTable(t)
	table.Generate(big.NewInt(1000), false)

	idx := table.PrimeIndex(big.NewInt(97))
	require.Equal(t, uint64(24), idx)
	require.Equal(t, big.NewInt(97), table.NthPrime(idx))
}

func TestGenerateByCount(t *testing.T) {
	table := newTestTable(t)
	table.Generate(big.NewInt(5), true)

	walker := table.Walk()
	var got []int64
	for {
		p, ok := walker.Next()
		if !ok {
			break
		}
		got = append(got, p.Int64())
	}
	require.Equal(t, []int64{2, 3, 5, 7, 11}, got)
}
