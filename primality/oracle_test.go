package primality

import (
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kryc/aliquot/primegap"
)

func newOracle(t *testing.T, limit int64) *Oracle {
	t.Helper()
	table := &primegap.Table{}
	table.SetLogger(zerolog.Nop())
	table.Generate(big.NewInt(limit), false)
	return From(table)
}

func TestIsSmallPrimeExactBelowMax(t *testing.T) {
	oracle := newOracle(t, 1000)

	require.True(t, oracle.IsSmallPrime(big.NewInt(2)))
	require.True(t, oracle.IsSmallPrime(big.NewInt(997)))
	require.False(t, oracle.IsSmallPrime(big.NewInt(1)))
	require.False(t, oracle.IsSmallPrime(big.NewInt(0)))
	require.False(t, oracle.IsSmallPrime(big.NewInt(4)))
	require.False(t, oracle.IsSmallPrime(big.NewInt(999)))
}

func TestIsSmallPrimeFalseAboveMax(t *testing.T) {
	oracle := newOracle(t, 100)
	// 101 is prime but above the table's max; IsSmallPrime must say false.
	require.False(t, oracle.IsSmallPrime(big.NewInt(101)))
	require.True(t, oracle.IsPrime(big.NewInt(101)))
}

func TestIsPrimeFallsBackToProbabilistic(t *testing.T) {
	oracle := newOracle(t, 100)

	require.True(t, oracle.IsPrime(big.NewInt(104729))) // the 10000th prime
	require.False(t, oracle.IsPrime(big.NewInt(104730)))
}

func TestIsSmallPrimeUint64(t *testing.T) {
	oracle := newOracle(t, 1000)
	require.True(t, oracle.IsSmallPrimeUint64(2))
	require.True(t, oracle.IsSmallPrimeUint64(997))
	require.False(t, oracle.IsSmallPrimeUint64(1))
	require.False(t, oracle.IsSmallPrimeUint64(998))
}
