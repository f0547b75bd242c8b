package sequence

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kryc/aliquot/factorcache"
	"github.com/kryc/aliquot/ledger"
	"github.com/kryc/aliquot/primality"
	"github.com/kryc/aliquot/primegap"
)

func newDriver(t *testing.T, limit int64) *Driver {
	t.Helper()
	table := &primegap.Table{}
	table.SetLogger(zerolog.Nop())
	table.Generate(big.NewInt(limit), false)
	oracle := primality.From(table)
	return &Driver{Table: table, Oracle: oracle, Threads: 1, Log: zerolog.Nop()}
}

func int64s(values []*big.Int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = v.Int64()
	}
	return out
}

func TestAliquotSequenceTerminates(t *testing.T) {
	d := newDriver(t, 1000)

	// aliquotSequence(12) == [16, 15, 9, 4, 3, 1].
	history, err := d.AliquotSequence(big.NewInt(12), false, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{16, 15, 9, 4, 3, 1}, int64s(history))
}

func TestAliquotSequencePerfectNumber(t *testing.T) {
	d := newDriver(t, 1000)

	// 6 is a perfect number: s(6) == 6.
	history, err := d.AliquotSequence(big.NewInt(6), false, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{6}, int64s(history))
}

func TestAliquotSequenceAmicableCycle(t *testing.T) {
	d := newDriver(t, 1000)

	// 220 and 284 are an amicable pair: aliquotSequence(220) == [284, 220, 284].
	history, err := d.AliquotSequence(big.NewInt(220), false, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{284, 220, 284}, int64s(history))
}

func TestAliquotSequenceVerboseCallback(t *testing.T) {
	d := newDriver(t, 1000)

	var steps []int64
	_, err := d.AliquotSequence(big.NewInt(12), true, func(index int, s *big.Int) {
		steps = append(steps, s.Int64())
	})
	require.NoError(t, err)
	require.Equal(t, []int64{16, 15, 9, 4, 3, 1, 0}, steps)
}

func TestAliquotSequenceDoesNotDuplicateCacheRecords(t *testing.T) {
	d := newDriver(t, 1000)
	cache, err := factorcache.New(t.TempDir())
	require.NoError(t, err)
	d.Cache = cache

	fileSizes := func() map[string]int64 {
		sizes := map[string]int64{}
		for _, name := range []string{"factors_1.dat", "factors_2.dat"} {
			info, err := os.Stat(filepath.Join(cache.Path(), name))
			if err == nil {
				sizes[name] = info.Size()
			}
		}
		return sizes
	}

	history, err := d.AliquotSequence(big.NewInt(12), false, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{16, 15, 9, 4, 3, 1}, int64s(history))

	afterFirst := fileSizes()
	require.NotEmpty(t, afterFirst)

	// factorize.Factor owns the cache: every value in this sequence is now
	// a cache hit, so a second run must not grow any factor file.
	history, err = d.AliquotSequence(big.NewInt(12), false, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{16, 15, 9, 4, 3, 1}, int64s(history))

	require.Equal(t, afterFirst, fileSizes())
}

func TestSumOfDivisorsExcludesSelf(t *testing.T) {
	d := newDriver(t, 1000)

	// sumOfDivisors(10) == 8: 1+2+5, not sigma(10)=1+2+5+10=18.
	got, err := d.SumOfDivisors(big.NewInt(10))
	require.NoError(t, err)
	require.Equal(t, int64(8), got.Int64())

	// sumOfDivisors(8) == 7: 1+2+4, not sigma(8)=1+2+4+8=15.
	got, err = d.SumOfDivisors(big.NewInt(8))
	require.NoError(t, err)
	require.Equal(t, int64(7), got.Int64())

	// AliquotSum agrees, since it's the same quantity under another name.
	alt, err := d.AliquotSum(big.NewInt(10))
	require.NoError(t, err)
	require.Equal(t, int64(8), alt.Int64())
}

func TestAliquotSequenceRecordsToLedger(t *testing.T) {
	d := newDriver(t, 1000)

	path := t.TempDir() + "/ledger.db"
	l, err := ledger.Open(path)
	require.NoError(t, err)
	defer l.Close()
	d.Ledger = l

	history, err := d.AliquotSequence(big.NewInt(12), false, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{16, 15, 9, 4, 3, 1}, int64s(history))
}
