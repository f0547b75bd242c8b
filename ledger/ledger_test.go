package ledger

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestStartRunRecordStepsFinishRun(t *testing.T) {
	l := openTestLedger(t)

	runID, err := l.StartRun(big.NewInt(12))
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	steps := []int64{16, 15, 9, 4, 3, 1}
	for i, s := range steps {
		require.NoError(t, l.RecordStep(runID, i, big.NewInt(s)))
	}
	require.NoError(t, l.FinishRun(runID, OutcomeTerminated))

	got, err := l.Steps(runID)
	require.NoError(t, err)
	require.Len(t, got, len(steps))
	for i, s := range steps {
		require.Equal(t, 0, big.NewInt(s).Cmp(got[i]))
	}
}

func TestStepsEmptyForUnknownRun(t *testing.T) {
	l := openTestLedger(t)

	got, err := l.Steps("no-such-run")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDistinctRunsGetDistinctIDs(t *testing.T) {
	l := openTestLedger(t)

	id1, err := l.StartRun(big.NewInt(6))
	require.NoError(t, err)
	id2, err := l.StartRun(big.NewInt(28))
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)
}
