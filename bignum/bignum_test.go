package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBigIntRoundTrip(t *testing.T) {
	values := []int64{0, 1, 2, 65537, 1 << 40}
	for _, v := range values {
		n := big.NewInt(v)
		bn, err := FromBigInt(n)
		require.NoError(t, err)
		require.Equal(t, 0, n.Cmp(bn.ToBigInt()))
	}
}

func TestFromBigIntLargeValue(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), Bits-1)
	bn, err := FromBigInt(n)
	require.NoError(t, err)
	require.Equal(t, 0, n.Cmp(bn.ToBigInt()))
}

func TestFromBigIntRejectsOversizeAndNegative(t *testing.T) {
	tooLarge := new(big.Int).Lsh(big.NewInt(1), Bits+1)
	_, err := FromBigInt(tooLarge)
	require.Error(t, err)

	_, err = FromBigInt(big.NewInt(-1))
	require.Error(t, err)
}

func TestCompareOrdersByValue(t *testing.T) {
	a, err := FromBigInt(big.NewInt(100))
	require.NoError(t, err)
	b, err := FromBigInt(big.NewInt(200))
	require.NoError(t, err)

	require.Equal(t, -1, Compare(a, b))
	require.Equal(t, 1, Compare(b, a))
	require.Equal(t, 0, Compare(a, a))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bn, err := FromBigInt(big.NewInt(123456789))
	require.NoError(t, err)

	buf := make([]byte, Bytes)
	bn.Encode(buf)
	decoded := Decode(buf)
	require.Equal(t, bn, decoded)
}
