// Package bignum implements the fixed-width big-integer encoding used by
// factorcache's on-disk records. Arbitrary-precision arithmetic elsewhere in
// the module uses math/big directly; this package exists only to give cache
// records a stable, comparable, fixed-size wire representation.
package bignum

import (
	"encoding/binary"
	"math/big"

	"github.com/kryc/aliquot/aliquoterr"
	"github.com/pkg/errors"
)

const (
	// Bits is the build-time WIDTH constant: the number of bits reserved
	// per big-integer value in on-disk cache records.
	Bits = 1024
	// Words is the number of uint64 words Bits packs into.
	Words = Bits / 64
	// Bytes is the on-disk size of one BigNum.
	Bytes = Words * 8
)

// BigNum is a fixed-width, non-negative integer stored little-endian by
// word (value[0] holds the least-significant 64 bits).
type BigNum [Words]uint64

// FromBigInt encodes v into a BigNum. It fails with ErrValidation if v is
// negative or does not fit in Bits bits.
func FromBigInt(v *big.Int) (BigNum, error) {
	var b BigNum
	if v.Sign() < 0 {
		return b, errors.Wrap(aliquoterr.ErrValidation, "bignum: negative value")
	}
	if v.BitLen() > Bits {
		return b, errors.Wrapf(aliquoterr.ErrValidation, "bignum: value exceeds %d-bit width", Bits)
	}
	buf := make([]byte, Bytes)
	v.FillBytes(buf) // big-endian, zero-padded to Bytes
	for i := range b {
		b[i] = binary.BigEndian.Uint64(buf[(Words-1-i)*8:])
	}
	return b, nil
}

// ToBigInt decodes a BigNum back into a *big.Int.
func (b BigNum) ToBigInt() *big.Int {
	buf := make([]byte, Bytes)
	for i, w := range b {
		binary.BigEndian.PutUint64(buf[(Words-1-i)*8:], w)
	}
	return new(big.Int).SetBytes(buf)
}

// Compare orders two BigNum values by value, most-significant word first.
func Compare(a, b BigNum) int {
	for i := Words - 1; i >= 0; i-- {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Encode writes the wire representation (little-endian words, in order) to dst.
func (b BigNum) Encode(dst []byte) {
	for i, w := range b {
		binary.LittleEndian.PutUint64(dst[i*8:], w)
	}
}

// Decode reads a BigNum from its wire representation.
func Decode(src []byte) BigNum {
	var b BigNum
	for i := range b {
		b[i] = binary.LittleEndian.Uint64(src[i*8:])
	}
	return b
}
