// Package primality implements PrimalityOracle: an exact small-prime test
// backed by a dense bitset derived from a primegap.Table, with a
// probabilistic fallback above the table's maximum.
package primality

import (
	"math/big"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/kryc/aliquot/primegap"
)

// MillerRabinRounds is the number of rounds math/big.Int.ProbablyPrime runs
// above the table's maximum prime. math/big.ProbablyPrime also always runs
// a Baillie-PSW test in addition to the requested Miller-Rabin rounds, so
// 25 rounds here comfortably clears a false-positive probability of 4^-25.
const MillerRabinRounds = 25

// Oracle is immutable once constructed: bits[n>>1] is set iff the odd
// number n is prime, for all odd n <= maxPrime.
type Oracle struct {
	bits     *roaring64.Bitmap
	maxPrime uint64
}

// From builds an Oracle by walking every gap in a primegap.Table.
func From(table *primegap.Table) *Oracle {
	bits := roaring64.New()
	walker := table.Walk()
	var maxPrime uint64
	for {
		p, ok := walker.Next()
		if !ok {
			break
		}
		if !p.IsUint64() {
			// Table entries past 2^64 can't be indexed by this oracle;
			// the probabilistic fallback covers them.
			break
		}
		v := p.Uint64()
		maxPrime = v
		if v == 2 {
			continue
		}
		bits.Add(v >> 1)
	}
	return &Oracle{bits: bits, maxPrime: maxPrime}
}

// Max returns the largest prime the exact bitset covers.
func (o *Oracle) Max() uint64 {
	return o.maxPrime
}

// IsSmallPrime reports whether n is prime, using only the exact bitset. It
// never invokes the probabilistic fallback and returns false for any n
// above Max(), even if n is in fact prime.
func (o *Oracle) IsSmallPrime(n *big.Int) bool {
	if n.Sign() <= 0 || n.Cmp(big.NewInt(1)) == 0 {
		return false
	}
	if n.Cmp(big.NewInt(2)) == 0 {
		return true
	}
	if n.Bit(0) == 0 {
		return false // even, and not 2
	}
	if !n.IsUint64() {
		return false
	}
	v := n.Uint64()
	if v > o.maxPrime {
		return false
	}
	return o.bits.Contains(v >> 1)
}

// IsSmallPrimeUint64 is the uint64 fast path of IsSmallPrime, used by the
// hot loops in the factorizers.
func (o *Oracle) IsSmallPrimeUint64(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n&1 == 0 {
		return false
	}
	if n > o.maxPrime {
		return false
	}
	return o.bits.Contains(n >> 1)
}

// IsPrime is exact below Max() and probabilistic (Miller-Rabin, see
// MillerRabinRounds) above it.
func (o *Oracle) IsPrime(n *big.Int) bool {
	if o.IsSmallPrime(n) {
		return true
	}
	if !n.IsUint64() || n.Uint64() > o.maxPrime {
		return n.ProbablyPrime(MillerRabinRounds)
	}
	return false
}
