package factorize

import (
	"math/big"

	"github.com/kryc/aliquot/primality"
	"github.com/kryc/aliquot/primefactors"
	"github.com/kryc/aliquot/primegap"
)

// wheel30Gaps is the fixed 8-gap wheel-30 ring (6,4,2,4,2,4,6,2), used only
// by Linear's continuation once the gap table runs out — this is distinct
// from the generic wheel package, which backs Parallel's larger moduli.
var wheel30Gaps = []int64{6, 4, 2, 4, 2, 4, 6, 2}

// Linear walks the prime-gap table trial-dividing, short-circuiting once
// the remainder is itself a small prime, then continues with a wheel-30
// sweep past the end of the table. It always terminates and never fails,
// for N >= 1.
func Linear(n *big.Int, table *primegap.Table, oracle *primality.Oracle) *primefactors.Factors {
	factors := primefactors.New()
	one := big.NewInt(1)
	remainder := new(big.Int).Set(n)
	if remainder.Cmp(one) <= 0 {
		return factors
	}

	walker := table.Walk()
	var prime *big.Int
	for remainder.Cmp(one) > 0 {
		p, ok := walker.Next()
		if !ok {
			break
		}
		prime = p

		if oracle.IsSmallPrime(remainder) {
			factors.AddFactor(remainder)
			return factors
		}

		mod := new(big.Int)
		for mod.Mod(remainder, prime).Sign() == 0 {
			factors.AddFactor(prime)
			remainder.Quo(remainder, prime)
		}
	}

	if remainder.Cmp(one) <= 0 {
		return factors
	}

	// Gap table exhausted with remainder left over: continue with a
	// wheel-30 sweep, starting from the smallest w >= prime congruent to
	// 1 mod 30.
	candidate := big.NewInt(2)
	if prime != nil {
		candidate.Set(prime)
	}
	thirty := big.NewInt(30)
	mod30 := new(big.Int)
	for candidate.Cmp(one) <= 0 || mod30.Mod(candidate, thirty).Cmp(one) != 0 {
		candidate.Add(candidate, one)
	}

	gi := 0
	mod := new(big.Int)
	for remainder.Cmp(one) > 0 {
		for mod.Mod(remainder, candidate).Sign() == 0 {
			factors.AddFactor(candidate)
			remainder.Quo(remainder, candidate)
		}
		candidate.Add(candidate, big.NewInt(wheel30Gaps[gi]))
		gi = (gi + 1) % len(wheel30Gaps)
	}

	return factors
}
