// Package wheel implements WheelTable: precomputed residue-gap rings for a
// fixed set of primorial moduli, used by the parallel factorizer to skip
// candidates sharing a factor with the modulus.
package wheel

import (
	"sync"

	"github.com/kryc/aliquot/aliquoterr"
	"github.com/pkg/errors"
)

const (
	// BitsPerGap is the width reserved for each packed gap.
	BitsPerGap = 6
	// GapsPerWord is how many gaps fit in one 64-bit word (60 of 64 bits used).
	GapsPerWord = 10
	// GapMask isolates one gap's bits once shifted into the low bits.
	GapMask = (1 << BitsPerGap) - 1
)

// SupportedModuli are the moduli this package can build wheels for, in
// ascending order. 30030 = 2*3*5*7*11*13, and so on through the primorial
// of the first nine primes.
var SupportedModuli = []uint64{30, 210, 2310, 30030, 510510, 9699690, 223092870}

var supportedPrimes = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}

var (
	cacheMu sync.Mutex
	cache   = map[uint64][]uint64{}
)

// Wheel returns the packed gap-word span for modulus m, building and caching
// it on first use. Each candidate's increment is 6 bits wide, 10 packed per
// 64-bit word; it fails with ErrConfig if m is unsupported or if any gap
// does not fit in 6 bits.
func Wheel(m uint64) ([]uint64, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if words, ok := cache[m]; ok {
		return words, nil
	}

	if !isSupported(m) {
		return nil, errors.Wrapf(aliquoterr.ErrConfig, "wheel: unsupported modulus %d", m)
	}

	words, err := build(m)
	if err != nil {
		return nil, err
	}
	cache[m] = words
	return words, nil
}

func isSupported(m uint64) bool {
	for _, v := range SupportedModuli {
		if v == m {
			return true
		}
	}
	return false
}

// SmallPrimesFor returns the prefix of {2,3,5,7,11,13,17,19,23,29} whose
// product equals m.
func SmallPrimesFor(m uint64) []uint64 {
	product := uint64(1)
	var out []uint64
	for _, p := range supportedPrimes {
		product *= p
		out = append(out, p)
		if product == m {
			return out
		}
	}
	return nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// build enumerates residues 1, then every odd r in [3, m) coprime to m,
// computes consecutive gaps, appends the wrap-around gap back to 1 of the
// next block (so the gaps sum to m), and packs them 6 bits each into
// 64-bit words.
func build(m uint64) ([]uint64, error) {
	residues := []uint64{1}
	for r := uint64(3); r < m; r += 2 {
		if gcd(r, m) == 1 {
			residues = append(residues, r)
		}
	}

	gaps := make([]uint64, 0, len(residues))
	for i := 1; i < len(residues); i++ {
		gaps = append(gaps, residues[i]-residues[i-1])
	}
	gaps = append(gaps, m-residues[len(residues)-1]+1)

	var sum uint64
	for _, g := range gaps {
		if g > GapMask {
			return nil, errors.Wrapf(aliquoterr.ErrConfig, "wheel: gap %d exceeds %d bits for modulus %d", g, BitsPerGap, m)
		}
		sum += g
	}
	if sum != m {
		return nil, errors.Wrapf(aliquoterr.ErrConfig, "wheel: gaps for modulus %d summed to %d, want %d", m, sum, m)
	}

	words := make([]uint64, 0, (len(gaps)+GapsPerWord-1)/GapsPerWord)
	var word uint64
	var slot uint
	for _, g := range gaps {
		word |= g << (BitsPerGap * slot)
		slot++
		if slot == GapsPerWord {
			words = append(words, word)
			word = 0
			slot = 0
		}
	}
	if slot != 0 {
		words = append(words, word)
	}
	return words, nil
}

// Gaps decodes a packed word span back into individual gap increments, in
// original order. Trailing zero-padding slots in the final word are
// dropped using the known gap count.
func Gaps(words []uint64, count int) []uint64 {
	out := make([]uint64, 0, count)
	for _, w := range words {
		for slot := 0; slot < GapsPerWord && len(out) < count; slot++ {
			out = append(out, (w>>(BitsPerGap*uint(slot)))&GapMask)
		}
	}
	return out
}

// Len returns how many gaps modulus m's wheel holds: the totatives of m
// form a closed cycle, so the gap count equals the totative count (the
// inter-residue gaps plus the one wrap gap back to 1 are already
// accounted for among those edges, not an extra one).
func Len(m uint64) int {
	count := 1 // residue 1
	for r := uint64(3); r < m; r += 2 {
		if gcd(r, m) == 1 {
			count++
		}
	}
	return count
}
