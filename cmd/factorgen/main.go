// Command factorgen bulk-generates a FactorCache: every product of minK to
// maxK primes drawn from [minPrime, maxPrime], with at least one factor
// >= smallestFactor.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/kryc/aliquot/factorcache"
	"github.com/kryc/aliquot/primefactors"
)

func main() {
	minPrime := flag.Uint64("m", 7, "minimum prime to use for factorization")
	maxPrime := flag.Uint64("M", 65537, "maximum prime to use for factorization")
	minK := flag.Int("f", 2, "minimum number of factors")
	maxK := flag.Int("F", 4, "maximum number of factors")
	smallestPow2 := flag.Int("2", 0, "set smallest factor value to 2^N")
	smallestN := flag.Uint64("n", 0, "set smallest factor value to N")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: factorgen [-m min] [-M max] [-f minK] [-F maxK] [-n smallest | -2 power] <out>")
		os.Exit(1)
	}
	outPath := flag.Arg(0)

	if *minPrime%2 == 0 {
		*minPrime++
	}
	if *maxPrime%2 == 0 {
		*maxPrime--
	}

	smallest := *smallestN
	if *smallestPow2 > 0 {
		smallest = uint64(1) << uint(*smallestPow2)
	}
	if smallest == 0 {
		smallest = 1007
	}
	if smallest < *minPrime || smallest > *maxPrime {
		fmt.Fprintln(os.Stderr, "factorgen: smallest factor must be between min and max prime")
		os.Exit(1)
	}

	primes := sieveProbablePrimes(*minPrime, *maxPrime)
	startIndex := 0
	for i, p := range primes {
		if p >= smallest {
			startIndex = i
			break
		}
	}

	cache, err := factorcache.New(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "factorgen: %v\n", err)
		os.Exit(1)
	}

	var generated int
	for k := *minK; k <= *maxK; k++ {
		generateCombinations(primes, startIndex, k, func(indices []int) {
			factors := primefactors.New()
			for _, idx := range indices {
				factors.AddFactor(new(big.Int).SetUint64(primes[idx]))
			}
			cache.Stage(factors)
			generated++
			if generated%1000000 == 0 {
				fmt.Fprintf(os.Stderr, "\r%d generated", generated)
			}
		})
	}

	fmt.Fprintf(os.Stderr, "\ngenerated %d products, flushing and sorting...\n", generated)
	if err := cache.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "factorgen: %v\n", err)
		os.Exit(1)
	}

	if err := cache.WriteInfo(factorcache.Info{
		MinPrime:       *minPrime,
		MaxPrime:       *maxPrime,
		MinFactors:     uint64(*minK),
		MaxFactors:     uint64(*maxK),
		SmallestFactor: smallest,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "factorgen: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "done.")
}

// sieveProbablePrimes returns every probable prime in [lo, hi], inclusive.
func sieveProbablePrimes(lo, hi uint64) []uint64 {
	var out []uint64
	candidate := new(big.Int).SetUint64(lo)
	max := new(big.Int).SetUint64(hi)
	for candidate.Cmp(max) <= 0 {
		if candidate.ProbablyPrime(25) {
			out = append(out, candidate.Uint64())
		}
		candidate.Add(candidate, big.NewInt(1))
	}
	return out
}

// generateCombinations enumerates every k-length sequence of prime indices
// whose first index is >= startIndex: the first factor is drawn only from
// primes >= the configured smallest factor, while the remaining factors
// range over the full prime list.
func generateCombinations(primes []uint64, startIndex, k int, emit func(indices []int)) {
	if k <= 0 {
		return
	}
	indices := make([]int, k)
	var recurse func(pos int)
	recurse = func(pos int) {
		if pos == k {
			emit(indices)
			return
		}
		lo := 0
		if pos == 0 {
			lo = startIndex
		}
		for i := lo; i < len(primes); i++ {
			indices[pos] = i
			recurse(pos + 1)
		}
	}
	recurse(0)
}
