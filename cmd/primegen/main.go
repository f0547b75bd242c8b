// Command primegen precomputes the gaps between primes and writes them to
// a prime-gap table file, using a wheel-30 sweep with a probabilistic
// primality test.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
)

// wheel30 are the consecutive gaps between residues 1, 7, 11, 13, 17, 19,
// 23, 29 mod 30, with the final entry wrapping back to 1 of the next
// block (so the cycle sums to 30).
var wheel30 = []int64{6, 4, 2, 4, 2, 4, 6, 2}

func main() {
	pow2 := flag.Int64("2", 0, "generate primes up to 2^N")
	limit := flag.String("n", "", "generate primes up to N")
	count := flag.Int64("c", 0, "generate the first N primes")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: primegen {-2 N | -n N | -c N} <out>")
		os.Exit(1)
	}
	outPath := flag.Arg(0)

	var maxPrime *big.Int
	useCount := false
	switch {
	case *pow2 > 0:
		maxPrime = new(big.Int).Lsh(big.NewInt(1), uint(*pow2))
	case *limit != "":
		v, ok := new(big.Int).SetString(*limit, 10)
		if !ok {
			fmt.Fprintf(os.Stderr, "primegen: invalid -n value %q\n", *limit)
			os.Exit(1)
		}
		maxPrime = v
	case *count > 0:
		maxPrime = big.NewInt(*count)
		useCount = true
	default:
		fmt.Fprintln(os.Stderr, "primegen: one of -2, -n, -c is required")
		os.Exit(1)
	}

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "primegen: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Seed gaps for 2, 3, 5.
	if _, err := f.Write([]byte{2, 1, 2}); err != nil {
		fmt.Fprintf(os.Stderr, "primegen: %v\n", err)
		os.Exit(1)
	}

	value := big.NewInt(1)
	last := big.NewInt(5)
	countN := int64(3) // 2, 3 and 5 are already written
	gi := 0

	for (useCount && countN < *count) || (!useCount && value.Cmp(maxPrime) <= 0) {
		value = new(big.Int).Add(value, big.NewInt(wheel30[gi]))
		gi = (gi + 1) % len(wheel30)
		if !useCount && value.Cmp(maxPrime) > 0 {
			break
		}

		if !value.ProbablyPrime(25) {
			continue
		}

		gap := new(big.Int).Sub(value, last)
		last = new(big.Int).Set(value)
		if err := writeGap(f, gap); err != nil {
			fmt.Fprintf(os.Stderr, "primegen: %v\n", err)
			os.Exit(1)
		}
		countN++
	}

	fmt.Fprintf(os.Stderr, "generated %d primes, largest %s\n", countN, last.String())
}

// writeGap appends a LEB128-encoded gap, matching the prime-gap table's
// wire format.
func writeGap(f *os.File, gap *big.Int) error {
	v := new(big.Int).Set(gap)
	seven := big.NewInt(0x7F)
	for {
		chunk := new(big.Int).And(v, seven)
		v.Rsh(v, 7)
		b := byte(chunk.Uint64())
		if v.Sign() > 0 {
			b |= 0x80
		}
		if _, err := f.Write([]byte{b}); err != nil {
			return err
		}
		if v.Sign() == 0 {
			return nil
		}
	}
}
