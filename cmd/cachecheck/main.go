// Command cachecheck reports whether a product exists in a FactorCache and
// verifies its recorded factors multiply back to it.
package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/kryc/aliquot/factorcache"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: cachecheck <cachepath> <product>")
		os.Exit(1)
	}

	product, ok := new(big.Int).SetString(os.Args[2], 10)
	if !ok {
		fmt.Fprintf(os.Stderr, "cachecheck: invalid product %q\n", os.Args[2])
		os.Exit(1)
	}

	cache, err := factorcache.New(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachecheck: %v\n", err)
		os.Exit(1)
	}

	factors, ok, err := cache.Lookup(product)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachecheck: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Printf("product %s does not exist in cache\n", product.String())
		os.Exit(1)
	}

	fmt.Printf("product %s exists in cache\n", product.String())
	fmt.Print("factors: ")
	for i, f := range factors.ToSlice() {
		if i > 0 {
			fmt.Print(" * ")
		}
		if f.Exponent == 1 {
			fmt.Print(f.Prime.String())
		} else {
			fmt.Printf("%s^%d", f.Prime.String(), f.Exponent)
		}
	}
	fmt.Println()

	computed := factors.Product()
	if computed.Cmp(product) != 0 {
		fmt.Printf("verification FAILED: expected %s, got %s\n", product.String(), computed.String())
		os.Exit(1)
	}
	fmt.Printf("verification PASSED (product = %s)\n", computed.String())
}
