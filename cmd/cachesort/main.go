// Command cachesort sorts every index and factor file in a FactorCache
// in place by product.
package main

import (
	"fmt"
	"os"

	"github.com/kryc/aliquot/factorcache"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: cachesort <cachepath>")
		os.Exit(1)
	}

	cache, err := factorcache.New(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachesort: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("sorting cache at: %s\n", os.Args[1])
	if err := cache.Sort(); err != nil {
		fmt.Fprintf(os.Stderr, "cachesort: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("done sorting cache.")
}
