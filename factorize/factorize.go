// Package factorize implements LinearFactorizer and ParallelFactorizer
// and the dispatch policy between them.
package factorize

import (
	"errors"
	"math/big"

	"github.com/kryc/aliquot/aliquoterr"
	"github.com/kryc/aliquot/factorcache"
	"github.com/kryc/aliquot/primality"
	"github.com/kryc/aliquot/primefactors"
	"github.com/kryc/aliquot/primegap"
)

// smallThreshold is the dispatch cutoff below which Linear is used
// unconditionally.
const smallThreshold = 3000000

// Factor is the top-level entry point: it checks cache first, then picks
// Linear or Parallel by size, falling back to Linear if Parallel reports
// ErrTooSmall. Factor owns the cache entirely — lookup on entry, insert on
// a freshly computed result — so callers must not also insert into the
// same cache, or every factorization ends up duplicated on disk.
func Factor(n *big.Int, table *primegap.Table, oracle *primality.Oracle, cache *factorcache.Cache, threads int) (*primefactors.Factors, error) {
	if cache != nil {
		if factors, ok, err := cache.Lookup(n); err != nil {
			return nil, err
		} else if ok {
			return factors, nil
		}
	}

	var (
		factors *primefactors.Factors
		err     error
	)

	if n.Cmp(big.NewInt(smallThreshold)) < 0 {
		factors = Linear(n, table, oracle)
	} else {
		factors, err = Parallel(n, oracle, threads)
		if err != nil {
			if errors.Is(err, aliquoterr.ErrTooSmall) {
				factors = Linear(n, table, oracle)
				err = nil
			} else {
				return nil, err
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Insert(factors); err != nil {
			return nil, err
		}
	}

	return factors, nil
}
