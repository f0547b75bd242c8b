package factorize

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/kryc/aliquot/aliquoterr"
	"github.com/kryc/aliquot/primality"
	"github.com/kryc/aliquot/primefactors"
	"github.com/kryc/aliquot/wheel"
)

var one = big.NewInt(1)

// Parallel picks a wheel modulus sized to N and the worker count, seeds
// with the modulus's own prime factors, then sweeps the remaining
// candidates up to ceil(sqrt(N)/m)*m across T workers using interleaved
// block assignment. It returns ErrTooSmall when sqrt(N)/T is smaller than
// the smallest supported wheel modulus, so callers can fall back to
// Linear.
func Parallel(n *big.Int, oracle *primality.Oracle, threads int) (*primefactors.Factors, error) {
	if threads < 1 {
		threads = 1
	}

	sqrtN := new(big.Int).Sqrt(n)
	limit := new(big.Int).Div(sqrtN, big.NewInt(int64(threads)))

	m, err := chooseModulus(limit)
	if err != nil {
		return nil, err
	}

	factors := primefactors.New()
	remainder := new(big.Int).Set(n)
	mod := new(big.Int)
	for _, p := range wheel.SmallPrimesFor(m) {
		pb := new(big.Int).SetUint64(p)
		for mod.Mod(remainder, pb).Sign() == 0 {
			factors.AddFactor(pb)
			remainder.Quo(remainder, pb)
		}
	}

	if remainder.Cmp(one) <= 0 {
		return factors, nil
	}

	words, err := wheel.Wheel(m)
	if err != nil {
		return nil, err
	}
	gaps := wheel.Gaps(words, wheel.Len(m))

	// Step 3: M = ceil(sqrt(N) / m) * m.
	mBig := new(big.Int).SetUint64(m)
	quotient, rem := new(big.Int).QuoRem(sqrtN, mBig, new(big.Int))
	if rem.Sign() != 0 {
		quotient.Add(quotient, one)
	}
	bound := new(big.Int).Mul(quotient, mBig)

	var (
		mu      sync.Mutex
		found   atomic.Bool
		workErr error
	)

	p := pool.New().WithMaxGoroutines(threads)
	for worker := 0; worker < threads; worker++ {
		worker := worker
		p.Go(func() {
			blockStride := new(big.Int).Mul(mBig, big.NewInt(int64(threads)))
			blockStart := new(big.Int).Mul(mBig, big.NewInt(int64(worker)))

			for blockStart.Cmp(bound) < 0 {
				if found.Load() {
					return
				}
				blockEnd := new(big.Int).Add(blockStart, mBig)
				if blockEnd.Cmp(bound) > 0 {
					blockEnd = bound
				}

				candidate := new(big.Int).Add(blockStart, one)
				div := new(big.Int)
				for _, g := range gaps {
					if candidate.Cmp(blockEnd) >= 0 {
						break
					}
					if found.Load() {
						return
					}
					if candidate.Cmp(one) > 0 && div.Mod(n, candidate).Sign() == 0 {
						mu.Lock()
						stop, rerr := resolveHit(factors, candidate, n, oracle)
						if rerr != nil {
							workErr = rerr
							found.Store(true)
							mu.Unlock()
							return
						}
						if stop {
							found.Store(true)
						}
						mu.Unlock()
						if stop {
							return
						}
					}
					candidate.Add(candidate, new(big.Int).SetUint64(g))
				}

				blockStart.Add(blockStart, blockStride)
			}
		})
	}
	p.Wait()

	if workErr != nil {
		return nil, workErr
	}

	// Step 6: final reconciliation, whether a worker already stopped early
	// or every block was exhausted without a hit (e.g. N itself is prime).
	product := factors.Product()
	if product.Cmp(n) > 0 {
		return nil, errors.Wrapf(aliquoterr.ErrProductOverflow, "parallel factorization of %s: accumulated product %s exceeds N", n.String(), product.String())
	}
	if product.Cmp(n) == 0 {
		return factors, nil
	}
	residual := new(big.Int).Quo(n, product)
	if residual.Cmp(one) > 0 && oracle.IsPrime(residual) {
		factors.AddFactor(residual)
		return factors, nil
	}
	return nil, errors.Wrapf(aliquoterr.ErrIncomplete, "parallel factorization of %s exhausted bound %s without fully dividing N", n.String(), bound.String())
}

// resolveHit runs under the caller-held mutex:
// divide candidate out of the running remainder as many times as it
// divides, then decide whether the factorization is complete.
func resolveHit(factors *primefactors.Factors, candidate, n *big.Int, oracle *primality.Oracle) (stop bool, err error) {
	before := factors.Product()
	if before.Cmp(n) == 0 {
		return true, nil
	}

	div := new(big.Int)
	q := new(big.Int).Quo(n, before)
	for div.Mod(q, candidate).Sign() == 0 {
		factors.AddFactor(candidate)
		q.Quo(q, candidate)
	}

	if q.Cmp(n) == 0 {
		return false, errors.Wrapf(aliquoterr.ErrProductOverflow, "parallel factorization: candidate %s divided N but quotient was unchanged", candidate.String())
	}

	product := factors.Product()
	if product.Cmp(n) == 0 {
		return true, nil
	}

	if q.Cmp(one) > 0 && oracle.IsPrime(q) {
		factors.AddFactor(q)
		return true, nil
	}

	return false, nil
}

// chooseModulus picks the largest supported wheel modulus not exceeding
// limit. It returns ErrTooSmall if even the
// smallest supported modulus exceeds limit.
func chooseModulus(limit *big.Int) (uint64, error) {
	for i := len(wheel.SupportedModuli) - 1; i >= 0; i-- {
		m := wheel.SupportedModuli[i]
		if limit.IsUint64() && limit.Uint64() >= m {
			return m, nil
		}
		if !limit.IsUint64() && limit.Sign() > 0 {
			// limit doesn't fit uint64, so it certainly exceeds every
			// supported modulus.
			return m, nil
		}
	}
	return 0, errors.Wrapf(aliquoterr.ErrTooSmall, "parallel factorization: sqrt(N)/threads below smallest supported wheel modulus %d", wheel.SupportedModuli[0])
}
