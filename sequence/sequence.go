// Package sequence implements AliquotDriver: iterated application of the
// aliquot sum, with cycle detection and termination conditions.
package sequence

import (
	"math/big"

	"github.com/rs/zerolog"

	"github.com/kryc/aliquot/factorcache"
	"github.com/kryc/aliquot/factorize"
	"github.com/kryc/aliquot/ledger"
	"github.com/kryc/aliquot/primality"
	"github.com/kryc/aliquot/primefactors"
	"github.com/kryc/aliquot/primegap"
)

// Driver bundles the collaborators AliquotSequence, Factor, and
// SumOfDivisors all dispatch through: the prime-gap table and oracle
// backing LinearFactorizer, an optional FactorCache, and an optional run
// Ledger.
type Driver struct {
	Table   *primegap.Table
	Oracle  *primality.Oracle
	Cache   *factorcache.Cache
	Ledger  *ledger.Ledger
	Threads int
	Log     zerolog.Logger
}

// Factor computes the prime factorization of n, consulting and populating
// the cache if one is configured.
func (d *Driver) Factor(n *big.Int) (*primefactors.Factors, error) {
	return factorize.Factor(n, d.Table, d.Oracle, d.Cache, d.Threads)
}

// SumOfDivisors returns s(n) = sigma(n) - n, the sum of n's proper
// divisors (every positive divisor of n excluding n itself). For n=10
// that's 1+2+5=8, not sigma(10)=18.
func (d *Driver) SumOfDivisors(n *big.Int) (*big.Int, error) {
	factors, err := d.Factor(n)
	if err != nil {
		return nil, err
	}
	sigma := factors.SumOfDivisors()
	return new(big.Int).Sub(sigma, n), nil
}

// AliquotSum is an alias for SumOfDivisors.
func (d *Driver) AliquotSum(n *big.Int) (*big.Int, error) {
	return d.SumOfDivisors(n)
}

// StepFn is invoked once per loop iteration when AliquotSequence runs with
// verbose logging: index is the 1-based step number, s is the newly
// computed aliquot sum.
type StepFn func(index int, s *big.Int)

// AliquotSequence runs the AliquotDriver loop: starting at n, repeatedly
// replacing current with its aliquot sum, recording history,
// until the sequence terminates (reaches 0), reaches a fixed point (a
// perfect number), or revisits a value already seen (an amicable pair or a
// longer sociable chain).
func (d *Driver) AliquotSequence(n *big.Int, verbose bool, onStep StepFn) ([]*big.Int, error) {
	var runID string
	if d.Ledger != nil {
		id, err := d.Ledger.StartRun(n)
		if err != nil {
			return nil, err
		}
		runID = id
	}

	outcome := ledger.OutcomeAborted
	history := []*big.Int{}
	current := new(big.Int).Set(n)
	seen := map[string]bool{}

	for step := 1; ; step++ {
		// d.Factor (factorize.Factor) already consults and populates the
		// cache on our behalf; inserting again here would duplicate every
		// record it just wrote.
		factors, err := d.Factor(current)
		if err != nil {
			d.finish(runID, outcome)
			return history, err
		}

		sigma := factors.SumOfDivisors()
		s := new(big.Int).Sub(sigma, current)

		if verbose && onStep != nil {
			onStep(step, s)
		}

		if s.Sign() == 0 {
			outcome = ledger.OutcomeTerminated
			break
		}

		history = append(history, s)
		if d.Ledger != nil {
			if err := d.Ledger.RecordStep(runID, step, s); err != nil {
				d.finish(runID, outcome)
				return history, err
			}
		}

		if s.Cmp(current) == 0 {
			outcome = ledger.OutcomePerfect
			break
		}

		if seen[s.String()] {
			outcome = ledger.OutcomeCycle
			break
		}
		seen[s.String()] = true

		current = s
	}

	d.finish(runID, outcome)
	return history, nil
}

func (d *Driver) finish(runID string, outcome ledger.Outcome) {
	if d.Ledger == nil || runID == "" {
		return
	}
	if err := d.Ledger.FinishRun(runID, outcome); err != nil {
		d.Log.Warn().Err(err).Msg("failed to finalize ledger run")
	}
}
