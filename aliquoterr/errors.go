// Package aliquoterr defines the sentinel error kinds shared across the
// factorization engine, so callers can errors.Is against a stable value
// regardless of which package raised it.
package aliquoterr

import "errors"

var (
	// ErrIO covers open/read/write/map failures against cache or gap-table files.
	ErrIO = errors.New("aliquot: io failure")

	// ErrValidation covers a record-size mismatch or malformed info.txt.
	ErrValidation = errors.New("aliquot: validation failure")

	// ErrTooSmall is raised by ParallelFactorizer when sqrt(N)/T falls below
	// the smallest supported wheel modulus. Callers fall back to LinearFactorizer.
	ErrTooSmall = errors.New("aliquot: number too small for parallel factorization")

	// ErrProductOverflow means the accumulated factor product exceeded N, an
	// invariant breach.
	ErrProductOverflow = errors.New("aliquot: factor product exceeds n")

	// ErrIncomplete means workers exhausted their search range without fully
	// dividing N and the residual quotient is composite.
	ErrIncomplete = errors.New("aliquot: factorization incomplete")

	// ErrConfig covers an unsupported wheel modulus or a gap that does not
	// fit in 6 bits.
	ErrConfig = errors.New("aliquot: configuration error")
)
