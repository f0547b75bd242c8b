// Package primegap implements PrimeGapTable: a byte stream of
// variable-length-encoded gaps between consecutive primes, starting with
// the gap from 0 to the first prime (2). The table is process-wide: either
// memory-mapped from a file, or generated on demand into an owned buffer.
package primegap

import (
	"math/big"
	"sync"

	"github.com/kryc/aliquot/aliquoterr"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultFallbackLimit is the bound used when no table has been explicitly
// loaded or generated and one is needed lazily.
const DefaultFallbackLimit = 65536

// Table is a loaded or generated prime-gap stream. The zero value is an
// empty table that generates DefaultFallbackLimit worth of gaps on first
// use; fill it explicitly with Load or Generate, or use the process-wide
// Default.
type Table struct {
	mu       sync.RWMutex
	data     []byte
	mapped   *mapping // non-nil if backed by an mmap'd file
	log      zerolog.Logger
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table, lazily generating one bounded by
// DefaultFallbackLimit if nothing has been loaded yet. It is safe for
// concurrent use; replacing it via LoadDefault is serialized against readers.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = &Table{}
	})
	return defaultTable
}

// LoadDefault loads path into the process-wide table, replacing and
// unmapping whatever was there before.
func LoadDefault(path string) error {
	return Default().Load(path)
}

// SetLogger attaches a logger used for diagnostic messages (one line per
// successful Load). The zero Logger discards everything.
func (t *Table) SetLogger(log zerolog.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = log
}

// Load memory-maps path read-only, replacing any previously loaded table.
// It fails with ErrIO on open/stat/map error.
func (t *Table) Load(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, data, err := mapFile(path)
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "primegap: load %s: %v", path, err)
	}

	if t.mapped != nil {
		_ = t.mapped.unmap()
	}
	t.mapped = m
	t.data = data
	t.log.Info().Str("path", path).Int("bytes", len(data)).Msg("loaded prime gap table")
	return nil
}

// Generate computes gaps from scratch using a probabilistic primality test
// (25 Miller-Rabin rounds via math/big), up to the limit-th prime if
// isCount, otherwise up to primes with value <= limit. The generated bytes
// become the table's owned, in-memory content (no mmap, no prior file is
// disturbed).
func (t *Table) Generate(limit *big.Int, isCount bool) []byte {
	gaps := generate(limit, isCount)

	t.mu.Lock()
	if t.mapped != nil {
		_ = t.mapped.unmap()
		t.mapped = nil
	}
	t.data = gaps
	t.mu.Unlock()

	return gaps
}

func generate(limit *big.Int, isCount bool) []byte {
	gaps := make([]byte, 0, 1<<20)
	if limit.Sign() <= 0 {
		return gaps
	}

	next := big.NewInt(2)
	previous := big.NewInt(0)
	count := uint64(0)

	for {
		if isCount {
			if count >= limit.Uint64() {
				break
			}
		} else if next.Cmp(limit) > 0 {
			break
		}

		gap := new(big.Int).Sub(next, previous)
		previous.Set(next)
		gaps = appendGap(gaps, gap.Uint64())
		count++
		next = nextPrime(next)
	}
	return gaps
}

// nextPrime returns the smallest prime strictly greater than n.
func nextPrime(n *big.Int) *big.Int {
	candidate := new(big.Int).Add(n, big.NewInt(1))
	if candidate.Bit(0) == 0 && candidate.Cmp(big.NewInt(2)) != 0 {
		candidate.Add(candidate, big.NewInt(1))
	}
	for !candidate.ProbablyPrime(25) {
		candidate.Add(candidate, big.NewInt(2))
	}
	return candidate
}

// Bytes returns the currently active table: loaded if Load succeeded, else
// lazily generated with DefaultFallbackLimit.
func (t *Table) Bytes() []byte {
	t.mu.RLock()
	if t.data != nil {
		defer t.mu.RUnlock()
		return t.data
	}
	t.mu.RUnlock()
	return t.Generate(big.NewInt(DefaultFallbackLimit), false)
}

// Walker yields successive primes from a Table, starting at 2.
type Walker struct {
	data    []byte
	offset  int
	current *big.Int
	started bool
}

// Walk returns a lazy iterator over the primes encoded in the table: 2, 3,
// 5, ... It is finite in practice, bounded by the table's length.
func (t *Table) Walk() *Walker {
	return &Walker{data: t.Bytes(), offset: 0, current: big.NewInt(0)}
}

// Next advances the walker and returns the next prime, or ok=false once the
// table is exhausted.
func (w *Walker) Next() (*big.Int, bool) {
	if !w.started {
		w.started = true
		gap, next, ok := readGap(w.data, w.offset)
		if !ok {
			return nil, false
		}
		w.offset = next
		w.current = w.current.Add(w.current, new(big.Int).SetUint64(gap))
		return new(big.Int).Set(w.current), true
	}
	gap, next, ok := readGap(w.data, w.offset)
	if !ok {
		return nil, false
	}
	w.offset = next
	w.current = w.current.Add(w.current, new(big.Int).SetUint64(gap))
	return new(big.Int).Set(w.current), true
}

// NthPrime returns the n-th prime (0-indexed: NthPrime(0) == 2), continuing
// past the end of the table with an on-the-fly probabilistic search if
// necessary.
func (t *Table) NthPrime(n uint64) *big.Int {
	if n == 0 {
		return big.NewInt(2)
	}
	data := t.Bytes()
	prime := big.NewInt(2)
	offset := 0
	// Skip the first gap (2's own offset from 0); it's already accounted for.
	if _, next, ok := readGap(data, offset); ok {
		offset = next
	}
	var count uint64
	for count < n {
		gap, next, ok := readGap(data, offset)
		if !ok {
			break
		}
		offset = next
		prime.Add(prime, new(big.Int).SetUint64(gap))
		count++
	}
	for count < n {
		prime = nextPrime(prime)
		count++
	}
	return prime
}

// PrimeIndex returns the 0-indexed position of prime within the walked
// sequence 2, 3, 5, ..., falling back to on-the-fly search past the end of
// the table.
func (t *Table) PrimeIndex(prime *big.Int) uint64 {
	data := t.Bytes()
	current := big.NewInt(2)
	offset := 0
	if _, next, ok := readGap(data, offset); ok {
		offset = next
	}
	var index uint64
	for current.Cmp(prime) < 0 {
		gap, next, ok := readGap(data, offset)
		if !ok {
			break
		}
		offset = next
		current.Add(current, new(big.Int).SetUint64(gap))
		index++
	}
	for current.Cmp(prime) < 0 {
		current = nextPrime(current)
		index++
	}
	return index
}
