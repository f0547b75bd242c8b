// Package factorcache implements FactorCache: an on-disk key -> factors
// map addressed by (product mod 256) sharded index files plus per-factor-
// count record files.
package factorcache

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/dolthub/swiss"
	"github.com/kryc/aliquot/aliquoterr"
	"github.com/kryc/aliquot/bignum"
	"github.com/kryc/aliquot/primefactors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Cache is a directory-backed FactorCache. The zero value is closed (not
// backed by any directory); use New to open one.
type Cache struct {
	mu     sync.Mutex
	path   string
	staged *swiss.Map[string, *primefactors.Factors]
	log    zerolog.Logger
}

// New opens (creating if necessary) a FactorCache rooted at path. An empty
// path yields a closed Cache, a no-op for callers that don't request one.
func New(path string) (*Cache, error) {
	c := &Cache{path: path, staged: swiss.NewMap[string, *primefactors.Factors](16)}
	if path == "" {
		return c, nil
	}
	if err := os.MkdirAll(c.indexDir(), 0o755); err != nil {
		return nil, errors.Wrapf(aliquoterr.ErrIO, "factorcache: create %s: %v", c.indexDir(), err)
	}
	return c, nil
}

// SetLogger attaches a logger for diagnostic messages.
func (c *Cache) SetLogger(log zerolog.Logger) {
	c.log = log
}

// IsOpen reports whether this Cache is backed by a directory.
func (c *Cache) IsOpen() bool {
	return c != nil && c.path != ""
}

// Path returns the cache's root directory.
func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) indexDir() string {
	return filepath.Join(c.path, "index")
}

func (c *Cache) indexPath(bucket uint8) string {
	return filepath.Join(c.indexDir(), strconv.Itoa(int(bucket))+".idx")
}

func (c *Cache) factorPath(k int) string {
	return filepath.Join(c.path, fmt.Sprintf("factors_%d.dat", k))
}

// Lookup buckets by product mod 256, binary searches the index file, then
// binary searches the matching factors_K file.
func (c *Cache) Lookup(product *big.Int) (*primefactors.Factors, bool, error) {
	if !c.IsOpen() {
		return nil, false, nil
	}

	key, err := bignum.FromBigInt(product)
	if err != nil {
		// Doesn't fit the cache's WIDTH: it can never have been inserted.
		return nil, false, nil
	}

	bucket := bucketOf(product)
	indexBuf, ok, err := binarySearchFile(c.indexPath(bucket), indexRecordBytes, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	rec := decodeIndexRecord(indexBuf)
	if rec.factorCount == 0 {
		return nil, false, nil
	}

	factorBuf, ok, err := binarySearchFile(c.factorPath(int(rec.factorCount)), factorRecordSize(int(rec.factorCount)), key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	_, factors := decodeFactorRecord(factorBuf, int(rec.factorCount))
	return factors, true, nil
}

// Insert appends and sorts: the index and factor records are appended,
// then each touched file is sorted in place before Insert returns.
func (c *Cache) Insert(factors *primefactors.Factors) error {
	if !c.IsOpen() || factors == nil || factors.Empty() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, k, err := c.appendRecords(factors)
	if err != nil {
		return err
	}
	if err := sortFileInPlace(c.indexPath(bucket), indexRecordBytes); err != nil {
		return err
	}
	return sortFileInPlace(c.factorPath(k), factorRecordSize(k))
}

// Stage buffers factors for a later batched Flush, so a bulk loader can
// insert many entries and sort each touched file only once.
func (c *Cache) Stage(factors *primefactors.Factors) {
	if !c.IsOpen() || factors == nil || factors.Empty() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged.Put(factors.Product().String(), factors)
}

// Flush writes every staged entry and sorts all touched files exactly once.
func (c *Cache) Flush() error {
	if !c.IsOpen() {
		return nil
	}
	c.mu.Lock()
	var appendErr error
	c.staged.Iter(func(_ string, factors *primefactors.Factors) bool {
		if _, _, err := c.appendRecords(factors); err != nil {
			appendErr = err
			return true // stop iterating
		}
		return false
	})
	c.staged = swiss.NewMap[string, *primefactors.Factors](16)
	c.mu.Unlock()
	if appendErr != nil {
		return appendErr
	}
	return c.Sort()
}

// appendRecords appends one index record and one factor record without
// sorting. Caller must hold c.mu.
func (c *Cache) appendRecords(factors *primefactors.Factors) (bucket uint8, k int, err error) {
	product := factors.Product()
	productBN, err := bignum.FromBigInt(product)
	if err != nil {
		return 0, 0, errors.Wrapf(aliquoterr.ErrValidation, "factorcache: insert: %v", err)
	}
	k = factors.Size()
	bucket = bucketOf(product)

	idxBuf := encodeIndexRecord(indexRecord{product: productBN, factorCount: uint32(k)})
	if err := appendToFile(c.indexPath(bucket), idxBuf); err != nil {
		return 0, 0, err
	}

	facBuf, err := encodeFactorRecord(productBN, factors.ToSlice())
	if err != nil {
		return 0, 0, errors.Wrapf(aliquoterr.ErrValidation, "factorcache: insert: %v", err)
	}
	if err := appendToFile(c.factorPath(k), facBuf); err != nil {
		return 0, 0, err
	}
	return bucket, k, nil
}

func appendToFile(path string, buf []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: open %s for append: %v", path, err)
	}
	defer f.Close()
	if _, err := f.Write(buf); err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: write %s: %v", path, err)
	}
	return nil
}

var factorFileRE = regexp.MustCompile(`^factors_(\d+)\.dat$`)

// Sort rewrites every existing bucket file and every existing factors_K
// file in place, ordered by product.
func (c *Cache) Sort() error {
	if !c.IsOpen() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for b := 0; b < 256; b++ {
		if err := sortFileInPlace(c.indexPath(uint8(b)), indexRecordBytes); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(c.path)
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: readdir %s: %v", c.path, err)
	}
	var ks []int
	for _, e := range entries {
		if m := factorFileRE.FindStringSubmatch(e.Name()); m != nil {
			k, _ := strconv.Atoi(m[1])
			ks = append(ks, k)
		}
	}
	sort.Ints(ks)
	for _, k := range ks {
		if err := sortFileInPlace(c.factorPath(k), factorRecordSize(k)); err != nil {
			return err
		}
	}
	c.log.Info().Int("factor_files", len(ks)).Msg("sorted factor cache")
	return nil
}

// Close is a no-op; every file handle is scoped to a single operation, so
// there is nothing to release here. It exists so Cache can be used with a
// deferred close regardless of whether one is ever strictly needed.
func (c *Cache) Close() error {
	return nil
}
