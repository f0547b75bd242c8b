package factorcache

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kryc/aliquot/aliquoterr"
	"github.com/kryc/aliquot/bignum"
	"github.com/pkg/errors"
)

// Info mirrors info.txt's key=value lines. WidthBits lets a reader detect
// a build-constant mismatch before trusting any record offsets.
type Info struct {
	MinPrime       uint64
	MaxPrime       uint64
	MinFactors     uint64
	MaxFactors     uint64
	SmallestFactor uint64
	WidthBits      uint64
}

func (c *Cache) infoPath() string {
	return c.path + string(os.PathSeparator) + "info.txt"
}

// WriteInfo writes info.txt, overwriting any previous contents.
func (c *Cache) WriteInfo(info Info) error {
	info.WidthBits = bignum.Bits
	f, err := os.Create(c.infoPath())
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: create info.txt: %v", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "min_prime=%d\n", info.MinPrime)
	fmt.Fprintf(w, "max_prime=%d\n", info.MaxPrime)
	fmt.Fprintf(w, "min_factors=%d\n", info.MinFactors)
	fmt.Fprintf(w, "max_factors=%d\n", info.MaxFactors)
	fmt.Fprintf(w, "smallest_factor=%d\n", info.SmallestFactor)
	fmt.Fprintf(w, "width_bits=%d\n", info.WidthBits)
	return w.Flush()
}

// ReadInfo parses info.txt. A missing file is not an error: it returns the
// zero Info and ok=false. A present but malformed file fails ValidationError.
func (c *Cache) ReadInfo() (Info, bool, error) {
	f, err := os.Open(c.infoPath())
	if os.IsNotExist(err) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, errors.Wrapf(aliquoterr.ErrIO, "factorcache: open info.txt: %v", err)
	}
	defer f.Close()

	var info Info
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return Info{}, false, errors.Wrapf(aliquoterr.ErrValidation, "factorcache: malformed info.txt line %q", line)
		}
		value, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return Info{}, false, errors.Wrapf(aliquoterr.ErrValidation, "factorcache: malformed info.txt value %q", line)
		}
		switch strings.TrimSpace(parts[0]) {
		case "min_prime":
			info.MinPrime = value
		case "max_prime":
			info.MaxPrime = value
		case "min_factors":
			info.MinFactors = value
		case "max_factors":
			info.MaxFactors = value
		case "smallest_factor":
			info.SmallestFactor = value
		case "width_bits":
			info.WidthBits = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Info{}, false, errors.Wrapf(aliquoterr.ErrIO, "factorcache: scan info.txt: %v", err)
	}
	if info.WidthBits != 0 && info.WidthBits != bignum.Bits {
		return Info{}, false, errors.Wrapf(aliquoterr.ErrValidation, "factorcache: cache built with width_bits=%d, this binary uses %d", info.WidthBits, bignum.Bits)
	}
	return info, true, nil
}
