package factorcache

import (
	"io"
	"os"
	"sort"

	"github.com/kryc/aliquot/aliquoterr"
	"github.com/kryc/aliquot/bignum"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// recordSpan is a mmap'd, record-sized view over a file, sortable by the
// BigNum product prefix every record starts with (sort.Interface).
type recordSpan struct {
	data       []byte
	recordSize int
	scratch    []byte
}

func (s *recordSpan) Len() int { return len(s.data) / s.recordSize }

func (s *recordSpan) recordAt(i int) []byte {
	off := i * s.recordSize
	return s.data[off : off+s.recordSize]
}

func (s *recordSpan) Less(i, j int) bool {
	pi := bignum.Decode(s.recordAt(i))
	pj := bignum.Decode(s.recordAt(j))
	return bignum.Compare(pi, pj) < 0
}

func (s *recordSpan) Swap(i, j int) {
	if s.scratch == nil {
		s.scratch = make([]byte, s.recordSize)
	}
	ri, rj := s.recordAt(i), s.recordAt(j)
	copy(s.scratch, ri)
	copy(ri, rj)
	copy(rj, s.scratch)
}

// sortFileInPlace mmaps path, sorts it by the leading BigNum field of each
// fixed-size record, and msyncs the result back to disk. A missing or
// empty file is a no-op, not an error. A size not divisible by recordSize
// fails ValidationError.
func sortFileInPlace(path string, recordSize int) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: open %s for sort: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: stat %s: %v", path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil
	}
	if size%int64(recordSize) != 0 {
		return errors.Wrapf(aliquoterr.ErrValidation, "factorcache: %s size %d not a multiple of record size %d", path, size, recordSize)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: mmap %s: %v", path, err)
	}
	defer unix.Munmap(data)

	span := &recordSpan{data: data, recordSize: recordSize}
	sort.Sort(span)

	if err := unix.Msync(data, unix.MS_SYNC); err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "factorcache: msync %s: %v", path, err)
	}
	return nil
}

// binarySearchFile performs a binary search over a file of fixed-size
// records sorted ascending by the leading BigNum field, seeking and reading
// one record per probe. It returns the matching record bytes, or ok=false.
func binarySearchFile(path string, recordSize int, key bignum.BigNum) (record []byte, ok bool, err error) {
	f, openErr := os.Open(path)
	if os.IsNotExist(openErr) {
		return nil, false, nil
	}
	if openErr != nil {
		return nil, false, errors.Wrapf(aliquoterr.ErrIO, "factorcache: open %s: %v", path, openErr)
	}
	defer f.Close()

	info, statErr := f.Stat()
	if statErr != nil {
		return nil, false, errors.Wrapf(aliquoterr.ErrIO, "factorcache: stat %s: %v", path, statErr)
	}
	size := info.Size()
	if size == 0 {
		return nil, false, nil
	}
	if size%int64(recordSize) != 0 {
		return nil, false, errors.Wrapf(aliquoterr.ErrValidation, "factorcache: %s size %d not a multiple of record size %d", path, size, recordSize)
	}
	numRecords := size / int64(recordSize)

	buf := make([]byte, recordSize)
	low, high := int64(0), numRecords-1
	for low <= high {
		mid := low + (high-low)/2
		if _, err := f.Seek(mid*int64(recordSize), 0); err != nil {
			return nil, false, errors.Wrapf(aliquoterr.ErrIO, "factorcache: seek %s: %v", path, err)
		}
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, false, errors.Wrapf(aliquoterr.ErrIO, "factorcache: read %s: %v", path, err)
		}
		candidate := bignum.Decode(buf)
		switch bignum.Compare(candidate, key) {
		case 0:
			out := make([]byte, recordSize)
			copy(out, buf)
			return out, true, nil
		case -1:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return nil, false, nil
}
