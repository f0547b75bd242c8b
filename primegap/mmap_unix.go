//go:build unix

package primegap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapping wraps a read-only mmap of a prime-gap file.
type mapping struct {
	data []byte
}

func mapFile(path string) (*mapping, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return &mapping{}, nil, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return &mapping{data: data}, data, nil
}

func (m *mapping) unmap() error {
	if m == nil || m.data == nil {
		return nil
	}
	return unix.Munmap(m.data)
}
