//go:build !unix

package primegap

import "os"

// mapping is the non-unix fallback: the whole file read into memory. It
// gives the same read-only byte span contract without a real mmap.
type mapping struct {
	data []byte
}

func mapFile(path string) (*mapping, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return &mapping{data: data}, data, nil
}

func (m *mapping) unmap() error {
	return nil
}
