package source

import (
	"io"
	"os"

	"github.com/caseforge/pagevault/internal/domain"
)

// FSProvider implements domain.ByteRangeProvider over the local filesystem.
type FSProvider struct{}

// NewFSProvider creates a filesystem byte-range provider
func NewFSProvider() *FSProvider {
	return &FSProvider{}
}

// Size returns the file size in bytes
func (p *FSProvider) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ReadRange reads length bytes starting at offset. A range extending past the
// end of the file is truncated to the available bytes.
func (p *FSProvider) ReadRange(path string, offset, length int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, length)
	n, err := file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

var _ domain.ByteRangeProvider = (*FSProvider)(nil)
