// Package source assembles document bytes from a byte-range provider.
//
// Sources below the direct threshold are read in one call. Larger sources are
// read in bounded chunks and concatenated, so no single transfer across the
// provider boundary exceeds the chunk size while only one assembled buffer is
// ever held.
package source

import (
	"fmt"

	"github.com/caseforge/pagevault/internal/domain"
)

const (
	// DefaultChunkSize is the per-read transfer bound for chunked loading.
	DefaultChunkSize int64 = 2 * 1024 * 1024

	// DefaultDirectThreshold is the size above which chunked loading replaces
	// a single whole-file transfer.
	DefaultDirectThreshold int64 = 350 * 1024 * 1024
)

// LoadOptions tunes the loader. Zero values select the defaults.
type LoadOptions struct {
	ChunkSize       int64
	DirectThreshold int64
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.DirectThreshold <= 0 {
		o.DirectThreshold = DefaultDirectThreshold
	}
	return o
}

// Loader reads a source into a single buffer through a byte-range provider.
type Loader struct {
	provider domain.ByteRangeProvider
	opts     LoadOptions
	logger   *domain.Logger
}

// NewLoader creates a loader over the given provider
func NewLoader(provider domain.ByteRangeProvider, opts LoadOptions) *Loader {
	return &Loader{
		provider: provider,
		opts:     opts.withDefaults(),
		logger:   domain.DefaultLogger.WithPrefix("source"),
	}
}

// Chunked reports whether the descriptor will take the chunked path.
func (l *Loader) Chunked(desc domain.SourceDescriptor) bool {
	return desc.Size >= l.opts.DirectThreshold
}

// Load assembles the full document bytes for the descriptor. Any read failure
// aborts and surfaces as an io error; partial buffers are abandoned.
func (l *Loader) Load(desc domain.SourceDescriptor) ([]byte, error) {
	if !l.Chunked(desc) {
		data, err := l.provider.ReadRange(desc.Path, 0, desc.Size)
		if err != nil {
			return nil, domain.IOError(fmt.Sprintf("failed to read %s", desc.Path), err)
		}
		return data, nil
	}

	l.logger.Info("Loading %s in %d byte chunks (%d bytes total)", desc.Path, l.opts.ChunkSize, desc.Size)

	buf := make([]byte, 0, desc.Size)
	for offset := int64(0); offset < desc.Size; offset += l.opts.ChunkSize {
		length := l.opts.ChunkSize
		if remaining := desc.Size - offset; remaining < length {
			length = remaining
		}

		chunk, err := l.provider.ReadRange(desc.Path, offset, length)
		if err != nil {
			return nil, domain.IOError(fmt.Sprintf("failed to read chunk at offset %d", offset), err)
		}
		if int64(len(chunk)) != length {
			return nil, domain.IOError(fmt.Sprintf("short chunk at offset %d: got %d bytes, want %d", offset, len(chunk), length), nil)
		}
		buf = append(buf, chunk...)
	}

	return buf, nil
}
