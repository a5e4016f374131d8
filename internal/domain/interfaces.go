package domain

import (
	"context"
	"image"
)

// ByteRangeProvider reads arbitrary windows of a source file. It is the host
// boundary the chunked loader runs against.
type ByteRangeProvider interface {
	// Size returns the total size of the source in bytes
	Size(path string) (int64, error)

	// ReadRange reads length bytes starting at offset
	ReadRange(path string, offset, length int64) ([]byte, error)
}

// Engine opens documents for rendering. Implemented outside the core
// pipeline; the orchestrator only consumes it.
type Engine interface {
	// OpenFromBytes opens a document from a fully assembled buffer
	OpenFromBytes(data []byte) (Document, error)
}

// Document is an open document handle, owned exclusively by one orchestrator
// run. Destroy must be called exactly once.
type Document interface {
	PageCount() int
	Page(number int) (Page, error)
	Destroy() error
}

// Page is a single page handle, owned for one loop iteration.
type Page interface {
	// Viewport returns the page geometry at the given scale
	Viewport(scale float64) (Viewport, error)

	// Render paints the page into the surface at the viewport's scale
	Render(ctx context.Context, surface *PixelSurface, viewport Viewport) error

	// Cleanup releases per-page resources
	Cleanup()
}

// PixelSurface is one page's raster target. At most one live surface exists
// per run; it must be freed through its allocator before the next allocation.
type PixelSurface struct {
	Img       *image.NRGBA
	Grayscale bool
}

// SurfaceAllocator creates and releases pixel surfaces. The indirection lets
// tests observe the allocate/free pairing that bounds peak memory.
type SurfaceAllocator interface {
	Allocate(width, height int, grayscale bool) (*PixelSurface, error)
	Free(surface *PixelSurface)
}

// MemorySampler reports process memory usage for progress telemetry.
// Best-effort: failures never affect the run.
type MemorySampler interface {
	// SampleMB returns current usage in MB; ok is false when unavailable
	SampleMB() (mb float64, ok bool)
}
