package render

import (
	"fmt"
	"image"

	"github.com/caseforge/pagevault/internal/domain"
)

// maxSurfacePixels rejects surface requests no clamped viewport should ever
// produce; it guards against a corrupt page geometry, not normal oversize
// pages (those are handled by the adaptive scale clamp upstream).
const maxSurfacePixels = 1 << 30

// NRGBAAllocator allocates pixel surfaces backed by image.NRGBA buffers.
type NRGBAAllocator struct{}

// NewSurfaceAllocator creates the default surface allocator
func NewSurfaceAllocator() *NRGBAAllocator {
	return &NRGBAAllocator{}
}

// Allocate creates a surface for one page render
func (a *NRGBAAllocator) Allocate(width, height int, grayscale bool) (*domain.PixelSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, domain.RenderError(fmt.Sprintf("invalid surface size %dx%d", width, height), nil)
	}
	if int64(width)*int64(height) > maxSurfacePixels {
		return nil, domain.RenderError(fmt.Sprintf("surface %dx%d exceeds pixel budget", width, height), nil)
	}
	return &domain.PixelSurface{
		Img:       image.NewNRGBA(image.Rect(0, 0, width, height)),
		Grayscale: grayscale,
	}, nil
}

// Free releases the surface's pixel buffer. The surface must not be used
// afterwards.
func (a *NRGBAAllocator) Free(surface *domain.PixelSurface) {
	if surface != nil {
		surface.Img = nil
	}
}

var _ domain.SurfaceAllocator = (*NRGBAAllocator)(nil)
