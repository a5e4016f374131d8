package render

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/caseforge/pagevault/internal/domain"
)

// Encode serializes a rendered surface. Lossless selects PNG; lossy selects
// JPEG at the configured quality. Grayscale surfaces are encoded from a
// single-channel image so the payload reflects the color space.
func Encode(surface *domain.PixelSurface, format domain.ImageFormat, quality int) ([]byte, error) {
	if surface == nil || surface.Img == nil {
		return nil, domain.RenderError("cannot encode a released surface", nil)
	}

	var src image.Image = surface.Img
	if surface.Grayscale {
		src = toGray(surface.Img)
	}

	var buf bytes.Buffer
	switch format {
	case domain.FormatLossless:
		if err := png.Encode(&buf, src); err != nil {
			return nil, domain.RenderError("png encode failed", err)
		}
	default:
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
			return nil, domain.RenderError("jpeg encode failed", err)
		}
	}
	return buf.Bytes(), nil
}

// toGray collapses a grayscale-painted NRGBA surface to one channel. The
// surface pixels already carry equal RGB values after the paint transform.
func toGray(img *image.NRGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := 0; y < bounds.Dy(); y++ {
		srcOff := y * img.Stride
		dstOff := y * gray.Stride
		for x := 0; x < bounds.Dx(); x++ {
			gray.Pix[dstOff+x] = img.Pix[srcOff+x*4]
		}
	}
	return gray
}

// FileExtension returns the filename extension for the encoded format.
func FileExtension(format domain.ImageFormat) string {
	if format == domain.FormatLossless {
		return "png"
	}
	return "jpg"
}
