// Package render is the rendering-engine boundary. It adapts go-fitz (MuPDF)
// to the pipeline's Document/Page contract and owns surface allocation and
// page encoding.
package render

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	xdraw "golang.org/x/image/draw"

	"github.com/caseforge/pagevault/internal/domain"
)

// Scale 1.0 corresponds to 96 DPI output; MuPDF page bounds are in
// typographic points (72 per inch).
const (
	baseDPI   = 96.0
	pointsDPI = 72.0
)

// FitzEngine opens documents with go-fitz.
type FitzEngine struct{}

// NewEngine creates the go-fitz rendering engine
func NewEngine() *FitzEngine {
	return &FitzEngine{}
}

// OpenFromBytes opens a document from a fully assembled buffer. The buffer is
// owned by the returned document until Destroy.
func (e *FitzEngine) OpenFromBytes(data []byte) (domain.Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, domain.FormatError("failed to open document", err)
	}
	return &fitzDocument{doc: doc, data: data}, nil
}

var _ domain.Engine = (*FitzEngine)(nil)

type fitzDocument struct {
	doc  *fitz.Document
	data []byte // kept alive for the document's lifetime
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// Page returns a handle for the 1-based page number.
func (d *fitzDocument) Page(number int) (domain.Page, error) {
	if number < 1 || number > d.doc.NumPage() {
		return nil, domain.RenderError(fmt.Sprintf("page %d out of range", number), nil)
	}
	return &fitzPage{doc: d.doc, index: number - 1}, nil
}

// Destroy closes the document and drops the assembled buffer.
func (d *fitzDocument) Destroy() error {
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	d.data = nil
	return err
}

type fitzPage struct {
	doc   *fitz.Document
	index int
}

// Viewport returns the page geometry at the given scale.
func (p *fitzPage) Viewport(scale float64) (domain.Viewport, error) {
	bounds, err := p.doc.Bound(p.index)
	if err != nil {
		return domain.Viewport{}, domain.RenderError(fmt.Sprintf("failed to measure page %d", p.index+1), err)
	}
	// Bound is in points; convert to pixels at the scaled base DPI.
	factor := scale * baseDPI / pointsDPI
	w := int(float64(bounds.Dx())*factor + 0.5)
	h := int(float64(bounds.Dy())*factor + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return domain.Viewport{Width: w, Height: h, Scale: scale}, nil
}

// Render rasterizes the page and paints it into the surface. The raster is
// resampled to the exact viewport size; grayscale surfaces get a luma
// transform during the paint.
func (p *fitzPage) Render(ctx context.Context, surface *domain.PixelSurface, viewport domain.Viewport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if surface == nil || surface.Img == nil {
		return domain.RenderError("render target surface is not allocated", nil)
	}

	raster, err := p.doc.ImageDPI(p.index, viewport.Scale*baseDPI)
	if err != nil {
		return domain.RenderError(fmt.Sprintf("failed to rasterize page %d", p.index+1), err)
	}

	PaintInto(surface, raster)
	return nil
}

func (p *fitzPage) Cleanup() {
	// go-fitz page state lives in the document; nothing held per page.
	p.doc = nil
}

// PaintInto draws src into the surface, scaling to the surface bounds and
// applying the grayscale transform when requested.
func PaintInto(surface *domain.PixelSurface, src image.Image) {
	dst := surface.Img
	if src.Bounds().Dx() == dst.Bounds().Dx() && src.Bounds().Dy() == dst.Bounds().Dy() {
		xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}
	if surface.Grayscale {
		grayTransform(dst)
	}
}

// grayTransform converts the surface pixels to their Rec. 601 luma in place.
func grayTransform(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		r, g, b := int(pix[i]), int(pix[i+1]), int(pix[i+2])
		y := uint8((299*r + 587*g + 114*b) / 1000)
		pix[i] = y
		pix[i+1] = y
		pix[i+2] = y
	}
}
