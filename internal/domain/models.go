package domain

import "time"

// ImageFormat selects the page encoding.
type ImageFormat string

const (
	FormatLossy    ImageFormat = "lossy"    // JPEG
	FormatLossless ImageFormat = "lossless" // PNG
)

// ColorSpace selects the paint color treatment.
type ColorSpace string

const (
	ColorSpaceRGB       ColorSpace = "rgb"
	ColorSpaceGrayscale ColorSpace = "grayscale"
)

// PageRangeMode selects which pages of the document are extracted.
type PageRangeMode string

const (
	PageRangeAll      PageRangeMode = "all"
	PageRangeCustom   PageRangeMode = "custom"
	PageRangeSelected PageRangeMode = "selected"
)

// RenderSettings configures a single extraction run.
type RenderSettings struct {
	DPI             int
	Quality         int // JPEG quality, 0-100
	Format          ImageFormat
	ColorSpace      ColorSpace
	PageRange       PageRangeMode
	CustomPageRange string // only read when PageRange is PageRangeCustom
	SelectedPages   []int  // only read when PageRange is PageRangeSelected
	WithOCR         bool   // attach recognized text to each extracted page
}

// DefaultRenderSettings returns the standard extraction settings.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		DPI:        150,
		Quality:    85,
		Format:     FormatLossy,
		ColorSpace: ColorSpaceRGB,
		PageRange:  PageRangeAll,
	}
}

// Validate checks the settings for values the pipeline cannot honor.
func (s RenderSettings) Validate() error {
	if s.DPI <= 0 {
		return InvalidInputError("dpi must be positive", nil)
	}
	if s.Quality < 0 || s.Quality > 100 {
		return InvalidInputError("quality must be between 0 and 100", nil)
	}
	switch s.Format {
	case FormatLossy, FormatLossless:
	default:
		return InvalidInputError("unknown image format: "+string(s.Format), nil)
	}
	switch s.ColorSpace {
	case ColorSpaceRGB, ColorSpaceGrayscale:
	default:
		return InvalidInputError("unknown color space: "+string(s.ColorSpace), nil)
	}
	switch s.PageRange {
	case PageRangeAll, PageRangeCustom, PageRangeSelected:
	default:
		return InvalidInputError("unknown page range mode: "+string(s.PageRange), nil)
	}
	return nil
}

// SourceDescriptor identifies a resolved source document.
// Immutable once resolved.
type SourceDescriptor struct {
	Path string
	Size int64
}

// Viewport is the pixel geometry of one page at a given scale.
type Viewport struct {
	Width  int
	Height int
	Scale  float64
}

// Area returns the viewport pixel count.
func (v Viewport) Area() int64 {
	return int64(v.Width) * int64(v.Height)
}

// ExtractedPage is one rendered, encoded page.
type ExtractedPage struct {
	PageNumber int
	ImageData  []byte // self-describing JPEG or PNG payload
	Text       string // OCR sidecar, empty unless requested and available
}

// RunState is the orchestrator lifecycle state.
type RunState string

const (
	StateIdle          RunState = "idle"
	StateValidating    RunState = "validating"
	StateLoading       RunState = "loading"
	StatePageIterating RunState = "page_iterating"
	StateCompleted     RunState = "completed"
	StateCancelled     RunState = "cancelled"
	StateFailed        RunState = "failed"
)

// Terminal reports whether the state ends a run.
func (s RunState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// ProgressState is one progress emission. Percentage never decreases within a
// run; CurrentPage strictly increases across per-page emissions.
type ProgressState struct {
	CurrentPage   int
	TotalPages    int
	Percentage    int
	PageProgress  float64 // 0 when unknown
	ETASeconds    float64 // 0 when fewer than two pages have completed
	HasETA        bool
	MemoryUsageMB float64 // 0 when sampling is unavailable
	Message       string
	Timestamp     time.Time
}

// ProgressSink receives progress emissions. Called synchronously, in page
// order, from the extraction goroutine.
type ProgressSink func(ProgressState)
