// Package exporter is the public entry point for turning PDF pages into
// raster images.
package exporter

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/caseforge/pagevault/internal/domain"
	"github.com/caseforge/pagevault/internal/extract"
	"github.com/caseforge/pagevault/internal/render"
	"github.com/caseforge/pagevault/internal/source"
)

// Re-export the model types callers need.
type (
	RenderSettings = domain.RenderSettings
	ProgressState  = domain.ProgressState
	ExtractedPage  = domain.ExtractedPage
	ImageFormat    = domain.ImageFormat
	ColorSpace     = domain.ColorSpace
	PageRangeMode  = domain.PageRangeMode
	RunState       = domain.RunState
)

const (
	FormatLossy    = domain.FormatLossy
	FormatLossless = domain.FormatLossless

	ColorSpaceRGB       = domain.ColorSpaceRGB
	ColorSpaceGrayscale = domain.ColorSpaceGrayscale

	PageRangeAll      = domain.PageRangeAll
	PageRangeCustom   = domain.PageRangeCustom
	PageRangeSelected = domain.PageRangeSelected
)

// DefaultSettings returns the default render settings (150 DPI, JPEG
// quality 85, RGB, all pages).
func DefaultSettings() RenderSettings {
	return domain.DefaultRenderSettings()
}

// UserMessage translates an extraction error into user-facing text.
func UserMessage(err error) string {
	return domain.UserMessage(err)
}

// Config holds the client's collaborators. Zero-value fields get production
// defaults: the MuPDF engine, filesystem reads, heap-backed surfaces, and
// runtime memory telemetry.
type Config struct {
	Engine   domain.Engine
	Provider domain.ByteRangeProvider
	Surfaces domain.SurfaceAllocator
	Memory   domain.MemorySampler
	OCR      extract.TextRecognizer
	Load     source.LoadOptions
	Logger   *domain.Logger
}

// Client runs extractions. One Client owns one run at a time; call Reset
// between runs.
type Client struct {
	service *extract.Service
	ocr     extract.TextRecognizer
}

// New creates a client with production defaults. Loading behavior can be
// tuned through the environment (a .env file is honored):
//
//	PAGEVAULT_CHUNK_SIZE        chunk size in bytes for chunked loading
//	PAGEVAULT_DIRECT_THRESHOLD  file size in bytes above which loading chunks
func New() (*Client, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a client, filling unset collaborators with
// production defaults. Load options left at their zero values fall back to
// the environment, then to the built-in defaults.
func NewWithConfig(cfg Config) (*Client, error) {
	_ = godotenv.Load() // .env is optional

	var err error
	if cfg.Load.ChunkSize == 0 {
		if cfg.Load.ChunkSize, err = envBytes("PAGEVAULT_CHUNK_SIZE"); err != nil {
			return nil, err
		}
	}
	if cfg.Load.DirectThreshold == 0 {
		if cfg.Load.DirectThreshold, err = envBytes("PAGEVAULT_DIRECT_THRESHOLD"); err != nil {
			return nil, err
		}
	}

	if cfg.Engine == nil {
		cfg.Engine = render.NewEngine()
	}
	if cfg.Provider == nil {
		cfg.Provider = source.NewFSProvider()
	}
	if cfg.Surfaces == nil {
		cfg.Surfaces = render.NewSurfaceAllocator()
	}
	if cfg.Memory == nil {
		cfg.Memory = extract.RuntimeSampler{}
	}

	service := extract.NewService(cfg.Engine, cfg.Provider, extract.Options{
		Surfaces:   cfg.Surfaces,
		Memory:     cfg.Memory,
		Recognizer: cfg.OCR,
		Load:       cfg.Load,
		Logger:     cfg.Logger,
	})
	return &Client{service: service, ocr: cfg.OCR}, nil
}

// Extract renders the selected pages of the PDF at path. onProgress, if
// non-nil, receives monotonic progress emissions during the run. On any
// failure, cancellation included, no pages are returned.
func (c *Client) Extract(ctx context.Context, path string, settings RenderSettings, onProgress func(ProgressState)) ([]ExtractedPage, error) {
	var sink domain.ProgressSink
	if onProgress != nil {
		sink = domain.ProgressSink(onProgress)
	}
	return c.service.Extract(ctx, path, settings, sink)
}

// Cancel requests cooperative cancellation of the in-flight run.
func (c *Client) Cancel() {
	c.service.Cancel()
}

// Reset returns the client to the idle state so a new run can start.
func (c *Client) Reset() error {
	return c.service.Reset()
}

// State reports the current run state.
func (c *Client) State() RunState {
	return c.service.State()
}

// Close releases long-lived resources such as the OCR engine.
func (c *Client) Close() error {
	if closer, ok := c.ocr.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// envBytes reads an optional integer byte-count variable; 0 means unset.
func envBytes(name string) (int64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ConfigError(name+" must be a positive integer", err)
	}
	return n, nil
}
