// Package extract drives the extraction pipeline: validate, load, iterate
// pages, emit progress, and guarantee resource release on every exit path.
package extract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caseforge/pagevault/internal/domain"
	"github.com/caseforge/pagevault/internal/pagerange"
	"github.com/caseforge/pagevault/internal/render"
	"github.com/caseforge/pagevault/internal/source"
)

// TextRecognizer turns an encoded page image into text. Used for the optional
// OCR sidecar; failures are logged and never fail the run.
type TextRecognizer interface {
	Recognize(imageData []byte) (string, error)
}

// memReclaimInterval is how many completed pages pass between reclaim hints.
const memReclaimInterval = 5

// hdArea is the pixel count of a 1920x1080 frame, the unit of the adaptive
// scale clamp.
const hdArea = int64(1920 * 1080)

// Options configures optional orchestrator collaborators.
type Options struct {
	Surfaces   domain.SurfaceAllocator
	Memory     domain.MemorySampler
	Recognizer TextRecognizer
	Load       source.LoadOptions
	Logger     *domain.Logger
}

// Service is the extraction orchestrator. One Service owns one run at a time;
// the cancellation token and timing history live on the instance and are
// cleared by Reset.
type Service struct {
	engine     domain.Engine
	provider   domain.ByteRangeProvider
	surfaces   domain.SurfaceAllocator
	memory     domain.MemorySampler
	recognizer TextRecognizer
	loader     *source.Loader
	validator  *source.Validator
	logger     *domain.Logger

	cancelled atomic.Bool

	mu       sync.Mutex
	state    domain.RunState
	progress *tracker
}

// NewService creates an orchestrator over the given engine and provider
func NewService(engine domain.Engine, provider domain.ByteRangeProvider, opts Options) *Service {
	if opts.Surfaces == nil {
		panic("extract: Options.Surfaces is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = domain.DefaultLogger.WithPrefix("extract")
	}
	return &Service{
		engine:     engine,
		provider:   provider,
		surfaces:   opts.Surfaces,
		memory:     opts.Memory,
		recognizer: opts.Recognizer,
		loader:     source.NewLoader(provider, opts.Load),
		validator:  source.NewValidator(provider),
		logger:     logger,
		state:      domain.StateIdle,
		progress:   newTracker(),
	}
}

// State returns the current run state.
func (s *Service) State() domain.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancel requests cooperative cancellation. The in-flight page render, if
// any, completes before the run terminates.
func (s *Service) Cancel() {
	s.cancelled.Store(true)
}

// Reset clears the cancellation token, the timing history, and any terminal
// state, returning the service to Idle. It fails while a run is active.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateIdle && !s.state.Terminal() {
		return domain.InvalidInputError("cannot reset while a run is active", nil)
	}
	s.cancelled.Store(false)
	s.progress.reset()
	s.state = domain.StateIdle
	return nil
}

func (s *Service) setState(state domain.RunState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Extract runs the full pipeline for one source. On success it returns every
// selected page in ascending order; on any failure, cancellation included,
// it returns an error and no pages.
func (s *Service) Extract(ctx context.Context, path string, settings domain.RenderSettings, sink domain.ProgressSink) ([]domain.ExtractedPage, error) {
	s.mu.Lock()
	if s.state != domain.StateIdle {
		s.mu.Unlock()
		return nil, domain.InvalidInputError(fmt.Sprintf("extractor is %s; call Reset before starting a new run", s.state), nil)
	}
	s.state = domain.StateValidating
	s.mu.Unlock()

	pages, err := s.run(ctx, path, settings, sink)
	switch {
	case err == nil:
		s.setState(domain.StateCompleted)
	case domain.IsCancelled(err):
		s.setState(domain.StateCancelled)
	default:
		s.setState(domain.StateFailed)
	}
	return pages, err
}

func (s *Service) run(ctx context.Context, path string, settings domain.RenderSettings, sink domain.ProgressSink) ([]domain.ExtractedPage, error) {
	// Validating: nothing allocated yet, failures are fail-fast.
	s.emit(sink, domain.ProgressState{Percentage: checkpointStart, Message: "Validating source"})

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	desc, err := s.validator.Validate(path)
	if err != nil {
		return nil, err
	}
	s.emit(sink, domain.ProgressState{Percentage: checkpointValidated, Message: "Source validated"})

	// Loading.
	s.setState(domain.StateLoading)
	mode := "direct"
	if s.loader.Chunked(desc) {
		mode = "chunked"
	}
	s.emit(sink, domain.ProgressState{Percentage: checkpointLoading, Message: fmt.Sprintf("Loading document (%s)", mode)})

	data, err := s.loader.Load(desc)
	if err != nil {
		return nil, err
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return nil, domain.FormatError("payload does not look like a PDF document", nil)
	}

	doc, err := s.engine.OpenFromBytes(data)
	if err != nil {
		if domain.TypeOf(err) == "" {
			err = domain.FormatError("failed to decode document", err)
		}
		return nil, err
	}

	// Everything from here on holds engine resources. Release is guaranteed
	// for every terminal state; the document is destroyed exactly once.
	var (
		page    domain.Page
		surface *domain.PixelSurface
	)
	defer func() {
		if surface != nil {
			s.surfaces.Free(surface)
			surface = nil
		}
		if page != nil {
			page.Cleanup()
			page = nil
		}
		if destroyErr := doc.Destroy(); destroyErr != nil {
			s.logger.Warn("document destroy failed: %v", destroyErr)
		}
	}()

	pageCount := doc.PageCount()
	s.emit(sink, domain.ProgressState{Percentage: checkpointLoaded, Message: fmt.Sprintf("Document loaded: %d pages", pageCount)})

	// Page iteration.
	s.setState(domain.StatePageIterating)
	selection := pagerange.Resolve(pageCount, settings.PageRange, settings.CustomPageRange, settings.SelectedPages)
	if len(selection) == 0 {
		return nil, domain.NoValidPagesError("page selection matches no pages")
	}

	baseScale := float64(settings.DPI) / 96.0
	grayscale := settings.ColorSpace == domain.ColorSpaceGrayscale
	results := make([]domain.ExtractedPage, 0, len(selection))

	for i, pageNum := range selection {
		if s.cancelRequested(ctx) {
			s.logger.Info("cancelled after %d of %d pages", i, len(selection))
			return nil, domain.CancelledError("extraction cancelled")
		}

		pageStart := time.Now()

		page, err = doc.Page(pageNum)
		if err != nil {
			return nil, domain.RenderError(fmt.Sprintf("failed to open page %d", pageNum), err)
		}

		native, err := page.Viewport(1.0)
		if err != nil {
			return nil, err
		}
		scale := clampScale(baseScale, native.Area())

		viewport, err := page.Viewport(scale)
		if err != nil {
			return nil, err
		}

		surface, err = s.surfaces.Allocate(viewport.Width, viewport.Height, grayscale)
		if err != nil {
			return nil, err
		}

		if err = page.Render(ctx, surface, viewport); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, domain.CancelledError("extraction cancelled")
			}
			if domain.TypeOf(err) == "" {
				err = domain.RenderError(fmt.Sprintf("failed to render page %d", pageNum), err)
			}
			return nil, err
		}

		encoded, err := render.Encode(surface, settings.Format, settings.Quality)
		if err != nil {
			return nil, err
		}

		result := domain.ExtractedPage{PageNumber: pageNum, ImageData: encoded}
		if settings.WithOCR && s.recognizer != nil {
			text, ocrErr := s.recognizer.Recognize(encoded)
			if ocrErr != nil {
				s.logger.Warn("ocr failed on page %d: %v", pageNum, ocrErr)
			} else {
				result.Text = text
			}
		}
		results = append(results, result)

		// Single-surface invariant: release before the next iteration begins.
		s.surfaces.Free(surface)
		surface = nil
		page.Cleanup()
		page = nil

		completed := i + 1
		if completed%memReclaimInterval == 0 {
			debug.FreeOSMemory()
		}

		s.progress.record(time.Since(pageStart))
		s.emitPage(sink, pageNum, completed, len(selection))
	}

	return results, nil
}

func (s *Service) cancelRequested(ctx context.Context) bool {
	return s.cancelled.Load() || ctx.Err() != nil
}

// clampScale bounds the render scale for oversized pages so a single page
// cannot exhaust memory regardless of the requested DPI.
func clampScale(base float64, nativeArea int64) float64 {
	switch {
	case nativeArea > 4*hdArea:
		return math.Min(base, 1.0)
	case nativeArea > 2*hdArea:
		return math.Min(base, 1.5)
	case nativeArea > hdArea:
		return math.Min(base, 2.0)
	default:
		return base
	}
}

// emit sends a checkpoint emission through the sink.
func (s *Service) emit(sink domain.ProgressSink, state domain.ProgressState) {
	if sink == nil {
		return
	}
	state.Percentage = s.progress.clampPct(state.Percentage)
	state.Timestamp = time.Now()
	s.sample(&state)
	sink(state)
}

// emitPage sends the per-page emission after a page completes.
func (s *Service) emitPage(sink domain.ProgressSink, pageNum, completed, total int) {
	if sink == nil {
		return
	}
	state := domain.ProgressState{
		CurrentPage:  pageNum,
		TotalPages:   total,
		Percentage:   s.progress.clampPct(pagePercentage(completed, total)),
		PageProgress: 1.0,
		Message:      fmt.Sprintf("Extracted page %d (%d of %d)", pageNum, completed, total),
		Timestamp:    time.Now(),
	}
	if eta, ok := s.progress.eta(total - completed); ok {
		state.ETASeconds = eta
		state.HasETA = true
	}
	s.sample(&state)
	s.progress.lastPage = pageNum
	sink(state)
}

// sample attaches best-effort memory telemetry; never affects control flow.
func (s *Service) sample(state *domain.ProgressState) {
	if s.memory == nil {
		return
	}
	if mb, ok := s.memory.SampleMB(); ok {
		state.MemoryUsageMB = mb
	}
}
