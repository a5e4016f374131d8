package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caseforge/pagevault/internal/domain"
	"github.com/caseforge/pagevault/internal/ocr"
	"github.com/caseforge/pagevault/internal/render"
	"github.com/caseforge/pagevault/pkg/exporter"
)

const version = "1.0.0"

var (
	outputDir   string
	dpi         int
	quality     int
	format      string
	grayscale   bool
	pages       string
	withOCR     bool
	verbose     bool
	showVersion bool
)

func init() {
	flag.StringVar(&outputDir, "output", "", "Output directory (default: <input-name>-pages)")
	flag.StringVar(&outputDir, "o", "", "Output directory (shorthand)")
	flag.IntVar(&dpi, "dpi", 150, "Render resolution in DPI")
	flag.IntVar(&quality, "quality", 85, "JPEG quality (0-100)")
	flag.StringVar(&format, "format", "jpg", "Output format: jpg or png")
	flag.BoolVar(&grayscale, "grayscale", false, "Render in grayscale")
	flag.StringVar(&pages, "pages", "", "Page selection, e.g. \"1-5,8,11-13\" (default: all)")
	flag.BoolVar(&withOCR, "ocr", false, "Write recognized text sidecars (requires -tags ocr build)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Usage = usage
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("pagevault version %s\n", version)
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		usage()
		os.Exit(1)
	}
	pdfPath := flag.Arg(0)

	logLevel := domain.LogLevelInfo
	if verbose {
		logLevel = domain.LogLevelDebug
	}
	logger := domain.NewLogger(logLevel)

	settings := exporter.DefaultSettings()
	settings.DPI = dpi
	settings.Quality = quality
	settings.WithOCR = withOCR
	switch format {
	case "jpg", "jpeg":
	case "png":
		settings.Format = exporter.FormatLossless
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (use jpg or png)\n", format)
		os.Exit(1)
	}
	if grayscale {
		settings.ColorSpace = exporter.ColorSpaceGrayscale
	}
	if pages != "" {
		settings.PageRange = exporter.PageRangeCustom
		settings.CustomPageRange = pages
	}

	if outputDir == "" {
		baseName := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
		outputDir = baseName + "-pages"
	}

	cfg := exporter.Config{Logger: logger}
	if withOCR {
		recognizer, ocrErr := ocr.New()
		if ocrErr != nil {
			logger.Warn("OCR unavailable, continuing without text sidecars: %v", ocrErr)
			settings.WithOCR = false
		} else {
			cfg.OCR = recognizer
		}
	}

	client, err := exporter.NewWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", exporter.UserMessage(err))
		os.Exit(1)
	}
	defer client.Close()

	// Ctrl-C requests cooperative cancellation; the in-flight page finishes
	// and the run terminates with no partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupt received, cancelling...")
		client.Cancel()
		cancel()
	}()

	fmt.Printf("Extracting pages: %s\n", pdfPath)
	fmt.Println(strings.Repeat("=", 60))

	startTime := time.Now()
	extracted, err := client.Extract(ctx, pdfPath, settings, displayProgress)
	fmt.Println()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", exporter.UserMessage(err))
		if verbose {
			fmt.Fprintf(os.Stderr, "Detail: %v\n", err)
		}
		os.Exit(1)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	ext := render.FileExtension(settings.Format)
	for _, page := range extracted {
		name := filepath.Join(outputDir, fmt.Sprintf("page_%03d.%s", page.PageNumber, ext))
		if err := os.WriteFile(name, page.ImageData, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
		if page.Text != "" {
			sidecar := filepath.Join(outputDir, fmt.Sprintf("page_%03d.txt", page.PageNumber))
			if err := os.WriteFile(sidecar, []byte(page.Text), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to write %s: %v\n", sidecar, err)
				os.Exit(1)
			}
		}
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Extracted %d pages to %s in %v\n", len(extracted), outputDir, time.Since(startTime).Round(time.Second))
}

func displayProgress(p exporter.ProgressState) {
	line := fmt.Sprintf("[%3d%%] %s", p.Percentage, p.Message)
	if p.HasETA {
		line += fmt.Sprintf(" (ETA %ds)", int(p.ETASeconds+0.5))
	}
	if verbose && p.MemoryUsageMB > 0 {
		line += fmt.Sprintf(" [%.1f MB]", p.MemoryUsageMB)
	}
	if verbose {
		fmt.Println(line)
		return
	}
	// Overwrite the previous line; pad so shorter lines fully cover it.
	fmt.Printf("\r%-70s", line)
}

func usage() {
	fmt.Fprintf(os.Stderr, `pagevault - Extract PDF pages as raster images

Usage:
  pagevault [options] <pdf-file>

Options:
  -o, --output <dir>    Output directory (default: <input-name>-pages)
  --dpi <n>             Render resolution in DPI (default: 150)
  --quality <n>         JPEG quality 0-100 (default: 85)
  --format <jpg|png>    Output image format (default: jpg)
  --grayscale           Render in grayscale
  --pages <expr>        Page selection, e.g. "1-5,8,11-13" (default: all)
  --ocr                 Write recognized text sidecars (requires -tags ocr)
  --verbose             Enable verbose logging
  --version             Show version information

Environment Variables:
  PAGEVAULT_CHUNK_SIZE        Chunk size in bytes for large-file loading
  PAGEVAULT_DIRECT_THRESHOLD  File size in bytes above which loading chunks

Examples:
  pagevault report.pdf
  pagevault -o out --dpi 300 --format png report.pdf
  pagevault --pages "2-3,5" --grayscale report.pdf

`)
}
