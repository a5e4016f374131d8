package exporter

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/caseforge/pagevault/internal/domain"
	"github.com/caseforge/pagevault/internal/render"
)

// stubEngine serves a fixed-size document without touching MuPDF.
type stubEngine struct{ pages int }

func (e *stubEngine) OpenFromBytes(data []byte) (domain.Document, error) {
	return &stubDocument{pages: e.pages}, nil
}

type stubDocument struct{ pages int }

func (d *stubDocument) PageCount() int { return d.pages }
func (d *stubDocument) Destroy() error { return nil }

func (d *stubDocument) Page(number int) (domain.Page, error) {
	if number < 1 || number > d.pages {
		return nil, fmt.Errorf("page %d out of range", number)
	}
	return stubPage{}, nil
}

type stubPage struct{}

func (stubPage) Viewport(scale float64) (domain.Viewport, error) {
	return domain.Viewport{Width: int(100 * scale), Height: int(100 * scale), Scale: scale}, nil
}

func (stubPage) Render(ctx context.Context, surface *domain.PixelSurface, vp domain.Viewport) error {
	render.PaintInto(surface, image.NewNRGBA(image.Rect(0, 0, vp.Width, vp.Height)))
	return nil
}

func (stubPage) Cleanup() {}

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7\nstub payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewWithConfigDefaults(t *testing.T) {
	client, err := NewWithConfig(Config{})
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}
	if client.State() != domain.StateIdle {
		t.Errorf("initial state = %q, want idle", client.State())
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewRejectsBadEnv(t *testing.T) {
	t.Setenv("PAGEVAULT_CHUNK_SIZE", "not-a-number")
	if _, err := New(); domain.TypeOf(err) != domain.ErrorTypeConfig {
		t.Fatalf("error type = %q, want config", domain.TypeOf(err))
	}

	t.Setenv("PAGEVAULT_CHUNK_SIZE", "-5")
	if _, err := New(); domain.TypeOf(err) != domain.ErrorTypeConfig {
		t.Fatalf("error type = %q, want config", domain.TypeOf(err))
	}
}

func TestNewAcceptsEnvOverrides(t *testing.T) {
	t.Setenv("PAGEVAULT_CHUNK_SIZE", "1048576")
	t.Setenv("PAGEVAULT_DIRECT_THRESHOLD", "10485760")
	if _, err := New(); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	client, err := NewWithConfig(Config{Engine: &stubEngine{pages: 1}})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"), DefaultSettings(), nil)
	if domain.TypeOf(err) != domain.ErrorTypeInvalidInput {
		t.Fatalf("error type = %q, want invalid input", domain.TypeOf(err))
	}
	if client.State() != domain.StateFailed {
		t.Errorf("state = %q, want failed", client.State())
	}

	if err := client.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if client.State() != domain.StateIdle {
		t.Errorf("state after Reset = %q, want idle", client.State())
	}
}

func TestExtractEndToEnd(t *testing.T) {
	client, err := NewWithConfig(Config{Engine: &stubEngine{pages: 2}})
	if err != nil {
		t.Fatal(err)
	}

	var emissions int
	pages, err := client.Extract(context.Background(), writeTempPDF(t), DefaultSettings(), func(p ProgressState) {
		emissions++
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if emissions == 0 {
		t.Error("no progress emissions reached the callback")
	}
	if client.State() != domain.StateCompleted {
		t.Errorf("state = %q, want completed", client.State())
	}
}

func TestCancelBeforeRun(t *testing.T) {
	client, err := NewWithConfig(Config{Engine: &stubEngine{pages: 3}})
	if err != nil {
		t.Fatal(err)
	}

	client.Cancel()
	_, err = client.Extract(context.Background(), writeTempPDF(t), DefaultSettings(), nil)
	if !domain.IsCancelled(err) {
		t.Fatalf("error = %v, want cancelled", err)
	}
}
