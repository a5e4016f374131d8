//go:build ocr

// Package ocr recognizes text on extracted page images via the Tesseract
// engine (gosseract). It is compiled in only with the "ocr" build tag and
// requires Tesseract on the system:
//
//	apt-get install tesseract-ocr
//
// or on macOS:
//
//	brew install tesseract
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract session. Close it when done to release the engine.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client with the default language (English).
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases the Tesseract session.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SetLanguage selects the recognition language(s), "+"-separated for
// multiple (e.g. "eng+deu").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// Recognize runs OCR over an encoded page image (JPEG or PNG) and returns
// the recognized text, trimmed.
func (c *Client) Recognize(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
