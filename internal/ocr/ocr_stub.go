//go:build !ocr

// Package ocr recognizes text on extracted page images via the Tesseract
// engine (gosseract).
//
// This is the stub used when the "ocr" build tag is not set; every operation
// reports ErrNotEnabled. Rebuild with -tags ocr (Tesseract installed) to get
// the real implementation.
package ocr

import "errors"

// ErrNotEnabled is returned when OCR is requested but support was not
// compiled in.
var ErrNotEnabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

// Client is the stub OCR client.
type Client struct{}

// New reports that OCR support is not compiled in.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op and is safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage reports that OCR support is not compiled in.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}

// Recognize reports that OCR support is not compiled in.
func (c *Client) Recognize(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}
