//go:build ocr

// Package ocr suggests alternative text for pictures by running the
// Tesseract OCR engine over them.
//
// This implementation is compiled with the "ocr" build tag and requires
// Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract instance.
type Client struct {
	client *gosseract.Client
}

// New creates a client. Close it to release the engine.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources. It is safe to call on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// SetLanguage sets the recognition languages as a "+" separated list, e.g.
// "eng+fra".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(splitLanguages(lang)...)
}

// Describe recognizes the text in an encoded picture and returns it as
// alternative text.
func (c *Client) Describe(image []byte) (string, error) {
	if err := c.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return AltText(text), nil
}
