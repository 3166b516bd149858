//go:build !ocr

// Package ocr suggests alternative text for pictures by running the
// Tesseract OCR engine over them.
//
// This is the stub compiled when the "ocr" build tag is not set; New returns
// ErrOCRNotEnabled. To enable OCR, rebuild with:
//
//	go build -tags ocr
package ocr

// Client is a stub OCR client.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// Describe returns ErrOCRNotEnabled.
func (c *Client) Describe(image []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
