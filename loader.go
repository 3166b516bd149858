package doctree

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/doctree/config"
	"github.com/tsawler/doctree/docx"
	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/ocr"
)

// ErrTooLarge is returned for packages over the configured size limit.
var ErrTooLarge = errors.New("package too large")

// Loader provides a fluent interface for reading and writing a package.
// Each configuration method returns a new Loader, so a configured Loader can
// be shared and reused.
type Loader struct {
	// Source
	filename string
	data     []byte
	inMemory bool

	options options

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Loader with a copy of its options.
func (l *Loader) clone() *Loader {
	return &Loader{
		filename: l.filename,
		data:     l.data,
		inMemory: l.inMemory,
		options:  l.options.clone(),
		err:      l.err,
	}
}

// ============================================================================
// Configuration Methods (return new Loader instance)
// ============================================================================

// Logger sets the logger used for debug output and fidelity warnings.
func (l *Loader) Logger(logger *slog.Logger) *Loader {
	newL := l.clone()
	if logger == nil {
		logger = slog.Default()
	}
	newL.options.logger = logger
	return newL
}

// HeadingStylePrefix sets the paragraph style name given to headings whose
// level changed, followed by the level.
//
// Example:
//
//	doctree.Open("doc.docx").HeadingStylePrefix("Titre")
func (l *Loader) HeadingStylePrefix(prefix string) *Loader {
	newL := l.clone()
	if prefix == "" {
		newL.err = errors.Join(newL.err, errors.New("heading style prefix must not be empty"))
	}
	newL.options.headingStylePrefix = prefix
	return newL
}

// Strict makes writes fail instead of warning when partially modeled markup
// had to be regenerated.
func (l *Loader) Strict() *Loader {
	newL := l.clone()
	newL.options.strict = true
	return newL
}

// ImageDPI sets the resolution used for natural picture sizes.
func (l *Loader) ImageDPI(dpi float64) *Loader {
	newL := l.clone()
	if dpi <= 0 {
		newL.err = errors.Join(newL.err, fmt.Errorf("image DPI must be > 0, got %v", dpi))
	}
	newL.options.imageDPI = dpi
	return newL
}

// OCRLanguage sets the Tesseract languages used by DescribeImages.
func (l *Loader) OCRLanguage(lang string) *Loader {
	newL := l.clone()
	newL.options.ocrLanguage = lang
	return newL
}

// MaxSize sets the largest package, in bytes, that Parse accepts.
func (l *Loader) MaxSize(n int64) *Loader {
	newL := l.clone()
	newL.options.maxSize = n
	return newL
}

// Config applies every setting of cfg.
func (l *Loader) Config(cfg *config.Config) *Loader {
	newL := l.clone()
	if err := cfg.Validate(); err != nil {
		newL.err = errors.Join(newL.err, fmt.Errorf("invalid config: %w", err))
		return newL
	}
	newL.options.logger = cfg.Logger()
	newL.options.headingStylePrefix = cfg.HeadingStylePrefix
	newL.options.strict = cfg.Strict
	newL.options.imageDPI = cfg.ImageDPI
	newL.options.ocrLanguage = cfg.OCRLanguage
	newL.options.maxSize = cfg.MaxPackageBytes()
	return newL
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Parse reads the package and builds its document tree.
func (l *Loader) Parse() (*model.Document, error) {
	if l.err != nil {
		return nil, l.err
	}
	data, err := l.read()
	if err != nil {
		return nil, err
	}
	doc, err := docx.ParseBytes(data, l.options.docx())
	if err != nil {
		return nil, err
	}
	l.options.logger.Debug("doctree: parsed",
		slog.String("doc", doc.ID.String()),
		slog.String("source", l.source()),
		slog.Int("bytes", len(data)))
	return doc, nil
}

// Write serializes doc with the Loader's options.
func (l *Loader) Write(doc *model.Document) ([]byte, []Warning, error) {
	if l.err != nil {
		return nil, nil, l.err
	}
	return docx.Write(doc, l.options.docx())
}

// WriteFile writes doc to path with the Loader's options.
func (l *Loader) WriteFile(doc *model.Document, path string) ([]Warning, error) {
	if l.err != nil {
		return nil, l.err
	}
	return docx.WriteFile(doc, path, l.options.docx())
}

// RoundTrip parses the package and writes it back without edits.
func (l *Loader) RoundTrip() ([]byte, []Warning, error) {
	doc, err := l.Parse()
	if err != nil {
		return nil, nil, err
	}
	return l.Write(doc)
}

// DescribeImages fills in missing alternative text with OCR. It fails with
// ocr.ErrOCRNotEnabled unless built with the "ocr" tag.
func (l *Loader) DescribeImages(doc *model.Document) (int, error) {
	if l.err != nil {
		return 0, l.err
	}
	client, err := ocr.New()
	if err != nil {
		return 0, err
	}
	defer client.Close()
	if err := client.SetLanguage(l.options.ocrLanguage); err != nil {
		return 0, fmt.Errorf("ocr language %q: %w", l.options.ocrLanguage, err)
	}
	return DescribeImages(doc, client)
}

func (l *Loader) read() ([]byte, error) {
	limit := l.options.maxSize
	if l.inMemory {
		if limit > 0 && int64(len(l.data)) > limit {
			return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(l.data), limit)
		}
		return l.data, nil
	}
	if l.filename == "" {
		return nil, errors.New("no filename specified")
	}
	info, err := os.Stat(l.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, l.filename, info.Size(), limit)
	}
	data, err := os.ReadFile(l.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read package: %w", err)
	}
	return data, nil
}

func (l *Loader) source() string {
	if l.inMemory {
		return "memory"
	}
	return l.filename
}
