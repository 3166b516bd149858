package doctree

import (
	"log/slog"

	"github.com/tsawler/doctree/docx"
	"github.com/tsawler/doctree/model"
)

// DefaultMaxSize bounds the size of the packages a Loader reads.
const DefaultMaxSize = 256 << 20

// options holds the configuration shared by parsing and writing.
type options struct {
	logger             *slog.Logger
	headingStylePrefix string
	strict             bool
	imageDPI           float64
	ocrLanguage        string
	maxSize            int64
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		logger:             slog.Default(),
		headingStylePrefix: docx.DefaultHeadingStylePrefix,
		imageDPI:           model.DefaultImageDPI,
		ocrLanguage:        "eng",
		maxSize:            DefaultMaxSize,
	}
}

// clone copies the options. The logger is shared.
func (o options) clone() options {
	return o
}

func (o options) docx() docx.Options {
	return docx.Options{
		Logger:             o.logger,
		HeadingStylePrefix: o.headingStylePrefix,
		Strict:             o.strict,
		ImageDPI:           o.imageDPI,
	}
}
