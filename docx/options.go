package docx

import (
	"log/slog"

	"github.com/tsawler/doctree/model"
)

// DefaultHeadingStylePrefix is prepended to the level to name the style of a
// heading whose own style does not give it its level.
const DefaultHeadingStylePrefix = "Heading"

// Options control parsing and writing.
type Options struct {
	// Logger receives debug output and fidelity warnings. Nil means
	// slog.Default().
	Logger *slog.Logger

	// HeadingStylePrefix names heading styles on write, e.g. "Heading" gives
	// "Heading2" for a level 2 heading.
	HeadingStylePrefix string

	// Strict makes Write fail instead of warning when partially modeled
	// markup had to be regenerated.
	Strict bool

	// ImageDPI converts pixel sizes to EMU for natural picture sizes.
	ImageDPI float64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Logger:             slog.Default(),
		HeadingStylePrefix: DefaultHeadingStylePrefix,
		ImageDPI:           model.DefaultImageDPI,
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.HeadingStylePrefix == "" {
		o.HeadingStylePrefix = DefaultHeadingStylePrefix
	}
	if o.ImageDPI <= 0 {
		o.ImageDPI = model.DefaultImageDPI
	}
	return o
}
