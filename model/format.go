package model

// Toggle is a tri-state on/off property. Unset means the value is inherited
// from the style hierarchy.
type Toggle int

const (
	Unset Toggle = iota
	On
	Off
)

// ToggleOf converts a bool into an explicit toggle.
func ToggleOf(b bool) Toggle {
	if b {
		return On
	}
	return Off
}

// IsOn reports whether the toggle is explicitly on.
func (t Toggle) IsOn() bool { return t == On }

func (t Toggle) String() string {
	switch t {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unset"
	}
}

// ParagraphFormatting is the modeled part of a paragraph's w:pPr. Lengths are
// twips; optional lengths are nil when absent.
type ParagraphFormatting struct {
	Style     string
	Alignment string // w:jc value: left, center, right, both, ...

	KeepNext          Toggle
	KeepLines         Toggle
	PageBreakBefore   Toggle
	WidowControl      Toggle
	ContextualSpacing Toggle
	Bidi              Toggle

	Numbering *Numbering

	SpacingBefore   *int
	SpacingAfter    *int
	SpacingLine     *int
	SpacingLineRule string

	IndentLeft      *int
	IndentRight     *int
	IndentFirstLine *int
	IndentHanging   *int

	// OutlineLevel is the 0-based w:outlineLvl value.
	OutlineLevel *int

	Markup Markup `json:"-"`
}

// Numbering is a paragraph's w:numPr.
type Numbering struct {
	ID    string
	Level int
}

// Clone returns a copy sharing no pointers with f. The markup is kept so
// unmodeled properties survive regeneration.
func (f *ParagraphFormatting) Clone() *ParagraphFormatting {
	if f == nil {
		return nil
	}
	c := *f
	if f.Numbering != nil {
		n := *f.Numbering
		c.Numbering = &n
	}
	c.SpacingBefore = cloneInt(f.SpacingBefore)
	c.SpacingAfter = cloneInt(f.SpacingAfter)
	c.SpacingLine = cloneInt(f.SpacingLine)
	c.IndentLeft = cloneInt(f.IndentLeft)
	c.IndentRight = cloneInt(f.IndentRight)
	c.IndentFirstLine = cloneInt(f.IndentFirstLine)
	c.IndentHanging = cloneInt(f.IndentHanging)
	c.OutlineLevel = cloneInt(f.OutlineLevel)
	return &c
}

// SpaceBeforePoints returns the space before the paragraph in points.
func (f *ParagraphFormatting) SpaceBeforePoints() float64 {
	if f == nil || f.SpacingBefore == nil {
		return 0
	}
	return TwipsToPoints(*f.SpacingBefore)
}

// SpaceAfterPoints returns the space after the paragraph in points.
func (f *ParagraphFormatting) SpaceAfterPoints() float64 {
	if f == nil || f.SpacingAfter == nil {
		return 0
	}
	return TwipsToPoints(*f.SpacingAfter)
}

// RunFormatting is the modeled part of a run's w:rPr.
type RunFormatting struct {
	Style string

	FontASCII    string
	FontHAnsi    string
	FontEastAsia string
	FontCS       string

	Bold         Toggle
	Italic       Toggle
	Strike       Toggle
	DoubleStrike Toggle
	Caps         Toggle
	SmallCaps    Toggle

	Underline string // w:u value: single, double, none, ...
	Color     string // hex RGB or "auto"
	Highlight string // highlight color name
	Size      int    // half-points, 0 when unset
	VertAlign string // superscript, subscript, baseline

	Markup Markup `json:"-"`
}

// Clone returns a copy of f.
func (f *RunFormatting) Clone() *RunFormatting {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// SizePoints returns the font size in points.
func (f *RunFormatting) SizePoints() float64 {
	if f == nil {
		return 0
	}
	return float64(f.Size) / 2
}

// Unit conversions. Stored values keep the package's native units; these
// helpers derive display units from them.
const (
	TwipsPerPoint = 20
	EMUPerInch    = 914400
	EMUPerPoint   = 12700
	EMUPerPixel   = 9525 // at 96 DPI
)

// TwipsToPoints converts twentieths of a point to points.
func TwipsToPoints(v int) float64 { return float64(v) / TwipsPerPoint }

// EMUToInches converts English Metric Units to inches.
func EMUToInches(v int64) float64 { return float64(v) / EMUPerInch }

// EMUToPoints converts English Metric Units to points.
func EMUToPoints(v int64) float64 { return float64(v) / EMUPerPoint }

// PixelsToEMU converts a pixel length at the given resolution to EMU.
func PixelsToEMU(px int, dpi float64) int64 {
	if dpi <= 0 {
		dpi = 96
	}
	return int64(float64(px) * EMUPerInch / dpi)
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Int returns a pointer to v, for the optional lengths of ParagraphFormatting.
func Int(v int) *int { return &v }
