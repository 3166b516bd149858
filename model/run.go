package model

import "strings"

// RunKind tells how a run's content is represented.
type RunKind int

const (
	// RunText is a w:r holding text, tabs and breaks.
	RunText RunKind = iota
	// RunDrawing is a w:r holding a single picture.
	RunDrawing
	// RunOpaque is any inline element that is kept verbatim. Text holds its
	// visible text for reading only.
	RunOpaque
)

func (k RunKind) String() string {
	switch k {
	case RunText:
		return "text"
	case RunDrawing:
		return "drawing"
	case RunOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Characters used in run text for the non-text content of a run.
const (
	PageBreak       = '\f'
	NonBreakingHyph = '\u2011'
	SoftHyphen      = '\u00ad'
)

// FormattedRun is a fragment of inline content.
type FormattedRun struct {
	Kind    RunKind
	Text    string
	Format  *RunFormatting
	Drawing *ImageData `json:",omitempty"`

	// Controls are the inline content controls wrapping the run, outermost
	// first. Consecutive runs wrapped by the same control share the pointer.
	Controls []*ContentControlProperties `json:",omitempty"`

	Markup Markup `json:"-"`
}

// NewTextRun returns a text run with the given formatting.
func NewTextRun(text string, f *RunFormatting) *FormattedRun {
	return &FormattedRun{Kind: RunText, Text: text, Format: f}
}

// WrappedBy reports whether cc is one of the run's content controls.
func (r *FormattedRun) WrappedBy(cc *ContentControlProperties) bool {
	for _, c := range r.Controls {
		if c == cc {
			return true
		}
	}
	return false
}

// Clone returns a copy of the run. Formatting and drawing are copied; content
// controls are shared since they are identified by pointer.
func (r *FormattedRun) Clone() *FormattedRun {
	c := *r
	c.Format = r.Format.Clone()
	if r.Drawing != nil {
		d := *r.Drawing
		c.Drawing = &d
	}
	c.Controls = append([]*ContentControlProperties(nil), r.Controls...)
	return &c
}

func runsText(runs []*FormattedRun) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
