package docx

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tsawler/doctree/model"
)

// bodyOutlineLevel is the w:outlineLvl value meaning body text.
const bodyOutlineLevel = 9

// ResolvedStyle contains the structural properties of a paragraph style
// after inheritance.
type ResolvedStyle struct {
	ID   string
	Name string
	Type string // paragraph, character, table

	// HeadingLevel is 1-9 for heading styles and 0 otherwise.
	HeadingLevel int
}

// IsHeading reports whether the style makes paragraphs headings.
func (rs *ResolvedStyle) IsHeading() bool { return rs.HeadingLevel > 0 }

// StyleResolver resolves styles with inheritance support. Style ids and
// names are matched case-insensitively.
type StyleResolver struct {
	styles       map[string]*styleDefXML // folded id -> definition
	resolved     map[string]*ResolvedStyle
	defaultStyle string
	fold         cases.Caser
}

// NewStyleResolver creates a new style resolver from parsed styles.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:   make(map[string]*styleDefXML),
		resolved: make(map[string]*ResolvedStyle),
		fold:     cases.Fold(),
	}
	if styles == nil {
		return sr
	}

	for i := range styles.Styles {
		style := &styles.Styles[i]
		key := sr.fold.String(style.StyleID)
		if _, dup := sr.styles[key]; !dup {
			sr.styles[key] = style
		}
		if style.Type == "paragraph" && isOn(style.Default) && sr.defaultStyle == "" {
			sr.defaultStyle = style.StyleID
		}
	}
	return sr
}

// DefaultParagraphStyle returns the id of the style applied to paragraphs
// without a w:pStyle.
func (sr *StyleResolver) DefaultParagraphStyle() string {
	return sr.defaultStyle
}

// Resolve returns the resolved style for the given style ID. An empty ID
// resolves the default paragraph style. Heading levels outside 1-9 are
// reported as errors.
func (sr *StyleResolver) Resolve(styleID string) (*ResolvedStyle, error) {
	if styleID == "" {
		styleID = sr.defaultStyle
	}
	key := sr.fold.String(styleID)
	if resolved, ok := sr.resolved[key]; ok {
		return resolved, nil
	}

	resolved := &ResolvedStyle{ID: styleID}
	if def, ok := sr.styles[key]; ok {
		resolved.Name = def.Name.Val
		resolved.Type = def.Type
	}
	level, err := sr.headingLevel(key, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	resolved.HeadingLevel = level

	sr.resolved[key] = resolved
	return resolved, nil
}

// HeadingLevel returns the heading level a style gives paragraphs, 0 for
// body text.
func (sr *StyleResolver) HeadingLevel(styleID string) (int, error) {
	rs, err := sr.Resolve(styleID)
	if err != nil {
		return 0, err
	}
	return rs.HeadingLevel, nil
}

// headingLevel walks the basedOn chain of a style. The first style in the
// chain that says anything about headings decides.
func (sr *StyleResolver) headingLevel(key string, visited map[string]bool) (int, error) {
	if key == "" || visited[key] {
		return 0, nil
	}
	visited[key] = true

	def, ok := sr.styles[key]
	if !ok {
		// Unknown styles can still carry a built-in heading id.
		level, _, err := sr.detectBuiltInHeading(key)
		return level, err
	}

	if level, found, err := sr.detectBuiltInHeading(key); found || err != nil {
		return level, err
	}
	if level, found, err := sr.detectHeadingName(def.Name.Val); found || err != nil {
		return level, err
	}
	if def.PPr.OutlineLvl != nil {
		return outlineToLevel(def.PPr.OutlineLvl.Val)
	}
	return sr.headingLevel(sr.fold.String(def.BasedOn.Val), visited)
}

// detectBuiltInHeading checks for Word's built-in heading style IDs.
func (sr *StyleResolver) detectBuiltInHeading(key string) (int, bool, error) {
	switch key {
	case "title":
		return 1, true, nil
	case "subtitle":
		return 2, true, nil
	}
	rest, ok := strings.CutPrefix(key, "heading")
	if !ok || rest == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false, nil
	}
	if n < 1 || n > 9 {
		return 0, true, fmt.Errorf("%w: style %q", model.ErrHeadingLevel, key)
	}
	return n, true, nil
}

// detectHeadingName checks for style names of the form "heading N".
func (sr *StyleResolver) detectHeadingName(name string) (int, bool, error) {
	rest, ok := strings.CutPrefix(sr.fold.String(strings.TrimSpace(name)), "heading ")
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false, nil
	}
	if n < 1 || n > 9 {
		return 0, true, fmt.Errorf("%w: style name %q", model.ErrHeadingLevel, name)
	}
	return n, true, nil
}

// outlineToLevel maps a 0-based w:outlineLvl value to a heading level. 9
// means body text.
func outlineToLevel(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > bodyOutlineLevel {
		return 0, fmt.Errorf("%w: outline level %q", model.ErrHeadingLevel, v)
	}
	if n == bodyOutlineLevel {
		return 0, nil
	}
	return n + 1, nil
}

// paragraphLevel returns the heading level of a paragraph: its direct
// outline level first, then its style.
func (sr *StyleResolver) paragraphLevel(f *model.ParagraphFormatting) (int, error) {
	style := ""
	if f != nil {
		if f.OutlineLevel != nil {
			return outlineToLevel(strconv.Itoa(*f.OutlineLevel))
		}
		style = f.Style
	}
	return sr.HeadingLevel(style)
}

func isOn(v string) bool {
	switch v {
	case "1", "true", "on":
		return true
	}
	return false
}
