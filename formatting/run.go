package formatting

import (
	"bytes"
	"strings"

	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

var rPrOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike",
	"dstrike", "outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid",
	"vanish", "webHidden", "color", "spacing", "w", "kern", "position", "sz",
	"szCs", "highlight", "u", "effect", "bdr", "shd", "fitText", "vertAlign",
	"rtl", "cs", "em", "lang", "eastAsianLayout", "specVanish", "oMath",
}

type runFormat = model.RunFormatting

func runToggle(name string, field func(f *runFormat) *model.Toggle) prop[runFormat] {
	return prop[runFormat]{
		name:  name,
		apply: func(el *wml.Element, f *runFormat) { *field(f) = toggle(el) },
		emit:  func(b *bytes.Buffer, f *runFormat) { emitToggle(b, "w:"+name, *field(f)) },
	}
}

func runValue(name string, field func(f *runFormat) *string) prop[runFormat] {
	return prop[runFormat]{
		name:  name,
		apply: func(el *wml.Element, f *runFormat) { *field(f) = el.Val() },
		emit: func(b *bytes.Buffer, f *runFormat) {
			if v := *field(f); v != "" {
				wml.Empty(b, "w:"+name, "w:val", v)
			}
		},
	}
}

var rPr = &block[runFormat]{
	order: rPrOrder,
	props: []prop[runFormat]{
		runValue("rStyle", func(f *runFormat) *string { return &f.Style }),
		{
			name: "rFonts",
			apply: func(el *wml.Element, f *runFormat) {
				f.FontASCII = wAttr(el, "ascii")
				f.FontHAnsi = wAttr(el, "hAnsi")
				f.FontEastAsia = wAttr(el, "eastAsia")
				f.FontCS = wAttr(el, "cs")
			},
			emit: func(b *bytes.Buffer, f *runFormat) {
				if f.FontASCII == "" && f.FontHAnsi == "" && f.FontEastAsia == "" && f.FontCS == "" {
					return
				}
				wml.Empty(b, "w:rFonts",
					"w:ascii", f.FontASCII,
					"w:hAnsi", f.FontHAnsi,
					"w:eastAsia", f.FontEastAsia,
					"w:cs", f.FontCS)
			},
		},
		runToggle("b", func(f *runFormat) *model.Toggle { return &f.Bold }),
		runToggle("i", func(f *runFormat) *model.Toggle { return &f.Italic }),
		runToggle("caps", func(f *runFormat) *model.Toggle { return &f.Caps }),
		runToggle("smallCaps", func(f *runFormat) *model.Toggle { return &f.SmallCaps }),
		runToggle("strike", func(f *runFormat) *model.Toggle { return &f.Strike }),
		runToggle("dstrike", func(f *runFormat) *model.Toggle { return &f.DoubleStrike }),
		runValue("color", func(f *runFormat) *string { return &f.Color }),
		{
			name: "sz",
			apply: func(el *wml.Element, f *runFormat) {
				f.Size, _ = intAttr(el, "val")
			},
			emit: func(b *bytes.Buffer, f *runFormat) {
				if f.Size > 0 {
					wml.Empty(b, "w:sz", "w:val", itoa(f.Size))
				}
			},
		},
		runValue("highlight", func(f *runFormat) *string { return &f.Highlight }),
		runValue("u", func(f *runFormat) *string { return &f.Underline }),
		runValue("vertAlign", func(f *runFormat) *string { return &f.VertAlign }),
	},
}

// ExtractRun maps a w:rPr element to run formatting. A nil element yields
// nil.
func ExtractRun(el *wml.Element) *model.RunFormatting {
	if el == nil {
		return nil
	}
	f := &model.RunFormatting{}
	rPr.extract(el, f, &f.Markup)
	return f
}

// Run writes the w:rPr of f. It reports whether original detail of an edited
// property was lost.
func Run(b *bytes.Buffer, f *model.RunFormatting) bool {
	if f == nil {
		return false
	}
	return rPr.write(b, "w:rPr", &f.Markup, f)
}

// RunContent is what ExtractRunContent found in a w:r.
type RunContent struct {
	Kind    model.RunKind
	Text    string
	Format  *model.RunFormatting
	Drawing *model.ImageData
}

// ExtractRunContent reads a w:r. Runs holding anything besides formatting,
// text, tabs, breaks, hyphens and a single picture are opaque; their Text is
// the visible text, for reading only.
func ExtractRunContent(r *wml.Element) RunContent {
	rc := RunContent{Kind: model.RunText}
	var sb strings.Builder
	opaque := false

	for _, c := range r.Children {
		if c.Name.Space != wml.NsW {
			opaque = true
			continue
		}
		switch c.Name.Local {
		case "rPr":
			rc.Format = ExtractRun(c)
		case "t":
			sb.WriteString(c.Text)
		case "tab":
			sb.WriteByte('\t')
		case "br":
			switch wAttr(c, "type") {
			case "":
				sb.WriteByte('\n')
			case "page":
				sb.WriteRune(model.PageBreak)
			default:
				opaque = true
			}
		case "cr":
			sb.WriteByte('\n')
		case "noBreakHyphen":
			sb.WriteRune(model.NonBreakingHyph)
		case "softHyphen":
			sb.WriteRune(model.SoftHyphen)
		case "lastRenderedPageBreak":
		case "drawing":
			img := ExtractDrawing(c)
			if img == nil || rc.Drawing != nil {
				opaque = true
				continue
			}
			rc.Drawing = img
		default:
			opaque = true
		}
	}

	rc.Text = sb.String()
	switch {
	case opaque || (rc.Drawing != nil && rc.Text != ""):
		rc.Kind = model.RunOpaque
		rc.Drawing = nil
		rc.Text = VisibleText(r)
	case rc.Drawing != nil:
		rc.Kind = model.RunDrawing
	}
	return rc
}

// VisibleText returns the text of el as a reader sees it: w:t content with
// tabs and breaks, paragraphs separated by newlines.
func VisibleText(el *wml.Element) string {
	var sb strings.Builder
	paragraphs := 0
	el.Walk(func(e *wml.Element) bool {
		if e.Name.Space != wml.NsW {
			return true
		}
		switch e.Name.Local {
		case "p":
			if paragraphs > 0 {
				sb.WriteByte('\n')
			}
			paragraphs++
		case "t":
			sb.WriteString(e.Text)
		case "tab":
			sb.WriteByte('\t')
		case "br":
			switch wAttr(e, "type") {
			case "", "textWrapping":
				sb.WriteByte('\n')
			case "page":
				sb.WriteRune(model.PageBreak)
			}
		case "cr":
			sb.WriteByte('\n')
		case "pPr", "rPr", "sdtPr", "tblPr", "delText", "instrText":
			return false
		}
		return true
	})
	return sb.String()
}

// Text writes run content for text: w:t elements with tabs, breaks and
// hyphens in between.
func Text(b *bytes.Buffer, text string) {
	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		s := seg.String()
		if strings.TrimSpace(s) != s {
			wml.Open(b, "w:t", "xml:space", "preserve")
		} else {
			wml.Open(b, "w:t")
		}
		wml.Text(b, s)
		wml.Close(b, "w:t")
		seg.Reset()
	}

	for _, r := range text {
		switch r {
		case '\t':
			flush()
			wml.Empty(b, "w:tab")
		case '\n':
			flush()
			wml.Empty(b, "w:br")
		case model.PageBreak:
			flush()
			wml.Empty(b, "w:br", "w:type", "page")
		case model.NonBreakingHyph:
			flush()
			wml.Empty(b, "w:noBreakHyphen")
		case model.SoftHyphen:
			flush()
			wml.Empty(b, "w:softHyphen")
		case '\r':
		default:
			seg.WriteRune(r)
		}
	}
	flush()
}
