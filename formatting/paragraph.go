package formatting

import (
	"bytes"

	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

var pPrOrder = []string{
	"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr", "widowControl",
	"numPr", "suppressLineNumbers", "pBdr", "shd", "tabs", "suppressAutoHyphens",
	"kinsoku", "wordWrap", "overflowPunct", "topLinePunct", "autoSpaceDE",
	"autoSpaceDN", "bidi", "adjustRightInd", "snapToGrid", "spacing", "ind",
	"contextualSpacing", "mirrorIndents", "suppressOverlap", "jc", "textDirection",
	"textAlignment", "textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr",
	"sectPr", "pPrChange",
}

type paraFormat = model.ParagraphFormatting

func paraToggle(name string, field func(f *paraFormat) *model.Toggle) prop[paraFormat] {
	return prop[paraFormat]{
		name:  name,
		apply: func(el *wml.Element, f *paraFormat) { *field(f) = toggle(el) },
		emit:  func(b *bytes.Buffer, f *paraFormat) { emitToggle(b, "w:"+name, *field(f)) },
	}
}

var pPr = &block[paraFormat]{
	order: pPrOrder,
	props: []prop[paraFormat]{
		{
			name:  "pStyle",
			apply: func(el *wml.Element, f *paraFormat) { f.Style = el.Val() },
			emit: func(b *bytes.Buffer, f *paraFormat) {
				if f.Style != "" {
					wml.Empty(b, "w:pStyle", "w:val", f.Style)
				}
			},
		},
		paraToggle("keepNext", func(f *paraFormat) *model.Toggle { return &f.KeepNext }),
		paraToggle("keepLines", func(f *paraFormat) *model.Toggle { return &f.KeepLines }),
		paraToggle("pageBreakBefore", func(f *paraFormat) *model.Toggle { return &f.PageBreakBefore }),
		paraToggle("widowControl", func(f *paraFormat) *model.Toggle { return &f.WidowControl }),
		{
			name: "numPr",
			apply: func(el *wml.Element, f *paraFormat) {
				n := &model.Numbering{ID: el.Child(wml.NsW, "numId").Val()}
				if lvl, ok := intAttr(el.Child(wml.NsW, "ilvl"), "val"); ok {
					n.Level = lvl
				}
				f.Numbering = n
			},
			emit: func(b *bytes.Buffer, f *paraFormat) {
				if f.Numbering == nil {
					return
				}
				wml.Open(b, "w:numPr")
				wml.Empty(b, "w:ilvl", "w:val", itoa(f.Numbering.Level))
				wml.Empty(b, "w:numId", "w:val", f.Numbering.ID)
				wml.Close(b, "w:numPr")
			},
		},
		paraToggle("bidi", func(f *paraFormat) *model.Toggle { return &f.Bidi }),
		{
			name: "spacing",
			apply: func(el *wml.Element, f *paraFormat) {
				f.SpacingBefore = intPtr(el, "before")
				f.SpacingAfter = intPtr(el, "after")
				f.SpacingLine = intPtr(el, "line")
				f.SpacingLineRule = wAttr(el, "lineRule")
			},
			emit: func(b *bytes.Buffer, f *paraFormat) {
				if f.SpacingBefore == nil && f.SpacingAfter == nil && f.SpacingLine == nil && f.SpacingLineRule == "" {
					return
				}
				wml.Empty(b, "w:spacing",
					"w:before", ptoa(f.SpacingBefore),
					"w:after", ptoa(f.SpacingAfter),
					"w:line", ptoa(f.SpacingLine),
					"w:lineRule", f.SpacingLineRule)
			},
		},
		{
			name: "ind",
			apply: func(el *wml.Element, f *paraFormat) {
				f.IndentLeft = intPtr(el, "left")
				if f.IndentLeft == nil {
					f.IndentLeft = intPtr(el, "start")
				}
				f.IndentRight = intPtr(el, "right")
				if f.IndentRight == nil {
					f.IndentRight = intPtr(el, "end")
				}
				f.IndentFirstLine = intPtr(el, "firstLine")
				f.IndentHanging = intPtr(el, "hanging")
			},
			emit: func(b *bytes.Buffer, f *paraFormat) {
				if f.IndentLeft == nil && f.IndentRight == nil && f.IndentFirstLine == nil && f.IndentHanging == nil {
					return
				}
				wml.Empty(b, "w:ind",
					"w:left", ptoa(f.IndentLeft),
					"w:right", ptoa(f.IndentRight),
					"w:firstLine", ptoa(f.IndentFirstLine),
					"w:hanging", ptoa(f.IndentHanging))
			},
		},
		paraToggle("contextualSpacing", func(f *paraFormat) *model.Toggle { return &f.ContextualSpacing }),
		{
			name:  "jc",
			apply: func(el *wml.Element, f *paraFormat) { f.Alignment = el.Val() },
			emit: func(b *bytes.Buffer, f *paraFormat) {
				if f.Alignment != "" {
					wml.Empty(b, "w:jc", "w:val", f.Alignment)
				}
			},
		},
		{
			name:  "outlineLvl",
			apply: func(el *wml.Element, f *paraFormat) { f.OutlineLevel = intPtr(el, "val") },
			emit: func(b *bytes.Buffer, f *paraFormat) {
				if f.OutlineLevel != nil {
					wml.Empty(b, "w:outlineLvl", "w:val", itoa(*f.OutlineLevel))
				}
			},
		},
	},
}

// ExtractParagraph maps a w:pPr element to paragraph formatting. A nil
// element yields nil.
func ExtractParagraph(el *wml.Element) *model.ParagraphFormatting {
	if el == nil {
		return nil
	}
	f := &model.ParagraphFormatting{}
	pPr.extract(el, f, &f.Markup)
	return f
}

// Paragraph writes the w:pPr of f. It reports whether original detail of an
// edited property was lost.
func Paragraph(b *bytes.Buffer, f *model.ParagraphFormatting) bool {
	if f == nil {
		return false
	}
	return pPr.write(b, "w:pPr", &f.Markup, f)
}
