package formatting

import (
	"bytes"

	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

var tblPr = &block[model.TableFormatting]{
	order: []string{
		"tblStyle", "tblpPr", "tblOverlap", "bidiVisual", "tblStyleRowBandSize",
		"tblStyleColBandSize", "tblW", "jc", "tblCellSpacing", "tblInd", "tblBorders",
		"shd", "tblLayout", "tblCellMar", "tblLook", "tblCaption", "tblDescription",
		"tblPrChange",
	},
	props: []prop[model.TableFormatting]{
		{
			name:  "tblStyle",
			apply: func(el *wml.Element, f *model.TableFormatting) { f.Style = el.Val() },
			emit: func(b *bytes.Buffer, f *model.TableFormatting) {
				if f.Style != "" {
					wml.Empty(b, "w:tblStyle", "w:val", f.Style)
				}
			},
		},
		{
			name: "tblW",
			apply: func(el *wml.Element, f *model.TableFormatting) {
				f.Width, _ = intAttr(el, "w")
				f.WidthType = wAttr(el, "type")
			},
			emit: func(b *bytes.Buffer, f *model.TableFormatting) {
				if f.WidthType != "" || f.Width != 0 {
					wml.Empty(b, "w:tblW", "w:w", itoa(f.Width), "w:type", f.WidthType)
				}
			},
		},
		{
			name:  "jc",
			apply: func(el *wml.Element, f *model.TableFormatting) { f.Alignment = el.Val() },
			emit: func(b *bytes.Buffer, f *model.TableFormatting) {
				if f.Alignment != "" {
					wml.Empty(b, "w:jc", "w:val", f.Alignment)
				}
			},
		},
		{
			name:  "tblLayout",
			apply: func(el *wml.Element, f *model.TableFormatting) { f.Layout = wAttr(el, "type") },
			emit: func(b *bytes.Buffer, f *model.TableFormatting) {
				if f.Layout != "" {
					wml.Empty(b, "w:tblLayout", "w:type", f.Layout)
				}
			},
		},
	},
}

var trPr = &block[model.RowFormatting]{
	order: []string{
		"cnfStyle", "divId", "gridBefore", "gridAfter", "wBefore", "wAfter",
		"cantSplit", "trHeight", "tblHeader", "tblCellSpacing", "jc", "hidden",
		"ins", "del", "trPrChange",
	},
	props: []prop[model.RowFormatting]{
		{
			name:  "gridBefore",
			apply: func(el *wml.Element, f *model.RowFormatting) { f.GridBefore, _ = intAttr(el, "val") },
			emit: func(b *bytes.Buffer, f *model.RowFormatting) {
				if f.GridBefore > 0 {
					wml.Empty(b, "w:gridBefore", "w:val", itoa(f.GridBefore))
				}
			},
		},
		{
			name:  "gridAfter",
			apply: func(el *wml.Element, f *model.RowFormatting) { f.GridAfter, _ = intAttr(el, "val") },
			emit: func(b *bytes.Buffer, f *model.RowFormatting) {
				if f.GridAfter > 0 {
					wml.Empty(b, "w:gridAfter", "w:val", itoa(f.GridAfter))
				}
			},
		},
		{
			name:  "cantSplit",
			apply: func(el *wml.Element, f *model.RowFormatting) { f.CantSplit = toggle(el) },
			emit:  func(b *bytes.Buffer, f *model.RowFormatting) { emitToggle(b, "w:cantSplit", f.CantSplit) },
		},
		{
			name: "trHeight",
			apply: func(el *wml.Element, f *model.RowFormatting) {
				f.Height, _ = intAttr(el, "val")
				f.HeightRule = wAttr(el, "hRule")
			},
			emit: func(b *bytes.Buffer, f *model.RowFormatting) {
				if f.Height > 0 {
					wml.Empty(b, "w:trHeight", "w:val", itoa(f.Height), "w:hRule", f.HeightRule)
				}
			},
		},
		{
			name:  "tblHeader",
			apply: func(el *wml.Element, f *model.RowFormatting) { f.Header = toggle(el) },
			emit:  func(b *bytes.Buffer, f *model.RowFormatting) { emitToggle(b, "w:tblHeader", f.Header) },
		},
	},
}

func cellFormat(f *model.CellProps) *model.CellFormatting {
	if f.Format == nil {
		f.Format = &model.CellFormatting{}
	}
	return f.Format
}

var tcPr = &block[model.CellProps]{
	order: []string{
		"cnfStyle", "tcW", "gridSpan", "hMerge", "vMerge", "tcBorders", "shd",
		"noWrap", "tcMar", "textDirection", "tcFitText", "vAlign", "hideMark",
		"headers", "cellIns", "cellDel", "cellMerge", "tcPrChange",
	},
	props: []prop[model.CellProps]{
		{
			name: "tcW",
			apply: func(el *wml.Element, f *model.CellProps) {
				cf := cellFormat(f)
				cf.Width, _ = intAttr(el, "w")
				cf.WidthType = wAttr(el, "type")
			},
			emit: func(b *bytes.Buffer, f *model.CellProps) {
				if f.Format != nil && (f.Format.WidthType != "" || f.Format.Width != 0) {
					wml.Empty(b, "w:tcW", "w:w", itoa(f.Format.Width), "w:type", f.Format.WidthType)
				}
			},
		},
		{
			name:  "gridSpan",
			apply: func(el *wml.Element, f *model.CellProps) { f.ColSpan, _ = intAttr(el, "val") },
			emit: func(b *bytes.Buffer, f *model.CellProps) {
				if f.ColSpan > 1 {
					wml.Empty(b, "w:gridSpan", "w:val", itoa(f.ColSpan))
				}
			},
		},
		{
			name: "vMerge",
			apply: func(el *wml.Element, f *model.CellProps) {
				f.VMerge = model.VMergeContinue
				if el.Val() == model.VMergeRestart {
					f.VMerge = model.VMergeRestart
				}
			},
			emit: func(b *bytes.Buffer, f *model.CellProps) {
				switch f.VMerge {
				case model.VMergeRestart:
					wml.Empty(b, "w:vMerge", "w:val", model.VMergeRestart)
				case model.VMergeContinue:
					wml.Empty(b, "w:vMerge")
				}
			},
		},
		{
			name: "tcBorders",
			apply: func(el *wml.Element, f *model.CellProps) {
				cf := cellFormat(f)
				for _, side := range el.Children {
					bd := model.Border{Side: side.Name.Local, Style: side.Val(), Color: wAttr(side, "color")}
					bd.Size, _ = intAttr(side, "sz")
					bd.Space, _ = intAttr(side, "space")
					cf.Borders = append(cf.Borders, bd)
				}
			},
			emit: func(b *bytes.Buffer, f *model.CellProps) {
				if f.Format == nil || len(f.Format.Borders) == 0 {
					return
				}
				wml.Open(b, "w:tcBorders")
				for _, bd := range f.Format.Borders {
					wml.Empty(b, "w:"+bd.Side,
						"w:val", bd.Style,
						"w:sz", itoa(bd.Size),
						"w:space", itoa(bd.Space),
						"w:color", bd.Color)
				}
				wml.Close(b, "w:tcBorders")
			},
		},
		{
			name: "shd",
			apply: func(el *wml.Element, f *model.CellProps) {
				cellFormat(f).Shading = &model.Shading{Val: el.Val(), Color: wAttr(el, "color"), Fill: wAttr(el, "fill")}
			},
			emit: func(b *bytes.Buffer, f *model.CellProps) {
				if f.Format == nil || f.Format.Shading == nil {
					return
				}
				s := f.Format.Shading
				wml.Empty(b, "w:shd", "w:val", s.Val, "w:color", s.Color, "w:fill", s.Fill)
			},
		},
		{
			name:  "vAlign",
			apply: func(el *wml.Element, f *model.CellProps) { cellFormat(f).VAlign = el.Val() },
			emit: func(b *bytes.Buffer, f *model.CellProps) {
				if f.Format != nil && f.Format.VAlign != "" {
					wml.Empty(b, "w:vAlign", "w:val", f.Format.VAlign)
				}
			},
		},
	},
}

// ExtractTable maps a w:tblPr element to table formatting.
// A bare <w:tblPr/> carries nothing and maps to nil, the same as a missing
// one, so regenerated tables read back unchanged.
func ExtractTable(el *wml.Element) *model.TableFormatting {
	if bare(el) {
		return nil
	}
	f := &model.TableFormatting{}
	tblPr.extract(el, f, &f.Markup)
	return f
}

// Table writes the w:tblPr of f.
func Table(b *bytes.Buffer, f *model.TableFormatting) bool {
	if f == nil {
		wml.Empty(b, "w:tblPr")
		return false
	}
	return tblPr.write(b, "w:tblPr", &f.Markup, f)
}

// ExtractRow maps a w:trPr element to row formatting.
func ExtractRow(el *wml.Element) *model.RowFormatting {
	if el == nil {
		return nil
	}
	f := &model.RowFormatting{}
	trPr.extract(el, f, &f.Markup)
	return f
}

// Row writes the w:trPr of f.
func Row(b *bytes.Buffer, f *model.RowFormatting) bool {
	if f == nil {
		return false
	}
	return trPr.write(b, "w:trPr", &f.Markup, f)
}

// ExtractCell maps a w:tcPr element to the cell's formatting, column span
// and vertical merge state.
func ExtractCell(el *wml.Element) model.CellProps {
	p := model.CellProps{ColSpan: 1}
	if bare(el) {
		return p
	}
	p.Format = &model.CellFormatting{}
	tcPr.extract(el, &p, &p.Format.Markup)
	if p.ColSpan < 1 {
		p.ColSpan = 1
	}
	return p
}

// Cell writes the w:tcPr of a cell. Word requires one, so an empty block is
// written for cells without properties.
func Cell(b *bytes.Buffer, c *model.TableCell) bool {
	p := c.Props()
	if p.Format == nil {
		if p.ColSpan <= 1 && p.VMerge == "" {
			wml.Empty(b, "w:tcPr")
			return false
		}
		var m model.Markup
		return tcPr.write(b, "w:tcPr", &m, &p)
	}
	return tcPr.write(b, "w:tcPr", &p.Format.Markup, &p)
}

// bare reports whether el is missing or has neither attributes nor children.
func bare(el *wml.Element) bool {
	return el == nil || (len(el.Attr) == 0 && len(el.Children) == 0)
}
