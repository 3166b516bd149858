package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/doctree/formatting"
	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

// table builds a w:tbl. Each cell becomes a TableCell node whose content is
// built with a fresh heading stack. Tables holding elements between rows
// that the grid cannot represent are kept verbatim.
func (b *builder) table(el *wml.Element, sec *section, chain controls) error {
	if !tableModelable(el) {
		return b.opaqueBlock(el, sec, chain)
	}
	sec.list = nil

	n := b.newNode(model.TypeTable)
	n.Markup = model.Markup{Raw: el.Raw, Attrs: el.AttrText()}
	setControls(n, chain)

	t := &model.TableData{Format: formatting.ExtractTable(el.Child(wml.NsW, "tblPr"))}
	if grid := el.Child(wml.NsW, "tblGrid"); grid != nil {
		t.GridMarkup = model.Markup{Raw: grid.Raw, Attrs: grid.AttrText()}
		for _, col := range grid.ChildrenNamed(wml.NsW, "gridCol") {
			w, _ := strconv.Atoi(wAttr(col, "w"))
			t.Grid = append(t.Grid, w)
		}
		t.ColumnCount = len(t.Grid)
	}
	n.SetMeta(model.MetaTable, t)
	if err := b.attach(sec.parent(), n); err != nil {
		return err
	}

	if err := b.rows(el.Children, n, t, nil); err != nil {
		return err
	}

	if t.ColumnCount == 0 {
		for _, row := range t.Rows {
			t.ColumnCount = max(t.ColumnCount, row.Width())
		}
	}
	t.UpdateLayout()
	return nil
}

// tableModelable reports whether every child of a table, including rows and
// cells inside content controls, maps onto the grid.
func tableModelable(el *wml.Element) bool {
	for _, c := range el.Children {
		switch {
		case c.Is(wml.NsW, "tblPr"), c.Is(wml.NsW, "tblGrid"), c.Is(wml.NsW, "tr"):
		case c.Is(wml.NsW, "sdt"):
			if !controlHolds(c, "tr") {
				return false
			}
		default:
			return false
		}
		if c.Is(wml.NsW, "tr") || c.Is(wml.NsW, "sdt") {
			if !rowsModelable(c) {
				return false
			}
		}
	}
	return true
}

// rowsModelable checks the content controls inside the rows of el.
func rowsModelable(el *wml.Element) bool {
	ok := true
	el.Walk(func(e *wml.Element) bool {
		if !ok || e.Is(wml.NsW, "tc") {
			return false
		}
		if e.Is(wml.NsW, "tr") {
			for _, c := range e.Children {
				if c.Is(wml.NsW, "sdt") && !controlHolds(c, "tc") {
					ok = false
				}
			}
		}
		return true
	})
	return ok
}

// controlHolds reports whether a w:sdt has content made only of local
// elements, possibly wrapped in further content controls.
func controlHolds(sdt *wml.Element, local string) bool {
	content := sdt.Child(wml.NsW, "sdtContent")
	if content == nil || len(content.Children) == 0 {
		return false
	}
	for _, c := range content.Children {
		switch {
		case c.Is(wml.NsW, local):
		case c.Is(wml.NsW, "sdt"):
			if !controlHolds(c, local) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// rows builds the w:tr elements among children, unwrapping row-level
// content controls.
func (b *builder) rows(children []*wml.Element, n *model.Node, t *model.TableData, chain controls) error {
	for _, c := range children {
		switch {
		case c.Is(wml.NsW, "tr"):
			row := &model.TableRow{
				Controls: chain,
				Markup:   model.Markup{Raw: c.Raw, Attrs: c.AttrText()},
			}
			t.Rows = append(t.Rows, row)
			if err := b.row(c, n, row); err != nil {
				return err
			}
		case c.Is(wml.NsW, "sdt"):
			content := c.Child(wml.NsW, "sdtContent")
			if err := b.rows(content.Children, n, t, withControl(chain, b.control(c, content))); err != nil {
				return err
			}
		}
	}
	return nil
}

// row fills a row from its w:tr. Children other than properties and cells,
// such as w:tblPrEx or bookmarks, are kept as fragments anchored before the
// cell that follows them.
func (b *builder) row(el *wml.Element, n *model.Node, row *model.TableRow) error {
	for _, c := range el.Children {
		switch {
		case c.Is(wml.NsW, "trPr"):
			row.Format = formatting.ExtractRow(c)
		case c.Is(wml.NsW, "tc"), c.Is(wml.NsW, "sdt"):
			if err := b.cells([]*wml.Element{c}, n, row, nil); err != nil {
				return err
			}
		default:
			row.Markup.AddExtra(c.QName(), len(row.Cells), c.Raw)
		}
	}
	return nil
}

// cells builds the w:tc elements among children, unwrapping cell-level
// content controls.
func (b *builder) cells(children []*wml.Element, n *model.Node, row *model.TableRow, chain controls) error {
	for _, c := range children {
		switch {
		case c.Is(wml.NsW, "tc"):
			if err := b.cell(c, n, row, chain); err != nil {
				return err
			}
		case c.Is(wml.NsW, "sdt"):
			content := c.Child(wml.NsW, "sdtContent")
			if err := b.cells(content.Children, n, row, withControl(chain, b.control(c, content))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) cell(el *wml.Element, table *model.Node, row *model.TableRow, chain controls) error {
	props := formatting.ExtractCell(el.Child(wml.NsW, "tcPr"))
	cn := b.newNode(model.TypeTableCell)
	cn.Markup = model.Markup{Raw: el.Raw, Attrs: el.AttrText()}
	if err := b.attach(table.ID(), cn); err != nil {
		return err
	}

	row.Cells = append(row.Cells, &model.TableCell{
		ColSpan:  props.ColSpan,
		VMerge:   props.VMerge,
		Format:   props.Format,
		Node:     cn.ID(),
		Controls: chain,
		Markup:   model.Markup{Raw: el.Raw, Attrs: el.AttrText()},
	})

	var content []*wml.Element
	for _, c := range el.Children {
		if !c.Is(wml.NsW, "tcPr") {
			content = append(content, c)
		}
	}
	return b.blocks(content, &section{root: cn.ID()}, nil)
}

// TableText returns a plain text representation of a Table node, one line
// per row with cells separated by tabs. Continuation cells of vertical
// merges are left empty.
func TableText(doc *model.Document, table model.NodeID) string {
	n := doc.Node(table)
	if n == nil || n.Table() == nil {
		return ""
	}
	var sb strings.Builder
	for i, row := range n.Table().Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row.Cells {
			if j > 0 {
				sb.WriteString("\t")
			}
			if cell.VMerge == model.VMergeContinue {
				continue
			}
			sb.WriteString(strings.ReplaceAll(doc.Text(cell.Node), "\n", " "))
		}
	}
	return sb.String()
}

// TableMarkdown returns a markdown table representation of a Table node.
// The first row is used as the header.
func TableMarkdown(doc *model.Document, table model.NodeID) string {
	n := doc.Node(table)
	if n == nil || n.Table() == nil || len(n.Table().Rows) == 0 {
		return ""
	}
	t := n.Table()

	var sb strings.Builder
	for r := range t.Rows {
		sb.WriteString("|")
		for col := 0; col < t.ColumnCount; col++ {
			text := ""
			if c := t.Cell(r, col); c != nil && c.Col == col && c.VMerge != model.VMergeContinue {
				text = strings.ReplaceAll(doc.Text(c.Node), "\n", " ")
				text = strings.ReplaceAll(text, "|", "\\|")
				text = strings.TrimSpace(text)
			}
			sb.WriteString(" ")
			sb.WriteString(text)
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
		if r == 0 {
			sb.WriteString("|")
			for col := 0; col < t.ColumnCount; col++ {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
