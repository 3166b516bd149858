package model

import (
	"fmt"
	"strings"

	"github.com/tsawler/doctree/fidelity"
)

// defaultTableWidth is the text width of a Letter page with 1" margins.
const defaultTableWidth = 9360

// NewTable appends a rows×cols table to parent. Every cell starts with one
// empty paragraph.
func (d *Document) NewTable(parent NodeID, rows, cols int) (NodeID, error) {
	if rows < 1 || cols < 1 {
		return 0, fmt.Errorf("%w: table needs at least one row and column", ErrPlacement)
	}
	if d.Node(parent) == nil {
		return 0, ErrNoNode
	}

	id := d.alloc(TypeTable)
	t := &TableData{
		ColumnCount: cols,
		Grid:        make([]int, cols),
		Format:      &TableFormatting{WidthType: "auto"},
	}
	for i := range t.Grid {
		t.Grid[i] = defaultTableWidth / cols
	}

	tn := d.nodes[id]
	tn.setMeta(MetaTable, t)
	for r := 0; r < rows; r++ {
		row := &TableRow{}
		for c := 0; c < cols; c++ {
			cid := d.alloc(TypeTableCell)
			pid := d.alloc(TypeParagraph)
			d.nodes[pid].parent = cid
			d.nodes[cid].children = []NodeID{pid}
			d.nodes[cid].parent = id
			tn.children = append(tn.children, cid)
			row.Cells = append(row.Cells, &TableCell{
				ColSpan: 1,
				Node:    cid,
				Format:  &CellFormatting{Width: t.Grid[c], WidthType: "dxa"},
			})
		}
		t.Rows = append(t.Rows, row)
	}
	t.UpdateLayout()

	if err := d.AppendChild(parent, id); err != nil {
		d.release(tn)
		return 0, err
	}
	return id, nil
}

// CellNode returns the TableCell node covering grid position row, col of a
// table.
func (d *Document) CellNode(table NodeID, row, col int) (NodeID, bool) {
	n := d.Node(table)
	if n == nil || n.Table() == nil {
		return 0, false
	}
	c := n.Table().Cell(row, col)
	if c == nil {
		return 0, false
	}
	return c.Node, true
}

// cellOf returns the grid cell backed by a TableCell node.
func (d *Document) cellOf(n *Node) *TableCell {
	p := d.Node(n.parent)
	if p == nil || p.Table() == nil {
		return nil
	}
	for _, row := range p.Table().Rows {
		for _, c := range row.Cells {
			if c.Node == n.id {
				return c
			}
		}
	}
	return nil
}

// AddImage stores a picture in the package and places it under parent. In a
// paragraph it becomes an inline picture after the existing runs; anywhere
// else it becomes a paragraph of its own. The picture is sized from its
// pixel dimensions at the document's DPI.
func (d *Document) AddImage(parent NodeID, data []byte, contentType string) (NodeID, error) {
	p := d.Node(parent)
	if p == nil {
		return 0, ErrNoNode
	}
	w, h, format, err := fidelity.ImageSize(data)
	if err != nil {
		return 0, err
	}
	if contentType == "" {
		contentType = "image/" + format
	}
	media, err := d.store.AddMedia(data, contentType)
	if err != nil {
		return 0, err
	}

	drawingID := d.NextDrawingID()
	img := &ImageData{
		RelID:         media.RelID,
		Data:          media.Data,
		ContentType:   media.ContentType,
		Target:        media.Target,
		PixelWidth:    w,
		PixelHeight:   h,
		NaturalWidth:  PixelsToEMU(w, d.ImageDPI),
		NaturalHeight: PixelsToEMU(h, d.ImageDPI),
		Name:          fmt.Sprintf("Picture %d", drawingID),
		DrawingID:     drawingID,
	}
	img.Width, img.Height = img.NaturalWidth, img.NaturalHeight

	id := d.alloc(TypeImage)
	n := d.nodes[id]
	n.Inline = p.IsParagraph() && p.Type != TypeImage
	n.Runs = []*FormattedRun{{Kind: RunDrawing, Drawing: img}}
	n.setMeta(MetaImage, img)

	if err := d.AppendChild(parent, id); err != nil {
		d.release(n)
		return 0, err
	}
	return id, nil
}

// AddHyperlink appends a hyperlink to a paragraph. A url starting with "#"
// links to a bookmark; anything else gets an external relationship.
func (d *Document) AddHyperlink(parent NodeID, text, url string) (NodeID, error) {
	p := d.Node(parent)
	if p == nil {
		return 0, ErrNoNode
	}
	if !p.IsParagraph() || p.Type == TypeImage {
		return 0, fmt.Errorf("%w: hyperlinks go in paragraphs, not %s", ErrPlacement, p.Type)
	}

	link := &HyperlinkData{History: true}
	if anchor, ok := strings.CutPrefix(url, "#"); ok {
		link.Anchor = anchor
	} else {
		link.RelID = d.store.AddHyperlink(url).RelID
	}

	id := d.alloc(TypeHyperlinkText)
	n := d.nodes[id]
	n.Runs = []*FormattedRun{NewTextRun(text, &RunFormatting{Style: "Hyperlink"})}
	n.setMeta(MetaHyperlink, link)
	if err := d.AppendChild(parent, id); err != nil {
		d.release(n)
		return 0, err
	}
	return id, nil
}
