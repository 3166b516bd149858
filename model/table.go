package model

// TableData is the grid of a Table node. Each cell's content lives in a
// TableCell node that is a child of the Table node.
type TableData struct {
	Rows []*TableRow

	// ColumnCount is the number of grid columns declared by w:tblGrid. It is
	// authoritative: a row's cells plus its gridBefore/gridAfter must not
	// exceed it.
	ColumnCount int
	// Grid holds the column widths in twips.
	Grid []int

	Format *TableFormatting

	GridMarkup Markup `json:"-"`
}

// TableRow is one w:tr.
type TableRow struct {
	Cells    []*TableCell
	Format   *RowFormatting
	Controls []*ContentControlProperties `json:",omitempty"`
	Markup   Markup                      `json:"-"`
}

// VMerge values.
const (
	VMergeNone     = ""
	VMergeRestart  = "restart"
	VMergeContinue = "continue"
)

// TableCell is one w:tc.
type TableCell struct {
	Row int
	Col int // first grid column covered

	ColSpan int
	VMerge  string
	// RowSpan is derived from the vertical merge chain starting at this cell.
	// It is 0 for continuation cells.
	RowSpan int

	Format   *CellFormatting
	Node     NodeID `json:"-"`
	Controls []*ContentControlProperties `json:",omitempty"`
	Markup   Markup                      `json:"-"`
}

// CellProps is the content of a cell's w:tcPr: its formatting plus the span
// and merge state kept on the cell.
type CellProps struct {
	ColSpan int
	VMerge  string
	Format  *CellFormatting
}

// Props returns the cell's w:tcPr content.
func (c *TableCell) Props() CellProps {
	return CellProps{ColSpan: c.ColSpan, VMerge: c.VMerge, Format: c.Format}
}

// Span returns the cell's column span, treating unset as one.
func (c *TableCell) Span() int {
	if c.ColSpan < 1 {
		return 1
	}
	return c.ColSpan
}

// TableFormatting is the modeled part of w:tblPr.
type TableFormatting struct {
	Style     string
	Width     int
	WidthType string // dxa, pct, auto, nil
	Alignment string
	Layout    string // fixed, autofit
	Markup    Markup `json:"-"`
}

// RowFormatting is the modeled part of w:trPr.
type RowFormatting struct {
	GridBefore int
	GridAfter  int
	Height     int // twips
	HeightRule string
	Header     Toggle
	CantSplit  Toggle
	Markup     Markup `json:"-"`
}

// CellFormatting is the modeled part of w:tcPr other than spans and merges,
// which live on TableCell.
type CellFormatting struct {
	Width     int
	WidthType string
	Shading   *Shading `json:",omitempty"`
	Borders   []Border `json:",omitempty"`
	VAlign    string
	Markup    Markup `json:"-"`
}

// Shading is a w:shd element.
type Shading struct {
	Val   string
	Color string
	Fill  string
}

// Border is one side of a w:tcBorders element. Size is in eighths of a point.
type Border struct {
	Side  string // top, left, start, bottom, right, end, insideH, insideV, tl2br, tr2bl
	Style string
	Size  int
	Space int
	Color string
}

// GridBefore returns the number of grid columns skipped before the row's
// first cell.
func (r *TableRow) GridBefore() int {
	if r.Format == nil {
		return 0
	}
	return r.Format.GridBefore
}

// GridAfter returns the number of grid columns left after the row's last
// cell.
func (r *TableRow) GridAfter() int {
	if r.Format == nil {
		return 0
	}
	return r.Format.GridAfter
}

// Width returns the number of grid columns the row occupies, including
// gridBefore and gridAfter.
func (r *TableRow) Width() int {
	w := r.GridBefore() + r.GridAfter()
	for _, c := range r.Cells {
		w += c.Span()
	}
	return w
}

// Cell returns the cell covering grid column col in row, or nil.
func (t *TableData) Cell(row, col int) *TableCell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	for _, c := range t.Rows[row].Cells {
		if col >= c.Col && col < c.Col+c.Span() {
			return c
		}
	}
	return nil
}

// UpdateLayout recomputes each cell's row, column and row span from the
// spans and vertical merges.
func (t *TableData) UpdateLayout() {
	for r, row := range t.Rows {
		col := row.GridBefore()
		for _, c := range row.Cells {
			c.Row = r
			c.Col = col
			c.RowSpan = 1
			if c.VMerge == VMergeContinue {
				c.RowSpan = 0
			}
			col += c.Span()
		}
	}

	for r, row := range t.Rows {
		for _, c := range row.Cells {
			if c.VMerge != VMergeRestart {
				continue
			}
			for next := r + 1; next < len(t.Rows); next++ {
				below := t.Cell(next, c.Col)
				if below == nil || below.Col != c.Col || below.VMerge != VMergeContinue {
					break
				}
				c.RowSpan++
			}
		}
	}
}
