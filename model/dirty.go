package model

// nodeState is the canonical snapshot hashed for dirty tracking. Children
// are folded in by their own hashes.
type nodeState struct {
	Type     ContentType
	Level    int
	Inline   bool                 `json:",omitempty"`
	Runs     []*FormattedRun      `json:",omitempty"`
	Format   *ParagraphFormatting `json:",omitempty"`
	Meta     map[string]any       `json:",omitempty"`
	Children []string             `json:",omitempty"`
}

type cellState struct {
	ColSpan  int
	VMerge   string
	Format   *CellFormatting
	Controls []*ContentControlProperties `json:",omitempty"`
	Content  string
}

type rowState struct {
	Format *RowFormatting
	Cells  []cellState
}

// runState is a run without its content controls, which are written around
// the w:r rather than inside it.
type runState struct {
	Kind    RunKind
	Text    string
	Format  *RunFormatting
	Drawing *ImageData `json:",omitempty"`
}

func stateOfRun(r *FormattedRun) runState {
	return runState{Kind: r.Kind, Text: r.Text, Format: r.Format, Drawing: r.Drawing}
}

// RunUnchanged reports whether a run still matches its parsed w:r.
func RunUnchanged(r *FormattedRun) bool {
	return Unchanged(&r.Markup, stateOfRun(r))
}

type gridState struct {
	ColumnCount int
	Grid        []int
}

// state returns the snapshot of n. With own set, the snapshot covers what
// the node's own element holds: its block content controls are left out and
// a heading's nested blocks are skipped.
func (d *Document) state(n *Node, own bool) nodeState {
	s := nodeState{
		Type:   n.Type,
		Level:  n.Level,
		Inline: n.Inline,
		Runs:   n.Runs,
		Format: n.Format,
	}
	if len(n.Metadata) > 0 {
		s.Meta = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			if own && k == MetaControls {
				continue
			}
			s.Meta[k] = v
		}
	}
	for _, c := range n.children {
		cn := d.nodes[c]
		if own && n.Type == TypeHeading && !cn.IsInline() {
			continue
		}
		s.Children = append(s.Children, Hash(d.state(cn, false)))
	}
	return s
}

func (d *Document) cellState(c *TableCell, withControls bool) cellState {
	s := cellState{ColSpan: c.ColSpan, VMerge: c.VMerge, Format: c.Format}
	if withControls {
		s.Controls = c.Controls
	}
	if cn := d.Node(c.Node); cn != nil {
		s.Content = Hash(d.state(cn, false))
	}
	return s
}

func (d *Document) rowState(r *TableRow) rowState {
	s := rowState{Format: r.Format}
	for _, c := range r.Cells {
		s.Cells = append(s.Cells, d.cellState(c, true))
	}
	return s
}

// Unchanged reports whether a node still matches its parsed markup, so the
// markup can be written back verbatim.
func (d *Document) Unchanged(id NodeID) bool {
	n := d.Node(id)
	if n == nil {
		return false
	}
	return Unchanged(&n.Markup, d.state(n, true))
}

// RowUnchanged reports whether a table row still matches its parsed w:tr.
func (d *Document) RowUnchanged(r *TableRow) bool {
	return Unchanged(&r.Markup, d.rowState(r))
}

// CellUnchanged reports whether a table cell still matches its parsed w:tc.
func (d *Document) CellUnchanged(c *TableCell) bool {
	return Unchanged(&c.Markup, d.cellState(c, false))
}

// GridUnchanged reports whether a table's column grid still matches its
// parsed w:tblGrid.
func GridUnchanged(t *TableData) bool {
	return Unchanged(&t.GridMarkup, gridState{t.ColumnCount, t.Grid})
}

// CaptureBaseline seals every parsed element with the hash of its current
// state. Parsers call it once the tree is complete; later edits are detected
// against it.
func (d *Document) CaptureBaseline() {
	sealed := make(map[*ContentControlProperties]bool)
	sealControls := func(list []*ContentControlProperties) {
		for _, cc := range list {
			if !sealed[cc] {
				sealed[cc] = true
				Seal(&cc.Markup, cc)
			}
		}
	}

	d.Walk(d.root, func(n *Node) bool {
		Seal(&n.Markup, d.state(n, true))
		if n.Format != nil {
			Seal(&n.Format.Markup, n.Format)
		}
		sealControls(n.ContentControls())
		for _, r := range n.Runs {
			Seal(&r.Markup, stateOfRun(r))
			if r.Format != nil {
				Seal(&r.Format.Markup, r.Format)
			}
			if r.Drawing != nil {
				Seal(&r.Drawing.Markup, r.Drawing)
			}
			sealControls(r.Controls)
		}
		if h := n.Hyperlink(); h != nil {
			Seal(&h.Markup, h)
		}
		if t := n.Table(); t != nil {
			if t.Format != nil {
				Seal(&t.Format.Markup, t.Format)
			}
			Seal(&t.GridMarkup, gridState{t.ColumnCount, t.Grid})
			for _, row := range t.Rows {
				Seal(&row.Markup, d.rowState(row))
				if row.Format != nil {
					Seal(&row.Format.Markup, row.Format)
				}
				sealControls(row.Controls)
				for _, c := range row.Cells {
					Seal(&c.Markup, d.cellState(c, false))
					if c.Format != nil {
						Seal(&c.Format.Markup, c.Props())
					}
					sealControls(c.Controls)
				}
			}
		}
		return true
	})
}

// Fingerprint returns a hash of the whole tree: structure, text, formatting
// and metadata. Two parses of equivalent packages have equal fingerprints.
func (d *Document) Fingerprint() string {
	return Hash(d.state(d.nodes[d.root], false))
}
