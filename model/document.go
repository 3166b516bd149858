package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/doctree/fidelity"
)

// DefaultImageDPI is the resolution used to size pictures that declare no
// extent of their own.
const DefaultImageDPI = 96

// Document is the root of a document tree. It owns the node arena and the
// fidelity store holding every package part the tree does not model.
type Document struct {
	// ID distinguishes documents in logs.
	ID uuid.UUID
	// ImageDPI converts natural picture sizes from pixels to EMU.
	ImageDPI float64

	nodes []*Node // indexed by NodeID; slot 0 is unused
	root  NodeID
	store *fidelity.Store

	nextControlID int
	nextDrawingID int
}

// NewDocument returns a document with an empty root attached to store. A nil
// store is replaced by a blank package.
func NewDocument(store *fidelity.Store) *Document {
	if store == nil {
		store = fidelity.Blank()
	}
	d := &Document{
		ID:            uuid.New(),
		ImageDPI:      DefaultImageDPI,
		nodes:         []*Node{nil},
		store:         store,
		nextControlID: 1,
		nextDrawingID: 1,
	}
	d.root = d.alloc(TypeDocument)
	return d
}

func (d *Document) alloc(t ContentType) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, &Node{id: id, Type: t})
	return id
}

// Store returns the fidelity store owned by the root.
func (d *Document) Store() *fidelity.Store { return d.store }

// Root returns the identifier of the Document node.
func (d *Document) Root() NodeID { return d.root }

// Node returns the node with the given identifier, or nil when the identifier
// is unknown or the node was removed.
func (d *Document) Node(id NodeID) *Node {
	if id <= 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Parent returns the parent of id.
func (d *Document) Parent(id NodeID) (NodeID, bool) {
	n := d.Node(id)
	if n == nil || n.parent == 0 {
		return 0, false
	}
	return n.parent, true
}

// Children returns the children of id in document order.
func (d *Document) Children(id NodeID) []NodeID {
	n := d.Node(id)
	if n == nil {
		return nil
	}
	return n.Children()
}

// Walk visits id and its descendants in document order. Returning false from
// fn skips the node's children.
func (d *Document) Walk(id NodeID, fn func(n *Node) bool) {
	n := d.Node(id)
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		d.Walk(c, fn)
	}
}

// Find returns the nodes of the given type in document order.
func (d *Document) Find(t ContentType) []NodeID {
	var out []NodeID
	d.Walk(d.root, func(n *Node) bool {
		if n.Type == t {
			out = append(out, n.id)
		}
		return true
	})
	return out
}

// Runs returns the runs of a node: its own, or those of its inline children
// for paragraphs.
func (d *Document) Runs(id NodeID) []*FormattedRun {
	n := d.Node(id)
	if n == nil {
		return nil
	}
	if len(n.Runs) > 0 || !n.IsParagraph() {
		return n.Runs
	}
	var runs []*FormattedRun
	for _, c := range n.children {
		if cn := d.nodes[c]; cn.IsInline() {
			runs = append(runs, cn.Runs...)
		}
	}
	return runs
}

// Text returns the plain-text projection of a node. Paragraph-like nodes
// yield their runs' text; containers join their blocks with newlines; tables
// separate cells with tabs.
func (d *Document) Text(id NodeID) string {
	n := d.Node(id)
	if n == nil {
		return ""
	}

	switch n.Type {
	case TypeTextRun, TypeHyperlinkText:
		return runsText(n.Runs)
	case TypeImage:
		return ""
	case TypeTable:
		return d.tableText(n)
	}

	if n.IsParagraph() {
		var sb strings.Builder
		sb.WriteString(runsText(n.Runs))
		for _, c := range n.children {
			if cn := d.nodes[c]; cn.IsInline() {
				sb.WriteString(d.Text(c))
			}
		}
		if n.Type != TypeHeading {
			return sb.String()
		}
		head := sb.String()
		var parts []string
		for _, c := range n.children {
			if cn := d.nodes[c]; !cn.IsInline() {
				parts = append(parts, d.Text(c))
			}
		}
		if len(parts) == 0 {
			return head
		}
		return head + "\n" + strings.Join(parts, "\n")
	}

	parts := make([]string, 0, len(n.children))
	for _, c := range n.children {
		parts = append(parts, d.Text(c))
	}
	return strings.Join(parts, "\n")
}

// OwnText returns the text of a paragraph-like node without the blocks nested
// under it, e.g. a heading's title.
func (d *Document) OwnText(id NodeID) string {
	n := d.Node(id)
	if n == nil {
		return ""
	}
	if !n.IsParagraph() {
		return d.Text(id)
	}
	return runsText(d.Runs(id))
}

func (d *Document) tableText(n *Node) string {
	t := n.Table()
	if t == nil {
		return ""
	}
	var sb strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row.Cells {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(strings.ReplaceAll(d.Text(cell.Node), "\n", " "))
		}
	}
	return sb.String()
}

// ReserveControlID records a content-control id found in the package so new
// controls get a different one.
func (d *Document) ReserveControlID(id int) {
	if id >= d.nextControlID {
		d.nextControlID = id + 1
	}
}

// NextControlID allocates a content-control id unique within the document.
func (d *Document) NextControlID() int {
	id := d.nextControlID
	d.nextControlID++
	return id
}

// ReserveDrawingID records a drawing object id found in the package.
func (d *Document) ReserveDrawingID(id int) {
	if id >= d.nextDrawingID {
		d.nextDrawingID = id + 1
	}
}

// NextDrawingID allocates a drawing object id unique within the document.
func (d *Document) NextDrawingID() int {
	id := d.nextDrawingID
	d.nextDrawingID++
	return id
}
