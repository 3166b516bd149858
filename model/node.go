package model

// NodeID identifies a node within its Document. The zero value never refers
// to a node.
type NodeID int

// ContentType is the kind of a node.
type ContentType int

const (
	TypeDocument ContentType = iota
	TypeHeading
	TypeParagraph
	TypeTable
	TypeTableCell
	TypeImage
	TypeList
	TypeListItem
	TypeHyperlinkText
	TypeTextRun
)

func (t ContentType) String() string {
	switch t {
	case TypeDocument:
		return "Document"
	case TypeHeading:
		return "Heading"
	case TypeParagraph:
		return "Paragraph"
	case TypeTable:
		return "Table"
	case TypeTableCell:
		return "TableCell"
	case TypeImage:
		return "Image"
	case TypeList:
		return "List"
	case TypeListItem:
		return "ListItem"
	case TypeHyperlinkText:
		return "HyperlinkText"
	case TypeTextRun:
		return "TextRun"
	default:
		return "Unknown"
	}
}

// Metadata keys.
const (
	MetaList      = "list"
	MetaTable     = "table"
	MetaImage     = "image"
	MetaHyperlink = "hyperlink"
	MetaControls  = "sdt"
	MetaOpaque    = "opaque"
)

// Node is one element of the document tree. Nodes live in their Document's
// arena and refer to each other by NodeID.
type Node struct {
	id       NodeID
	parent   NodeID
	children []NodeID

	Type  ContentType
	Level int // 1-9 for headings, 0 otherwise

	// Inline marks an Image node that sits among a paragraph's runs rather
	// than standing as a block of its own.
	Inline bool

	Runs   []*FormattedRun
	Format *ParagraphFormatting
	Markup Markup

	Metadata map[string]any
}

// ID returns the node's identifier.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the parent identifier, or 0 for the root and detached nodes.
func (n *Node) Parent() NodeID { return n.parent }

// Children returns a copy of the child identifiers in document order.
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// IsInline reports whether the node belongs to a paragraph's inline content.
func (n *Node) IsInline() bool {
	switch n.Type {
	case TypeTextRun, TypeHyperlinkText:
		return true
	case TypeImage:
		return n.Inline
	}
	return false
}

// IsParagraph reports whether the node is emitted as a single w:p.
func (n *Node) IsParagraph() bool {
	switch n.Type {
	case TypeParagraph, TypeHeading, TypeListItem:
		return true
	case TypeImage:
		return !n.Inline
	}
	return false
}

// IsBlock reports whether the node can stand at body level.
func (n *Node) IsBlock() bool {
	switch n.Type {
	case TypeHeading, TypeParagraph, TypeTable, TypeList:
		return true
	case TypeImage:
		return !n.Inline
	}
	return false
}

// List returns the list numbering data of a List or ListItem node.
func (n *Node) List() *ListInfo {
	v, _ := n.Metadata[MetaList].(*ListInfo)
	return v
}

// Table returns the grid of a Table node.
func (n *Node) Table() *TableData {
	v, _ := n.Metadata[MetaTable].(*TableData)
	return v
}

// Image returns the drawing data of an Image node.
func (n *Node) Image() *ImageData {
	v, _ := n.Metadata[MetaImage].(*ImageData)
	return v
}

// Hyperlink returns the link data of a HyperlinkText node.
func (n *Node) Hyperlink() *HyperlinkData {
	v, _ := n.Metadata[MetaHyperlink].(*HyperlinkData)
	return v
}

// ContentControls returns the content controls wrapping a block node,
// outermost first.
func (n *Node) ContentControls() []*ContentControlProperties {
	v, _ := n.Metadata[MetaControls].([]*ContentControlProperties)
	return v
}

// Opaque returns the qualified name of the unmodeled element a node stands
// for, or "" when the node is fully represented.
func (n *Node) Opaque() string {
	v, _ := n.Metadata[MetaOpaque].(string)
	return v
}

func (n *Node) setMeta(key string, v any) {
	if n.Metadata == nil {
		n.Metadata = make(map[string]any)
	}
	n.Metadata[key] = v
}

// SetMeta stores a metadata value. A nil value removes the key.
func (n *Node) SetMeta(key string, v any) {
	if v == nil {
		delete(n.Metadata, key)
		return
	}
	n.setMeta(key, v)
}

// ListInfo is the numbering data of a List node and of its items.
type ListInfo struct {
	NumID   string
	Level   int // ilvl of an item, 0-based
	Ordered bool
	Start   int
	Bullet  string `json:",omitempty"`
}

// HyperlinkData is the target of a HyperlinkText node. RelID refers to the
// hyperlink table of the fidelity store; Anchor names a bookmark.
type HyperlinkData struct {
	RelID   string
	Anchor  string
	Tooltip string
	History bool
	Markup  Markup `json:"-"`
}
