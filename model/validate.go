package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the tree invariants: a single Document root, consistent
// parent links, allowed child types, heading levels and nesting, and table
// cells matching their grid. All violations are returned joined.
func (d *Document) Validate() error {
	var errs []error
	root := d.Node(d.root)
	if root == nil || root.Type != TypeDocument || root.parent != 0 {
		return fmt.Errorf("%w: root is missing or not a Document", ErrPlacement)
	}

	seen := make(map[NodeID]bool)
	var visit func(n *Node)
	visit = func(n *Node) {
		if seen[n.id] {
			errs = append(errs, fmt.Errorf("%w: node %d appears more than once", ErrPlacement, n.id))
			return
		}
		seen[n.id] = true
		if n.id != d.root && n.Type == TypeDocument {
			errs = append(errs, fmt.Errorf("%w: node %d", ErrRootType, n.id))
		}

		for _, c := range n.children {
			cn := d.Node(c)
			if cn == nil {
				errs = append(errs, fmt.Errorf("%w: node %d lists released child %d", ErrNoNode, n.id, c))
				return
			}
			if cn.parent != n.id {
				errs = append(errs, fmt.Errorf("%w: node %d lists child %d whose parent is %d", ErrPlacement, n.id, c, cn.parent))
			}
		}
		if err := d.checkChildren(n, n.children); err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", n.id, err))
		}
		if n.Type == TypeHeading {
			if c := d.headingCeiling(d.Node(n.parent)); c >= n.Level {
				errs = append(errs, fmt.Errorf("%w: level %d heading %d inside a level %d heading", ErrPlacement, n.Level, n.id, c))
			}
		}
		if n.Type == TypeTable {
			errs = append(errs, d.checkTable(n)...)
		}
		if n.Type == TypeImage && n.Image() == nil {
			errs = append(errs, fmt.Errorf("%w: image node %d has no image data", ErrPlacement, n.id))
		}

		for _, c := range n.children {
			if cn := d.Node(c); cn != nil {
				visit(cn)
			}
		}
	}
	visit(root)
	return errors.Join(errs...)
}

func (d *Document) checkTable(n *Node) []error {
	t := n.Table()
	if t == nil {
		return []error{fmt.Errorf("%w: table node %d has no grid", ErrPlacement, n.id)}
	}
	var errs []error
	var cells []NodeID
	for _, row := range t.Rows {
		for _, c := range row.Cells {
			cells = append(cells, c.Node)
		}
	}
	if len(cells) != len(n.children) {
		return append(errs, fmt.Errorf("%w: table %d has %d cells but %d cell nodes", ErrPlacement, n.id, len(cells), len(n.children)))
	}
	for i, c := range cells {
		if n.children[i] != c {
			errs = append(errs, fmt.Errorf("%w: table %d cell %d is backed by node %d, not %d", ErrPlacement, n.id, i, c, n.children[i]))
		}
	}
	return errs
}

// Outline renders the tree as an indented listing of node types and text,
// one node per line.
func (d *Document) Outline() string {
	var sb strings.Builder
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		n := d.nodes[id]
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Type.String())
		if n.Type == TypeHeading {
			fmt.Fprintf(&sb, " %d", n.Level)
		}
		if n.IsParagraph() && n.Type != TypeImage {
			if text := d.OwnText(id); text != "" {
				fmt.Fprintf(&sb, " %q", text)
			}
		}
		if t := n.Table(); t != nil {
			fmt.Fprintf(&sb, " %dx%d", len(t.Rows), t.ColumnCount)
		}
		sb.WriteByte('\n')
		for _, c := range n.children {
			if d.nodes[c].IsInline() {
				continue
			}
			visit(c, depth+1)
		}
	}
	visit(d.root, 0)
	return sb.String()
}
