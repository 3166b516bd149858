package model

import (
	"fmt"
	"slices"
)

// NewNode allocates a detached node of type t. Attach it with AppendChild or
// InsertChild. Document nodes cannot be created: the root is unique.
func (d *Document) NewNode(t ContentType) (NodeID, error) {
	if t == TypeDocument {
		return 0, ErrRootType
	}
	if t < TypeDocument || t > TypeTextRun {
		return 0, fmt.Errorf("%w: unknown content type %d", ErrPlacement, t)
	}
	return d.alloc(t), nil
}

// NewHeading allocates a detached heading of the given level.
func (d *Document) NewHeading(level int) (NodeID, error) {
	if level < 1 || level > 9 {
		return 0, fmt.Errorf("%w: %d", ErrHeadingLevel, level)
	}
	id := d.alloc(TypeHeading)
	d.nodes[id].Level = level
	return id, nil
}

// AppendChild attaches a detached node as the last child of parent. Inline
// content appended to a heading goes after the heading's existing runs and
// before the blocks nested under it.
func (d *Document) AppendChild(parent, child NodeID) error {
	p, c, err := d.pair(parent, child)
	if err != nil {
		return err
	}
	idx := len(p.children)
	if c.IsInline() {
		idx = d.inlineEnd(p)
	}
	return d.insert(p, c, idx)
}

// InsertChild attaches a detached node at position index among parent's
// children.
func (d *Document) InsertChild(parent NodeID, index int, child NodeID) error {
	p, c, err := d.pair(parent, child)
	if err != nil {
		return err
	}
	if index < 0 || index > len(p.children) {
		return fmt.Errorf("%w: index %d out of range", ErrPlacement, index)
	}
	return d.insert(p, c, index)
}

// RemoveChild detaches child and its subtree from parent. Removed nodes are
// released; their identifiers no longer resolve. Removing a heading removes
// the section nested under it.
func (d *Document) RemoveChild(parent, child NodeID) error {
	p := d.Node(parent)
	c := d.Node(child)
	if p == nil || c == nil {
		return ErrNoNode
	}
	if c.parent != parent {
		return fmt.Errorf("%w: node %d is not a child of %d", ErrPlacement, child, parent)
	}
	if c.Type == TypeTableCell {
		return fmt.Errorf("%w: table cells are removed through their table", ErrPlacement)
	}
	d.detach(p, c)
	d.release(c)
	return nil
}

func (d *Document) pair(parent, child NodeID) (*Node, *Node, error) {
	p := d.Node(parent)
	c := d.Node(child)
	if p == nil || c == nil {
		return nil, nil, ErrNoNode
	}
	if c.Type == TypeDocument {
		return nil, nil, fmt.Errorf("%w: the root cannot be attached", ErrPlacement)
	}
	if c.parent != 0 {
		return nil, nil, fmt.Errorf("%w: node %d already has a parent", ErrPlacement, child)
	}
	for a := p; a != nil; a = d.Node(a.parent) {
		if a.id == c.id {
			return nil, nil, fmt.Errorf("%w: node %d would become its own ancestor", ErrPlacement, child)
		}
	}
	return p, c, nil
}

func (d *Document) insert(p, c *Node, idx int) error {
	proposed := slices.Insert(slices.Clone(p.children), idx, c.id)
	if err := d.checkChildren(p, proposed); err != nil {
		return err
	}
	if err := d.checkHeadingCeiling(p, c); err != nil {
		return err
	}
	p.children = proposed
	c.parent = p.id
	return nil
}

func (d *Document) detach(p, c *Node) {
	if i := slices.Index(p.children, c.id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	c.parent = 0
}

func (d *Document) release(n *Node) {
	for _, c := range n.children {
		if cn := d.Node(c); cn != nil {
			d.release(cn)
		}
	}
	d.nodes[n.id] = nil
}

// inlineEnd returns the index after the last inline child of p.
func (d *Document) inlineEnd(p *Node) int {
	i := 0
	for i < len(p.children) && d.nodes[p.children[i]].IsInline() {
		i++
	}
	return i
}

func accepts(p, c *Node) bool {
	switch p.Type {
	case TypeDocument, TypeTableCell:
		return c.IsBlock()
	case TypeHeading:
		return c.IsBlock() || c.IsInline()
	case TypeParagraph, TypeListItem:
		return c.IsInline()
	case TypeList:
		return c.Type == TypeListItem
	case TypeTable:
		return c.Type == TypeTableCell
	}
	return false
}

// checkChildren verifies a child sequence of p: allowed types, inline content
// before blocks, and headings ordered so re-reading the written document
// yields the same nesting.
func (d *Document) checkChildren(p *Node, children []NodeID) error {
	seenBlock := false
	var lastHeading *Node
	for _, id := range children {
		c := d.nodes[id]
		if !accepts(p, c) {
			return fmt.Errorf("%w: %s cannot contain %s", ErrPlacement, p.Type, c.Type)
		}
		if c.Type == TypeHeading && (c.Level < 1 || c.Level > 9) {
			return fmt.Errorf("%w: node %d has level %d", ErrHeadingLevel, c.id, c.Level)
		}
		if c.IsInline() {
			if seenBlock {
				return fmt.Errorf("%w: inline content after a block in %s", ErrPlacement, p.Type)
			}
			continue
		}
		seenBlock = true
		if lastHeading != nil {
			if c.Type != TypeHeading {
				return fmt.Errorf("%w: %s after a sibling heading would nest under it", ErrPlacement, c.Type)
			}
			if c.Level > lastHeading.Level {
				return fmt.Errorf("%w: level %d heading after a sibling of level %d would nest under it", ErrPlacement, c.Level, lastHeading.Level)
			}
		}
		if c.Type == TypeHeading {
			lastHeading = c
		}
	}
	return nil
}

// headingCeiling returns the deepest heading level enclosing n, stopping at
// the nearest table cell, which starts a fresh heading stack.
func (d *Document) headingCeiling(n *Node) int {
	for a := n; a != nil; a = d.Node(a.parent) {
		switch a.Type {
		case TypeHeading:
			return a.Level
		case TypeTableCell:
			return 0
		}
	}
	return 0
}

// checkHeadingCeiling verifies every heading in c's subtree is deeper than
// the headings enclosing p.
func (d *Document) checkHeadingCeiling(p, c *Node) error {
	ceiling := d.headingCeiling(p)
	if ceiling == 0 {
		return nil
	}
	var err error
	d.walkSection(c, func(n *Node) {
		if err == nil && n.Type == TypeHeading && n.Level <= ceiling {
			err = fmt.Errorf("%w: level %d heading inside a level %d heading", ErrPlacement, n.Level, ceiling)
		}
	})
	return err
}

// walkSection visits n and its descendants without entering tables.
func (d *Document) walkSection(n *Node, fn func(*Node)) {
	fn(n)
	if n.Type == TypeTable {
		return
	}
	for _, c := range n.children {
		if cn := d.Node(c); cn != nil {
			d.walkSection(cn, fn)
		}
	}
}

// SetText replaces the text of a node. Paragraphs, headings and list items
// get a single run carrying the formatting of their first text run; runs and
// hyperlinks keep their formatting.
func (d *Document) SetText(id NodeID, text string) error {
	n := d.Node(id)
	if n == nil {
		return ErrNoNode
	}
	if n.Opaque() != "" {
		return ErrOpaque
	}

	switch {
	case n.Type == TypeTextRun:
		if len(n.Runs) == 0 {
			n.Runs = []*FormattedRun{NewTextRun(text, nil)}
			return nil
		}
		setRunText(n.Runs[0], text)
		return nil
	case n.Type == TypeHyperlinkText:
		n.Runs = keepFirstRun(n.Runs, text, &RunFormatting{Style: "Hyperlink"})
		return nil
	case n.IsParagraph() && n.Type != TypeImage:
		d.setParagraphText(n, text, false)
		return nil
	}
	return fmt.Errorf("%w: cannot set text of %s", ErrPlacement, n.Type)
}

func setRunText(r *FormattedRun, text string) {
	if r.Kind != RunText {
		r.Kind = RunText
		r.Drawing = nil
	}
	r.Text = text
}

// keepFirstRun returns a single text run formatted like the first text run
// of runs, or with def when there is none.
func keepFirstRun(runs []*FormattedRun, text string, def *RunFormatting) []*FormattedRun {
	for _, r := range runs {
		if r.Kind == RunText {
			setRunText(r, text)
			return []*FormattedRun{r}
		}
	}
	return []*FormattedRun{NewTextRun(text, def)}
}

// setParagraphText replaces the inline children of n by one text run.
func (d *Document) setParagraphText(n *Node, text string, keepControls bool) {
	var tmpl *FormattedRun
	for _, r := range d.Runs(n.id) {
		if r.Kind == RunText {
			tmpl = r
			break
		}
	}

	run := NewTextRun(text, nil)
	if tmpl != nil {
		run.Format = tmpl.Format.Clone()
		if keepControls {
			run.Controls = append(run.Controls, tmpl.Controls...)
		}
	}

	d.clearInline(n)
	if text == "" && run.Format == nil && len(run.Controls) == 0 {
		return
	}
	rid := d.alloc(TypeTextRun)
	rn := d.nodes[rid]
	rn.Runs = []*FormattedRun{run}
	rn.parent = n.id
	n.children = slices.Insert(n.children, 0, rid)
}

func (d *Document) clearInline(n *Node) {
	kept := n.children[:0:0]
	for _, c := range n.children {
		cn := d.nodes[c]
		if cn.IsInline() {
			d.release(cn)
			continue
		}
		kept = append(kept, c)
	}
	n.children = kept
}

// SetParagraphFormatting replaces the paragraph formatting of a
// paragraph-like node. Unmodeled properties of the previous formatting are
// carried over to f.
func (d *Document) SetParagraphFormatting(id NodeID, f *ParagraphFormatting) error {
	n := d.Node(id)
	if n == nil {
		return ErrNoNode
	}
	if !n.IsParagraph() {
		return fmt.Errorf("%w: %s has no paragraph formatting", ErrPlacement, n.Type)
	}
	if f != nil && n.Format != nil && f != n.Format && !f.Markup.HasSource() {
		f.Markup = n.Format.Markup
	}
	n.Format = f
	return nil
}

// SetRunFormatting applies f to every run of a node: a run, a hyperlink, or
// all inline content of a paragraph. Each run gets its own copy and keeps its
// unmodeled properties. Opaque runs are left alone.
func (d *Document) SetRunFormatting(id NodeID, f *RunFormatting) error {
	n := d.Node(id)
	if n == nil {
		return ErrNoNode
	}
	runs := d.Runs(id)
	if len(runs) == 0 && !n.IsParagraph() && !n.IsInline() {
		return fmt.Errorf("%w: %s has no runs", ErrPlacement, n.Type)
	}
	for _, r := range runs {
		if r.Kind == RunOpaque {
			continue
		}
		c := f.Clone()
		if c != nil && r.Format != nil {
			c.Markup = r.Format.Markup
		}
		r.Format = c
	}
	return nil
}

// SetLevel changes a heading's level. Level 0 turns a heading without nested
// blocks into a paragraph; levels 1-9 on a paragraph turn it into a heading.
// The change is refused when it would break the heading nesting.
func (d *Document) SetLevel(id NodeID, level int) error {
	n := d.Node(id)
	if n == nil {
		return ErrNoNode
	}
	if level < 0 || level > 9 {
		return fmt.Errorf("%w: %d", ErrHeadingLevel, level)
	}

	oldType, oldLevel := n.Type, n.Level
	switch {
	case level == 0:
		if n.Type != TypeHeading {
			return nil
		}
		if len(n.children) > d.inlineEnd(n) {
			return fmt.Errorf("%w: heading still has nested blocks", ErrPlacement)
		}
		n.Type = TypeParagraph
	case n.Type == TypeHeading || n.Type == TypeParagraph:
		n.Type = TypeHeading
	default:
		return fmt.Errorf("%w: %s cannot become a heading", ErrPlacement, n.Type)
	}
	n.Level = level

	if err := d.checkLevelChange(n); err != nil {
		n.Type, n.Level = oldType, oldLevel
		return err
	}
	return nil
}

func (d *Document) checkLevelChange(n *Node) error {
	if p := d.Node(n.parent); p != nil {
		if err := d.checkChildren(p, p.children); err != nil {
			return err
		}
		if n.Type == TypeHeading && d.headingCeiling(p) >= n.Level {
			return fmt.Errorf("%w: level %d heading inside a level %d heading", ErrPlacement, n.Level, d.headingCeiling(p))
		}
	}
	if n.Type != TypeHeading {
		return nil
	}
	for _, c := range n.children {
		cn := d.nodes[c]
		if err := d.checkHeadingCeiling(n, cn); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceRuns replaces the inline content of a node. Paragraph-like nodes
// get one inline child per run: drawing runs become inline images, others
// text runs.
func (d *Document) ReplaceRuns(id NodeID, runs []*FormattedRun) error {
	n := d.Node(id)
	if n == nil {
		return ErrNoNode
	}
	if n.Opaque() != "" {
		return ErrOpaque
	}

	switch {
	case n.Type == TypeTextRun:
		if len(runs) != 1 {
			return fmt.Errorf("%w: a text run holds exactly one run", ErrPlacement)
		}
		n.Runs = runs
		return nil
	case n.Type == TypeHyperlinkText:
		n.Runs = runs
		return nil
	case n.IsParagraph() && n.Type != TypeImage:
		d.clearInline(n)
		ids := make([]NodeID, 0, len(runs))
		for _, r := range runs {
			var cid NodeID
			if r.Kind == RunDrawing && r.Drawing != nil {
				cid = d.alloc(TypeImage)
				cn := d.nodes[cid]
				cn.Inline = true
				cn.setMeta(MetaImage, r.Drawing)
			} else {
				cid = d.alloc(TypeTextRun)
			}
			cn := d.nodes[cid]
			cn.Runs = []*FormattedRun{r}
			cn.parent = n.id
			ids = append(ids, cid)
		}
		n.children = slices.Insert(n.children, 0, ids...)
		return nil
	}
	return fmt.Errorf("%w: %s has no inline content", ErrPlacement, n.Type)
}
