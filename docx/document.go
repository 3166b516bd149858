package docx

import (
	"log/slog"

	"github.com/tsawler/doctree/fidelity"
	"github.com/tsawler/doctree/formatting"
	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

// builder turns the body of the main part into nodes.
type builder struct {
	doc       *model.Document
	store     *fidelity.Store
	styles    *StyleResolver
	numbering *NumberingResolver
	log       *slog.Logger
	part      string

	opaque int
}

// section is the insertion state of one heading scope: the body, or a table
// cell, which starts a fresh stack.
type section struct {
	root  model.NodeID
	stack []*model.Node // open headings, shallowest first
	list  *model.Node   // List collecting consecutive numbered paragraphs
}

// parent returns where the next block goes.
func (s *section) parent() model.NodeID {
	if n := len(s.stack); n > 0 {
		return s.stack[n-1].ID()
	}
	return s.root
}

// open closes every heading at level or deeper and returns the parent of a
// new heading of that level.
func (s *section) open(level int) model.NodeID {
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].Level >= level {
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.list = nil
	return s.parent()
}

type controls = []*model.ContentControlProperties

// withControl returns outer followed by cc in a new slice with no spare
// capacity, so appending to it never writes into a sibling's chain.
func withControl(outer controls, cc *model.ContentControlProperties) controls {
	out := make(controls, len(outer)+1)
	copy(out, outer)
	out[len(outer)] = cc
	return out
}

func (b *builder) newNode(t model.ContentType) *model.Node {
	id, _ := b.doc.NewNode(t)
	return b.doc.Node(id)
}

func (b *builder) attach(parent model.NodeID, n *model.Node) error {
	if err := b.doc.AppendChild(parent, n.ID()); err != nil {
		return &ParseError{Part: b.part, Op: "build", Err: err}
	}
	return nil
}

func setControls(n *model.Node, chain controls) {
	if len(chain) > 0 {
		n.SetMeta(model.MetaControls, chain)
	}
}

// blocks builds the block-level elements of a body, cell or block content
// control.
func (b *builder) blocks(elements []*wml.Element, sec *section, chain controls) error {
	for _, el := range elements {
		var err error
		switch {
		case el.Is(wml.NsW, "p"):
			err = b.paragraph(el, sec, chain)
		case el.Is(wml.NsW, "tbl"):
			err = b.table(el, sec, chain)
		case el.Is(wml.NsW, "sdt"):
			err = b.blockControl(el, sec, chain)
		default:
			err = b.opaqueBlock(el, sec, chain)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// blockControl unwraps a block-level w:sdt: its content is built in place
// and every node it yields carries the control. Controls without content
// are kept verbatim.
func (b *builder) blockControl(el *wml.Element, sec *section, chain controls) error {
	content := el.Child(wml.NsW, "sdtContent")
	if content == nil || len(content.Children) == 0 {
		return b.opaqueBlock(el, sec, chain)
	}
	cc := b.control(el, content)
	b.log.Debug("docx: block content control",
		slog.String("doc", b.doc.ID.String()),
		slog.Int("id", cc.ID),
		slog.String("kind", cc.Kind.String()))
	return b.blocks(content.Children, sec, withControl(chain, cc))
}

// opaqueBlock keeps an element the tree does not model as a Paragraph node
// written back verbatim.
func (b *builder) opaqueBlock(el *wml.Element, sec *section, chain controls) error {
	n := b.newNode(model.TypeParagraph)
	n.SetMeta(model.MetaOpaque, el.QName())
	n.Markup = model.Markup{Raw: el.Raw, Attrs: el.AttrText()}
	if text := formatting.VisibleText(el); text != "" {
		n.Runs = []*model.FormattedRun{{Kind: model.RunOpaque, Text: text, Markup: model.Markup{Raw: el.Raw}}}
	}
	setControls(n, chain)
	sec.list = nil
	b.opaque++
	return b.attach(sec.parent(), n)
}

// paragraph builds a w:p as a Heading, ListItem, block Image or Paragraph.
func (b *builder) paragraph(el *wml.Element, sec *section, chain controls) error {
	f := formatting.ExtractParagraph(el.Child(wml.NsW, "pPr"))
	level, err := b.styles.paragraphLevel(f)
	if err != nil {
		return &ParseError{Part: b.part, Op: "heading level", Err: err}
	}
	pieces := b.inline(el.Children, nil)

	var n *model.Node
	switch {
	case level > 0:
		id, err := b.doc.NewHeading(level)
		if err != nil {
			return &ParseError{Part: b.part, Op: "heading level", Err: err}
		}
		n = b.doc.Node(id)
		if err := b.attach(sec.open(level), n); err != nil {
			return err
		}
		sec.stack = append(sec.stack, n)

	case isListParagraph(f):
		n = b.newNode(model.TypeListItem)
		if err := b.listItem(sec, n, f); err != nil {
			return err
		}

	case len(pieces) == 1 && pieces[0].kind == model.TypeImage:
		n = b.newNode(model.TypeImage)
		n.Runs = pieces[0].runs
		n.SetMeta(model.MetaImage, pieces[0].runs[0].Drawing)
		pieces = nil
		sec.list = nil
		if err := b.attach(sec.parent(), n); err != nil {
			return err
		}

	default:
		n = b.newNode(model.TypeParagraph)
		sec.list = nil
		if err := b.attach(sec.parent(), n); err != nil {
			return err
		}
	}

	n.Format = f
	n.Markup = model.Markup{Raw: el.Raw, Attrs: el.AttrText()}
	setControls(n, chain)

	for _, p := range pieces {
		if err := b.attach(n.ID(), b.pieceNode(p)); err != nil {
			return err
		}
	}
	return nil
}

// piece is one inline node before it is attached.
type piece struct {
	kind   model.ContentType // TextRun, HyperlinkText or Image
	runs   []*model.FormattedRun
	link   *model.HyperlinkData
	opaque string
	markup model.Markup
}

func (b *builder) pieceNode(p piece) *model.Node {
	n := b.newNode(p.kind)
	n.Runs = p.runs
	n.Markup = p.markup
	switch p.kind {
	case model.TypeImage:
		n.Inline = true
		n.SetMeta(model.MetaImage, p.runs[0].Drawing)
	case model.TypeHyperlinkText:
		n.SetMeta(model.MetaHyperlink, p.link)
	}
	if p.opaque != "" {
		n.SetMeta(model.MetaOpaque, p.opaque)
	}
	return n
}

// inline builds the inline content of a paragraph or inline content
// control. Every run gets chain as its controls.
func (b *builder) inline(children []*wml.Element, chain controls) []piece {
	var pieces []piece
	for _, c := range children {
		switch {
		case c.Is(wml.NsW, "pPr"):
		case c.Is(wml.NsW, "r"):
			r := b.run(c, chain)
			kind := model.TypeTextRun
			if r.Kind == model.RunDrawing {
				kind = model.TypeImage
			}
			pieces = append(pieces, piece{kind: kind, runs: []*model.FormattedRun{r}})
		case c.Is(wml.NsW, "hyperlink"):
			pieces = append(pieces, b.hyperlink(c, chain))
		case c.Is(wml.NsW, "sdt"):
			content := c.Child(wml.NsW, "sdtContent")
			var sub []piece
			if content != nil {
				sub = b.inline(content.Children, withControl(chain, b.control(c, content)))
			}
			if len(sub) == 0 {
				pieces = append(pieces, b.opaqueInline(c, chain))
				continue
			}
			pieces = append(pieces, sub...)
		default:
			pieces = append(pieces, b.opaqueInline(c, chain))
		}
	}
	return pieces
}

// run reads a w:r.
func (b *builder) run(el *wml.Element, chain controls) *model.FormattedRun {
	rc := formatting.ExtractRunContent(el)
	r := &model.FormattedRun{
		Kind:     rc.Kind,
		Text:     rc.Text,
		Format:   rc.Format,
		Drawing:  rc.Drawing,
		Controls: chain,
		Markup:   model.Markup{Raw: el.Raw, Attrs: el.AttrText()},
	}
	if rc.Drawing != nil {
		b.projectImage(rc.Drawing)
	}
	if rc.Kind == model.RunOpaque {
		b.opaque++
	}
	return r
}

func (b *builder) opaqueInline(el *wml.Element, chain controls) piece {
	b.opaque++
	return piece{
		kind:   model.TypeTextRun,
		opaque: el.QName(),
		runs: []*model.FormattedRun{{
			Kind:     model.RunOpaque,
			Text:     formatting.VisibleText(el),
			Controls: chain,
			Markup:   model.Markup{Raw: el.Raw},
		}},
	}
}

// hyperlink reads a w:hyperlink. Its runs may sit inside content controls;
// anything else in it is kept as opaque runs.
func (b *builder) hyperlink(el *wml.Element, chain controls) piece {
	link := &model.HyperlinkData{
		Anchor:  wAttr(el, "anchor"),
		Tooltip: wAttr(el, "tooltip"),
		History: isOn(wAttr(el, "history")),
		Markup:  model.Markup{Raw: el.Raw, Attrs: el.AttrText()},
	}
	link.RelID, _ = el.AttrNS(wml.NsR, "id")
	return piece{
		kind:   model.TypeHyperlinkText,
		runs:   b.linkRuns(el.Children, chain),
		link:   link,
		markup: model.Markup{Raw: el.Raw, Attrs: el.AttrText()},
	}
}

func (b *builder) linkRuns(children []*wml.Element, chain controls) []*model.FormattedRun {
	var runs []*model.FormattedRun
	for _, c := range children {
		switch {
		case c.Is(wml.NsW, "r"):
			runs = append(runs, b.run(c, chain))
		case c.Is(wml.NsW, "sdt"):
			content := c.Child(wml.NsW, "sdtContent")
			var sub []*model.FormattedRun
			if content != nil {
				sub = b.linkRuns(content.Children, withControl(chain, b.control(c, content)))
			}
			if len(sub) == 0 {
				runs = append(runs, b.opaqueInline(c, chain).runs...)
				continue
			}
			runs = append(runs, sub...)
		default:
			runs = append(runs, b.opaqueInline(c, chain).runs...)
		}
	}
	return runs
}

func wAttr(el *wml.Element, local string) string {
	v, _ := el.AttrNS(wml.NsW, local)
	return v
}
