package docx

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/doctree/fidelity"
	"github.com/tsawler/doctree/formatting"
	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

// writer regenerates the body of the main part.
type writer struct {
	doc    *model.Document
	store  *fidelity.Store
	styles *StyleResolver
	items  map[string]string // custom XML store item ids
	prefix string
	part   string
	log    *slog.Logger

	warnings    []model.Warning
	regenerated int
}

// unit is a block in write order with every content control wrapping it,
// outermost first.
type unit struct {
	node     *model.Node
	controls controls
}

// Write serializes doc into a package. Elements whose typed state still
// matches their parsed markup are copied byte for byte; everything else is
// regenerated. Parts other than the main part come from the document's
// fidelity store unchanged.
//
// The returned warnings list elements whose unmodeled content could not be
// carried over exactly. With Options.Strict they are returned together with
// an error wrapping ErrFidelityGap and no output.
func Write(doc *model.Document, opts Options) ([]byte, []model.Warning, error) {
	opts = opts.withDefaults()
	if err := doc.Validate(); err != nil {
		return nil, nil, &StructuralError{Reason: "invalid tree", Err: err}
	}

	store := doc.Store()
	styles, err := loadStyles(store)
	if err != nil {
		return nil, nil, err
	}
	w := &writer{
		doc:    doc,
		store:  store,
		styles: styles,
		items:  store.CustomXMLItemIDs(),
		prefix: opts.HeadingStylePrefix,
		part:   store.MainPart(),
		log:    opts.Logger,
	}

	var body bytes.Buffer
	if err := w.blocks(&body, w.flatten(doc.Children(doc.Root()), nil, nil)); err != nil {
		return nil, w.warnings, err
	}

	if opts.Strict && len(w.warnings) > 0 {
		return nil, w.warnings, fmt.Errorf("%w: %d elements regenerated with loss", ErrFidelityGap, len(w.warnings))
	}

	frame := store.Frame()
	var out bytes.Buffer
	out.Write(declareNamespaces(frame.Prologue, body.Bytes()))
	out.Write(body.Bytes())
	out.Write(frame.SectPr)
	out.Write(frame.Epilogue)

	pkg := store.Package().Clone()
	pkg.Set(w.part, out.Bytes())
	data, err := pkg.Bytes()
	if err != nil {
		return nil, w.warnings, fmt.Errorf("writing package: %w", err)
	}

	w.log.Debug("docx: wrote document",
		slog.String("doc", doc.ID.String()),
		slog.String("part", w.part),
		slog.Int("regenerated", w.regenerated),
		slog.Int("warnings", len(w.warnings)),
		slog.Int("bytes", len(data)))
	return data, w.warnings, nil
}

// WriteFile writes doc to path.
func WriteFile(doc *model.Document, path string, opts Options) ([]model.Warning, error) {
	data, warnings, err := Write(doc, opts)
	if err != nil {
		return warnings, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// gap records a fidelity warning for an element that lost detail.
func (w *writer) gap(id model.NodeID, element, message string) {
	wn := model.Warning{
		Kind:    model.FidelityGap,
		Node:    id,
		Part:    w.part,
		Element: element,
		Message: message,
	}
	w.warnings = append(w.warnings, wn)
	w.log.Warn("docx: fidelity gap",
		slog.String("doc", w.doc.ID.String()),
		slog.Int("node", int(id)),
		slog.String("element", element),
		slog.String("message", message))
}

func (w *writer) regenerate(n *model.Node, element string) {
	w.regenerated++
	w.log.Debug("docx: regenerating element",
		slog.String("doc", w.doc.ID.String()),
		slog.Int("node", int(n.ID())),
		slog.String("type", n.Type.String()),
		slog.String("element", element))
}

// flatten lists blocks in write order. List items inherit the controls of
// their list; the blocks nested under a heading follow it.
func (w *writer) flatten(ids []model.NodeID, outer controls, out []unit) []unit {
	for _, id := range ids {
		n := w.doc.Node(id)
		if n == nil || n.IsInline() {
			continue
		}
		chain := outer
		if own := n.ContentControls(); len(own) > 0 {
			chain = append(append(controls{}, outer...), own...)
		}
		switch n.Type {
		case model.TypeList:
			out = w.flatten(n.Children(), chain, out)
		case model.TypeHeading:
			out = append(out, unit{node: n, controls: chain})
			out = w.flatten(n.Children(), outer, out)
		default:
			out = append(out, unit{node: n, controls: chain})
		}
	}
	return out
}

// group writes items in order, wrapping every run of consecutive items that
// share the control at depth in one w:sdt. chains[i] lists the controls of
// item i, outermost first.
func (w *writer) group(b *bytes.Buffer, chains []controls, depth int, emit func(b *bytes.Buffer, i int) error) error {
	return w.groupFrom(b, chains, depth, 0, emit)
}

func (w *writer) groupFrom(b *bytes.Buffer, chains []controls, depth, base int, emit func(b *bytes.Buffer, i int) error) error {
	for i := 0; i < len(chains); {
		if len(chains[i]) <= depth {
			if err := emit(b, base+i); err != nil {
				return err
			}
			i++
			continue
		}
		cc := chains[i][depth]
		j := i + 1
		for j < len(chains) && len(chains[j]) > depth && chains[j][depth] == cc {
			j++
		}
		if err := w.openControl(b, cc); err != nil {
			return err
		}
		if err := w.groupFrom(b, chains[i:j], depth+1, base+i, emit); err != nil {
			return err
		}
		wml.Close(b, "w:sdtContent")
		wml.Close(b, "w:sdt")
		i = j
	}
	return nil
}

// openControl writes a w:sdt start, its properties and the sdtContent start
// tag.
func (w *writer) openControl(b *bytes.Buffer, cc *model.ContentControlProperties) error {
	if !model.Unchanged(&cc.Markup, cc) {
		if err := w.checkBinding(cc); err != nil {
			return err
		}
	}
	wml.Open(b, "w:sdt")
	if formatting.Control(b, cc) {
		w.gap(0, "w:sdtPr", fmt.Sprintf("content control %d regenerated", cc.ID))
	}
	b.Write(cc.EndProperties)
	wml.Open(b, "w:sdtContent")
	return nil
}

// checkBinding fails for data bindings to custom XML parts the package does
// not hold. Bindings to the built-in property parts are always valid.
func (w *writer) checkBinding(cc *model.ContentControlProperties) error {
	if cc.Binding == nil || cc.Binding.StoreItemID == "" {
		return nil
	}
	id := strings.ToUpper(cc.Binding.StoreItemID)
	switch id {
	case model.CorePropertiesStoreID, model.ExtendedPropertiesStoreID, model.CoverPagePropertiesID:
		return nil
	}
	if _, ok := w.items[id]; !ok {
		return structural(0, "content control %d is bound to missing custom XML item %s", cc.ID, cc.Binding.StoreItemID)
	}
	return nil
}

func (w *writer) blocks(b *bytes.Buffer, units []unit) error {
	chains := make([]controls, len(units))
	for i, u := range units {
		chains[i] = u.controls
	}
	return w.group(b, chains, 0, func(b *bytes.Buffer, i int) error {
		n := units[i].node
		if n.Type == model.TypeTable {
			return w.table(b, n)
		}
		return w.paragraph(b, n)
	})
}

// paragraph writes a paragraph-like node as a w:p.
func (w *writer) paragraph(b *bytes.Buffer, n *model.Node) error {
	if n.Opaque() != "" {
		b.Write(n.Markup.Raw)
		return nil
	}
	if _, numOK := w.numbering(n); numOK && w.doc.Unchanged(n.ID()) {
		b.Write(n.Markup.Raw)
		return nil
	}
	w.regenerate(n, "w:p")

	f, err := w.paragraphFormat(n)
	if err != nil {
		return err
	}
	wml.OpenRaw(b, "w:p", n.Markup.Attrs)
	if formatting.Paragraph(b, f) {
		w.gap(n.ID(), "w:pPr", "paragraph properties regenerated")
	}
	if n.Type == model.TypeImage {
		if err := w.runs(b, n, n.Runs, 0); err != nil {
			return err
		}
	} else if err := w.inline(b, n); err != nil {
		return err
	}
	wml.Close(b, "w:p")
	return nil
}

// paragraphFormat returns the properties that make the paragraph read back
// as the same node type and level: heading styles for headings, none for
// everything else, and numbering for list items.
func (w *writer) paragraphFormat(n *model.Node) (*model.ParagraphFormatting, error) {
	f := n.Format
	want := 0
	if n.Type == model.TypeHeading {
		want = n.Level
	}
	have, err := w.styles.paragraphLevel(f)
	if err != nil {
		return nil, &StructuralError{Node: n.ID(), Reason: "unreadable heading level", Err: err}
	}

	num, numOK := w.numbering(n)
	if have == want && numOK {
		return f, nil
	}

	if f == nil {
		f = &model.ParagraphFormatting{}
	} else {
		f = f.Clone()
	}
	if !numOK {
		f.Numbering = num
	}
	if have == want {
		return f, nil
	}

	if want > 0 {
		f.Style = w.prefix + strconv.Itoa(want)
		if f.OutlineLevel != nil {
			f.OutlineLevel = model.Int(want - 1)
		}
		if lvl, err := w.styles.paragraphLevel(f); err != nil || lvl != want {
			f.OutlineLevel = model.Int(want - 1)
		}
		return f, nil
	}

	if lvl, err := w.styles.HeadingLevel(f.Style); err != nil || lvl > 0 {
		f.Style = ""
	}
	if f.OutlineLevel != nil && *f.OutlineLevel < bodyOutlineLevel {
		f.OutlineLevel = nil
	}
	if lvl, err := w.styles.paragraphLevel(f); err != nil || lvl != 0 {
		f.OutlineLevel = model.Int(bodyOutlineLevel)
	}
	return f, nil
}

// numbering returns the w:numPr a list item needs and whether its current
// formatting already has it. Other nodes keep whatever they have.
func (w *writer) numbering(n *model.Node) (*model.Numbering, bool) {
	if n.Type != model.TypeListItem {
		return nil, true
	}
	var want *model.Numbering
	if list := w.doc.Node(n.Parent()); list != nil && list.List() != nil && list.List().NumID != "" {
		level := 0
		if info := n.List(); info != nil {
			level = info.Level
		}
		want = &model.Numbering{ID: list.List().NumID, Level: level}
	}
	var have *model.Numbering
	if n.Format != nil {
		have = n.Format.Numbering
	}
	switch {
	case want == nil:
		return nil, have == nil
	case have == nil:
		return want, false
	}
	return want, *have == *want
}

// inline writes the inline children of a paragraph-like node. Children whose
// runs share content controls are wrapped together.
func (w *writer) inline(b *bytes.Buffer, n *model.Node) error {
	var kids []*model.Node
	for _, id := range n.Children() {
		if c := w.doc.Node(id); c != nil && c.IsInline() {
			kids = append(kids, c)
		}
	}
	chains := make([]controls, len(kids))
	for i, c := range kids {
		chains[i] = commonControls(c.Runs)
	}
	return w.group(b, chains, 0, func(b *bytes.Buffer, i int) error {
		c := kids[i]
		if c.Type == model.TypeHyperlinkText {
			return w.hyperlink(b, c, len(chains[i]))
		}
		return w.runs(b, c, c.Runs, len(chains[i]))
	})
}

// commonControls returns the controls wrapping every one of runs.
func commonControls(runs []*model.FormattedRun) controls {
	if len(runs) == 0 {
		return nil
	}
	common := runs[0].Controls
	for _, r := range runs[1:] {
		k := 0
		for k < len(common) && k < len(r.Controls) && common[k] == r.Controls[k] {
			k++
		}
		common = common[:k]
	}
	return common
}

// runs writes runs below the controls their node is already wrapped in.
func (w *writer) runs(b *bytes.Buffer, n *model.Node, runs []*model.FormattedRun, depth int) error {
	chains := make([]controls, len(runs))
	for i, r := range runs {
		chains[i] = r.Controls
	}
	return w.group(b, chains, depth, func(b *bytes.Buffer, i int) error {
		return w.run(b, n, runs[i])
	})
}

func (w *writer) run(b *bytes.Buffer, n *model.Node, r *model.FormattedRun) error {
	if r.Kind == model.RunOpaque || model.RunUnchanged(r) {
		b.Write(r.Markup.Raw)
		return nil
	}

	wml.OpenRaw(b, "w:r", r.Markup.Attrs)
	if formatting.Run(b, r.Format) {
		w.gap(n.ID(), "w:rPr", "run properties regenerated")
	}
	if r.Drawing != nil {
		if r.Drawing.RelID != "" {
			if _, ok := w.store.Media(r.Drawing.RelID); !ok {
				return structural(n.ID(), "picture refers to missing media %s", r.Drawing.RelID)
			}
		}
		if formatting.Drawing(b, r.Drawing) {
			w.gap(n.ID(), "w:drawing", "drawing layout regenerated from template")
		}
	} else {
		formatting.Text(b, r.Text)
	}
	wml.Close(b, "w:r")
	return nil
}

// hyperlink writes a w:hyperlink. Edited links keep their original start tag
// with the changed attributes patched in.
func (w *writer) hyperlink(b *bytes.Buffer, n *model.Node, depth int) error {
	if w.doc.Unchanged(n.ID()) {
		b.Write(n.Markup.Raw)
		return nil
	}
	link := n.Hyperlink()
	if link == nil {
		link = &model.HyperlinkData{}
	}
	if link.RelID != "" {
		if _, ok := w.store.Hyperlink(link.RelID); !ok {
			return structural(n.ID(), "hyperlink refers to missing relationship %s", link.RelID)
		}
	}

	b.Write(w.hyperlinkTag(n, link))
	if err := w.runs(b, n, n.Runs, depth); err != nil {
		return err
	}
	wml.Close(b, "w:hyperlink")
	return nil
}

func (w *writer) hyperlinkTag(n *model.Node, link *model.HyperlinkData) []byte {
	history := ""
	if link.History {
		history = "1"
	}
	attrs := []string{
		"r:id", link.RelID,
		"w:anchor", link.Anchor,
		"w:tooltip", link.Tooltip,
		"w:history", history,
	}

	if model.Unchanged(&link.Markup, link) || !link.Markup.HasSource() {
		if link.Markup.HasSource() {
			return []byte("<w:hyperlink" + link.Markup.Attrs + ">")
		}
		var b bytes.Buffer
		wml.Open(&b, "w:hyperlink", attrs...)
		return b.Bytes()
	}

	tag := []byte("<w:hyperlink" + link.Markup.Attrs + ">")
	for i := 0; i < len(attrs); i += 2 {
		name, v := attrs[i], attrs[i+1]
		if v != "" {
			tag = wml.SetAttr(tag, name, v)
			continue
		}
		if bytes.Contains(tag, []byte(" "+name+"=")) {
			if name == "w:history" {
				tag = wml.SetAttr(tag, name, "0")
				continue
			}
			w.gap(n.ID(), "w:hyperlink", "cleared "+name+" forces a rebuilt start tag")
			var b bytes.Buffer
			wml.Open(&b, "w:hyperlink", attrs...)
			return b.Bytes()
		}
	}
	return tag
}

// table writes a Table node.
func (w *writer) table(b *bytes.Buffer, n *model.Node) error {
	if w.doc.Unchanged(n.ID()) {
		b.Write(n.Markup.Raw)
		return nil
	}
	w.regenerate(n, "w:tbl")
	t := n.Table()

	wml.OpenRaw(b, "w:tbl", n.Markup.Attrs)
	if formatting.Table(b, t.Format) {
		w.gap(n.ID(), "w:tblPr", "table properties regenerated")
	}
	if model.GridUnchanged(t) {
		b.Write(t.GridMarkup.Raw)
	} else {
		wml.OpenRaw(b, "w:tblGrid", t.GridMarkup.Attrs)
		for i := 0; i < t.ColumnCount; i++ {
			width := 0
			if i < len(t.Grid) {
				width = t.Grid[i]
			}
			wml.Empty(b, "w:gridCol", "w:w", strconv.Itoa(width))
		}
		wml.Close(b, "w:tblGrid")
	}

	chains := make([]controls, len(t.Rows))
	for i, row := range t.Rows {
		chains[i] = row.Controls
	}
	if err := w.group(b, chains, 0, func(b *bytes.Buffer, i int) error {
		return w.row(b, n, t, t.Rows[i], i)
	}); err != nil {
		return err
	}
	wml.Close(b, "w:tbl")
	return nil
}

func (w *writer) row(b *bytes.Buffer, n *model.Node, t *model.TableData, row *model.TableRow, index int) error {
	if width := row.Width(); width > t.ColumnCount {
		return structural(n.ID(), "row %d spans %d columns but the grid has %d", index, width, t.ColumnCount)
	}
	if w.doc.RowUnchanged(row) {
		b.Write(row.Markup.Raw)
		return nil
	}

	extras := append([]model.Fragment(nil), row.Markup.Extra...)
	sort.SliceStable(extras, func(i, j int) bool { return extras[i].Position < extras[j].Position })
	isPrEx := func(f model.Fragment) bool { return strings.HasSuffix(f.Name, "tblPrEx") }

	wml.OpenRaw(b, "w:tr", row.Markup.Attrs)
	for _, f := range extras {
		if isPrEx(f) {
			b.Write(f.Raw)
		}
	}
	if formatting.Row(b, row.Format) {
		w.gap(n.ID(), "w:trPr", fmt.Sprintf("row %d properties regenerated", index))
	}

	next := 0
	writeExtras := func(b *bytes.Buffer, upTo int) {
		for next < len(extras) && extras[next].Position <= upTo {
			if !isPrEx(extras[next]) {
				b.Write(extras[next].Raw)
			}
			next++
		}
	}

	chains := make([]controls, len(row.Cells))
	for i, c := range row.Cells {
		chains[i] = c.Controls
	}
	if err := w.group(b, chains, 0, func(b *bytes.Buffer, i int) error {
		writeExtras(b, i)
		return w.cell(b, row.Cells[i])
	}); err != nil {
		return err
	}
	writeExtras(b, len(row.Cells)+len(extras))
	wml.Close(b, "w:tr")
	return nil
}

func (w *writer) cell(b *bytes.Buffer, c *model.TableCell) error {
	if w.doc.CellUnchanged(c) {
		b.Write(c.Markup.Raw)
		return nil
	}
	cn := w.doc.Node(c.Node)
	if cn == nil {
		return structural(c.Node, "table cell has no content node")
	}

	wml.OpenRaw(b, "w:tc", c.Markup.Attrs)
	if formatting.Cell(b, c) {
		w.gap(cn.ID(), "w:tcPr", "cell properties regenerated")
	}
	units := w.flatten(cn.Children(), nil, nil)
	if err := w.blocks(b, units); err != nil {
		return err
	}
	if len(units) == 0 || units[len(units)-1].node.Type == model.TypeTable {
		wml.Empty(b, "w:p")
	}
	wml.Close(b, "w:tc")
	return nil
}

// declareNamespaces adds declarations for the prefixes regenerated markup
// uses to the root start tag in prologue.
func declareNamespaces(prologue, body []byte) []byte {
	start, end, ok := rootTag(prologue)
	if !ok {
		return prologue
	}
	tag := prologue[start:end]
	prefixes := make([]string, 0, len(wml.Prefixes))
	for p := range wml.Prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	changed := false
	for _, p := range prefixes {
		if !bytes.Contains(body, []byte("<"+p+":")) && !bytes.Contains(body, []byte(" "+p+":")) {
			continue
		}
		if declared := wml.Declare(tag, p, wml.Prefixes[p]); len(declared) != len(tag) {
			tag = declared
			changed = true
		}
	}
	if !changed {
		return prologue
	}
	out := make([]byte, 0, len(prologue)+len(tag))
	out = append(out, prologue[:start]...)
	out = append(out, tag...)
	return append(out, prologue[end:]...)
}

// rootTag finds the start tag of the document element, skipping the XML
// declaration, processing instructions, comments and doctype.
func rootTag(data []byte) (start, end int, ok bool) {
	i := 0
	for i < len(data) {
		lt := bytes.IndexByte(data[i:], '<')
		if lt < 0 {
			return 0, 0, false
		}
		i += lt
		rest := data[i:]
		switch {
		case bytes.HasPrefix(rest, []byte("<?")):
			j := bytes.Index(rest, []byte("?>"))
			if j < 0 {
				return 0, 0, false
			}
			i += j + 2
		case bytes.HasPrefix(rest, []byte("<!--")):
			j := bytes.Index(rest, []byte("-->"))
			if j < 0 {
				return 0, 0, false
			}
			i += j + 3
		case bytes.HasPrefix(rest, []byte("<!")):
			j := bytes.IndexByte(rest, '>')
			if j < 0 {
				return 0, 0, false
			}
			i += j + 1
		default:
			var quote byte
			for j := 1; j < len(rest); j++ {
				switch c := rest[j]; {
				case quote != 0:
					if c == quote {
						quote = 0
					}
				case c == '"' || c == '\'':
					quote = c
				case c == '>':
					return i, i + j + 1, true
				}
			}
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// IsFidelityGap reports whether err came from a strict write that would
// have lost detail.
func IsFidelityGap(err error) bool {
	return errors.Is(err, ErrFidelityGap)
}
