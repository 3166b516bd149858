package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SetContentControl wraps a node in a content control. Block nodes and table
// cells get the control as their innermost wrapper; inline nodes get it on
// each of their runs. A zero ID is replaced by one unique in the document.
func (d *Document) SetContentControl(id NodeID, cc *ContentControlProperties) error {
	n := d.Node(id)
	if n == nil {
		return ErrNoNode
	}
	if cc == nil {
		return fmt.Errorf("%w: nil content control", ErrControlValue)
	}
	if cc.ID == 0 {
		cc.ID = d.NextControlID()
	} else {
		d.ReserveControlID(cc.ID)
	}

	switch {
	case n.Type == TypeTableCell:
		cell := d.cellOf(n)
		if cell == nil {
			return fmt.Errorf("%w: cell %d is not in a table", ErrPlacement, id)
		}
		if !slices.Contains(cell.Controls, cc) {
			cell.Controls = append(cell.Controls, cc)
		}
	case n.IsInline():
		for _, r := range n.Runs {
			if !r.WrappedBy(cc) {
				r.Controls = append(r.Controls, cc)
			}
		}
	case n.Type == TypeDocument:
		return fmt.Errorf("%w: the root cannot be wrapped", ErrPlacement)
	default:
		controls := n.ContentControls()
		if !slices.Contains(controls, cc) {
			n.setMeta(MetaControls, append(slices.Clone(controls), cc))
		}
	}
	return nil
}

// ClearContentControl removes cc from the wrappers of a node. A nil cc
// removes every wrapper.
func (d *Document) ClearContentControl(id NodeID, cc *ContentControlProperties) error {
	n := d.Node(id)
	if n == nil {
		return ErrNoNode
	}
	drop := func(list []*ContentControlProperties) []*ContentControlProperties {
		if cc == nil {
			return nil
		}
		return slices.DeleteFunc(slices.Clone(list), func(c *ContentControlProperties) bool { return c == cc })
	}

	switch {
	case n.Type == TypeTableCell:
		if cell := d.cellOf(n); cell != nil {
			cell.Controls = drop(cell.Controls)
		}
	case n.IsInline():
		for _, r := range n.Runs {
			r.Controls = drop(r.Controls)
		}
	default:
		if rest := drop(n.ContentControls()); len(rest) > 0 {
			n.setMeta(MetaControls, rest)
		} else {
			delete(n.Metadata, MetaControls)
		}
	}
	return nil
}

// ControlTargets lists what a content control wraps, in document order.
type ControlTargets struct {
	Blocks []NodeID // block nodes carrying the control
	Inline []NodeID // inline nodes with at least one wrapped run
	Cells  []NodeID // TableCell nodes wrapped at cell level
	Rows   int      // table rows wrapped at row level
}

// Empty reports whether the control wraps nothing.
func (t ControlTargets) Empty() bool {
	return len(t.Blocks) == 0 && len(t.Inline) == 0 && len(t.Cells) == 0 && t.Rows == 0
}

// ControlTargets finds what cc wraps.
func (d *Document) ControlTargets(cc *ContentControlProperties) ControlTargets {
	var t ControlTargets
	d.Walk(d.root, func(n *Node) bool {
		switch {
		case n.IsInline():
			for _, r := range n.Runs {
				if r.WrappedBy(cc) {
					t.Inline = append(t.Inline, n.id)
					break
				}
			}
		case slices.Contains(n.ContentControls(), cc):
			t.Blocks = append(t.Blocks, n.id)
		case n.Type == TypeTable:
			if tbl := n.Table(); tbl != nil {
				for _, row := range tbl.Rows {
					if slices.Contains(row.Controls, cc) {
						t.Rows++
					}
					for _, c := range row.Cells {
						if slices.Contains(c.Controls, cc) {
							t.Cells = append(t.Cells, c.Node)
						}
					}
				}
			}
		}
		return true
	})
	return t
}

// Controls returns every distinct content control in the document, in the
// order they are first met.
func (d *Document) Controls() []*ContentControlProperties {
	var out []*ContentControlProperties
	add := func(list []*ContentControlProperties) {
		for _, c := range list {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	d.Walk(d.root, func(n *Node) bool {
		add(n.ContentControls())
		for _, r := range n.Runs {
			add(r.Controls)
		}
		if tbl := n.Table(); tbl != nil {
			for _, row := range tbl.Rows {
				add(row.Controls)
				for _, c := range row.Cells {
					add(c.Controls)
				}
			}
		}
		return true
	})
	return out
}

// FindControl returns the first content control with the given tag or alias.
func (d *Document) FindControl(name string) *ContentControlProperties {
	for _, c := range d.Controls() {
		if c.Tag == name || c.Alias == name {
			return c
		}
	}
	return nil
}

// ControlText returns the current text of what cc wraps, one line per
// wrapped block or cell.
func (d *Document) ControlText(cc *ContentControlProperties) string {
	t := d.ControlTargets(cc)
	var lines []string
	for _, id := range t.Blocks {
		if d.nodes[id].Type != TypeImage {
			lines = append(lines, d.OwnText(id))
		}
	}
	for _, id := range t.Cells {
		lines = append(lines, d.Text(id))
	}
	if len(t.Inline) > 0 {
		var sb strings.Builder
		for _, id := range t.Inline {
			for _, r := range d.nodes[id].Runs {
				if r.WrappedBy(cc) {
					sb.WriteString(r.Text)
				}
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// SetContentControlValue sets the value of a content control and replaces the
// content it wraps with the value's display text: the item label for lists,
// the glyph for checkboxes, the formatted date for date pickers.
func (d *Document) SetContentControlValue(cc *ContentControlProperties, value string) error {
	targets := d.ControlTargets(cc)
	if targets.Empty() {
		return ErrNoControl
	}

	display, err := applyControlValue(cc, value)
	if err != nil {
		return err
	}
	cc.ShowingPlaceholder = false

	switch {
	case len(targets.Inline) > 0:
		return d.replaceInline(cc, targets.Inline, display)
	case len(targets.Blocks) > 0:
		return d.replaceBlocks(targets.Blocks, display)
	case len(targets.Cells) > 0:
		for _, c := range d.nodes[targets.Cells[0]].children {
			if cn := d.nodes[c]; cn.IsParagraph() && cn.Type != TypeImage && cn.Opaque() == "" {
				d.setParagraphText(cn, display, true)
				clearPlaceholderStyle(d.Runs(c))
				return nil
			}
		}
	}
	return fmt.Errorf("%w: control %d wraps no editable text", ErrControlValue, cc.ID)
}

func applyControlValue(cc *ContentControlProperties, value string) (string, error) {
	switch cc.Kind {
	case ControlDropDown:
		choice, ok := cc.Choice(value)
		if !ok {
			return "", fmt.Errorf("%w: %q is not a choice of control %d", ErrControlValue, value, cc.ID)
		}
		cc.Value = choice.Value
		return choice.Label(), nil
	case ControlComboBox:
		if choice, ok := cc.Choice(value); ok {
			cc.Value = choice.Value
			return choice.Label(), nil
		}
		cc.Value = value
		return value, nil
	case ControlCheckbox:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w: checkbox value %q", ErrControlValue, value)
		}
		cc.Checked = b
		cc.Value = strconv.FormatBool(b)
		return cc.Glyph(), nil
	case ControlDate:
		t, err := parseDate(value)
		if err != nil {
			return "", fmt.Errorf("%w: date %q", ErrControlValue, value)
		}
		cc.FullDate = t.Format("2006-01-02T15:04:05Z")
		cc.Value = FormatDate(t, cc.DateFormat)
		return cc.Value, nil
	case ControlRichText, ControlPlainText, ControlDocumentProperty:
		cc.Value = value
		return value, nil
	}
	return "", fmt.Errorf("%w: %s controls hold no text value", ErrControlValue, cc.Kind)
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// replaceInline puts text in the first run wrapped by cc and drops the other
// wrapped runs.
func (d *Document) replaceInline(cc *ContentControlProperties, ids []NodeID, text string) error {
	first := true
	for _, id := range ids {
		n := d.nodes[id]
		if n.Type == TypeImage {
			return fmt.Errorf("%w: control %d wraps a picture", ErrControlValue, cc.ID)
		}
		kept := n.Runs[:0:0]
		for _, r := range n.Runs {
			if !r.WrappedBy(cc) {
				kept = append(kept, r)
				continue
			}
			if first {
				setRunText(r, text)
				clearPlaceholderStyle([]*FormattedRun{r})
				kept = append(kept, r)
				first = false
			}
		}
		n.Runs = kept
		if len(n.Runs) == 0 {
			p := d.nodes[n.parent]
			d.detach(p, n)
			d.release(n)
		}
	}
	return nil
}

// replaceBlocks puts text in the first paragraph wrapped by the control and
// removes the other plain paragraphs it wraps.
func (d *Document) replaceBlocks(ids []NodeID, text string) error {
	done := false
	for _, id := range ids {
		n := d.nodes[id]
		if n == nil || !n.IsParagraph() || n.Opaque() != "" {
			continue
		}
		if !done {
			if n.Type == TypeImage {
				continue
			}
			d.setParagraphText(n, text, true)
			clearPlaceholderStyle(d.Runs(id))
			done = true
			continue
		}
		if n.Type == TypeHeading {
			continue
		}
		p := d.nodes[n.parent]
		d.detach(p, n)
		d.release(n)
		if p.Type == TypeList && len(p.children) == 0 {
			if gp := d.Node(p.parent); gp != nil {
				d.detach(gp, p)
				d.release(p)
			}
		}
	}
	if !done {
		return fmt.Errorf("%w: control wraps no paragraph", ErrControlValue)
	}
	return nil
}

// clearPlaceholderStyle removes the placeholder character style applied to
// the prompt text of empty controls.
func clearPlaceholderStyle(runs []*FormattedRun) {
	for _, r := range runs {
		if r.Format != nil && r.Format.Style == "PlaceholderText" {
			f := r.Format.Clone()
			f.Style = ""
			r.Format = f
		}
	}
}

var dateTokens = []struct {
	word   string
	layout string
}{
	{"yyyy", "2006"}, {"yy", "06"},
	{"MMMM", "January"}, {"MMM", "Jan"}, {"MM", "01"}, {"M", "1"},
	{"dddd", "Monday"}, {"ddd", "Mon"}, {"dd", "02"}, {"d", "2"},
	{"HH", "15"}, {"hh", "03"}, {"h", "3"},
	{"mm", "04"}, {"ss", "05"},
	{"am/pm", "pm"}, {"AM/PM", "PM"}, {"tt", "PM"},
}

// FormatDate formats t with a date picker pattern such as "M/d/yyyy" or
// "dddd, MMMM d, yyyy". An empty pattern uses "M/d/yyyy".
func FormatDate(t time.Time, pattern string) string {
	if pattern == "" {
		pattern = "M/d/yyyy"
	}
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			j := strings.IndexByte(pattern[i+1:], '\'')
			if j < 0 {
				sb.WriteString(pattern[i+1:])
				break
			}
			sb.WriteString(pattern[i+1 : i+1+j])
			i += j + 2
			continue
		}
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(pattern[i:], tok.word) {
				sb.WriteString(t.Format(tok.layout))
				i += len(tok.word)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(pattern[i])
			i++
		}
	}
	return sb.String()
}
