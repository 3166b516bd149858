package formatting

import (
	"bytes"
	"slices"
	"sort"
	"strconv"

	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

// prop maps one child element of a property block to the typed record.
type prop[T any] struct {
	ns    string
	name  string
	apply func(el *wml.Element, f *T)
	emit  func(b *bytes.Buffer, f *T)
}

// block describes a property block such as w:pPr: the children it models
// and the schema order of every child it may hold.
type block[T any] struct {
	order []string // local names in the w namespace
	props []prop[T]
}

func (bl *block[T]) lookup(el *wml.Element) *prop[T] {
	for i := range bl.props {
		p := &bl.props[i]
		ns := p.ns
		if ns == "" {
			ns = wml.NsW
		}
		if el.Is(ns, p.name) {
			return p
		}
	}
	return nil
}

// extract fills f from el and records el in m. Children without a prop are
// kept as fragments.
func (bl *block[T]) extract(el *wml.Element, f *T, m *model.Markup) {
	m.Raw = el.Raw
	m.Attrs = el.AttrText()
	for i, c := range el.Children {
		if p := bl.lookup(c); p != nil {
			p.apply(c, f)
			continue
		}
		m.AddExtra(c.QName(), i, c.Raw)
	}
}

// key returns the schema position of a child; unknown names sort after
// everything of the w namespace, unknown w names stay after prev.
func (bl *block[T]) key(el *wml.Element, prev int) int {
	if el.Name.Space != wml.NsW {
		return len(bl.order)
	}
	if i := slices.Index(bl.order, el.Name.Local); i >= 0 {
		return i
	}
	return prev
}

func (bl *block[T]) keyOf(p *prop[T]) int {
	if p.ns != "" && p.ns != wml.NsW {
		return len(bl.order)
	}
	if i := slices.Index(bl.order, p.name); i >= 0 {
		return i
	}
	return len(bl.order)
}

type item struct {
	key  int
	data []byte
}

// write emits the block for f. Untouched blocks are copied from m. Otherwise
// every original child whose typed content is unchanged is copied, changed
// ones are regenerated, unmodeled ones are kept, and new ones are inserted at
// their schema position. It reports whether regeneration dropped original
// detail.
func (bl *block[T]) write(b *bytes.Buffer, qname string, m *model.Markup, f *T) (lossy bool) {
	if model.Unchanged(m, f) {
		b.Write(m.Raw)
		return false
	}

	var (
		items []item
		done  = make(map[*prop[T]]bool)
		attrs string
	)
	if m.HasSource() {
		root, err := wml.Parse(m.Raw)
		if err == nil {
			attrs = root.AttrText()
			prev := 0
			for _, c := range root.Children {
				k := bl.key(c, prev)
				prev = k
				p := bl.lookup(c)
				if p == nil {
					items = append(items, item{k, c.Raw})
					continue
				}
				done[p] = true

				var cur bytes.Buffer
				p.emit(&cur, f)
				if cur.Len() == 0 {
					continue
				}
				var orig T
				p.apply(c, &orig)
				var old bytes.Buffer
				p.emit(&old, &orig)
				if bytes.Equal(old.Bytes(), cur.Bytes()) {
					items = append(items, item{k, c.Raw})
					continue
				}
				if !bytes.Equal(old.Bytes(), c.Raw) {
					lossy = true
				}
				items = append(items, item{k, cur.Bytes()})
			}
		}
	} else {
		attrs = m.Attrs
	}

	for i := range bl.props {
		p := &bl.props[i]
		if done[p] {
			continue
		}
		var cur bytes.Buffer
		p.emit(&cur, f)
		if cur.Len() > 0 {
			items = append(items, item{bl.keyOf(p), cur.Bytes()})
		}
	}
	if len(items) == 0 && attrs == "" {
		return lossy
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })
	wml.OpenRaw(b, qname, attrs)
	for _, it := range items {
		b.Write(it.data)
	}
	wml.Close(b, qname)
	return lossy
}

func toggle(el *wml.Element) model.Toggle {
	v, ok := el.AttrNS(wml.NsW, "val")
	if !ok {
		return model.On
	}
	switch v {
	case "0", "false", "off":
		return model.Off
	}
	return model.On
}

func emitToggle(b *bytes.Buffer, name string, t model.Toggle) {
	switch t {
	case model.On:
		wml.Empty(b, name)
	case model.Off:
		wml.Empty(b, name, "w:val", "0")
	}
}

func intAttr(el *wml.Element, local string) (int, bool) {
	v, ok := el.AttrNS(wml.NsW, local)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func intPtr(el *wml.Element, local string) *int {
	if n, ok := intAttr(el, local); ok {
		return &n
	}
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func ptoa(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func wAttr(el *wml.Element, local string) string {
	v, _ := el.AttrNS(wml.NsW, local)
	return v
}
