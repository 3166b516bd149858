package wml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is an attribute with its namespace resolved.
type Attr struct {
	Name   xml.Name // Space is the resolved namespace URI
	Prefix string
	Value  string
}

// Element is one XML element of a parsed part.
type Element struct {
	Name     xml.Name // Space is the resolved namespace URI
	Prefix   string
	Attr     []Attr
	Children []*Element

	// Text holds the character data found directly inside the element.
	Text string

	// Raw is the verbatim element, start tag through end tag.
	Raw []byte
	// StartTag is the verbatim start tag (the whole element when self-closing).
	StartTag []byte

	// Byte offsets into the source part.
	Offset     int64 // start of the start tag
	InnerStart int64 // first byte after the start tag
	InnerEnd   int64 // first byte of the end tag
	End        int64 // first byte after the end tag
}

// Parse reads data into an element tree and returns the document element.
// Namespace prefixes are resolved but also kept, so raw fragments can be
// compared against regenerated ones.
func Parse(data []byte) (*Element, error) {
	d := xml.NewDecoder(bytes.NewReader(data))

	var (
		root   *Element
		stack  []*Element
		scopes []map[string]string
	)

	resolve := func(prefix string) string {
		for i := len(scopes) - 1; i >= 0; i-- {
			if uri, ok := scopes[i][prefix]; ok {
				return uri
			}
		}
		if prefix == "xml" {
			return NsXML
		}
		// Fragments cut from a part lose the declarations of their ancestors.
		return wellKnown[prefix]
	}

	for {
		offset := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml at offset %d: %w", offset, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			scope := make(map[string]string)
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					scope[""] = a.Value
				case a.Name.Space == "xmlns":
					scope[a.Name.Local] = a.Value
				}
			}
			scopes = append(scopes, scope)

			end := d.InputOffset()
			el := &Element{
				Name:       xml.Name{Space: resolve(t.Name.Space), Local: t.Name.Local},
				Prefix:     t.Name.Space,
				StartTag:   data[offset:end],
				Offset:     offset,
				InnerStart: end,
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				space := ""
				if a.Name.Space != "" {
					space = resolve(a.Name.Space)
				}
				el.Attr = append(el.Attr, Attr{
					Name:   xml.Name{Space: space, Local: a.Name.Local},
					Prefix: a.Name.Space,
					Value:  a.Value,
				})
			}

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parsing xml at offset %d: unexpected end element %s", offset, t.Name.Local)
			}
			el := stack[len(stack)-1]
			if t.Name.Local != el.Name.Local || t.Name.Space != el.Prefix {
				return nil, fmt.Errorf("parsing xml at offset %d: element <%s> closed by </%s>", offset, el.Name.Local, t.Name.Local)
			}
			el.InnerEnd = offset
			if offset < el.InnerStart {
				el.InnerEnd = el.InnerStart
			}
			el.End = d.InputOffset()
			el.Raw = data[el.Offset:el.End]

			stack = stack[:len(stack)-1]
			scopes = scopes[:len(scopes)-1]
			if len(stack) == 0 && root == nil {
				root = el
			}

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("parsing xml: unclosed element <%s>", stack[len(stack)-1].Name.Local)
	}
	if root == nil {
		return nil, fmt.Errorf("parsing xml: no document element")
	}
	return root, nil
}

// Is reports whether the element has the given namespace and local name.
func (e *Element) Is(space, local string) bool {
	return e != nil && e.Name.Space == space && e.Name.Local == local
}

// Child returns the first child with the given name, or nil.
func (e *Element) Child(space, local string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Is(space, local) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child with the given name.
func (e *Element) ChildrenNamed(space, local string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Is(space, local) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant with the given name, depth first.
func (e *Element) Find(space, local string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Is(space, local) {
			return c
		}
		if f := c.Find(space, local); f != nil {
			return f
		}
	}
	return nil
}

// AttrNS returns the value of the attribute with the given namespace and
// local name.
func (e *Element) AttrNS(space, local string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the first attribute with the given local
// name in any namespace, or "" when absent.
func (e *Element) AttrValue(local string) string {
	if e == nil {
		return ""
	}
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether an attribute with the given local name is present.
func (e *Element) HasAttr(local string) bool {
	if e == nil {
		return false
	}
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return true
		}
	}
	return false
}

// Val returns the w:val attribute, the most common carrier of property values.
func (e *Element) Val() string {
	v, _ := e.AttrNS(NsW, "val")
	return v
}

// AttrText returns the verbatim attribute text of the start tag, including
// the leading space, e.g. ` w:rsidR="00AB12CD"`. Namespace declarations are
// included so the text can be reused on a regenerated start tag.
func (e *Element) AttrText() string {
	if e == nil || len(e.StartTag) == 0 {
		return ""
	}
	tag := string(e.StartTag)
	tag = strings.TrimPrefix(tag, "<")
	tag = strings.TrimSuffix(tag, ">")
	tag = strings.TrimSuffix(tag, "/")
	i := strings.IndexAny(tag, " \t\r\n")
	if i < 0 {
		return ""
	}
	return strings.TrimRight(tag[i:], " \t\r\n")
}

// QName returns the element name as written in the source, prefix included.
func (e *Element) QName() string {
	if e.Prefix == "" {
		return e.Name.Local
	}
	return e.Prefix + ":" + e.Name.Local
}

// Walk calls fn for e and every descendant in document order. Returning false
// from fn skips the element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}
