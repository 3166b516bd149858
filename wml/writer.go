package wml

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Open writes a start tag. attrs are name/value pairs; pairs with an empty
// value are skipped.
func Open(b *bytes.Buffer, name string, attrs ...string) {
	startTag(b, name, attrs)
	b.WriteByte('>')
}

// Empty writes a self-closing element.
func Empty(b *bytes.Buffer, name string, attrs ...string) {
	startTag(b, name, attrs)
	b.WriteString("/>")
}

// Close writes an end tag.
func Close(b *bytes.Buffer, name string) {
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}

// Text writes escaped character data.
func Text(b *bytes.Buffer, s string) {
	_ = xml.EscapeText(b, []byte(s))
}

// OpenRaw writes a start tag whose attribute text is copied verbatim, as
// returned by [Element.AttrText].
func OpenRaw(b *bytes.Buffer, name, attrText string) {
	b.WriteByte('<')
	b.WriteString(name)
	b.WriteString(attrText)
	b.WriteByte('>')
}

// Escape returns s escaped for use in character data or attribute values.
func Escape(s string) string {
	var b bytes.Buffer
	Text(&b, s)
	return b.String()
}

func startTag(b *bytes.Buffer, name string, attrs []string) {
	b.WriteByte('<')
	b.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attrs[i])
		b.WriteString(`="`)
		Text(b, attrs[i+1])
		b.WriteByte('"')
	}
}

// SetAttr returns a copy of the start tag with the attribute qname set to
// value. The attribute is appended when absent.
func SetAttr(tag []byte, qname, value string) []byte {
	s := string(tag)
	escaped := Escape(value)

	for _, quote := range []string{`"`, `'`} {
		for _, sep := range []string{" ", "\n", "\t", "\r"} {
			needle := sep + qname + "=" + quote
			i := strings.Index(s, needle)
			if i < 0 {
				continue
			}
			start := i + len(needle)
			end := strings.Index(s[start:], quote)
			if end < 0 {
				return tag
			}
			return []byte(s[:start] + escaped + s[start+end:])
		}
	}

	insert := len(s) - 1
	if strings.HasSuffix(s, "/>") {
		insert = len(s) - 2
	}
	return []byte(s[:insert] + " " + qname + `="` + escaped + `"` + s[insert:])
}

// DeclaredPrefix returns the prefix bound to ns by an xmlns declaration in
// the start tag. The default namespace is reported as "".
func DeclaredPrefix(tag []byte, ns string) (string, bool) {
	d := xml.NewDecoder(bytes.NewReader(closeTag(tag)))
	tok, err := d.RawToken()
	if err != nil {
		return "", false
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return "", false
	}
	for _, a := range start.Attr {
		if a.Value != ns {
			continue
		}
		if a.Name.Space == "xmlns" {
			return a.Name.Local, true
		}
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			return "", true
		}
	}
	return "", false
}

// Declare returns the start tag with xmlns:prefix="ns" added unless the
// prefix is already declared on it.
func Declare(tag []byte, prefix, ns string) []byte {
	if bytes.Contains(tag, []byte(" xmlns:"+prefix+"=")) || bytes.Contains(tag, []byte("\nxmlns:"+prefix+"=")) {
		return tag
	}
	return SetAttr(tag, "xmlns:"+prefix, ns)
}

// closeTag turns a start tag into a self-closing element so it parses alone.
func closeTag(tag []byte) []byte {
	if bytes.HasSuffix(tag, []byte("/>")) {
		return tag
	}
	out := make([]byte, 0, len(tag)+1)
	out = append(out, tag[:len(tag)-1]...)
	return append(out, '/', '>')
}
