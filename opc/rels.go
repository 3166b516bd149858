package opc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Relationship type suffixes. Transitional and strict documents use different
// URI prefixes, so types are matched on the final path segments.
const (
	RelOfficeDocument = "officeDocument"
	RelStyles         = "styles"
	RelStylesFX       = "stylesWithEffects"
	RelNumbering      = "numbering"
	RelTheme          = "theme"
	RelSettings       = "settings"
	RelWebSettings    = "webSettings"
	RelFontTable      = "fontTable"
	RelFootnotes      = "footnotes"
	RelEndnotes       = "endnotes"
	RelComments       = "comments"
	RelHeader         = "header"
	RelFooter         = "footer"
	RelImage          = "image"
	RelHyperlink      = "hyperlink"
	RelCustomXML      = "customXml"
	RelGlossary       = "glossaryDocument"
	RelCoreProps      = "metadata/core-properties"
	RelExtendedProps  = "extended-properties"
	RelCustomProps    = "custom-properties"
)

// Full relationship type URIs used when new relationships are created.
const (
	TypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	TypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	TypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	TypeExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	TypeCustomProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
	TypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
)

// Declaration is the XML declaration written at the top of generated parts.
const Declaration = "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"yes\"?>\r\n"

const relsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// External reports whether the target is outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// Is reports whether the relationship has the given type suffix.
func (r Relationship) Is(kind string) bool {
	return strings.HasSuffix(r.Type, "/"+kind)
}

type relationshipsXML struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// ParseRelationships decodes a relationships part.
func ParseRelationships(data []byte) ([]Relationship, error) {
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("unmarshaling relationships: %w", err)
	}
	return rels.Relationships, nil
}

// MarshalRelationships encodes a relationships part.
func MarshalRelationships(rels []Relationship) []byte {
	var b bytes.Buffer
	b.WriteString(Declaration)
	b.WriteString(`<Relationships xmlns="` + relsNamespace + `">`)
	for _, r := range rels {
		b.WriteString(relationshipElement(r))
	}
	b.WriteString("</Relationships>")
	return b.Bytes()
}

func relationshipElement(r Relationship) string {
	var b strings.Builder
	b.WriteString(`<Relationship Id="`)
	b.WriteString(escape(r.ID))
	b.WriteString(`" Type="`)
	b.WriteString(escape(r.Type))
	b.WriteString(`" Target="`)
	b.WriteString(escape(r.Target))
	b.WriteString(`"`)
	if r.TargetMode != "" {
		b.WriteString(` TargetMode="`)
		b.WriteString(escape(r.TargetMode))
		b.WriteString(`"`)
	}
	b.WriteString("/>")
	return b.String()
}

// AppendRelationship adds r to an existing relationships part, leaving the
// bytes of the other entries untouched. A nil part yields a new one.
func AppendRelationship(data []byte, r Relationship) []byte {
	if len(data) == 0 {
		return MarshalRelationships([]Relationship{r})
	}
	if !bytes.Contains(data, []byte("</Relationships>")) {
		rels, err := ParseRelationships(data)
		if err != nil {
			rels = nil
		}
		return MarshalRelationships(append(rels, r))
	}
	return spliceBeforeEnd(data, "</Relationships>", relationshipElement(r))
}

// RelsPartName returns the name of the relationships part of partName.
// The empty name denotes the package itself.
func RelsPartName(partName string) string {
	partName = strings.TrimPrefix(partName, "/")
	if partName == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// ResolveTarget resolves an internal relationship target against the part
// that owns the relationship.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	dir := path.Dir(strings.TrimPrefix(source, "/"))
	if source == "" {
		dir = "."
	}
	return strings.TrimPrefix(path.Clean(path.Join(dir, target)), "/")
}

// RelativeTarget returns the target of partName as seen from source.
func RelativeTarget(source, partName string) string {
	dir := path.Dir(strings.TrimPrefix(source, "/"))
	partName = strings.TrimPrefix(partName, "/")
	if dir == "." {
		return partName
	}
	if rest, ok := strings.CutPrefix(partName, dir+"/"); ok {
		return rest
	}
	return "/" + partName
}

// NextID returns an identifier of the form rIdN not used by rels.
func NextID(rels []Relationship) string {
	highest := 0
	for _, r := range rels {
		if n, ok := strings.CutPrefix(r.ID, "rId"); ok {
			if v, err := strconv.Atoi(n); err == nil && v > highest {
				highest = v
			}
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}

// Find returns the first relationship with the given type suffix.
func Find(rels []Relationship, kind string) (Relationship, bool) {
	for _, r := range rels {
		if r.Is(kind) {
			return r, true
		}
	}
	return Relationship{}, false
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// spliceBeforeEnd inserts text before the last occurrence of endTag.
func spliceBeforeEnd(data []byte, endTag, text string) []byte {
	i := bytes.LastIndex(data, []byte(endTag))
	if i < 0 {
		return data
	}
	out := make([]byte, 0, len(data)+len(text))
	out = append(out, data[:i]...)
	out = append(out, text...)
	return append(out, data[i:]...)
}
