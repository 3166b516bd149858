package opc

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// ContentTypesPart is the name of the content types part.
const ContentTypesPart = "[Content_Types].xml"

// Content types of the parts this module creates or looks for.
const (
	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeExtendedProps = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ContentTypeCustomProps   = "application/vnd.openxmlformats-officedocument.custom-properties+xml"
)

// ContentTypes is the parsed [Content_Types].xml part. Edits are spliced
// into the original bytes so existing entries keep their exact form.
type ContentTypes struct {
	raw       []byte
	defaults  map[string]string // lower-case extension -> content type
	overrides map[string]string // part name without leading slash -> content type
}

type contentTypesXML struct {
	XMLName   xml.Name      `xml:"Types"`
	Defaults  []defaultXML  `xml:"Default"`
	Overrides []overrideXML `xml:"Override"`
}

type defaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ParseContentTypes decodes a content types part.
func ParseContentTypes(data []byte) (*ContentTypes, error) {
	var t contentTypesXML
	if err := xml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshaling content types: %w", err)
	}

	ct := &ContentTypes{
		raw:       data,
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}
	for _, d := range t.Defaults {
		ct.defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, o := range t.Overrides {
		ct.overrides[strings.TrimPrefix(o.PartName, "/")] = o.ContentType
	}
	return ct, nil
}

// TypeOf returns the content type of a part: its override, or the default
// registered for its extension.
func (ct *ContentTypes) TypeOf(partName string) string {
	partName = strings.TrimPrefix(partName, "/")
	if t, ok := ct.overrides[partName]; ok {
		return t
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	return ct.defaults[strings.ToLower(ext)]
}

// HasDefault reports whether a default is registered for ext.
func (ct *ContentTypes) HasDefault(ext string) bool {
	_, ok := ct.defaults[strings.ToLower(ext)]
	return ok
}

// AddDefault registers a default content type for an extension. It reports
// whether the part changed.
func (ct *ContentTypes) AddDefault(ext, contentType string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if _, ok := ct.defaults[ext]; ok {
		return false
	}
	ct.defaults[ext] = contentType
	el := `<Default Extension="` + escape(ext) + `" ContentType="` + escape(contentType) + `"/>`
	ct.raw = spliceBeforeEnd(ct.raw, "</Types>", el)
	return true
}

// AddOverride registers a content type for a single part unless one is
// already registered. It reports whether the part changed.
func (ct *ContentTypes) AddOverride(partName, contentType string) bool {
	partName = strings.TrimPrefix(partName, "/")
	if _, ok := ct.overrides[partName]; ok {
		return false
	}
	ct.overrides[partName] = contentType
	el := `<Override PartName="/` + escape(partName) + `" ContentType="` + escape(contentType) + `"/>`
	ct.raw = spliceBeforeEnd(ct.raw, "</Types>", el)
	return true
}

// Bytes returns the current part bytes.
func (ct *ContentTypes) Bytes() []byte {
	return ct.raw
}
