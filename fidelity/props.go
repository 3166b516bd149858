package fidelity

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tsawler/doctree/opc"
	"github.com/tsawler/doctree/wml"
)

// ErrUnknownProperty is returned for property names that have no slot.
var ErrUnknownProperty = errors.New("unknown document property")

// Default part names for property parts created on demand.
const (
	CorePropsPart     = "docProps/core.xml"
	ExtendedPropsPart = "docProps/app.xml"
	CustomPropsPart   = "docProps/custom.xml"
)

// customFormatID is the property set id Word uses for user-defined
// properties.
const customFormatID = "{D5CDD505-2E9C-101B-9397-08002B2CF9AE}"

type propertyName struct {
	ns     string
	prefix string
}

var coreProperties = map[string]propertyName{
	"title":          {wml.NsDC, "dc"},
	"subject":        {wml.NsDC, "dc"},
	"creator":        {wml.NsDC, "dc"},
	"description":    {wml.NsDC, "dc"},
	"identifier":     {wml.NsDC, "dc"},
	"language":       {wml.NsDC, "dc"},
	"keywords":       {wml.NsCoreProps, "cp"},
	"lastModifiedBy": {wml.NsCoreProps, "cp"},
	"revision":       {wml.NsCoreProps, "cp"},
	"category":       {wml.NsCoreProps, "cp"},
	"contentStatus":  {wml.NsCoreProps, "cp"},
	"version":        {wml.NsCoreProps, "cp"},
	"lastPrinted":    {wml.NsCoreProps, "cp"},
	"created":        {wml.NsDCTerms, "dcterms"},
	"modified":       {wml.NsDCTerms, "dcterms"},
}

var extendedProperties = []string{
	"Template", "Manager", "Company", "Application", "AppVersion",
	"DocSecurity", "HyperlinkBase", "TotalTime", "Pages", "Words",
	"Characters", "CharactersWithSpaces", "Lines", "Paragraphs",
	"ScaleCrop", "LinksUpToDate", "SharedDoc", "HyperlinksChanged",
}

const (
	coreTemplate = opc.Declaration + `<cp:coreProperties xmlns:cp="` + wml.NsCoreProps + `" xmlns:dc="` + wml.NsDC +
		`" xmlns:dcterms="` + wml.NsDCTerms + `" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="` + wml.NsXSI +
		`"></cp:coreProperties>`
	extendedTemplate = opc.Declaration + `<Properties xmlns="` + wml.NsExtended + `" xmlns:vt="` + wml.NsVT + `"></Properties>`
	customTemplate   = opc.Declaration + `<Properties xmlns="` + wml.NsCustom + `" xmlns:vt="` + wml.NsVT + `"></Properties>`
)

// CorePropertyNames returns the names SetCoreProperty accepts, sorted.
func CorePropertyNames() []string {
	names := make([]string, 0, len(coreProperties))
	for name := range coreProperties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ExtendedPropertyNames returns the names SetExtendedProperty accepts.
func ExtendedPropertyNames() []string { return slices.Clone(extendedProperties) }

// CoreProperty returns a core document property such as "title" or
// "creator".
func (s *Store) CoreProperty(name string) (string, bool) {
	p, ok := coreProperties[name]
	if !ok {
		return "", false
	}
	return s.propertyText(SlotCoreProps, p.ns, name)
}

// SetCoreProperty sets a core document property. Only the property's element
// changes; the rest of the part keeps its bytes. The part, its relationship
// and its content type are created when the package has none.
func (s *Store) SetCoreProperty(name, value string) error {
	p, ok := coreProperties[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	part := s.propertyPart(SlotCoreProps, CorePropsPart, coreTemplate, opc.TypeCoreProps, opc.ContentTypeCoreProps)
	data, _ := s.pkg.Data(part)

	data, prefix, err := ensureDeclared(data, p.ns, p.prefix)
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	attrs := ""
	if p.ns == wml.NsDCTerms {
		var xsi string
		if data, xsi, err = ensureDeclared(data, wml.NsXSI, "xsi"); err != nil {
			return fmt.Errorf("%s: %w", part, err)
		}
		attrs = fmt.Sprintf(` %s:type="%s:W3CDTF"`, xsi, prefix)
	}

	out, err := setChildText(data, p.ns, name, prefix, attrs, value)
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	s.pkg.Set(part, out)
	return nil
}

// ExtendedProperty returns an application property such as "Company".
func (s *Store) ExtendedProperty(name string) (string, bool) {
	return s.propertyText(SlotExtendedProps, wml.NsExtended, name)
}

// SetExtendedProperty sets a single-valued application property.
func (s *Store) SetExtendedProperty(name, value string) error {
	if !slices.Contains(extendedProperties, name) {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	part := s.propertyPart(SlotExtendedProps, ExtendedPropsPart, extendedTemplate, opc.TypeExtendedProps, opc.ContentTypeExtendedProps)
	data, _ := s.pkg.Data(part)

	data, prefix, err := ensureDeclared(data, wml.NsExtended, "ep")
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	out, err := setChildText(data, wml.NsExtended, name, prefix, "", value)
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	s.pkg.Set(part, out)
	return nil
}

// CustomProperties returns the user-defined properties by name.
func (s *Store) CustomProperties() map[string]string {
	out := make(map[string]string)
	data, ok := s.Slot(SlotCustomProps)
	if !ok {
		return out
	}
	root, err := wml.Parse(data)
	if err != nil {
		return out
	}
	for _, p := range root.ChildrenNamed(wml.NsCustom, "property") {
		if len(p.Children) > 0 {
			out[p.AttrValue("name")] = p.Children[0].Text
		}
	}
	return out
}

// SetCustomProperty sets a user-defined property. An existing property keeps
// its value type; a new one is stored as a string.
func (s *Store) SetCustomProperty(name, value string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownProperty)
	}
	part := s.propertyPart(SlotCustomProps, CustomPropsPart, customTemplate, opc.TypeCustomProps, opc.ContentTypeCustomProps)
	data, _ := s.pkg.Data(part)

	root, err := wml.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	highest := 1
	for _, p := range root.ChildrenNamed(wml.NsCustom, "property") {
		if pid, err := strconv.Atoi(p.AttrValue("pid")); err == nil && pid > highest {
			highest = pid
		}
		if p.AttrValue("name") != name || len(p.Children) == 0 {
			continue
		}
		s.pkg.Set(part, replaceText(data, p.Children[0], wml.Escape(value)))
		return nil
	}

	data, own, err := ensureDeclared(data, wml.NsCustom, "op")
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	data, vt, err := ensureDeclared(data, wml.NsVT, "vt")
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	prop := qualify(own, "property")
	str := qualify(vt, "lpwstr")
	el := fmt.Sprintf(`<%s fmtid="%s" pid="%d" name="%s"><%s>%s</%s></%s>`,
		prop, customFormatID, highest+1, wml.Escape(name), str, wml.Escape(value), str, prop)

	root, err = wml.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	s.pkg.Set(part, appendChild(data, root, el))
	return nil
}

// propertyPart returns the part of a property slot, creating it from
// template when the package has none.
func (s *Store) propertyPart(slot Slot, name, template, relType, contentType string) string {
	if part, ok := s.slots[slot]; ok && s.pkg.Has(part) {
		return part
	}
	s.pkg.Set(name, []byte(template))
	s.addPackageRelationship(relType, name)
	s.addOverride(name, contentType)
	s.slots[slot] = name
	return name
}

func (s *Store) propertyText(slot Slot, ns, local string) (string, bool) {
	data, ok := s.Slot(slot)
	if !ok {
		return "", false
	}
	root, err := wml.Parse(data)
	if err != nil {
		return "", false
	}
	el := root.Child(ns, local)
	if el == nil {
		return "", false
	}
	return el.Text, true
}

// ensureDeclared returns the prefix the root element binds to ns, adding a
// declaration with the hint prefix when there is none.
func ensureDeclared(data []byte, ns, hint string) ([]byte, string, error) {
	root, err := wml.Parse(data)
	if err != nil {
		return nil, "", err
	}
	if prefix, ok := wml.DeclaredPrefix(root.StartTag, ns); ok {
		return data, prefix, nil
	}
	tag := wml.Declare(root.StartTag, hint, ns)
	return splice(data, root.Offset, root.InnerStart, tag), hint, nil
}

// setChildText sets the text of the root's child ns:local, appending the
// child when absent.
func setChildText(data []byte, ns, local, prefix, attrs, value string) ([]byte, error) {
	root, err := wml.Parse(data)
	if err != nil {
		return nil, err
	}
	escaped := wml.Escape(value)
	if el := root.Child(ns, local); el != nil {
		return replaceText(data, el, escaped), nil
	}
	name := qualify(prefix, local)
	return appendChild(data, root, "<"+name+attrs+">"+escaped+"</"+name+">"), nil
}

// replaceText replaces the content of el with escaped text.
func replaceText(data []byte, el *wml.Element, escaped string) []byte {
	if el.InnerStart == el.End {
		name := el.QName()
		open := strings.TrimSuffix(strings.TrimSuffix(string(el.StartTag), ">"), "/")
		return splice(data, el.Offset, el.End, []byte(open+">"+escaped+"</"+name+">"))
	}
	return splice(data, el.InnerStart, el.InnerEnd, []byte(escaped))
}

// appendChild inserts markup as the last child of root.
func appendChild(data []byte, root *wml.Element, markup string) []byte {
	if root.InnerStart == root.End {
		open := strings.TrimSuffix(strings.TrimSuffix(string(root.StartTag), ">"), "/")
		return splice(data, root.Offset, root.End, []byte(open+">"+markup+"</"+root.QName()+">"))
	}
	return splice(data, root.InnerEnd, root.InnerEnd, []byte(markup))
}

func splice(data []byte, from, to int64, insert []byte) []byte {
	out := make([]byte, 0, int64(len(data))-(to-from)+int64(len(insert)))
	out = append(out, data[:from]...)
	out = append(out, insert...)
	return append(out, data[to:]...)
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
