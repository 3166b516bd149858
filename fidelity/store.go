package fidelity

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tsawler/doctree/opc"
	"github.com/tsawler/doctree/wml"
)

// ErrNoMainPart is returned when the package has no main document part.
var ErrNoMainPart = errors.New("main document part not found")

// Slot names a document-wide part.
type Slot string

const (
	SlotStyles            Slot = "styles"
	SlotStylesWithEffects Slot = "stylesWithEffects"
	SlotTheme             Slot = "theme"
	SlotFontTable         Slot = "fontTable"
	SlotNumbering         Slot = "numbering"
	SlotSettings          Slot = "settings"
	SlotWebSettings       Slot = "webSettings"
	SlotFootnotes         Slot = "footnotes"
	SlotEndnotes          Slot = "endnotes"
	SlotComments          Slot = "comments"
	SlotGlossary          Slot = "glossary"
	SlotCoreProps         Slot = "coreProperties"
	SlotExtendedProps     Slot = "extendedProperties"
	SlotCustomProps       Slot = "customProperties"
)

// mainSlots maps relationship types of the main part to slots.
var mainSlots = map[string]Slot{
	opc.RelStyles:      SlotStyles,
	opc.RelStylesFX:    SlotStylesWithEffects,
	opc.RelTheme:       SlotTheme,
	opc.RelFontTable:   SlotFontTable,
	opc.RelNumbering:   SlotNumbering,
	opc.RelSettings:    SlotSettings,
	opc.RelWebSettings: SlotWebSettings,
	opc.RelFootnotes:   SlotFootnotes,
	opc.RelEndnotes:    SlotEndnotes,
	opc.RelComments:    SlotComments,
	opc.RelGlossary:    SlotGlossary,
}

// packageSlots maps relationship types of the package to slots.
var packageSlots = map[string]Slot{
	opc.RelCoreProps:     SlotCoreProps,
	opc.RelExtendedProps: SlotExtendedProps,
	opc.RelCustomProps:   SlotCustomProps,
}

// Frame is the main part around the body content: everything up to and
// including the w:body start tag, the body's final w:sectPr, and everything
// from the w:body end tag on.
type Frame struct {
	Prologue []byte
	SectPr   []byte
	Epilogue []byte
}

// Store holds every part of a package byte for byte, indexed by role. The
// document tree owns the main part's body; everything else is written back
// from here.
type Store struct {
	pkg   *opc.Package
	types *opc.ContentTypes

	main     string
	mainRels []opc.Relationship
	pkgRels  []opc.Relationship

	slots     map[Slot]string
	headers   map[string]string // relationship id -> header or footer part
	customXML []string
	glossary  []string
	media     map[string]*Media
	links     map[string]*Hyperlink

	frame Frame
}

// Capture indexes the parts of pkg. It never looks at the body of the main
// part.
func Capture(pkg *opc.Package) (*Store, error) {
	ctData, ok := pkg.Data(opc.ContentTypesPart)
	if !ok {
		return nil, fmt.Errorf("missing %s", opc.ContentTypesPart)
	}
	types, err := opc.ParseContentTypes(ctData)
	if err != nil {
		return nil, err
	}

	s := &Store{
		pkg:     pkg,
		types:   types,
		slots:   make(map[Slot]string),
		headers: make(map[string]string),
		media:   make(map[string]*Media),
		links:   make(map[string]*Hyperlink),
	}

	if s.pkgRels, err = s.relationships(""); err != nil {
		return nil, err
	}
	office, ok := opc.Find(s.pkgRels, opc.RelOfficeDocument)
	if !ok {
		return nil, ErrNoMainPart
	}
	s.main = opc.ResolveTarget("", office.Target)
	if !pkg.Has(s.main) {
		return nil, fmt.Errorf("%w: %s", ErrNoMainPart, s.main)
	}
	for _, r := range s.pkgRels {
		for kind, slot := range packageSlots {
			if r.Is(kind) && !r.External() {
				s.slots[slot] = opc.ResolveTarget("", r.Target)
			}
		}
	}

	if s.mainRels, err = s.relationships(s.main); err != nil {
		return nil, err
	}
	for _, r := range s.mainRels {
		s.captureRelationship(r)
	}

	if g, ok := s.slots[SlotGlossary]; ok {
		s.glossary = append(s.glossary, g)
		rels, err := s.relationships(g)
		if err != nil {
			return nil, err
		}
		for _, r := range rels {
			if !r.External() {
				s.glossary = append(s.glossary, opc.ResolveTarget(g, r.Target))
			}
		}
	}

	for _, name := range pkg.Names() {
		if strings.HasPrefix(name, "customXml/") && !strings.Contains(name, "/_rels/") {
			s.customXML = append(s.customXML, name)
		}
	}
	return s, nil
}

func (s *Store) relationships(source string) ([]opc.Relationship, error) {
	data, ok := s.pkg.Data(opc.RelsPartName(source))
	if !ok {
		return nil, nil
	}
	rels, err := opc.ParseRelationships(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opc.RelsPartName(source), err)
	}
	return rels, nil
}

func (s *Store) captureRelationship(r opc.Relationship) {
	switch {
	case r.Is(opc.RelHyperlink):
		s.links[r.ID] = &Hyperlink{RelID: r.ID, URL: r.Target, External: r.External()}
		return
	case r.Is(opc.RelImage):
		if r.External() {
			s.media[r.ID] = &Media{RelID: r.ID, Target: r.Target, External: true}
			return
		}
		name := opc.ResolveTarget(s.main, r.Target)
		data, ok := s.pkg.Data(name)
		if !ok {
			return
		}
		s.media[r.ID] = &Media{
			RelID:       r.ID,
			PartName:    name,
			Target:      r.Target,
			ContentType: s.types.TypeOf(name),
			Data:        data,
		}
		return
	}
	if r.External() {
		return
	}
	target := opc.ResolveTarget(s.main, r.Target)
	switch {
	case r.Is(opc.RelHeader), r.Is(opc.RelFooter):
		s.headers[r.ID] = target
	default:
		for kind, slot := range mainSlots {
			if r.Is(kind) {
				s.slots[slot] = target
			}
		}
	}
}

// Package returns the underlying package.
func (s *Store) Package() *opc.Package { return s.pkg }

// ContentTypes returns the parsed content types part.
func (s *Store) ContentTypes() *opc.ContentTypes { return s.types }

// MainPart returns the name of the main document part.
func (s *Store) MainPart() string { return s.main }

// MainRelationships returns the relationships of the main part.
func (s *Store) MainRelationships() []opc.Relationship {
	return slices.Clone(s.mainRels)
}

// Frame returns the bytes around the main part's body content.
func (s *Store) Frame() Frame { return s.frame }

// SetFrame records the bytes around the main part's body content.
func (s *Store) SetFrame(f Frame) { s.frame = f }

// Part returns the bytes of a part.
func (s *Store) Part(name string) ([]byte, bool) { return s.pkg.Data(name) }

// SetPart replaces the bytes of a part, or adds it.
func (s *Store) SetPart(name string, data []byte) { s.pkg.Set(name, data) }

// SlotName returns the part name stored in a slot.
func (s *Store) SlotName(slot Slot) (string, bool) {
	name, ok := s.slots[slot]
	return name, ok
}

// Slot returns the bytes of the part stored in a slot.
func (s *Store) Slot(slot Slot) ([]byte, bool) {
	name, ok := s.slots[slot]
	if !ok {
		return nil, false
	}
	return s.pkg.Data(name)
}

// Slots returns the filled slots.
func (s *Store) Slots() []Slot {
	out := make([]Slot, 0, len(s.slots))
	for slot := range s.slots {
		out = append(out, slot)
	}
	slices.Sort(out)
	return out
}

// Headers returns the header and footer parts keyed by relationship id.
func (s *Store) Headers() map[string]string {
	out := make(map[string]string, len(s.headers))
	for k, v := range s.headers {
		out[k] = v
	}
	return out
}

// CustomXML returns the names of the custom XML parts.
func (s *Store) CustomXML() []string { return slices.Clone(s.customXML) }

// Glossary returns the glossary document part followed by its own parts.
func (s *Store) Glossary() []string { return slices.Clone(s.glossary) }

// CustomXMLItemIDs returns the data store item ids declared by the custom
// XML property parts, mapped to the property part names.
func (s *Store) CustomXMLItemIDs() map[string]string {
	ids := make(map[string]string)
	for _, name := range s.customXML {
		data, _ := s.pkg.Data(name)
		if !bytes.Contains(data, []byte("datastoreItem")) {
			continue
		}
		root, err := wml.Parse(data)
		if err != nil {
			continue
		}
		if id := root.AttrValue("itemID"); id != "" {
			ids[strings.ToUpper(id)] = name
		}
	}
	return ids
}

// NextRelationshipID allocates a relationship id for the main part.
func (s *Store) NextRelationshipID() string {
	return opc.NextID(s.mainRels)
}

// addMainRelationship records r and splices it into the main part's
// relationships.
func (s *Store) addMainRelationship(r opc.Relationship) {
	s.mainRels = append(s.mainRels, r)
	name := opc.RelsPartName(s.main)
	data, _ := s.pkg.Data(name)
	s.pkg.Set(name, opc.AppendRelationship(data, r))
	s.ensureRelsDefault()
}

func (s *Store) addPackageRelationship(kind, target string) {
	r := opc.Relationship{ID: opc.NextID(s.pkgRels), Type: kind, Target: target}
	s.pkgRels = append(s.pkgRels, r)
	name := opc.RelsPartName("")
	data, _ := s.pkg.Data(name)
	s.pkg.Set(name, opc.AppendRelationship(data, r))
	s.ensureRelsDefault()
}

func (s *Store) ensureRelsDefault() {
	if s.types.AddDefault("rels", opc.ContentTypeRelationships) {
		s.pkg.Set(opc.ContentTypesPart, s.types.Bytes())
	}
}

func (s *Store) addOverride(part, contentType string) {
	if s.types.AddOverride(part, contentType) {
		s.pkg.Set(opc.ContentTypesPart, s.types.Bytes())
	}
}

// Diff returns the names of the parts that differ between s and other,
// ignoring the main part, whose body the tree owns.
func (s *Store) Diff(other *Store) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range s.pkg.Names() {
		seen[name] = true
		if name == s.main {
			continue
		}
		a, _ := s.pkg.Data(name)
		b, ok := other.pkg.Data(name)
		if !ok || !bytes.Equal(a, b) {
			out = append(out, name)
		}
	}
	for _, name := range other.pkg.Names() {
		if !seen[name] && name != other.main {
			out = append(out, name)
		}
	}
	return out
}

// Equal reports whether s and other hold the same parts outside the main
// part.
func (s *Store) Equal(other *Store) bool {
	return s.main == other.main && len(s.Diff(other)) == 0
}
