// Package docx turns WordprocessingML packages into document trees and back.
//
// Parse reads the main part's body into a [model.Document] organised by
// heading level, keeping everything else in the document's fidelity store.
// Write regenerates the body from the tree, copying untouched elements byte
// for byte, and rebuilds the package around it.
package docx

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/tsawler/doctree/fidelity"
	"github.com/tsawler/doctree/format"
	"github.com/tsawler/doctree/formatting"
	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/opc"
	"github.com/tsawler/doctree/wml"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile reads and parses the package at path.
func ParseFile(path string, opts Options) (*model.Document, error) {
	pkg, err := opc.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Part: path, Op: "open", Err: err}
	}
	return Parse(pkg, opts)
}

// ParseBytes parses a package held in memory.
func ParseBytes(data []byte, opts Options) (*model.Document, error) {
	pkg, err := opc.Read(data)
	if err != nil {
		return nil, &ParseError{Op: "open", Err: err}
	}
	return Parse(pkg, opts)
}

// Parse builds the document tree of a package. The package is owned by the
// returned document's fidelity store from then on.
func Parse(pkg *opc.Package, opts Options) (*model.Document, error) {
	opts = opts.withDefaults()

	store, err := fidelity.Capture(pkg)
	if err != nil {
		return nil, &ParseError{Op: "capture", Err: err}
	}
	main := store.MainPart()
	if kind := format.FromContentType(store.ContentTypes().TypeOf(main)); !kind.IsWordprocessing() {
		return nil, &ParseError{Part: main, Op: "detect", Err: fmt.Errorf("%w: main part is %s", ErrNotWordprocessing, kind)}
	}

	styles, err := loadStyles(store)
	if err != nil {
		return nil, err
	}
	numbering, err := loadNumbering(store)
	if err != nil {
		return nil, err
	}

	data, _ := store.Part(main)
	hasBOM := bytes.HasPrefix(data, utf8BOM)
	data, err = wml.Normalize(data)
	if err != nil {
		return nil, &ParseError{Part: main, Op: "decode", Err: err}
	}
	root, err := wml.Parse(data)
	if err != nil {
		return nil, &ParseError{Part: main, Op: "parse", Err: err}
	}
	body := root.Child(wml.NsW, "body")
	if body == nil {
		return nil, &ParseError{Part: main, Op: "parse", Err: ErrNoBody}
	}

	doc := model.NewDocument(store)
	doc.ImageDPI = opts.ImageDPI

	elements := body.Children
	var frame fidelity.Frame
	if n := len(elements); n > 0 && elements[n-1].Is(wml.NsW, "sectPr") {
		frame.SectPr = elements[n-1].Raw
		elements = elements[:n-1]
	}
	frame.Prologue, frame.Epilogue = splitFrame(data, body)
	if hasBOM {
		frame.Prologue = append(append([]byte{}, utf8BOM...), frame.Prologue...)
	}
	store.SetFrame(frame)

	b := &builder{
		doc:       doc,
		store:     store,
		styles:    styles,
		numbering: numbering,
		log:       opts.Logger,
		part:      main,
	}
	if err := b.blocks(elements, &section{root: doc.Root()}, nil); err != nil {
		return nil, err
	}
	doc.CaptureBaseline()

	opts.Logger.Debug("docx: parsed document",
		slog.String("doc", doc.ID.String()),
		slog.String("part", main),
		slog.Int("blocks", len(elements)),
		slog.Int("opaque", b.opaque),
		slog.Int("controls", len(doc.Controls())))
	return doc, nil
}

// splitFrame returns the main part up to and including the body start tag,
// and from the body end tag on. A self-closing body is split into an
// explicit start and end tag.
func splitFrame(data []byte, body *wml.Element) (prologue, epilogue []byte) {
	if bytes.HasSuffix(body.StartTag, []byte("/>")) {
		start := bytes.TrimSuffix(body.StartTag, []byte("/>"))
		prologue = append(append(bytes.Clone(data[:body.Offset]), bytes.TrimRight(start, " \t\r\n")...), '>')
		epilogue = append([]byte("</"+body.QName()+">"), data[body.End:]...)
		return prologue, epilogue
	}
	return bytes.Clone(data[:body.InnerStart]), bytes.Clone(data[body.InnerEnd:])
}

func loadStyles(store *fidelity.Store) (*StyleResolver, error) {
	data, _ := store.Slot(fidelity.SlotStyles)
	styles, err := parseStyles(data)
	if err != nil {
		name, _ := store.SlotName(fidelity.SlotStyles)
		return nil, &ParseError{Part: name, Op: "styles", Err: err}
	}
	return NewStyleResolver(styles), nil
}

func loadNumbering(store *fidelity.Store) (*NumberingResolver, error) {
	data, _ := store.Slot(fidelity.SlotNumbering)
	numbering, err := parseNumbering(data)
	if err != nil {
		name, _ := store.SlotName(fidelity.SlotNumbering)
		return nil, &ParseError{Part: name, Op: "numbering", Err: err}
	}
	return NewNumberingResolver(numbering), nil
}

// projectImage fills the read-only media fields of a parsed picture from
// the store.
func (b *builder) projectImage(img *model.ImageData) {
	b.doc.ReserveDrawingID(img.DrawingID)
	m, ok := b.store.Media(img.RelID)
	if !ok {
		return
	}
	img.Data = m.Data
	img.ContentType = m.ContentType
	img.Target = m.Target
	if w, h, _, err := fidelity.ImageSize(m.Data); err == nil {
		img.PixelWidth, img.PixelHeight = w, h
		img.NaturalWidth = model.PixelsToEMU(w, b.doc.ImageDPI)
		img.NaturalHeight = model.PixelsToEMU(h, b.doc.ImageDPI)
	}
}

// control reads the properties of a w:sdt.
func (b *builder) control(el, content *wml.Element) *model.ContentControlProperties {
	cc := formatting.ExtractControl(el.Child(wml.NsW, "sdtPr"), el.Child(wml.NsW, "sdtEndPr"), formatting.VisibleText(content))
	b.doc.ReserveControlID(cc.ID)
	return cc
}
