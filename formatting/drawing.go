package formatting

import (
	"bytes"
	"slices"
	"strconv"

	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

var wrapElements = map[string]model.WrapMode{
	"wrapNone":         model.WrapNone,
	"wrapSquare":       model.WrapSquare,
	"wrapTight":        model.WrapTight,
	"wrapThrough":      model.WrapThrough,
	"wrapTopAndBottom": model.WrapTopAndBottom,
}

// ExtractDrawing maps a w:drawing holding a picture to image data. Drawings
// of charts, shapes, diagrams and other graphics yield nil.
func ExtractDrawing(el *wml.Element) *model.ImageData {
	var frame *wml.Element
	for _, c := range el.Children {
		if c.Is(wml.NsWP, "inline") || c.Is(wml.NsWP, "anchor") {
			frame = c
			break
		}
	}
	if frame == nil {
		return nil
	}
	data := frame.Find(wml.NsA, "graphicData")
	if data == nil || data.AttrValue("uri") != wml.NsPic || data.Child(wml.NsPic, "pic") == nil {
		return nil
	}

	img := &model.ImageData{}
	img.Markup.Raw = el.Raw
	img.Markup.Attrs = el.AttrText()

	if ext := frame.Child(wml.NsWP, "extent"); ext != nil {
		img.Width = int64Attr(ext, "cx")
		img.Height = int64Attr(ext, "cy")
	}
	if pr := frame.Child(wml.NsWP, "docPr"); pr != nil {
		img.DrawingID = int(int64Attr(pr, "id"))
		img.Name = pr.AttrValue("name")
		img.AltText = pr.AttrValue("descr")
		img.Title = pr.AttrValue("title")
	}
	if blip := data.Find(wml.NsA, "blip"); blip != nil {
		img.RelID, _ = blip.AttrNS(wml.NsR, "embed")
		img.LinkID, _ = blip.AttrNS(wml.NsR, "link")
	}
	img.Layout = extractLayout(frame)
	return img
}

func extractLayout(frame *wml.Element) model.ImageLayout {
	l := model.ImageLayout{
		DistTop:    int64Attr(frame, "distT"),
		DistBottom: int64Attr(frame, "distB"),
		DistLeft:   int64Attr(frame, "distL"),
		DistRight:  int64Attr(frame, "distR"),
	}
	if !frame.Is(wml.NsWP, "anchor") {
		return l
	}

	l.Floating = true
	l.BehindText = boolAttr(frame, "behindDoc")
	l.Locked = boolAttr(frame, "locked")
	l.LayoutInCell = boolAttr(frame, "layoutInCell")
	l.AllowOverlap = boolAttr(frame, "allowOverlap")
	l.ZOrder = int64Attr(frame, "relativeHeight")
	l.Horizontal = extractPosition(frame.Child(wml.NsWP, "positionH"))
	l.Vertical = extractPosition(frame.Child(wml.NsWP, "positionV"))
	for _, c := range frame.Children {
		if c.Name.Space != wml.NsWP {
			continue
		}
		if mode, ok := wrapElements[c.Name.Local]; ok {
			l.Wrap = mode
			l.WrapSide = c.AttrValue("wrapText")
			break
		}
	}
	return l
}

func extractPosition(el *wml.Element) model.Position {
	if el == nil {
		return model.Position{}
	}
	p := model.Position{RelativeFrom: el.AttrValue("relativeFrom")}
	if off := el.Child(wml.NsWP, "posOffset"); off != nil {
		p.Offset, _ = strconv.ParseInt(off.Text, 10, 64)
	}
	if al := el.Child(wml.NsWP, "align"); al != nil {
		p.Align = al.Text
	}
	return p
}

func int64Attr(el *wml.Element, local string) int64 {
	v, err := strconv.ParseInt(el.AttrValue(local), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func boolAttr(el *wml.Element, local string) bool {
	v := el.AttrValue(local)
	return v == "1" || v == "true"
}

// Drawing writes the w:drawing of img. Edits that keep the layout patch the
// original markup in place; layout changes regenerate it from a template,
// which reports a loss for parsed drawings.
func Drawing(b *bytes.Buffer, img *model.ImageData) bool {
	m := &img.Markup
	if model.Unchanged(m, img) {
		b.Write(m.Raw)
		return false
	}
	if m.HasSource() {
		if patched, ok := patchDrawing(m.Raw, img); ok {
			b.Write(patched)
			return false
		}
	}
	writeDrawing(b, img)
	return m.HasSource()
}

type splice struct {
	offset int64
	length int
	data   []byte
}

// patchDrawing rewrites the attributes of the original drawing that carry
// extent, names, alt text and relationship ids. It fails when the layout
// changed.
func patchDrawing(raw []byte, img *model.ImageData) ([]byte, bool) {
	root, err := wml.Parse(raw)
	if err != nil {
		return nil, false
	}
	orig := ExtractDrawing(root)
	if orig == nil || orig.Layout != img.Layout {
		return nil, false
	}

	var edits []splice
	set := func(el *wml.Element, pairs ...string) {
		if el == nil {
			return
		}
		tag := el.StartTag
		for i := 0; i+1 < len(pairs); i += 2 {
			tag = wml.SetAttr(tag, pairs[i], pairs[i+1])
		}
		if !bytes.Equal(tag, el.StartTag) {
			edits = append(edits, splice{el.Offset, len(el.StartTag), tag})
		}
	}
	frame := root.Children[0]
	for _, c := range root.Children {
		if c.Is(wml.NsWP, "inline") || c.Is(wml.NsWP, "anchor") {
			frame = c
			break
		}
	}

	if img.Width != orig.Width || img.Height != orig.Height {
		cx, cy := strconv.FormatInt(img.Width, 10), strconv.FormatInt(img.Height, 10)
		set(frame.Child(wml.NsWP, "extent"), "cx", cx, "cy", cy)
		if xfrm := frame.Find(wml.NsA, "xfrm"); xfrm != nil {
			set(xfrm.Child(wml.NsA, "ext"), "cx", cx, "cy", cy)
		}
	}

	var pr []string
	if img.DrawingID != orig.DrawingID {
		pr = append(pr, "id", itoa(img.DrawingID))
	}
	if img.Name != orig.Name {
		pr = append(pr, "name", img.Name)
	}
	if img.AltText != orig.AltText {
		pr = append(pr, "descr", img.AltText)
	}
	if img.Title != orig.Title {
		pr = append(pr, "title", img.Title)
	}
	set(frame.Child(wml.NsWP, "docPr"), pr...)

	if blip := frame.Find(wml.NsA, "blip"); blip != nil {
		var ids []string
		if img.RelID != orig.RelID {
			ids = append(ids, relAttr(blip, "embed"), img.RelID)
		}
		if img.LinkID != orig.LinkID {
			ids = append(ids, relAttr(blip, "link"), img.LinkID)
		}
		set(blip, ids...)
	}

	slices.SortFunc(edits, func(a, b splice) int { return int(b.offset - a.offset) })
	out := append([]byte(nil), raw...)
	for _, e := range edits {
		tail := append([]byte(nil), out[e.offset+int64(e.length):]...)
		out = append(append(out[:e.offset], e.data...), tail...)
	}
	return out, true
}

// relAttr returns the qualified name of a relationship attribute using the
// prefix the element already uses for the namespace.
func relAttr(el *wml.Element, local string) string {
	for _, a := range el.Attr {
		if a.Name.Space == wml.NsR {
			return a.Prefix + ":" + local
		}
	}
	return "r:" + local
}

func writeDrawing(b *bytes.Buffer, img *model.ImageData) {
	l := img.Layout
	dist := []string{
		"distT", i64(l.DistTop),
		"distB", i64(l.DistBottom),
		"distL", i64(l.DistLeft),
		"distR", i64(l.DistRight),
	}

	wml.Open(b, "w:drawing")
	if !l.Floating {
		wml.Open(b, "wp:inline", dist...)
		writeFrame(b, img)
		wml.Close(b, "wp:inline")
		wml.Close(b, "w:drawing")
		return
	}

	attrs := append(dist,
		"simplePos", "0",
		"relativeHeight", i64(l.ZOrder),
		"behindDoc", bit(l.BehindText),
		"locked", bit(l.Locked),
		"layoutInCell", bit(l.LayoutInCell),
		"allowOverlap", bit(l.AllowOverlap),
	)
	wml.Open(b, "wp:anchor", attrs...)
	wml.Empty(b, "wp:simplePos", "x", "0", "y", "0")
	writePosition(b, "wp:positionH", l.Horizontal, "column")
	writePosition(b, "wp:positionV", l.Vertical, "paragraph")
	writeExtent(b, img)
	writeWrap(b, l)
	writeGraphic(b, img)
	wml.Close(b, "wp:anchor")
	wml.Close(b, "w:drawing")
}

func writeFrame(b *bytes.Buffer, img *model.ImageData) {
	writeExtent(b, img)
	writeGraphic(b, img)
}

func writeExtent(b *bytes.Buffer, img *model.ImageData) {
	wml.Empty(b, "wp:extent", "cx", i64(img.Width), "cy", i64(img.Height))
	wml.Empty(b, "wp:effectExtent", "l", "0", "t", "0", "r", "0", "b", "0")
}

func writePosition(b *bytes.Buffer, name string, p model.Position, from string) {
	if p.RelativeFrom != "" {
		from = p.RelativeFrom
	}
	wml.Open(b, name, "relativeFrom", from)
	if p.Align != "" {
		wml.Open(b, "wp:align")
		wml.Text(b, p.Align)
		wml.Close(b, "wp:align")
	} else {
		wml.Open(b, "wp:posOffset")
		b.WriteString(i64(p.Offset))
		wml.Close(b, "wp:posOffset")
	}
	wml.Close(b, name)
}

func writeWrap(b *bytes.Buffer, l model.ImageLayout) {
	side := l.WrapSide
	if side == "" {
		side = "bothSides"
	}
	switch l.Wrap {
	case model.WrapSquare:
		wml.Empty(b, "wp:wrapSquare", "wrapText", side)
	case model.WrapTight, model.WrapThrough:
		name := "wp:wrapTight"
		if l.Wrap == model.WrapThrough {
			name = "wp:wrapThrough"
		}
		wml.Open(b, name, "wrapText", side)
		wml.Open(b, "wp:wrapPolygon", "edited", "0")
		wml.Empty(b, "wp:start", "x", "0", "y", "0")
		wml.Empty(b, "wp:lineTo", "x", "0", "y", "21600")
		wml.Empty(b, "wp:lineTo", "x", "21600", "y", "21600")
		wml.Empty(b, "wp:lineTo", "x", "21600", "y", "0")
		wml.Empty(b, "wp:lineTo", "x", "0", "y", "0")
		wml.Close(b, "wp:wrapPolygon")
		wml.Close(b, name)
	case model.WrapTopAndBottom:
		wml.Empty(b, "wp:wrapTopAndBottom")
	default:
		wml.Empty(b, "wp:wrapNone")
	}
}

func writeGraphic(b *bytes.Buffer, img *model.ImageData) {
	wml.Empty(b, "wp:docPr",
		"id", itoa(img.DrawingID),
		"name", img.Name,
		"descr", img.AltText,
		"title", img.Title)
	wml.Open(b, "wp:cNvGraphicFramePr")
	wml.Empty(b, "a:graphicFrameLocks", "xmlns:a", wml.NsA, "noChangeAspect", "1")
	wml.Close(b, "wp:cNvGraphicFramePr")

	wml.Open(b, "a:graphic", "xmlns:a", wml.NsA)
	wml.Open(b, "a:graphicData", "uri", wml.NsPic)
	wml.Open(b, "pic:pic", "xmlns:pic", wml.NsPic)
	wml.Open(b, "pic:nvPicPr")
	wml.Empty(b, "pic:cNvPr", "id", "0", "name", img.Name)
	wml.Empty(b, "pic:cNvPicPr")
	wml.Close(b, "pic:nvPicPr")
	wml.Open(b, "pic:blipFill")
	wml.Empty(b, "a:blip", "r:embed", img.RelID, "r:link", img.LinkID)
	wml.Open(b, "a:stretch")
	wml.Empty(b, "a:fillRect")
	wml.Close(b, "a:stretch")
	wml.Close(b, "pic:blipFill")
	wml.Open(b, "pic:spPr")
	wml.Open(b, "a:xfrm")
	wml.Empty(b, "a:off", "x", "0", "y", "0")
	wml.Empty(b, "a:ext", "cx", i64(img.Width), "cy", i64(img.Height))
	wml.Close(b, "a:xfrm")
	wml.Open(b, "a:prstGeom", "prst", "rect")
	wml.Empty(b, "a:avLst")
	wml.Close(b, "a:prstGeom")
	wml.Close(b, "pic:spPr")
	wml.Close(b, "pic:pic")
	wml.Close(b, "a:graphicData")
	wml.Close(b, "a:graphic")
}

func i64(v int64) string { return strconv.FormatInt(v, 10) }

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
