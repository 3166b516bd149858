package doctree

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/doctree/config"
	"github.com/tsawler/doctree/docx"
	"github.com/tsawler/doctree/model"
)

// sampleDocument builds a heading with a paragraph under it.
func sampleDocument(t *testing.T) (*model.Document, model.NodeID, model.NodeID) {
	t.Helper()
	doc := model.NewDocument(nil)
	h, err := doc.NewHeading(1)
	require.NoError(t, err)
	require.NoError(t, doc.AppendChild(doc.Root(), h))
	require.NoError(t, doc.SetText(h, "Summary"))

	p, err := doc.NewNode(model.TypeParagraph)
	require.NoError(t, err)
	require.NoError(t, doc.AppendChild(h, p))
	require.NoError(t, doc.SetText(p, "Figures follow."))
	return doc, h, p
}

func samplePackage(t *testing.T) []byte {
	t.Helper()
	doc, _, _ := sampleDocument(t)
	data, warnings, err := Write(doc)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	return data
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 4))))
	return buf.Bytes()
}

type fakeDescriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeDescriber) Describe(image []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestFromBytes_Parse(t *testing.T) {
	doc, err := FromBytes(samplePackage(t)).Parse()
	require.NoError(t, err)

	want := "Document\n" +
		"  Heading 1 \"Summary\"\n" +
		"    Paragraph \"Figures follow.\"\n"
	assert.Equal(t, want, doc.Outline())
}

func TestOpen_WriteFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	require.NoError(t, os.WriteFile(src, samplePackage(t), 0o644))

	doc, err := Open(src).Parse()
	require.NoError(t, err)
	headings := doc.Find(model.TypeHeading)
	require.Len(t, headings, 1)
	require.NoError(t, doc.SetText(headings[0], "Overview"))

	dst := filepath.Join(dir, "out.docx")
	_, err = WriteFile(doc, dst)
	require.NoError(t, err)

	again, err := Open(dst).Parse()
	require.NoError(t, err)
	assert.Equal(t, "Overview", again.OwnText(again.Find(model.TypeHeading)[0]))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.docx")).Parse()
	assert.Error(t, err)

	_, err = Open("").Parse()
	assert.Error(t, err)

	_, err = FromBytes([]byte("not a zip")).Parse()
	assert.True(t, docx.IsParseError(err))
}

func TestMaxSize(t *testing.T) {
	data := samplePackage(t)

	_, err := FromBytes(data).MaxSize(10).Parse()
	assert.ErrorIs(t, err, ErrTooLarge)

	path := filepath.Join(t.TempDir(), "big.docx")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	_, err = Open(path).MaxSize(10).Parse()
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Open(path).MaxSize(0).Parse()
	assert.NoError(t, err, "zero disables the limit")
}

func TestLoader_Immutable(t *testing.T) {
	base := FromBytes(samplePackage(t))
	strict := base.Strict()
	assert.False(t, base.options.strict)
	assert.True(t, strict.options.strict)

	bad := base.ImageDPI(-1)
	_, err := bad.Parse()
	assert.Error(t, err)
	_, err = base.Parse()
	assert.NoError(t, err)

	_, err = base.HeadingStylePrefix("").Parse()
	assert.Error(t, err)
}

func TestLoader_Config(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HeadingStylePrefix = "Titre"
	cfg.Strict = true
	cfg.MaxPackageMB = 1

	l := FromBytes(samplePackage(t)).Config(cfg)
	assert.Equal(t, "Titre", l.options.headingStylePrefix)
	assert.True(t, l.options.strict)
	assert.Equal(t, int64(1<<20), l.options.maxSize)

	cfg.ImageDPI = 0
	_, err := FromConfig("unused.docx", cfg).Parse()
	assert.ErrorContains(t, err, "invalid config")
}

func TestRoundTrip(t *testing.T) {
	data := samplePackage(t)
	out, warnings, err := FromBytes(data).RoundTrip()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	before, err := FromBytes(data).Parse()
	require.NoError(t, err)
	after, err := FromBytes(out).Parse()
	require.NoError(t, err)
	assert.Equal(t, before.Fingerprint(), after.Fingerprint())
	assert.True(t, before.Store().Equal(after.Store()))
}

func TestSetHTML(t *testing.T) {
	doc, _, p := sampleDocument(t)
	require.NoError(t, SetHTML(doc, p, "Total: <b>42</b><script>alert(1)</script>"))
	assert.Equal(t, "Total: 42", doc.Text(p))

	data := MustWrite(Write(doc))
	again := Must(FromBytes(data).Parse())
	paras := again.Find(model.TypeParagraph)
	require.Len(t, paras, 1)
	runs := again.Runs(paras[0])
	require.Len(t, runs, 2)
	assert.Equal(t, "Total: ", runs[0].Text)
	assert.Equal(t, "42", runs[1].Text)
	require.NotNil(t, runs[1].Format)
	assert.Equal(t, model.On, runs[1].Format.Bold)

	assert.ErrorIs(t, SetHTML(doc, model.NodeID(999), "x"), model.ErrNoNode)
}

func TestDescribeImages(t *testing.T) {
	doc, _, p := sampleDocument(t)
	pic, err := doc.AddImage(p, testPNG(t), "")
	require.NoError(t, err)

	d := &fakeDescriber{text: "  Sales\n by region "}
	n, err := DescribeImages(doc, d)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Sales by region", doc.Node(pic).Image().AltText)

	n, err = DescribeImages(doc, d)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "described pictures are skipped")
	assert.Equal(t, 1, d.calls)

	again := Must(FromBytes(MustWrite(Write(doc))).Parse())
	images := again.Find(model.TypeImage)
	require.Len(t, images, 1)
	assert.Equal(t, "Sales by region", again.Node(images[0]).Image().AltText)
}

func TestDescribeImages_Errors(t *testing.T) {
	doc, _, p := sampleDocument(t)
	_, err := doc.AddImage(p, testPNG(t), "")
	require.NoError(t, err)

	boom := errors.New("engine crashed")
	n, err := DescribeImages(doc, &fakeDescriber{err: boom})
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, boom)

	n, err = DescribeImages(doc, &fakeDescriber{text: " \n "})
	assert.NoError(t, err)
	assert.Equal(t, 0, n, "blank recognitions leave the picture alone")
}

func TestFormatWarnings(t *testing.T) {
	assert.Empty(t, FormatWarnings(nil))
	got := FormatWarnings([]Warning{
		{Kind: model.FidelityGap, Node: 3, Part: "word/document.xml", Element: "w:pPr", Message: "a"},
		{Kind: model.FidelityGap, Node: 4, Part: "word/document.xml", Message: "b"},
	})
	assert.Equal(t, "fidelity gap: word/document.xml <w:pPr> (node 3): a\n"+
		"fidelity gap: word/document.xml (node 4): b", got)
}

func TestMust(t *testing.T) {
	assert.Equal(t, 1, Must(1, nil))
	assert.Panics(t, func() { Must(0, errors.New("x")) })
	assert.Panics(t, func() { MustWrite[[]byte](nil, nil, errors.New("x")) })
}
