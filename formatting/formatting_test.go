package formatting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

const nsDecl = ` xmlns:w="` + wml.NsW + `"`

func parse(t *testing.T, s string) *wml.Element {
	t.Helper()
	el, err := wml.Parse([]byte(s))
	require.NoError(t, err)
	return el
}

func TestParagraphVerbatimWhenUnchanged(t *testing.T) {
	raw := `<w:pPr` + nsDecl + `><w:pStyle w:val="Body"/><w:pBdr><w:top w:val="single"/></w:pBdr><w:jc w:val="left"/></w:pPr>`
	f := ExtractParagraph(parse(t, raw))

	assert.Equal(t, "Body", f.Style)
	assert.Equal(t, "left", f.Alignment)
	assert.Equal(t, model.Partial, f.Markup.Kind)
	require.Len(t, f.Markup.Extra, 1)
	assert.Equal(t, "w:pBdr", f.Markup.Extra[0].Name)

	model.Seal(&f.Markup, f)
	var b bytes.Buffer
	assert.False(t, Paragraph(&b, f))
	assert.Equal(t, raw, b.String())
}

func TestParagraphMergesUnmodeledChildren(t *testing.T) {
	raw := `<w:pPr` + nsDecl + `><w:pStyle w:val="Body"/><w:pBdr><w:top w:val="single"/></w:pBdr><w:jc w:val="left"/></w:pPr>`
	f := ExtractParagraph(parse(t, raw))
	model.Seal(&f.Markup, f)

	f.Alignment = "center"
	f.SpacingAfter = model.Int(120)

	var b bytes.Buffer
	lossy := Paragraph(&b, f)
	assert.False(t, lossy)
	assert.Equal(t,
		`<w:pPr`+nsDecl+`><w:pStyle w:val="Body"/><w:pBdr><w:top w:val="single"/></w:pBdr><w:spacing w:after="120"/><w:jc w:val="center"/></w:pPr>`,
		b.String())
}

func TestParagraphNewRecord(t *testing.T) {
	f := &model.ParagraphFormatting{Style: "Heading2", KeepNext: model.On, OutlineLevel: model.Int(1)}
	var b bytes.Buffer
	Paragraph(&b, f)
	assert.Equal(t, `<w:pPr><w:pStyle w:val="Heading2"/><w:keepNext/><w:outlineLvl w:val="1"/></w:pPr>`, b.String())
}

func TestRunToggles(t *testing.T) {
	f := ExtractRun(parse(t, `<w:rPr`+nsDecl+`><w:b/><w:i w:val="0"/><w:sz w:val="28"/><w:color w:val="FF0000"/></w:rPr>`))
	assert.Equal(t, model.On, f.Bold)
	assert.Equal(t, model.Off, f.Italic)
	assert.Equal(t, 28, f.Size)
	assert.Equal(t, 14.0, f.SizePoints())
	assert.Equal(t, "FF0000", f.Color)
	assert.Equal(t, model.Modeled, f.Markup.Kind)
}

func TestExtractRunContent(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		kind model.RunKind
		text string
	}{
		{"text", `<w:t>Hello</w:t>`, model.RunText, "Hello"},
		{"tabs and breaks", `<w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t><w:br w:type="page"/>`, model.RunText, "a\tb\nc\f"},
		{"hyphens", `<w:t>x</w:t><w:noBreakHyphen/><w:softHyphen/>`, model.RunText, "x\u2011\u00ad"},
		{"field", `<w:fldChar w:fldCharType="begin"/>`, model.RunOpaque, ""},
		{"column break", `<w:t>a</w:t><w:br w:type="column"/>`, model.RunOpaque, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := ExtractRunContent(parse(t, `<w:r`+nsDecl+`><w:rPr><w:b/></w:rPr>`+tt.xml+`</w:r>`))
			assert.Equal(t, tt.kind, rc.Kind)
			assert.Equal(t, tt.text, rc.Text)
			require.NotNil(t, rc.Format)
			assert.Equal(t, model.On, rc.Format.Bold)
		})
	}
}

func TestVisibleText(t *testing.T) {
	el := parse(t, `<w:sdtContent`+nsDecl+`>`+
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>one</w:t><w:br/><w:t>two</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>three</w:t><w:cr/><w:delText>gone</w:delText><w:t>four</w:t></w:r></w:p>`+
		`<w:p/></w:sdtContent>`)
	assert.Equal(t, "one\ntwo\nthree\nfour\n", VisibleText(el))
}

func TestText(t *testing.T) {
	var b bytes.Buffer
	Text(&b, " lead\tnext\nline")
	assert.Equal(t, `<w:t xml:space="preserve"> lead</w:t><w:tab/><w:t>next</w:t><w:br/><w:t>line</w:t>`, b.String())

	b.Reset()
	Text(&b, "a < b")
	assert.Equal(t, `<w:t>a &lt; b</w:t>`, b.String())
}

func TestCellProperties(t *testing.T) {
	raw := `<w:tcPr` + nsDecl + `><w:tcW w:w="2000" w:type="dxa"/><w:gridSpan w:val="2"/><w:vMerge w:val="restart"/><w:shd w:val="clear" w:color="auto" w:fill="FF0000"/><w:noWrap/></w:tcPr>`
	p := ExtractCell(parse(t, raw))
	assert.Equal(t, 2, p.ColSpan)
	assert.Equal(t, model.VMergeRestart, p.VMerge)
	require.NotNil(t, p.Format)
	assert.Equal(t, 2000, p.Format.Width)
	require.NotNil(t, p.Format.Shading)
	assert.Equal(t, "FF0000", p.Format.Shading.Fill)
	assert.Equal(t, model.Partial, p.Format.Markup.Kind)

	c := &model.TableCell{ColSpan: p.ColSpan, VMerge: p.VMerge, Format: p.Format}
	model.Seal(&c.Format.Markup, c.Props())

	var b bytes.Buffer
	Cell(&b, c)
	assert.Equal(t, raw, b.String())

	c.ColSpan = 3
	b.Reset()
	Cell(&b, c)
	assert.Equal(t, strings.Replace(raw, `w:gridSpan w:val="2"`, `w:gridSpan w:val="3"`, 1), b.String())
}

func TestContinuedMerge(t *testing.T) {
	p := ExtractCell(parse(t, `<w:tcPr`+nsDecl+`><w:vMerge/></w:tcPr>`))
	assert.Equal(t, model.VMergeContinue, p.VMerge)
	assert.Equal(t, 1, p.ColSpan)

	var b bytes.Buffer
	Cell(&b, &model.TableCell{VMerge: model.VMergeContinue})
	assert.Equal(t, `<w:tcPr><w:vMerge/></w:tcPr>`, b.String())
}

func TestRowProperties(t *testing.T) {
	f := ExtractRow(parse(t, `<w:trPr`+nsDecl+`><w:gridBefore w:val="1"/><w:trHeight w:val="400" w:hRule="exact"/><w:tblHeader/></w:trPr>`))
	assert.Equal(t, 1, f.GridBefore)
	assert.Equal(t, 400, f.Height)
	assert.Equal(t, "exact", f.HeightRule)
	assert.Equal(t, model.On, f.Header)
}

const dropDown = `<w:sdtPr` + nsDecl + `><w:alias w:val="Color"/><w:tag w:val="color"/><w:id w:val="42"/>` +
	`<w:dropDownList><w:listItem w:displayText="Red" w:value="r"/><w:listItem w:displayText="Blue" w:value="b"/></w:dropDownList></w:sdtPr>`

func TestExtractDropDown(t *testing.T) {
	cc := ExtractControl(parse(t, dropDown), nil, "Red")
	assert.Equal(t, model.ControlDropDown, cc.Kind)
	assert.Equal(t, "Color", cc.Alias)
	assert.Equal(t, "color", cc.Tag)
	assert.Equal(t, 42, cc.ID)
	assert.Equal(t, "r", cc.Value)
	require.Len(t, cc.Items, 2)
	assert.Equal(t, "Blue", cc.Items[1].DisplayText)
}

func TestControlValueEdit(t *testing.T) {
	cc := ExtractControl(parse(t, dropDown), nil, "Red")
	model.Seal(&cc.Markup, cc)

	var b bytes.Buffer
	Control(&b, cc)
	assert.Equal(t, dropDown, b.String())

	cc.Value = "b"
	b.Reset()
	assert.False(t, Control(&b, cc))
	out := b.String()
	assert.Contains(t, out, `<w:alias w:val="Color"/><w:tag w:val="color"/><w:id w:val="42"/>`)
	assert.Contains(t, out, `<w:dropDownList w:lastValue="b"><w:listItem w:displayText="Red" w:value="r"/>`)
	assert.NotContains(t, out, "richText")
}

func TestExtractCheckbox(t *testing.T) {
	raw := `<w:sdtPr` + nsDecl + ` xmlns:w14="` + wml.NsW14 + `"><w:id w:val="7"/><w14:checkbox><w14:checked w14:val="1"/>` +
		`<w14:checkedState w14:val="2612" w14:font="MS Gothic"/><w14:uncheckedState w14:val="2610" w14:font="MS Gothic"/></w14:checkbox></w:sdtPr>`
	cc := ExtractControl(parse(t, raw), nil, "☒")
	assert.Equal(t, model.ControlCheckbox, cc.Kind)
	assert.True(t, cc.Checked)
	assert.Equal(t, "true", cc.Value)
	assert.Equal(t, "☒", cc.Glyph())
}

func TestExtractDocumentProperty(t *testing.T) {
	raw := `<w:sdtPr` + nsDecl + `><w:alias w:val="Title"/><w:dataBinding w:xpath="/ns1:coreProperties[1]/ns0:title[1]" w:storeItemID="` +
		model.CorePropertiesStoreID + `"/><w:text/></w:sdtPr>`
	cc := ExtractControl(parse(t, raw), nil, "Report")
	assert.Equal(t, model.ControlDocumentProperty, cc.Kind)
	require.NotNil(t, cc.Binding)
	assert.Equal(t, model.CorePropertiesStoreID, cc.Binding.StoreItemID)
	assert.Equal(t, "Report", cc.Value)
}

func TestNewControlRichText(t *testing.T) {
	cc := NewControl(model.ControlRichText)
	cc.Tag = "body"
	cc.ID = 5
	var b bytes.Buffer
	Control(&b, cc)
	assert.Equal(t, `<w:sdtPr><w:tag w:val="body"/><w:id w:val="5"/><w:richText/></w:sdtPr>`, b.String())
}

const drawingXML = `<w:drawing` + nsDecl + ` xmlns:wp="` + wml.NsWP + `" xmlns:a="` + wml.NsA + `" xmlns:pic="` + wml.NsPic + `" xmlns:r="` + wml.NsR + `">` +
	`<wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="100" cy="50"/><wp:docPr id="3" name="Picture 3" descr="logo"/>` +
	`<a:graphic><a:graphicData uri="` + wml.NsPic + `"><pic:pic><pic:blipFill><a:blip r:embed="rId5"/></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="100" cy="50"/></a:xfrm></pic:spPr></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`

func TestExtractDrawing(t *testing.T) {
	img := ExtractDrawing(parse(t, drawingXML))
	require.NotNil(t, img)
	assert.Equal(t, "rId5", img.RelID)
	assert.Equal(t, int64(100), img.Width)
	assert.Equal(t, int64(50), img.Height)
	assert.Equal(t, 3, img.DrawingID)
	assert.Equal(t, "logo", img.AltText)
	assert.False(t, img.Layout.Floating)
}

func TestExtractDrawingIgnoresCharts(t *testing.T) {
	chart := strings.Replace(drawingXML, `uri="`+wml.NsPic+`"`, `uri="http://schemas.openxmlformats.org/drawingml/2006/chart"`, 1)
	assert.Nil(t, ExtractDrawing(parse(t, chart)))
}

func TestDrawingPatchKeepsMarkup(t *testing.T) {
	img := ExtractDrawing(parse(t, drawingXML))
	model.Seal(&img.Markup, img)

	var b bytes.Buffer
	assert.False(t, Drawing(&b, img))
	assert.Equal(t, drawingXML, b.String())

	img.Resize(200, 0)
	img.AltText = "new logo"
	b.Reset()
	assert.False(t, Drawing(&b, img))

	want := strings.ReplaceAll(drawingXML, `cx="100" cy="50"`, `cx="200" cy="100"`)
	want = strings.Replace(want, `descr="logo"`, `descr="new logo"`, 1)
	assert.Equal(t, want, b.String())
}

func TestDrawingLayoutChangeRegenerates(t *testing.T) {
	img := ExtractDrawing(parse(t, drawingXML))
	model.Seal(&img.Markup, img)

	img.Layout.Floating = true
	img.Layout.Wrap = model.WrapSquare

	var b bytes.Buffer
	assert.True(t, Drawing(&b, img))
	out := b.String()
	assert.Contains(t, out, "<wp:anchor ")
	assert.Contains(t, out, `<wp:wrapSquare wrapText="bothSides"/>`)
	assert.Contains(t, out, `<a:blip r:embed="rId5"/>`)

	_, err := wml.Parse([]byte(`<root xmlns:w="` + wml.NsW + `" xmlns:wp="` + wml.NsWP + `" xmlns:r="` + wml.NsR + `">` + out + `</root>`))
	assert.NoError(t, err)
}

func TestRunsFromHTML(t *testing.T) {
	runs, err := RunsFromHTML(`<p>Hello <b>bold</b></p><p>next<br>line</p><script>alert(1)</script>`, nil)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, "Hello ", runs[0].Text)
	assert.Equal(t, model.Unset, runs[0].Format.Bold)
	assert.Equal(t, "bold", runs[1].Text)
	assert.Equal(t, model.On, runs[1].Format.Bold)
	assert.Equal(t, "\nnext\nline", runs[2].Text)
}

func TestRunsFromHTMLColor(t *testing.T) {
	base := &model.RunFormatting{Size: 24}
	runs, err := RunsFromHTML(`<span style="color: #ff0000">red</span> <em>it</em>`, base)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "FF0000", runs[0].Format.Color)
	assert.Equal(t, 24, runs[0].Format.Size)
	assert.Equal(t, " ", runs[1].Text)
	assert.Equal(t, model.On, runs[2].Format.Italic)
	assert.Empty(t, base.Color)
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, "00FF00", parseColor("lime"))
	assert.Equal(t, "AABBCC", parseColor("#abc"))
	assert.Equal(t, "123456", parseColor("#123456"))
	assert.Equal(t, "", parseColor("rgb(1,2,3)"))
	assert.Equal(t, "", parseColor("#12"))
}
