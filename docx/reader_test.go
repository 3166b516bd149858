package docx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/doctree/model"
)

func heading(style, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func TestParseFile(t *testing.T) {
	path := createTestDOCX(t, para("Hello")+para("World"))

	doc, err := ParseFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", doc.Text(doc.Root()))
	assert.NoError(t, doc.Validate())
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile("/nonexistent/file.docx", DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestParse_Errors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		_, err := ParseBytes([]byte("not a zip file"), DefaultOptions())
		require.Error(t, err)
		assert.True(t, IsParseError(err))
	})

	t.Run("spreadsheet", func(t *testing.T) {
		data := buildDOCX(t, testPackage{
			body:     para("x"),
			mainType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml",
		})
		_, err := ParseBytes(data, DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotWordprocessing))
	})

	t.Run("no body", func(t *testing.T) {
		data := buildDOCX(t, testPackage{
			document: `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:document>`,
		})
		_, err := ParseBytes(data, DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoBody))
	})

	t.Run("broken styles", func(t *testing.T) {
		data := buildDOCX(t, testPackage{body: para("x"), styles: `<w:styles`})
		_, err := ParseBytes(data, DefaultOptions())
		require.Error(t, err)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "word/styles.xml", pe.Part)
	})
}

func TestParse_HeadingHierarchy(t *testing.T) {
	doc := parseBody(t,
		heading("Heading1", "Intro")+
			para("a")+
			heading("Heading3", "Deep")+
			para("b")+
			heading("Heading2", "Two")+
			para("c")+
			heading("Chapter", "End"))

	want := `Document
  Heading 1 "Intro"
    Paragraph "a"
    Heading 3 "Deep"
      Paragraph "b"
    Heading 2 "Two"
      Paragraph "c"
  Heading 1 "End"
`
	assert.Equal(t, want, doc.Outline())
	assert.NoError(t, doc.Validate())
}

func TestParse_HeadingSources(t *testing.T) {
	tests := []struct {
		name  string
		pPr   string
		want  model.ContentType
		level int
	}{
		{"direct outline level", `<w:outlineLvl w:val="1"/>`, model.TypeHeading, 2},
		{"title", `<w:pStyle w:val="Title"/>`, model.TypeHeading, 1},
		{"undefined built-in id", `<w:pStyle w:val="heading4"/>`, model.TypeHeading, 4},
		{"inherited", `<w:pStyle w:val="Chapter"/>`, model.TypeHeading, 1},
		{"body outline overrides style", `<w:pStyle w:val="Heading1"/><w:outlineLvl w:val="9"/>`, model.TypeParagraph, 0},
		{"plain style", `<w:pStyle w:val="ListParagraph"/>`, model.TypeParagraph, 0},
		{"no properties", ``, model.TypeParagraph, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseBody(t, `<w:p><w:pPr>`+tt.pPr+`</w:pPr><w:r><w:t>x</w:t></w:r></w:p>`)
			n := doc.Node(doc.Children(doc.Root())[0])
			assert.Equal(t, tt.want, n.Type)
			assert.Equal(t, tt.level, n.Level)
		})
	}
}

func TestParse_InvalidHeadingLevel(t *testing.T) {
	for _, pPr := range []string{
		`<w:outlineLvl w:val="12"/>`,
		`<w:pStyle w:val="Heading10"/>`,
	} {
		_, err := ParseBytes(buildDOCX(t, testPackage{body: `<w:p><w:pPr>` + pPr + `</w:pPr></w:p>`}), DefaultOptions())
		require.Error(t, err, pPr)
		assert.True(t, IsParseError(err))
		assert.True(t, errors.Is(err, model.ErrHeadingLevel))
	}
}

func TestParse_Lists(t *testing.T) {
	item := func(numID, ilvl, text string) string {
		return `<w:p><w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="` + ilvl + `"/><w:numId w:val="` + numID + `"/></w:numPr></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
	}
	doc := parseBody(t,
		item("1", "0", "a")+
			item("1", "1", "b")+
			item("2", "0", "one")+
			item("2", "0", "two")+
			para("between")+
			item("3", "0", "five"))

	lists := doc.Find(model.TypeList)
	require.Len(t, lists, 3)

	bullets := doc.Node(lists[0])
	assert.False(t, bullets.List().Ordered)
	assert.Len(t, bullets.Children(), 2)
	assert.Equal(t, "• a\n  o b", ListText(doc, lists[0]))

	numbered := doc.Node(lists[1])
	assert.True(t, numbered.List().Ordered)
	assert.Equal(t, "1. one\n2. two", ListText(doc, lists[1]))

	assert.Equal(t, 5, doc.Node(lists[2]).List().Start)
	assert.Equal(t, "5. five", ListText(doc, lists[2]))

	second := doc.Node(bullets.Children()[1])
	assert.Equal(t, model.TypeListItem, second.Type)
	assert.Equal(t, 1, second.List().Level)
	assert.NoError(t, doc.Validate())
}

func TestParse_ListNumberingRemoved(t *testing.T) {
	doc := parseBody(t, `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="0"/></w:numPr></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`)
	assert.Empty(t, doc.Find(model.TypeList))
	assert.Len(t, doc.Find(model.TypeParagraph), 1)
}

func TestParse_Images(t *testing.T) {
	doc := parseBody(t,
		`<w:p>`+testDrawing+`</w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">see </w:t></w:r>`+testDrawing+`</w:p>`)

	top := doc.Children(doc.Root())
	require.Len(t, top, 2)

	block := doc.Node(top[0])
	assert.Equal(t, model.TypeImage, block.Type)
	assert.False(t, block.Inline)
	img := block.Image()
	require.NotNil(t, img)
	assert.Equal(t, "rId3", img.RelID)
	assert.Equal(t, "A tiny picture", img.AltText)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int64(38100), img.Width)
	assert.Equal(t, 4, img.PixelWidth)
	assert.Equal(t, 2, img.PixelHeight)
	assert.Equal(t, model.PixelsToEMU(4, model.DefaultImageDPI), img.NaturalWidth)

	p := doc.Node(top[1])
	assert.Equal(t, model.TypeParagraph, p.Type)
	kids := p.Children()
	require.Len(t, kids, 2)
	assert.True(t, doc.Node(kids[1]).Inline)
	assert.Equal(t, "see ", doc.OwnText(top[1]))

	assert.Equal(t, 8, doc.NextDrawingID())
}

func TestParse_Hyperlink(t *testing.T) {
	doc := parseBody(t, `<w:p><w:r><w:t xml:space="preserve">Visit </w:t></w:r><w:hyperlink r:id="rId4" w:history="1"><w:r><w:rPr><w:rStyle w:val="Hyperlink"/></w:rPr><w:t>our site</w:t></w:r></w:hyperlink></w:p>`)

	link := firstOf(t, doc, model.TypeHyperlinkText)
	h := link.Hyperlink()
	require.NotNil(t, h)
	assert.Equal(t, "rId4", h.RelID)
	assert.True(t, h.History)
	assert.Equal(t, "Hyperlink", link.Runs[0].Format.Style)

	target, ok := doc.Store().Hyperlink(h.RelID)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/", target.URL)
	assert.Equal(t, "Visit our site", doc.Text(doc.Root()))
}

func TestParse_OpaqueElements(t *testing.T) {
	doc := parseBody(t,
		`<w:bookmarkStart w:id="0" w:name="top"/>`+
			`<w:p><w:proofErr w:type="spellStart"/><w:r><w:t>Helo</w:t></w:r><w:proofErr w:type="spellEnd"/></w:p>`+
			`<w:bookmarkEnd w:id="0"/>`)

	top := doc.Children(doc.Root())
	require.Len(t, top, 3)
	assert.Equal(t, "w:bookmarkStart", doc.Node(top[0]).Opaque())
	assert.Equal(t, "w:bookmarkEnd", doc.Node(top[2]).Opaque())

	p := doc.Node(top[1])
	kids := p.Children()
	require.Len(t, kids, 3)
	assert.Equal(t, "w:proofErr", doc.Node(kids[0]).Opaque())
	assert.Equal(t, "Helo", doc.OwnText(top[1]))

	assert.ErrorIs(t, doc.SetText(top[0], "x"), model.ErrOpaque)
}

const dropdownParagraph = `<w:p><w:r><w:t xml:space="preserve">Pick: </w:t></w:r><w:sdt><w:sdtPr><w:alias w:val="Color"/><w:tag w:val="color"/><w:id w:val="42"/><w:dropDownList><w:listItem w:displayText="Red" w:value="R"/><w:listItem w:displayText="Green" w:value="G"/></w:dropDownList></w:sdtPr><w:sdtContent><w:r><w:t>Red</w:t></w:r></w:sdtContent></w:sdt></w:p>`

const blockControl = `<w:sdt><w:sdtPr><w:alias w:val="Terms"/><w:id w:val="7"/><w:text w:multiLine="1"/></w:sdtPr><w:sdtContent>` +
	`<w:p><w:r><w:t>First term</w:t></w:r></w:p><w:p><w:r><w:t>Second term</w:t></w:r></w:p></w:sdtContent></w:sdt>`

func TestParse_ContentControls(t *testing.T) {
	doc := parseBody(t, blockControl+dropdownParagraph)

	controls := doc.Controls()
	require.Len(t, controls, 2)

	terms := doc.FindControl("Terms")
	require.NotNil(t, terms)
	assert.Equal(t, model.ControlPlainText, terms.Kind)
	assert.True(t, terms.MultiLine)
	assert.Equal(t, "First term\nSecond term", terms.Value)
	targets := doc.ControlTargets(terms)
	require.Len(t, targets.Blocks, 2)
	assert.Same(t, doc.Node(targets.Blocks[0]).ContentControls()[0], doc.Node(targets.Blocks[1]).ContentControls()[0])

	color := doc.FindControl("color")
	require.NotNil(t, color)
	assert.Equal(t, model.ControlDropDown, color.Kind)
	assert.Equal(t, "R", color.Value)
	require.Len(t, color.Items, 2)
	assert.Equal(t, "Green", color.Items[1].Label())
	assert.Len(t, doc.ControlTargets(color).Inline, 1)

	assert.Greater(t, doc.NextControlID(), 42)
}

const mergedTable = `<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid><w:gridCol w:w="3000"/><w:gridCol w:w="3000"/><w:gridCol w:w="3000"/></w:tblGrid>` +
	`<w:tr><w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>wide</w:t></w:r></w:p></w:tc><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>tall</w:t></w:r></w:p></w:tc></w:tr>` +
	`<w:tr><w:tc><w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Cell heading</w:t></w:r></w:p><w:p><w:r><w:t>under it</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:tbl><w:tblGrid><w:gridCol w:w="1000"/></w:tblGrid><w:tr><w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc></w:tr></w:tbl><w:p/></w:tc>` +
	`<w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc></w:tr></w:tbl>`

func TestParse_Tables(t *testing.T) {
	doc := parseBody(t, heading("Heading1", "Data")+mergedTable)

	tables := doc.Find(model.TypeTable)
	require.Len(t, tables, 2)
	outer := doc.Node(tables[0])
	assert.Equal(t, model.TypeHeading, doc.Node(outer.Parent()).Type)

	grid := outer.Table()
	require.NotNil(t, grid)
	assert.Equal(t, 3, grid.ColumnCount)
	assert.Equal(t, []int{3000, 3000, 3000}, grid.Grid)
	require.Len(t, grid.Rows, 2)

	wide := grid.Rows[0].Cells[0]
	assert.Equal(t, 2, wide.ColSpan)
	tall := grid.Rows[0].Cells[1]
	assert.Equal(t, 2, tall.Col)
	assert.Equal(t, 2, tall.RowSpan)
	cont := grid.Rows[1].Cells[2]
	assert.Equal(t, model.VMergeContinue, cont.VMerge)
	assert.Equal(t, 0, cont.RowSpan)
	assert.Same(t, tall, grid.Cell(0, 2))
	assert.Same(t, cont, grid.Cell(1, 2))

	headingCell := doc.Node(grid.Rows[1].Cells[0].Node)
	assert.Equal(t, model.TypeTableCell, headingCell.Type)
	kids := headingCell.Children()
	require.Len(t, kids, 1)
	h := doc.Node(kids[0])
	assert.Equal(t, model.TypeHeading, h.Type)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Cell heading\nunder it", doc.Text(h.ID()))

	inner := doc.Node(tables[1])
	assert.Equal(t, grid.Rows[1].Cells[1].Node, inner.Parent())

	assert.Equal(t, "wide\ttall\nCell heading under it\tinner \t", TableText(doc, tables[0]))
	assert.NoError(t, doc.Validate())
}
