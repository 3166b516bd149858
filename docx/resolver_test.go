package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/doctree/model"
)

func testResolver(t *testing.T) *StyleResolver {
	t.Helper()
	styles, err := parseStyles([]byte(testStyles))
	require.NoError(t, err)
	return NewStyleResolver(styles)
}

func TestStyleResolver_HeadingLevel(t *testing.T) {
	sr := testResolver(t)

	tests := []struct {
		style string
		want  int
	}{
		{"", 0},
		{"Normal", 0},
		{"Heading1", 1},
		{"heading2", 2},
		{"Heading3", 3},
		{"Heading7", 7}, // not defined, built-in id
		{"Title", 1},
		{"Subtitle", 2},
		{"Chapter", 1}, // basedOn Heading1
		{"ListParagraph", 0},
		{"Unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			got, err := sr.HeadingLevel(tt.style)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyleResolver_Resolve(t *testing.T) {
	sr := testResolver(t)
	assert.Equal(t, "Normal", sr.DefaultParagraphStyle())

	rs, err := sr.Resolve("Heading2")
	require.NoError(t, err)
	assert.Equal(t, "heading 2", rs.Name)
	assert.Equal(t, "paragraph", rs.Type)
	assert.True(t, rs.IsHeading())

	_, err = sr.Resolve("Heading12")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrHeadingLevel)
}

func TestStyleResolver_Cycle(t *testing.T) {
	styles, err := parseStyles([]byte(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:style w:type="paragraph" w:styleId="A"><w:name w:val="A"/><w:basedOn w:val="B"/></w:style>` +
		`<w:style w:type="paragraph" w:styleId="B"><w:name w:val="B"/><w:basedOn w:val="A"/></w:style></w:styles>`))
	require.NoError(t, err)
	level, err := NewStyleResolver(styles).HeadingLevel("A")
	require.NoError(t, err)
	assert.Equal(t, 0, level)
}

func TestOutlineToLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 1, false},
		{"8", 9, false},
		{"9", 0, false},
		{" 3 ", 4, false},
		{"10", 0, true},
		{"-1", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		got, err := outlineToLevel(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, model.ErrHeadingLevel, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParagraphLevel(t *testing.T) {
	sr := testResolver(t)

	level, err := sr.paragraphLevel(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, level)

	level, err = sr.paragraphLevel(&model.ParagraphFormatting{Style: "Heading1", OutlineLevel: model.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, 3, level, "direct outline level wins over the style")

	level, err = sr.paragraphLevel(&model.ParagraphFormatting{Style: "Heading1", OutlineLevel: model.Int(9)})
	require.NoError(t, err)
	assert.Equal(t, 0, level)
}

func TestNumberingResolver_ResolveLevel(t *testing.T) {
	numbering, err := parseNumbering([]byte(testNumbering))
	require.NoError(t, err)
	nr := NewNumberingResolver(numbering)

	typ, bullet, start := nr.ResolveLevel("1", 0)
	assert.Equal(t, ListTypeUnordered, typ)
	assert.Equal(t, "•", bullet)
	assert.Equal(t, 1, start)

	_, bullet, _ = nr.ResolveLevel("1", 1)
	assert.Equal(t, "o", bullet)

	typ, bullet, start = nr.ResolveLevel("2", 0)
	assert.Equal(t, ListTypeOrdered, typ)
	assert.Empty(t, bullet)
	assert.Equal(t, 1, start)

	_, _, start = nr.ResolveLevel("3", 0)
	assert.Equal(t, 5, start)

	typ, bullet, start = nr.ResolveLevel("99", 0)
	assert.Equal(t, ListTypeUnordered, typ)
	assert.Equal(t, "•", bullet)
	assert.Equal(t, 1, start)
}

func TestGetBulletChar(t *testing.T) {
	assert.Equal(t, "-", getBulletChar("-", 0))
	assert.Equal(t, "○", getBulletChar("", 1), "empty text falls back by level")
	assert.Equal(t, "•", getBulletChar("%1.", 0))
	assert.Equal(t, "•", getBulletChar("", 20))
}

func TestIsListParagraph(t *testing.T) {
	assert.False(t, isListParagraph(nil))
	assert.False(t, isListParagraph(&model.ParagraphFormatting{}))
	assert.False(t, isListParagraph(&model.ParagraphFormatting{Numbering: &model.Numbering{ID: "0"}}))
	assert.True(t, isListParagraph(&model.ParagraphFormatting{Numbering: &model.Numbering{ID: "4", Level: 1}}))
}

func TestTableMarkdown(t *testing.T) {
	doc := parseBody(t, mergedTable)
	tables := doc.Find(model.TypeTable)
	require.Len(t, tables, 2)

	want := "| wide |  | tall |\n" +
		"| --- | --- | --- |\n" +
		"| Cell heading under it | inner |  |\n"
	assert.Equal(t, want, TableMarkdown(doc, tables[0]))
	assert.Equal(t, "| inner |\n| --- |\n", TableMarkdown(doc, tables[1]))
	assert.Empty(t, TableMarkdown(doc, doc.Root()))
}
