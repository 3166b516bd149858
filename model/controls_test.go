package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wrapRuns puts cc around every run of the inline children of p.
func wrapRuns(t *testing.T, d *Document, p NodeID, cc *ContentControlProperties) {
	t.Helper()
	for _, id := range d.Children(p) {
		require.NoError(t, d.SetContentControl(id, cc))
	}
}

func TestSetContentControl(t *testing.T) {
	d := NewDocument(nil)
	p := addParagraph(t, d, d.Root(), "wrapped")

	cc := &ContentControlProperties{Kind: ControlRichText, Tag: "block"}
	require.NoError(t, d.SetContentControl(p, cc))
	assert.Equal(t, 1, cc.ID, "zero ids are allocated")
	require.NoError(t, d.SetContentControl(p, cc))
	assert.Len(t, d.Node(p).ContentControls(), 1, "wrapping twice is a no-op")

	inner := &ContentControlProperties{Kind: ControlPlainText, ID: 30, Alias: "Inner"}
	wrapRuns(t, d, p, inner)
	assert.Equal(t, 31, d.NextControlID())

	assert.Equal(t, []*ContentControlProperties{cc, inner}, d.Controls())
	assert.Same(t, cc, d.FindControl("block"))
	assert.Same(t, inner, d.FindControl("Inner"))
	assert.Nil(t, d.FindControl("missing"))

	targets := d.ControlTargets(cc)
	assert.Equal(t, []NodeID{p}, targets.Blocks)
	assert.Len(t, d.ControlTargets(inner).Inline, 1)

	assert.ErrorIs(t, d.SetContentControl(d.Root(), cc), ErrPlacement)

	require.NoError(t, d.ClearContentControl(p, cc))
	assert.Empty(t, d.Node(p).ContentControls())
	assert.True(t, d.ControlTargets(cc).Empty())
}

func TestSetContentControl_TableCell(t *testing.T) {
	d := NewDocument(nil)
	table, err := d.NewTable(d.Root(), 2, 2)
	require.NoError(t, err)
	cell, _ := d.CellNode(table, 1, 0)

	cc := &ContentControlProperties{Kind: ControlPlainText, Tag: "cell"}
	require.NoError(t, d.SetContentControl(cell, cc))
	assert.Equal(t, []NodeID{cell}, d.ControlTargets(cc).Cells)

	require.NoError(t, d.SetContentControlValue(cc, "filled"))
	assert.Equal(t, "filled", d.Text(cell))
	assert.Equal(t, "filled", cc.Value)
}

func TestSetContentControlValue_Kinds(t *testing.T) {
	t.Run("drop-down", func(t *testing.T) {
		d := NewDocument(nil)
		p := addParagraph(t, d, d.Root(), "Red")
		cc := &ContentControlProperties{Kind: ControlDropDown, Value: "R", Items: []ListChoice{
			{DisplayText: "Red", Value: "R"},
			{DisplayText: "Green", Value: "G"},
		}}
		wrapRuns(t, d, p, cc)

		require.NoError(t, d.SetContentControlValue(cc, "Green"))
		assert.Equal(t, "G", cc.Value)
		assert.Equal(t, "Green", d.Text(p))

		assert.ErrorIs(t, d.SetContentControlValue(cc, "Blue"), ErrControlValue)
		assert.Equal(t, "G", cc.Value)
	})

	t.Run("combo box accepts free text", func(t *testing.T) {
		d := NewDocument(nil)
		p := addParagraph(t, d, d.Root(), "x")
		cc := &ContentControlProperties{Kind: ControlComboBox, Items: []ListChoice{{Value: "One"}}}
		wrapRuns(t, d, p, cc)

		require.NoError(t, d.SetContentControlValue(cc, "Two"))
		assert.Equal(t, "Two", cc.Value)
		assert.Equal(t, "Two", d.Text(p))
	})

	t.Run("checkbox", func(t *testing.T) {
		d := NewDocument(nil)
		p := addParagraph(t, d, d.Root(), "☐")
		cc := &ContentControlProperties{Kind: ControlCheckbox, CheckedGlyph: "2612", UncheckedGlyph: "2610", Value: "false"}
		wrapRuns(t, d, p, cc)

		require.NoError(t, d.SetContentControlValue(cc, "true"))
		assert.True(t, cc.Checked)
		assert.Equal(t, "true", cc.Value)
		assert.Equal(t, "☒", d.Text(p))

		assert.ErrorIs(t, d.SetContentControlValue(cc, "maybe"), ErrControlValue)
	})

	t.Run("date", func(t *testing.T) {
		d := NewDocument(nil)
		p := addParagraph(t, d, d.Root(), "Pick a date")
		cc := &ContentControlProperties{Kind: ControlDate, DateFormat: "dddd, MMMM d, yyyy", ShowingPlaceholder: true}
		wrapRuns(t, d, p, cc)

		require.NoError(t, d.SetContentControlValue(cc, "2024-03-05"))
		assert.Equal(t, "2024-03-05T00:00:00Z", cc.FullDate)
		assert.Equal(t, "Tuesday, March 5, 2024", d.Text(p))
		assert.False(t, cc.ShowingPlaceholder)

		assert.ErrorIs(t, d.SetContentControlValue(cc, "yesterday"), ErrControlValue)
	})

	t.Run("placeholder style is cleared", func(t *testing.T) {
		d := NewDocument(nil)
		p := addParagraph(t, d, d.Root(), "Click here")
		d.Runs(p)[0].Format = &RunFormatting{Style: "PlaceholderText", Italic: On}
		cc := &ContentControlProperties{Kind: ControlPlainText, ShowingPlaceholder: true}
		wrapRuns(t, d, p, cc)

		require.NoError(t, d.SetContentControlValue(cc, "typed"))
		runs := d.Runs(p)
		require.Len(t, runs, 1)
		assert.Empty(t, runs[0].Format.Style)
		assert.Equal(t, On, runs[0].Format.Italic)
	})

	t.Run("picture holds no text", func(t *testing.T) {
		d := NewDocument(nil)
		p := addParagraph(t, d, d.Root(), "x")
		cc := &ContentControlProperties{Kind: ControlPicture}
		wrapRuns(t, d, p, cc)
		assert.ErrorIs(t, d.SetContentControlValue(cc, "y"), ErrControlValue)
	})

	t.Run("unattached control", func(t *testing.T) {
		d := NewDocument(nil)
		cc := &ContentControlProperties{Kind: ControlPlainText}
		assert.ErrorIs(t, d.SetContentControlValue(cc, "y"), ErrNoControl)
	})
}

func TestSetContentControlValue_Blocks(t *testing.T) {
	d := NewDocument(nil)
	first := addParagraph(t, d, d.Root(), "First term")
	second := addParagraph(t, d, d.Root(), "Second term")
	after := addParagraph(t, d, d.Root(), "after")

	cc := &ContentControlProperties{Kind: ControlRichText, Alias: "Terms"}
	require.NoError(t, d.SetContentControl(first, cc))
	require.NoError(t, d.SetContentControl(second, cc))

	require.NoError(t, d.SetContentControlValue(cc, "Only term"))
	assert.Nil(t, d.Node(second), "extra paragraphs are removed")
	assert.Equal(t, "Only term\nafter", d.Text(d.Root()))
	assert.Equal(t, []NodeID{first}, d.ControlTargets(cc).Blocks)
	assert.NotNil(t, d.Node(after))
}

func TestControlText(t *testing.T) {
	d := NewDocument(nil)
	first := addParagraph(t, d, d.Root(), "First term")
	second := addParagraph(t, d, d.Root(), "Second term")
	cc := &ContentControlProperties{Kind: ControlPlainText, Alias: "Terms", Value: "First term\nSecond term"}
	require.NoError(t, d.SetContentControl(first, cc))
	require.NoError(t, d.SetContentControl(second, cc))
	assert.Equal(t, "First term\nSecond term", d.ControlText(cc))

	require.NoError(t, d.SetText(second, "Last term"))
	assert.Equal(t, "First term\nLast term", d.ControlText(cc))
	assert.Equal(t, "First term\nSecond term", cc.Value, "direct edits leave Value alone")

	p := addParagraph(t, d, d.Root(), "Pick: Red")
	inline := &ContentControlProperties{Kind: ControlRichText, Tag: "pick"}
	wrapRuns(t, d, p, inline)
	assert.Equal(t, "Pick: Red", d.ControlText(inline))

	assert.Empty(t, d.ControlText(&ContentControlProperties{}))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	tests := []struct {
		pattern string
		want    string
	}{
		{"", "3/5/2024"},
		{"M/d/yyyy", "3/5/2024"},
		{"dd.MM.yy", "05.03.24"},
		{"dddd, MMMM d, yyyy", "Tuesday, March 5, 2024"},
		{"ddd MMM d", "Tue Mar 5"},
		{"yyyy-MM-dd HH:mm:ss", "2024-03-05 14:07:09"},
		{"h:mm AM/PM", "2:07 PM"},
		{"'Day' d", "Day 5"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(ts, tt.pattern))
		})
	}
}

func TestControlKind(t *testing.T) {
	assert.True(t, ControlDropDown.HasChoices())
	assert.True(t, ControlComboBox.HasChoices())
	assert.False(t, ControlPlainText.HasChoices())
	assert.Equal(t, "dropDownList", ControlDropDown.String())
	assert.Equal(t, "unknown", ControlKind(99).String())

	cc := &ContentControlProperties{Items: []ListChoice{{DisplayText: "Red", Value: "R"}, {Value: "B"}}}
	c, ok := cc.Choice("Red")
	require.True(t, ok)
	assert.Equal(t, "R", c.Value)
	c, ok = cc.Choice("B")
	require.True(t, ok)
	assert.Equal(t, "B", c.Label())
	_, ok = cc.Choice("Z")
	assert.False(t, ok)

	box := &ContentControlProperties{Kind: ControlCheckbox}
	assert.Equal(t, "☐", box.Glyph())
	box.Checked = true
	assert.Equal(t, "☒", box.Glyph())
	box.CheckedGlyph = "2714"
	assert.Equal(t, "✔", box.Glyph())
}
