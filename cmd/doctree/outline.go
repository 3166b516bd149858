package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/tsawler/doctree/model"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the document tree",
	Long:  `Print the block structure of a document: headings with the content they own, lists, tables and pictures.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

// outlineWidth is the longest text preview, in characters.
var outlineWidth int

func init() {
	outlineCmd.Flags().IntVarP(&outlineWidth, "width", "w", 60, "maximum length of text previews (0 for no limit)")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	l, err := loader(args[0])
	if err != nil {
		return err
	}
	doc, err := l.Parse()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	printNode(w, newPalette(w), doc, doc.Root(), 0)
	return nil
}

func printNode(w io.Writer, p *palette, doc *model.Document, id model.NodeID, depth int) {
	n := doc.Node(id)
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), nodeLabel(p, doc, n))
	for _, c := range doc.Children(id) {
		if doc.Node(c).IsInline() {
			continue
		}
		printNode(w, p, doc, c, depth+1)
	}
}

func nodeLabel(p *palette, doc *model.Document, n *model.Node) string {
	var label string
	switch n.Type {
	case model.TypeDocument:
		label = "Document"
	case model.TypeHeading:
		label = p.heading.Sprintf("H%d", n.Level) + " " + preview(doc.OwnText(n.ID()))
	case model.TypeTable:
		t := n.Table()
		label = p.table.Sprintf("Table %dx%d", len(t.Rows), t.ColumnCount)
	case model.TypeTableCell:
		label = p.table.Sprint("Cell")
	case model.TypeList:
		kind := "bulleted"
		if l := n.List(); l != nil && l.Ordered {
			kind = "numbered"
		}
		label = "List (" + kind + ")"
	case model.TypeListItem:
		marker := "-"
		if l := n.List(); l != nil && l.Bullet != "" {
			marker = l.Bullet
		}
		label = marker + " " + preview(doc.OwnText(n.ID()))
	case model.TypeImage:
		label = "Image"
		if img := n.Image(); img != nil && img.AltText != "" {
			label += " " + p.faint.Sprintf("%q", preview(img.AltText))
		}
	default:
		label = preview(doc.OwnText(n.ID()))
	}
	if tag := n.Opaque(); tag != "" {
		label += " " + p.faint.Sprintf("<%s>", tag)
	}
	for _, cc := range n.ContentControls() {
		label += " " + p.control.Sprintf("[%s]", controlName(cc))
	}
	return label
}

func controlName(cc *model.ContentControlProperties) string {
	switch {
	case cc.Alias != "":
		return cc.Alias
	case cc.Tag != "":
		return cc.Tag
	default:
		return fmt.Sprintf("sdt %d", cc.ID)
	}
}

// preview quotes text, shortened to the outline width.
func preview(text string) string {
	if outlineWidth > 0 && utf8.RuneCountInString(text) > outlineWidth {
		text = string([]rune(text)[:outlineWidth]) + "…"
	}
	return fmt.Sprintf("%q", text)
}
