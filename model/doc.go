// Package model is the editable tree of a WordprocessingML document.
//
// A [Document] owns an arena of [Node] values addressed by [NodeID]. The
// root is the only Document node and the only holder of the package's
// fidelity store. Headings own the content that follows them up to the next
// heading of the same or a shallower level:
//
//	Document
//	  Heading 1 "Introduction"
//	    Paragraph "..."
//	    Heading 3 "Details"
//	      Table 2x2
//	        TableCell
//	          Paragraph "..."
//
// Paragraph-like nodes (Paragraph, Heading, ListItem and block Image) hold
// their inline content as children: TextRun, HyperlinkText and inline Image
// nodes, always before any nested blocks.
//
// # Formatting
//
// Formatting records keep the package's native units: half-points for font
// sizes, twips for spacing and indents, EMU for drawing geometry. Helpers
// such as [TwipsToPoints] derive display units.
//
// # Fidelity
//
// Every parsed element keeps its verbatim bytes in a [Markup]. Children the
// typed fields do not cover are kept as [Fragment] values and the markup is
// marked [Partial]. [Document.CaptureBaseline] seals each element with a
// content hash; writers compare against it and re-emit untouched elements
// byte for byte.
//
// # Editing
//
// The tree changes only through the Document's methods, which keep the
// heading order intact:
//
//	p, _ := doc.NewNode(model.TypeParagraph)
//	_ = doc.AppendChild(heading, p)
//	_ = doc.SetText(p, "Hello")
package model
