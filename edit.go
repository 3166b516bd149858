package doctree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/doctree/formatting"
	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/ocr"
)

// Warning is a non-fatal issue reported by a write.
type Warning = model.Warning

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// SetHTML replaces the inline content of a paragraph-like node with runs
// converted from an HTML fragment. The fragment is sanitized first; the
// formatting of the node's first run is the base of every new run.
//
// Example:
//
//	err := doctree.SetHTML(doc, id, "Total: <b>42</b>")
func SetHTML(doc *model.Document, id model.NodeID, fragment string) error {
	if doc.Node(id) == nil {
		return fmt.Errorf("node %d: %w", id, model.ErrNoNode)
	}
	var base *model.RunFormatting
	if runs := doc.Runs(id); len(runs) > 0 {
		base = runs[0].Format
	}
	runs, err := formatting.RunsFromHTML(fragment, base)
	if err != nil {
		return fmt.Errorf("node %d: %w", id, err)
	}
	return doc.ReplaceRuns(id, runs)
}

// Describer produces alternative text for an encoded picture.
type Describer interface {
	Describe(image []byte) (string, error)
}

// DescribeImages sets the alternative text of every picture that has none,
// using d. Pictures without an embedded payload are skipped. It returns the
// number of pictures described; failures on single pictures are joined into
// the error and do not stop the others.
func DescribeImages(doc *model.Document, d Describer) (int, error) {
	var (
		count int
		errs  []error
	)
	for _, id := range doc.Find(model.TypeImage) {
		img := doc.Node(id).Image()
		if img == nil || img.AltText != "" {
			continue
		}
		data := img.Data
		if len(data) == 0 {
			if m, ok := doc.Store().Media(img.RelID); ok && !m.External {
				data = m.Data
			}
		}
		if len(data) == 0 {
			continue
		}
		text, err := d.Describe(data)
		if errors.Is(err, ocr.ErrOCRNotEnabled) {
			return count, err
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("picture %s: %w", img.RelID, err))
			continue
		}
		if text = ocr.AltText(text); text != "" {
			img.AltText = text
			count++
		}
	}
	return count, errors.Join(errs...)
}
