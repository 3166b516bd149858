package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/tsawler/doctree"
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <file>",
	Short: "Parse and rewrite a document without edits",
	Long: `Parse a document, write it back without edits and parse the result again.
The command fails when the two trees differ or when any part other than
the main document part changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoundTrip,
}

// errRoundTrip signals a lossy round trip after the report was printed.
var errRoundTrip = errors.New("round trip changed the document")

var (
	roundtripDiff   bool
	roundtripOutput string
)

// diffContext is how much unchanged text is shown on each side of a change.
const diffContext = 40

func init() {
	roundtripCmd.Flags().BoolVarP(&roundtripDiff, "diff", "d", false, "show a character diff of the main part")
	roundtripCmd.Flags().StringVarP(&roundtripOutput, "output", "o", "", "also write the rewritten package to this file")
	rootCmd.AddCommand(roundtripCmd)
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	l, err := loader(args[0])
	if err != nil {
		return err
	}
	doc, err := l.Parse()
	if err != nil {
		return err
	}
	data, warnings, err := l.Write(doc)
	if len(warnings) > 0 {
		cmd.PrintErrln(doctree.FormatWarnings(warnings))
	}
	if err != nil {
		return err
	}
	again, err := doctree.FromBytes(data).MaxSize(0).Parse()
	if err != nil {
		return fmt.Errorf("rewritten package does not parse: %w", err)
	}
	if roundtripOutput != "" {
		if err := os.WriteFile(roundtripOutput, data, 0o644); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	p := newPalette(w)
	before, _ := doc.Store().Part(doc.Store().MainPart())
	after, _ := again.Store().Part(again.Store().MainPart())
	sameTree := doc.Fingerprint() == again.Fingerprint()
	parts := doc.Store().Diff(again.Store())

	switch {
	case sameTree:
		fmt.Fprintf(w, "tree: %s\n", p.added.Sprint("identical"))
	default:
		fmt.Fprintf(w, "tree: %s\n", p.removed.Sprint("changed"))
	}
	if bytes.Equal(before, after) {
		fmt.Fprintf(w, "%s: byte-identical\n", doc.Store().MainPart())
	} else {
		fmt.Fprintf(w, "%s: %d -> %d bytes\n", doc.Store().MainPart(), len(before), len(after))
	}
	for _, name := range parts {
		fmt.Fprintf(w, "%s %s\n", p.removed.Sprint("changed part:"), name)
	}
	if roundtripDiff && !bytes.Equal(before, after) {
		printDiff(w, p, string(before), string(after))
	}

	if !sameTree || len(parts) > 0 {
		return errRoundTrip
	}
	return nil
}

// printDiff writes a character diff with insertions as {+text+} and
// deletions as [-text-]. Long unchanged stretches are elided.
func printDiff(w io.Writer, p *palette, from, to string) {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))
	for i, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			fmt.Fprint(w, p.added.Sprint("{+"+d.Text+"+}"))
		case diffpatch.DiffDelete:
			fmt.Fprint(w, p.removed.Sprint("[-"+d.Text+"-]"))
		case diffpatch.DiffEqual:
			fmt.Fprint(w, elide(d.Text, i > 0, i < len(diffs)-1))
		}
	}
	fmt.Fprintln(w)
}

// elide shortens unchanged text, keeping diffContext bytes next to the
// changes before and after it.
func elide(text string, before, after bool) string {
	keep := 0
	if before {
		keep += diffContext
	}
	if after {
		keep += diffContext
	}
	if len(text) <= keep+3 {
		return text
	}
	var head, tail string
	if before {
		head = text[:diffContext]
	}
	if after {
		tail = text[len(text)-diffContext:]
	}
	return head + "…" + tail
}
