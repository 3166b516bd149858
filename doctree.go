// Package doctree provides a fluent API for reading Word documents into a
// heading-aware tree, editing the tree, and writing it back while keeping
// every untouched part of the package byte for byte.
//
// Basic usage:
//
//	doc, err := doctree.Open("report.docx").Parse()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(doc.Outline())
//
//	warnings, err := doctree.WriteFile(doc, "report-edited.docx")
//	if len(warnings) > 0 {
//	    log.Println(doctree.FormatWarnings(warnings))
//	}
//
// With options:
//
//	l := doctree.Open("report.docx").Strict().HeadingStylePrefix("Titre")
//	doc, err := l.Parse()
//	...
//	data, warnings, err := l.Write(doc)
//
// The docx and model packages give lower-level access.
package doctree

import (
	"github.com/tsawler/doctree/config"
	"github.com/tsawler/doctree/docx"
	"github.com/tsawler/doctree/model"
)

// Open returns a Loader for the package at filename. Nothing is read until a
// terminal operation such as Parse.
//
// Example:
//
//	doc, err := doctree.Open("document.docx").Parse()
func Open(filename string) *Loader {
	return &Loader{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Loader for a package held in memory.
//
// Example:
//
//	doc, err := doctree.FromBytes(data).Parse()
func FromBytes(data []byte) *Loader {
	return &Loader{
		data:     data,
		inMemory: true,
		options:  defaultOptions(),
	}
}

// Write serializes doc with default options.
func Write(doc *model.Document) ([]byte, []Warning, error) {
	return docx.Write(doc, defaultOptions().docx())
}

// WriteFile writes doc to path with default options.
func WriteFile(doc *model.Document, path string) ([]Warning, error) {
	return docx.WriteFile(doc, path, defaultOptions().docx())
}

// FromConfig returns a Loader for filename configured from cfg.
func FromConfig(filename string, cfg *config.Config) *Loader {
	return Open(filename).Config(cfg)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := doctree.Must(doctree.Open("document.docx").Parse())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustWrite is like Must for Write results. Warnings are discarded.
//
// Example:
//
//	data := doctree.MustWrite(doctree.Write(doc))
func MustWrite[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
