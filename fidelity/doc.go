// Package fidelity keeps the parts of a WordprocessingML package that the
// document tree does not model, so they are written back byte for byte.
//
// A [Store] indexes the package by role: style sheet, theme, numbering,
// settings, notes, headers and footers, custom XML, glossary, property parts,
// media and hyperlink targets. Edits go through dedicated methods such as
// [Store.SetCoreProperty] or [Store.AddMedia], which touch only the bytes
// they must.
package fidelity
