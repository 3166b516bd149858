// Package wml provides a low-level element tree for the XML parts of a
// WordprocessingML package.
//
// Unlike encoding/xml struct decoding, the tree keeps everything needed to
// re-emit a fragment byte for byte: the prefix each element was written with,
// its resolved namespace, the verbatim bytes of its start tag and of the whole
// element, and the byte offsets of its content inside the source part.
//
// Higher layers use the tree to read properties and keep the [Element.Raw]
// slice of anything they do not model, so untouched markup can be written back
// unchanged.
//
// # Writing
//
// The package also carries the small set of helpers used to regenerate
// markup: [Open], [Empty], [Close] and [Text] write tags and escaped character
// data into a bytes.Buffer using the conventional prefixes declared in
// [Prefixes].
package wml
