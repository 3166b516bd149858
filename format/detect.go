// Package format identifies the kind of an Office Open XML package.
package format

import (
	"path/filepath"
	"strings"
)

// Kind represents the kind of package.
type Kind int

const (
	// Unknown indicates an unrecognized package.
	Unknown Kind = iota
	// Document indicates a Word document (.docx).
	Document
	// Template indicates a Word template (.dotx).
	Template
	// MacroDocument indicates a macro-enabled Word document (.docm).
	MacroDocument
	// MacroTemplate indicates a macro-enabled Word template (.dotm).
	MacroTemplate
	// Spreadsheet indicates an Excel workbook (.xlsx).
	Spreadsheet
	// Presentation indicates a PowerPoint presentation (.pptx).
	Presentation
)

// Main part content types.
const (
	ContentTypeDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeTemplate      = "application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml"
	ContentTypeMacroDocument = "application/vnd.ms-word.document.macroEnabled.main+xml"
	ContentTypeMacroTemplate = "application/vnd.ms-word.template.macroEnabledTemplate.main+xml"
	ContentTypeSpreadsheet   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ContentTypePresentation  = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Document:
		return "Document"
	case Template:
		return "Template"
	case MacroDocument:
		return "MacroDocument"
	case MacroTemplate:
		return "MacroTemplate"
	case Spreadsheet:
		return "Spreadsheet"
	case Presentation:
		return "Presentation"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the kind.
func (k Kind) Extension() string {
	switch k {
	case Document:
		return ".docx"
	case Template:
		return ".dotx"
	case MacroDocument:
		return ".docm"
	case MacroTemplate:
		return ".dotm"
	case Spreadsheet:
		return ".xlsx"
	case Presentation:
		return ".pptx"
	default:
		return ""
	}
}

// ContentType returns the content type of the kind's main part.
func (k Kind) ContentType() string {
	switch k {
	case Document:
		return ContentTypeDocument
	case Template:
		return ContentTypeTemplate
	case MacroDocument:
		return ContentTypeMacroDocument
	case MacroTemplate:
		return ContentTypeMacroTemplate
	case Spreadsheet:
		return ContentTypeSpreadsheet
	case Presentation:
		return ContentTypePresentation
	default:
		return ""
	}
}

// IsWordprocessing reports whether the kind is one of the Word package kinds.
func (k Kind) IsWordprocessing() bool {
	switch k {
	case Document, Template, MacroDocument, MacroTemplate:
		return true
	}
	return false
}

// Detect determines the package kind from a filename extension.
func Detect(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return Document
	case ".dotx":
		return Template
	case ".docm":
		return MacroDocument
	case ".dotm":
		return MacroTemplate
	case ".xlsx":
		return Spreadsheet
	case ".pptx":
		return Presentation
	default:
		return Unknown
	}
}

// FromContentType determines the package kind from the content type of its
// main part. Parameters after a semicolon are ignored.
func FromContentType(contentType string) Kind {
	ct, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(ct)) {
	case strings.ToLower(ContentTypeDocument):
		return Document
	case strings.ToLower(ContentTypeTemplate):
		return Template
	case strings.ToLower(ContentTypeMacroDocument):
		return MacroDocument
	case strings.ToLower(ContentTypeMacroTemplate):
		return MacroTemplate
	case strings.ToLower(ContentTypeSpreadsheet):
		return Spreadsheet
	case strings.ToLower(ContentTypePresentation):
		return Presentation
	default:
		return Unknown
	}
}

// IsZip checks the magic bytes of data for a zip archive.
func IsZip(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04
}
