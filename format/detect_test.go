package format

import (
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Document, "Document"},
		{Template, "Template"},
		{MacroDocument, "MacroDocument"},
		{MacroTemplate, "MacroTemplate"},
		{Spreadsheet, "Spreadsheet"},
		{Presentation, "Presentation"},
		{Unknown, "Unknown"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKind_Extension(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Document, ".docx"},
		{Template, ".dotx"},
		{MacroDocument, ".docm"},
		{MacroTemplate, ".dotm"},
		{Spreadsheet, ".xlsx"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.kind.Extension(); got != tt.want {
			t.Errorf("Kind(%d).Extension() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Kind
	}{
		{"report.docx", Document},
		{"report.DOCX", Document},
		{"letter.dotx", Template},
		{"macros.docm", MacroDocument},
		{"macros.Dotm", MacroTemplate},
		{"book.xlsx", Spreadsheet},
		{"deck.pptx", Presentation},
		{"notes.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/file.docx", Document},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        Kind
	}{
		{ContentTypeDocument, Document},
		{ContentTypeTemplate, Template},
		{ContentTypeMacroDocument, MacroDocument},
		{"application/vnd.ms-word.template.macroenabledtemplate.main+xml", MacroTemplate},
		{ContentTypeSpreadsheet, Spreadsheet},
		{ContentTypeDocument + "; charset=utf-8", Document},
		{"application/xml", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := FromContentType(tt.contentType); got != tt.want {
			t.Errorf("FromContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestIsWordprocessing(t *testing.T) {
	for _, k := range []Kind{Document, Template, MacroDocument, MacroTemplate} {
		if !k.IsWordprocessing() {
			t.Errorf("%v.IsWordprocessing() = false, want true", k)
		}
		if FromContentType(k.ContentType()) != k {
			t.Errorf("FromContentType(%v.ContentType()) did not round trip", k)
		}
	}
	for _, k := range []Kind{Unknown, Spreadsheet, Presentation} {
		if k.IsWordprocessing() {
			t.Errorf("%v.IsWordprocessing() = true, want false", k)
		}
	}
}

func TestIsZip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x14}, true},
		{"pdf", []byte("%PDF-1.7"), false},
		{"short", []byte{0x50, 0x4B}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsZip(tt.data); got != tt.want {
				t.Errorf("IsZip() = %v, want %v", got, tt.want)
			}
		})
	}
}
