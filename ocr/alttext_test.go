package ocr

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAltText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
		{"trimmed", "  Quarterly results \n", "Quarterly results"},
		{"collapsed", "Revenue\n\n  by\tregion", "Revenue by region"},
		{"control characters", "a\x00b\x07c", "abc"},
		{"form feed", "page one\fpage two", "page one page two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AltText(tt.in); got != tt.want {
				t.Errorf("AltText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAltTextTruncates(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := AltText(long)
	if n := utf8.RuneCountInString(got); n > MaxAltText {
		t.Errorf("AltText length = %d, want at most %d", n, MaxAltText)
	}
	if !strings.HasSuffix(got, "word…") {
		t.Errorf("AltText should cut at a word boundary, got %q", got[len(got)-20:])
	}
}

func TestSplitLanguages(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"eng", "eng"},
		{"eng+fra", "eng,fra"},
		{" deu + ", "deu"},
		{"", "eng"},
	}
	for _, tt := range tests {
		if got := strings.Join(splitLanguages(tt.in), ","); got != tt.want {
			t.Errorf("splitLanguages(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
