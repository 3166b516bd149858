package ocr

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// MaxAltText is the longest alternative text AltText returns, in runes.
const MaxAltText = 250

// AltText turns recognized text into a single line of alternative text.
// Runs of whitespace collapse to one space and control characters are
// dropped. Text longer than MaxAltText is cut at a word boundary and ends
// with an ellipsis.
func AltText(recognized string) string {
	var b strings.Builder
	space := false
	for _, r := range recognized {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		case unicode.IsControl(r) || r == utf8.RuneError:
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	s := b.String()
	if utf8.RuneCountInString(s) <= MaxAltText {
		return s
	}
	runes := []rune(s)[:MaxAltText-1]
	if i := lastSpace(runes); i > 0 {
		runes = runes[:i]
	}
	return string(runes) + "…"
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

func splitLanguages(lang string) []string {
	var out []string
	for _, l := range strings.Split(lang, "+") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		out = []string{"eng"}
	}
	return out
}
