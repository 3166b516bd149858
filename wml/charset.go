package wml

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"golang.org/x/net/html/charset"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	declEncoding = regexp.MustCompile(`^<\?xml[^>]*?encoding\s*=\s*["']([A-Za-z0-9._-]+)["']`)
)

// Normalize returns data as UTF-8 without a byte order mark. Parts that are
// already UTF-8 are returned unchanged, so their bytes stay identical.
// Other encodings are transcoded and the XML declaration rewritten to say so.
func Normalize(data []byte) ([]byte, error) {
	label := ""
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16LE):
		label = "utf-16le"
		data = data[len(bomUTF16LE):]
	case bytes.HasPrefix(data, bomUTF16BE):
		label = "utf-16be"
		data = data[len(bomUTF16BE):]
	default:
		m := declEncoding.FindSubmatch(data)
		if m == nil {
			return data, nil
		}
		label = string(bytes.ToLower(m[1]))
		if label == "utf-8" || label == "utf8" {
			return data, nil
		}
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", label, err)
	}
	out = bytes.TrimPrefix(out, bomUTF8)

	if loc := declEncoding.FindSubmatchIndex(out); loc != nil {
		var b bytes.Buffer
		b.Write(out[:loc[2]])
		b.WriteString("UTF-8")
		b.Write(out[loc[3]:])
		out = b.Bytes()
	}
	return out, nil
}
