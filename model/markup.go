package model

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// MarkupKind tells whether typed fields describe an element completely.
type MarkupKind int

const (
	// Modeled means everything in the element can be regenerated from the
	// typed fields.
	Modeled MarkupKind = iota
	// Partial means the element had children the typed fields do not cover;
	// they are kept in Extra and merged back on regeneration.
	Partial
)

func (k MarkupKind) String() string {
	if k == Partial {
		return "partial"
	}
	return "modeled"
}

// Fragment is an unmodeled child element kept verbatim.
type Fragment struct {
	Name     string // qualified name as written, e.g. "w:pBdr"
	Position int    // index among the original children, or the owner's own anchor
	Raw      []byte
}

// Markup is the verbatim side of a parsed element. Values created after
// parsing have no Raw bytes and are always regenerated.
type Markup struct {
	Kind MarkupKind
	// Raw is the element exactly as it appeared in its part.
	Raw []byte
	// Attrs is the attribute text of the start tag, reused on regeneration.
	Attrs string
	// Extra holds unmodeled children in original order.
	Extra []Fragment
	// Hash is the content hash of the typed fields at parse time.
	Hash string
}

// HasSource reports whether the markup came from a parsed part.
func (m *Markup) HasSource() bool { return len(m.Raw) > 0 }

// AddExtra records an unmodeled child and marks the markup partial.
func (m *Markup) AddExtra(name string, position int, raw []byte) {
	m.Kind = Partial
	m.Extra = append(m.Extra, Fragment{Name: name, Position: position, Raw: raw})
}

// Hash returns the BLAKE2b-256 digest of v's JSON encoding in hex. Markup
// fields are excluded from the encoding, so the digest covers typed fields
// only.
func Hash(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Seal records the current hash of v in m. Markup without source bytes is
// left alone.
func Seal(m *Markup, v any) {
	if m.HasSource() {
		m.Hash = Hash(v)
	}
}

// Unchanged reports whether v still matches the state sealed in m, in which
// case m.Raw can be written back as is.
func Unchanged(m *Markup, v any) bool {
	return m.HasSource() && m.Hash != "" && m.Hash == Hash(v)
}
