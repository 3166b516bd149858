package model

// ControlKind is the type of a content control.
type ControlKind int

const (
	ControlRichText ControlKind = iota
	ControlPlainText
	ControlDate
	ControlCheckbox
	ControlDropDown
	ControlComboBox
	ControlRepeatingSection
	ControlRepeatingSectionItem
	ControlBuildingBlockGallery
	ControlGroup
	ControlBibliography
	ControlCitation
	ControlEquation
	ControlPicture
	ControlDocumentProperty
)

func (k ControlKind) String() string {
	switch k {
	case ControlRichText:
		return "richText"
	case ControlPlainText:
		return "text"
	case ControlDate:
		return "date"
	case ControlCheckbox:
		return "checkbox"
	case ControlDropDown:
		return "dropDownList"
	case ControlComboBox:
		return "comboBox"
	case ControlRepeatingSection:
		return "repeatingSection"
	case ControlRepeatingSectionItem:
		return "repeatingSectionItem"
	case ControlBuildingBlockGallery:
		return "docPartObj"
	case ControlGroup:
		return "group"
	case ControlBibliography:
		return "bibliography"
	case ControlCitation:
		return "citation"
	case ControlEquation:
		return "equation"
	case ControlPicture:
		return "picture"
	case ControlDocumentProperty:
		return "documentProperty"
	default:
		return "unknown"
	}
}

// HasChoices reports whether the kind carries list items.
func (k ControlKind) HasChoices() bool {
	return k == ControlDropDown || k == ControlComboBox
}

// ListChoice is one entry of a drop-down or combo box.
type ListChoice struct {
	DisplayText string
	Value       string
}

// Label returns the text shown for the choice.
func (c ListChoice) Label() string {
	if c.DisplayText != "" {
		return c.DisplayText
	}
	return c.Value
}

// DataBinding ties a control to a node of a custom XML part.
type DataBinding struct {
	PrefixMappings string
	XPath          string
	StoreItemID    string
}

// Store item ids of the built-in document property parts.
const (
	CorePropertiesStoreID     = "{6C3C8BC8-F283-45AE-878A-BAB7291924A1}"
	ExtendedPropertiesStoreID = "{6668398D-A668-4E3E-A5EB-62B293D839F1}"
	CoverPagePropertiesID     = "{55AF091B-3C7A-41E3-B477-F2FDAA23CFDA}"
)

// ContentControlProperties is the typed form of a w:sdtPr. A control is not a
// node: the nodes or runs it wraps carry a pointer to it.
type ContentControlProperties struct {
	Kind  ControlKind
	ID    int
	Tag   string
	Alias string

	// Value is the control's value as read at parse time or set by
	// SetContentControlValue: the selected list value, the entered text, the
	// formatted date, or "true"/"false" for checkboxes. Editing the wrapped
	// content with SetText or ReplaceRuns leaves it alone; ControlText reads
	// the content as it is now.
	Value string

	Items []ListChoice `json:",omitempty"`

	LockControl  bool
	LockContents bool

	DateFormat   string `json:",omitempty"`
	DateLocale   string `json:",omitempty"`
	DateCalendar string `json:",omitempty"`
	DateStorage  string `json:",omitempty"`
	FullDate     string `json:",omitempty"`

	Checked        bool
	CheckedGlyph   string `json:",omitempty"` // hex code point, e.g. "2612"
	CheckedFont    string `json:",omitempty"`
	UncheckedGlyph string `json:",omitempty"`
	UncheckedFont  string `json:",omitempty"`

	MultiLine          bool
	ShowingPlaceholder bool

	Binding *DataBinding `json:",omitempty"`

	// Markup holds the verbatim w:sdtPr.
	Markup Markup `json:"-"`
	// EndProperties is the verbatim w:sdtEndPr, if any.
	EndProperties []byte `json:"-"`
	// TypeExtra holds unmodeled children of the kind element, e.g. w:date.
	TypeExtra [][]byte `json:"-"`
}

// Choice returns the list item matching value by value or display text.
func (cc *ContentControlProperties) Choice(value string) (ListChoice, bool) {
	for _, it := range cc.Items {
		if it.Value == value {
			return it, true
		}
	}
	for _, it := range cc.Items {
		if it.DisplayText == value {
			return it, true
		}
	}
	return ListChoice{}, false
}

// Glyph returns the character shown by a checkbox in its current state.
func (cc *ContentControlProperties) Glyph() string {
	code, def := cc.UncheckedGlyph, '☐'
	if cc.Checked {
		code, def = cc.CheckedGlyph, '☒'
	}
	if r, ok := parseCodePoint(code); ok {
		return string(r)
	}
	return string(def)
}

func parseCodePoint(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	var v rune
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			v = v*16 + c - '0'
		case c >= 'a' && c <= 'f':
			v = v*16 + c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v = v*16 + c - 'A' + 10
		default:
			return 0, false
		}
	}
	return v, true
}
