package formatting

import (
	"bytes"

	"github.com/tsawler/doctree/model"
	"github.com/tsawler/doctree/wml"
)

type control = model.ContentControlProperties

// Lock values of w:lock.
const (
	lockControl     = "sdtLocked"
	lockContents    = "contentLocked"
	lockBoth        = "sdtContentLocked"
	checkedGlyph    = "2612"
	uncheckedGlyph  = "2610"
	checkboxFont    = "MS Gothic"
	datePattern     = "M/d/yyyy"
	storeAsDateTime = "dateTime"
)

func wVal(name string, field func(cc *control) *string) prop[control] {
	return prop[control]{
		name:  name,
		apply: func(el *wml.Element, cc *control) { *field(cc) = el.Val() },
		emit: func(b *bytes.Buffer, cc *control) {
			if v := *field(cc); v != "" {
				wml.Empty(b, "w:"+name, "w:val", v)
			}
		},
	}
}

// kindExtra stores the children of a kind element the typed fields do not
// cover.
func kindExtra(el *wml.Element, cc *control, modeled ...string) {
	for _, c := range el.Children {
		known := false
		for _, m := range modeled {
			if c.Name.Local == m {
				known = true
				break
			}
		}
		if !known {
			cc.TypeExtra = append(cc.TypeExtra, c.Raw)
		}
	}
}

func writeExtra(b *bytes.Buffer, cc *control) {
	for _, raw := range cc.TypeExtra {
		b.Write(raw)
	}
}

// simpleKind maps a kind element with no modeled content.
func simpleKind(ns, prefix, name string, kind model.ControlKind) prop[control] {
	return prop[control]{
		ns:   ns,
		name: name,
		apply: func(el *wml.Element, cc *control) {
			cc.Kind = kind
			kindExtra(el, cc)
		},
		emit: func(b *bytes.Buffer, cc *control) {
			if cc.Kind != kind {
				return
			}
			qname := prefix + ":" + name
			if len(cc.TypeExtra) == 0 {
				wml.Empty(b, qname)
				return
			}
			wml.Open(b, qname)
			writeExtra(b, cc)
			wml.Close(b, qname)
		},
	}
}

func listKind(name string, kind model.ControlKind) prop[control] {
	return prop[control]{
		name: name,
		apply: func(el *wml.Element, cc *control) {
			cc.Kind = kind
			cc.Value = wAttr(el, "lastValue")
			for _, it := range el.ChildrenNamed(wml.NsW, "listItem") {
				cc.Items = append(cc.Items, model.ListChoice{
					DisplayText: wAttr(it, "displayText"),
					Value:       wAttr(it, "value"),
				})
			}
			kindExtra(el, cc, "listItem")
		},
		emit: func(b *bytes.Buffer, cc *control) {
			if cc.Kind != kind {
				return
			}
			qname := "w:" + name
			wml.Open(b, qname, "w:lastValue", cc.Value)
			for _, it := range cc.Items {
				wml.Empty(b, "w:listItem", "w:displayText", it.DisplayText, "w:value", it.Value)
			}
			writeExtra(b, cc)
			wml.Close(b, qname)
		},
	}
}

var sdtPr = &block[control]{
	order: []string{
		"rPr", "alias", "tag", "id", "lock", "placeholder", "temporary",
		"showingPlcHdr", "dataBinding", "label", "tabIndex",
	},
	props: []prop[control]{
		wVal("alias", func(cc *control) *string { return &cc.Alias }),
		wVal("tag", func(cc *control) *string { return &cc.Tag }),
		{
			name:  "id",
			apply: func(el *wml.Element, cc *control) { cc.ID, _ = intAttr(el, "val") },
			emit: func(b *bytes.Buffer, cc *control) {
				if cc.ID != 0 {
					wml.Empty(b, "w:id", "w:val", itoa(cc.ID))
				}
			},
		},
		{
			name: "lock",
			apply: func(el *wml.Element, cc *control) {
				switch el.Val() {
				case lockControl:
					cc.LockControl = true
				case lockContents:
					cc.LockContents = true
				case lockBoth:
					cc.LockControl, cc.LockContents = true, true
				}
			},
			emit: func(b *bytes.Buffer, cc *control) {
				switch {
				case cc.LockControl && cc.LockContents:
					wml.Empty(b, "w:lock", "w:val", lockBoth)
				case cc.LockControl:
					wml.Empty(b, "w:lock", "w:val", lockControl)
				case cc.LockContents:
					wml.Empty(b, "w:lock", "w:val", lockContents)
				}
			},
		},
		{
			name:  "showingPlcHdr",
			apply: func(el *wml.Element, cc *control) { cc.ShowingPlaceholder = toggle(el) == model.On },
			emit: func(b *bytes.Buffer, cc *control) {
				if cc.ShowingPlaceholder {
					wml.Empty(b, "w:showingPlcHdr")
				}
			},
		},
		{
			name: "dataBinding",
			apply: func(el *wml.Element, cc *control) {
				cc.Binding = &model.DataBinding{
					PrefixMappings: wAttr(el, "prefixMappings"),
					XPath:          wAttr(el, "xpath"),
					StoreItemID:    wAttr(el, "storeItemID"),
				}
			},
			emit: func(b *bytes.Buffer, cc *control) {
				if cc.Binding == nil {
					return
				}
				wml.Empty(b, "w:dataBinding",
					"w:prefixMappings", cc.Binding.PrefixMappings,
					"w:xpath", cc.Binding.XPath,
					"w:storeItemID", cc.Binding.StoreItemID)
			},
		},

		listKind("comboBox", model.ControlComboBox),
		listKind("dropDownList", model.ControlDropDown),
		{
			name: "date",
			apply: func(el *wml.Element, cc *control) {
				cc.Kind = model.ControlDate
				cc.FullDate = wAttr(el, "fullDate")
				cc.DateFormat = el.Child(wml.NsW, "dateFormat").Val()
				cc.DateLocale = el.Child(wml.NsW, "lid").Val()
				cc.DateStorage = el.Child(wml.NsW, "storeMappedDataAs").Val()
				cc.DateCalendar = el.Child(wml.NsW, "calendar").Val()
				kindExtra(el, cc, "dateFormat", "lid", "storeMappedDataAs", "calendar")
			},
			emit: func(b *bytes.Buffer, cc *control) {
				if cc.Kind != model.ControlDate {
					return
				}
				wml.Open(b, "w:date", "w:fullDate", cc.FullDate)
				if cc.DateFormat != "" {
					wml.Empty(b, "w:dateFormat", "w:val", cc.DateFormat)
				}
				if cc.DateLocale != "" {
					wml.Empty(b, "w:lid", "w:val", cc.DateLocale)
				}
				if cc.DateStorage != "" {
					wml.Empty(b, "w:storeMappedDataAs", "w:val", cc.DateStorage)
				}
				if cc.DateCalendar != "" {
					wml.Empty(b, "w:calendar", "w:val", cc.DateCalendar)
				}
				writeExtra(b, cc)
				wml.Close(b, "w:date")
			},
		},
		{
			name: "text",
			apply: func(el *wml.Element, cc *control) {
				cc.Kind = model.ControlPlainText
				cc.MultiLine = toggleAttr(el, "multiLine")
			},
			emit: func(b *bytes.Buffer, cc *control) {
				if cc.Kind != model.ControlPlainText && cc.Kind != model.ControlDocumentProperty {
					return
				}
				if cc.MultiLine {
					wml.Empty(b, "w:text", "w:multiLine", "1")
					return
				}
				wml.Empty(b, "w:text")
			},
		},
		{
			// An sdtPr without a kind element is rich text, so w:richText is
			// only written where it was present or for new controls.
			name:  "richText",
			apply: func(el *wml.Element, cc *control) { cc.Kind = model.ControlRichText },
			emit: func(b *bytes.Buffer, cc *control) {
				if cc.Kind != model.ControlRichText {
					return
				}
				if cc.Markup.HasSource() && !bytes.Contains(cc.Markup.Raw, []byte(":richText")) {
					return
				}
				wml.Empty(b, "w:richText")
			},
		},
		simpleKind(wml.NsW, "w", "picture", model.ControlPicture),
		simpleKind(wml.NsW, "w", "group", model.ControlGroup),
		simpleKind(wml.NsW, "w", "bibliography", model.ControlBibliography),
		simpleKind(wml.NsW, "w", "citation", model.ControlCitation),
		simpleKind(wml.NsW, "w", "equation", model.ControlEquation),
		simpleKind(wml.NsW, "w", "docPartObj", model.ControlBuildingBlockGallery),
		simpleKind(wml.NsW15, "w15", "repeatingSection", model.ControlRepeatingSection),
		simpleKind(wml.NsW15, "w15", "repeatingSectionItem", model.ControlRepeatingSectionItem),
		{
			ns:   wml.NsW14,
			name: "checkbox",
			apply: func(el *wml.Element, cc *control) {
				cc.Kind = model.ControlCheckbox
				if v, ok := el.Child(wml.NsW14, "checked").AttrNS(wml.NsW14, "val"); ok {
					cc.Checked = v == "1" || v == "true"
				}
				if st := el.Child(wml.NsW14, "checkedState"); st != nil {
					cc.CheckedGlyph, _ = st.AttrNS(wml.NsW14, "val")
					cc.CheckedFont, _ = st.AttrNS(wml.NsW14, "font")
				}
				if st := el.Child(wml.NsW14, "uncheckedState"); st != nil {
					cc.UncheckedGlyph, _ = st.AttrNS(wml.NsW14, "val")
					cc.UncheckedFont, _ = st.AttrNS(wml.NsW14, "font")
				}
			},
			emit: func(b *bytes.Buffer, cc *control) {
				if cc.Kind != model.ControlCheckbox {
					return
				}
				checked := "0"
				if cc.Checked {
					checked = "1"
				}
				wml.Open(b, "w14:checkbox")
				wml.Empty(b, "w14:checked", "w14:val", checked)
				wml.Empty(b, "w14:checkedState", "w14:val", cc.CheckedGlyph, "w14:font", cc.CheckedFont)
				wml.Empty(b, "w14:uncheckedState", "w14:val", cc.UncheckedGlyph, "w14:font", cc.UncheckedFont)
				wml.Close(b, "w14:checkbox")
			},
		},
	},
}

func toggleAttr(el *wml.Element, local string) bool {
	v, ok := el.AttrNS(wml.NsW, local)
	if !ok {
		return false
	}
	return v == "1" || v == "true" || v == "on"
}

// NewControl returns properties for a control created after parsing, with
// the defaults Word writes for its kind.
func NewControl(kind model.ControlKind) *model.ContentControlProperties {
	cc := &model.ContentControlProperties{Kind: kind}
	switch kind {
	case model.ControlCheckbox:
		cc.CheckedGlyph, cc.CheckedFont = checkedGlyph, checkboxFont
		cc.UncheckedGlyph, cc.UncheckedFont = uncheckedGlyph, checkboxFont
		cc.Value = "false"
	case model.ControlDate:
		cc.DateFormat = datePattern
		cc.DateLocale = "en-US"
		cc.DateStorage = storeAsDateTime
		cc.DateCalendar = "gregorian"
	}
	return cc
}

// ExtractControl maps a w:sdtPr to content-control properties. visible is
// the text shown by the control, used to derive the value of kinds that do
// not store one.
func ExtractControl(pr, endPr *wml.Element, visible string) *model.ContentControlProperties {
	cc := &model.ContentControlProperties{}
	if endPr != nil {
		cc.EndProperties = endPr.Raw
	}
	if pr == nil {
		cc.Value = visible
		return cc
	}
	sdtPr.extract(pr, cc, &cc.Markup)

	if cc.Kind == model.ControlPlainText && cc.Binding != nil {
		switch cc.Binding.StoreItemID {
		case model.CorePropertiesStoreID, model.ExtendedPropertiesStoreID, model.CoverPagePropertiesID:
			cc.Kind = model.ControlDocumentProperty
		}
	}

	switch {
	case cc.Kind == model.ControlCheckbox:
		cc.Value = "false"
		if cc.Checked {
			cc.Value = "true"
		}
	case cc.Kind.HasChoices():
		if cc.Value != "" {
			break
		}
		if it, ok := cc.Choice(visible); ok && !cc.ShowingPlaceholder {
			cc.Value = it.Value
		} else if !cc.ShowingPlaceholder {
			cc.Value = visible
		}
	case cc.ShowingPlaceholder:
	default:
		cc.Value = visible
	}
	return cc
}

// Control writes the w:sdtPr of cc.
func Control(b *bytes.Buffer, cc *model.ContentControlProperties) bool {
	return sdtPr.write(b, "w:sdtPr", &cc.Markup, cc)
}
