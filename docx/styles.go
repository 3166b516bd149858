package docx

import (
	"encoding/xml"
	"fmt"

	"github.com/tsawler/doctree/wml"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string      `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string      `xml:"styleId,attr"`
	Default string      `xml:"default,attr"` // "1" if default style
	Name    valXML      `xml:"name"`
	BasedOn valXML      `xml:"basedOn"`
	PPr     stylePPrXML `xml:"pPr"`
}

// stylePPrXML holds the paragraph properties of a style that matter for
// structure.
type stylePPrXML struct {
	OutlineLvl *valXML `xml:"outlineLvl"`
}

// valXML is any element carrying its value in w:val.
type valXML struct {
	Val string `xml:"val,attr"`
}

// numberingXML represents word/numbering.xml
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

// abstractNumXML represents an abstract numbering definition.
type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
	NumStyleLink  valXML   `xml:"numStyleLink"`
}

// lvlXML represents a numbering level.
type lvlXML struct {
	ILvl    string `xml:"ilvl,attr"`
	Start   valXML `xml:"start"`
	NumFmt  valXML `xml:"numFmt"`  // decimal, bullet, lowerLetter, upperLetter, lowerRoman, upperRoman
	LvlText valXML `xml:"lvlText"` // e.g. "%1.", "%1.%2"
}

// numXML represents a numbering instance.
type numXML struct {
	NumID         string           `xml:"numId,attr"`
	AbstractNumID valXML           `xml:"abstractNumId"`
	Overrides     []lvlOverrideXML `xml:"lvlOverride"`
}

// lvlOverrideXML restarts or redefines one level of a numbering instance.
type lvlOverrideXML struct {
	ILvl          string  `xml:"ilvl,attr"`
	StartOverride *valXML `xml:"startOverride"`
	Lvl           *lvlXML `xml:"lvl"`
}

// parseStyles decodes a styles part. A missing part yields nil.
func parseStyles(data []byte) (*stylesXML, error) {
	if len(data) == 0 {
		return nil, nil
	}
	data, err := wml.Normalize(data)
	if err != nil {
		return nil, err
	}
	var s stylesXML
	if err := xml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}
	return &s, nil
}

// parseNumbering decodes a numbering part. A missing part yields nil.
func parseNumbering(data []byte) (*numberingXML, error) {
	if len(data) == 0 {
		return nil, nil
	}
	data, err := wml.Normalize(data)
	if err != nil {
		return nil, err
	}
	var n numberingXML
	if err := xml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse numbering: %w", err)
	}
	return &n, nil
}
