package fidelity

import (
	"fmt"
	"strings"

	"github.com/tsawler/doctree/opc"
	"github.com/tsawler/doctree/wml"
)

const (
	blankPrologue = opc.Declaration + `<w:document xmlns:w="` + wml.NsW + `" xmlns:r="` + wml.NsR +
		`" xmlns:wp="` + wml.NsWP + `" xmlns:w14="` + wml.NsW14 + `" xmlns:w15="` + wml.NsW15 +
		`" xmlns:mc="` + wml.NsMC + `" mc:Ignorable="w14 w15"><w:body>`
	blankSectPr = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
		`<w:cols w:space="720"/></w:sectPr>`
	blankEpilogue = `</w:body></w:document>`

	blankContentTypes = opc.Declaration + `<Types xmlns="` + wml.NsContentTypes + `">` +
		`<Default Extension="rels" ContentType="` + opc.ContentTypeRelationships + `"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
		`</Types>`
	blankPackageRels = opc.Declaration + `<Relationships xmlns="` + wml.NsPackageRels + `">` +
		`<Relationship Id="rId1" Type="` + opc.TypeOfficeDocument + `" Target="word/document.xml"/>` +
		`</Relationships>`
	blankDocumentRels = opc.Declaration + `<Relationships xmlns="` + wml.NsPackageRels + `">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`</Relationships>`
)

// Blank returns the store of an empty document: a main part with one section
// and a style sheet defining Normal, Title, Heading1 to Heading9, Hyperlink
// and TableGrid.
func Blank() *Store {
	pkg := opc.New()
	pkg.Set(opc.ContentTypesPart, []byte(blankContentTypes))
	pkg.Set("_rels/.rels", []byte(blankPackageRels))
	pkg.Set("word/document.xml", []byte(blankPrologue+blankSectPr+blankEpilogue))
	pkg.Set("word/_rels/document.xml.rels", []byte(blankDocumentRels))
	pkg.Set("word/styles.xml", []byte(blankStyles()))

	s, err := Capture(pkg)
	if err != nil {
		panic(fmt.Sprintf("fidelity: blank package: %v", err))
	}
	s.frame = Frame{
		Prologue: []byte(blankPrologue),
		SectPr:   []byte(blankSectPr),
		Epilogue: []byte(blankEpilogue),
	}
	return s
}

func blankStyles() string {
	var b strings.Builder
	b.WriteString(opc.Declaration)
	b.WriteString(`<w:styles xmlns:w="` + wml.NsW + `">`)
	b.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:asciiTheme="minorHAnsi" w:hAnsiTheme="minorHAnsi"/>` +
		`<w:sz w:val="22"/><w:szCs w:val="22"/><w:lang w:val="en-US"/></w:rPr></w:rPrDefault>` +
		`<w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>`)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/>` +
		`<w:next w:val="Normal"/><w:qFormat/><w:pPr><w:contextualSpacing/></w:pPr>` +
		`<w:rPr><w:sz w:val="56"/><w:szCs w:val="56"/></w:rPr></w:style>`)
	for level := 1; level <= 9; level++ {
		size := 32 - 2*(level-1)
		if size < 22 {
			size = 22
		}
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/>`+
			`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:uiPriority w:val="9"/><w:qFormat/>`+
			`<w:pPr><w:keepNext/><w:keepLines/><w:spacing w:before="240" w:after="0"/><w:outlineLvl w:val="%d"/></w:pPr>`+
			`<w:rPr><w:b/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:style>`,
			level, level, level-1, size, size)
	}
	b.WriteString(`<w:style w:type="character" w:default="1" w:styleId="DefaultParagraphFont"><w:name w:val="Default Paragraph Font"/></w:style>`)
	b.WriteString(`<w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/>` +
		`<w:basedOn w:val="DefaultParagraphFont"/><w:rPr><w:color w:val="0563C1"/><w:u w:val="single"/></w:rPr></w:style>`)
	b.WriteString(`<w:style w:type="character" w:styleId="PlaceholderText"><w:name w:val="Placeholder Text"/>` +
		`<w:basedOn w:val="DefaultParagraphFont"/><w:rPr><w:color w:val="808080"/></w:rPr></w:style>`)
	b.WriteString(`<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/>` +
		`<w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/>` +
		`<w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>`)
	b.WriteString(`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:basedOn w:val="TableNormal"/>` +
		`<w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders></w:tblPr></w:style>`)
	b.WriteString(`</w:styles>`)
	return b.String()
}
