package wml

// XML namespaces used in WordprocessingML packages.
const (
	NsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NsW14 = "http://schemas.microsoft.com/office/word/2010/wordml"
	NsW15 = "http://schemas.microsoft.com/office/word/2012/wordml"
	NsMC  = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	NsXML = "http://www.w3.org/XML/1998/namespace"

	NsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	NsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	NsCoreProps    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NsDC           = "http://purl.org/dc/elements/1.1/"
	NsDCTerms      = "http://purl.org/dc/terms/"
	NsExtended     = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NsCustom       = "http://schemas.openxmlformats.org/officeDocument/2006/custom-properties"
	NsVT           = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	NsXSI          = "http://www.w3.org/2001/XMLSchema-instance"
)

// Prefixes maps the prefixes used by regenerated markup to their namespaces.
// Parts that do not declare one of these on their root element get the
// declaration added before regenerated markup is spliced in.
var Prefixes = map[string]string{
	"w":   NsW,
	"r":   NsR,
	"wp":  NsWP,
	"w14": NsW14,
	"w15": NsW15,
}

// wellKnown resolves the conventional prefixes of fragments parsed without
// their part's declarations.
var wellKnown = map[string]string{
	"w":   NsW,
	"r":   NsR,
	"wp":  NsWP,
	"a":   NsA,
	"pic": NsPic,
	"w14": NsW14,
	"w15": NsW15,
	"mc":  NsMC,
}
