package model

// WrapMode is the text wrapping of a floating picture.
type WrapMode string

const (
	WrapInline       WrapMode = ""
	WrapNone         WrapMode = "none"
	WrapSquare       WrapMode = "square"
	WrapTight        WrapMode = "tight"
	WrapThrough      WrapMode = "through"
	WrapTopAndBottom WrapMode = "topAndBottom"
)

// ImageData describes a picture in a drawing. Geometry is in EMU.
//
// The payload, content type, target and natural size are read-only
// projections of the fidelity store's media entry; they are not part of the
// drawing markup and do not mark the drawing as edited.
type ImageData struct {
	RelID  string
	LinkID string `json:",omitempty"` // r:link of externally linked pictures

	Data        []byte `json:"-"`
	ContentType string `json:"-"`
	Target      string `json:"-"`

	// Declared extent.
	Width  int64
	Height int64

	PixelWidth    int   `json:"-"`
	PixelHeight   int   `json:"-"`
	NaturalWidth  int64 `json:"-"`
	NaturalHeight int64 `json:"-"`

	AltText   string
	Title     string
	Name      string
	DrawingID int

	Layout ImageLayout

	Markup Markup `json:"-"`
}

// ImageLayout is the positioning of a picture.
type ImageLayout struct {
	Floating bool
	Wrap     WrapMode
	WrapSide string // bothSides, left, right, largest

	Horizontal Position
	Vertical   Position

	BehindText   bool
	AllowOverlap bool
	LayoutInCell bool
	Locked       bool
	ZOrder       int64 // wp:anchor relativeHeight

	DistTop    int64
	DistBottom int64
	DistLeft   int64
	DistRight  int64
}

// Position places a floating picture along one axis, either at an offset in
// EMU or with an alignment keyword, relative to RelativeFrom.
type Position struct {
	RelativeFrom string
	Offset       int64
	Align        string
}

// WidthInches returns the declared width in inches.
func (img *ImageData) WidthInches() float64 { return EMUToInches(img.Width) }

// HeightInches returns the declared height in inches.
func (img *ImageData) HeightInches() float64 { return EMUToInches(img.Height) }

// WidthPoints returns the declared width in points.
func (img *ImageData) WidthPoints() float64 { return EMUToPoints(img.Width) }

// HeightPoints returns the declared height in points.
func (img *ImageData) HeightPoints() float64 { return EMUToPoints(img.Height) }

// Resize sets the declared extent, keeping the aspect ratio when one of the
// dimensions is zero.
func (img *ImageData) Resize(width, height int64) {
	switch {
	case width == 0 && height != 0 && img.Height != 0:
		width = img.Width * height / img.Height
	case height == 0 && width != 0 && img.Width != 0:
		height = img.Height * width / img.Width
	}
	img.Width = width
	img.Height = height
}
