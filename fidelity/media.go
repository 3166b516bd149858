package fidelity

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"strings"

	// Decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/doctree/opc"
)

// Media is a picture referenced from the main part.
type Media struct {
	RelID       string
	PartName    string
	Target      string
	ContentType string
	Data        []byte
	External    bool
}

var mediaExtensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpeg",
	"image/gif":     "gif",
	"image/bmp":     "bmp",
	"image/tiff":    "tiff",
	"image/webp":    "webp",
	"image/x-emf":   "emf",
	"image/x-wmf":   "wmf",
	"image/svg+xml": "svg",
}

// ImageSize returns the pixel dimensions and format name of an encoded
// picture.
func ImageSize(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("reading image header: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}

// Media returns the picture behind a relationship id.
func (s *Store) Media(relID string) (*Media, bool) {
	m, ok := s.media[relID]
	return m, ok
}

// MediaIDs returns the relationship ids of all pictures.
func (s *Store) MediaIDs() []string {
	ids := make([]string, 0, len(s.media))
	for _, r := range s.mainRels {
		if _, ok := s.media[r.ID]; ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// AddMedia stores a new picture next to the main part and relates it. The
// content type gets a default entry for its extension when needed.
func (s *Store) AddMedia(data []byte, contentType string) (*Media, error) {
	ext, ok := mediaExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("unsupported media type %q", contentType)
	}

	dir := path.Join(path.Dir(s.main), "media")
	var name string
	for n := len(s.media) + 1; ; n++ {
		name = path.Join(dir, fmt.Sprintf("image%d.%s", n, ext))
		if !s.pkg.Has(name) {
			break
		}
	}

	m := &Media{
		RelID:       s.NextRelationshipID(),
		PartName:    name,
		Target:      opc.RelativeTarget(s.main, name),
		ContentType: contentType,
		Data:        data,
	}
	s.pkg.Set(name, data)
	s.addMainRelationship(opc.Relationship{ID: m.RelID, Type: opc.TypeImage, Target: m.Target})

	switch {
	case !s.types.HasDefault(ext):
		s.types.AddDefault(ext, contentType)
		s.pkg.Set(opc.ContentTypesPart, s.types.Bytes())
	case s.types.TypeOf(name) != contentType:
		s.addOverride(name, contentType)
	}

	s.media[m.RelID] = m
	return m, nil
}

// ReplaceMedia swaps the bytes of an existing picture, keeping its part name
// and relationship.
func (s *Store) ReplaceMedia(relID string, data []byte, contentType string) error {
	m, ok := s.media[relID]
	if !ok || m.External {
		return fmt.Errorf("no embedded media with relationship id %q", relID)
	}
	if contentType != "" && contentType != m.ContentType {
		s.addOverride(m.PartName, contentType)
		m.ContentType = contentType
	}
	m.Data = data
	s.pkg.Set(m.PartName, data)
	return nil
}
