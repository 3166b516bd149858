package fidelity

import (
	"fmt"

	"github.com/tsawler/doctree/opc"
)

// Hyperlink is the target of a hyperlink relationship.
type Hyperlink struct {
	RelID    string
	URL      string
	External bool
}

// Hyperlink returns the target behind a relationship id.
func (s *Store) Hyperlink(relID string) (*Hyperlink, bool) {
	h, ok := s.links[relID]
	return h, ok
}

// AddHyperlink relates a new external target to the main part.
func (s *Store) AddHyperlink(url string) *Hyperlink {
	h := &Hyperlink{RelID: s.NextRelationshipID(), URL: url, External: true}
	s.addMainRelationship(opc.Relationship{
		ID:         h.RelID,
		Type:       opc.TypeHyperlink,
		Target:     url,
		TargetMode: "External",
	})
	s.links[h.RelID] = h
	return h
}

// SetHyperlinkURL retargets an existing hyperlink relationship. The main
// part's relationships are regenerated.
func (s *Store) SetHyperlinkURL(relID, url string) error {
	h, ok := s.links[relID]
	if !ok {
		return fmt.Errorf("no hyperlink with relationship id %q", relID)
	}
	for i := range s.mainRels {
		if s.mainRels[i].ID == relID {
			s.mainRels[i].Target = url
		}
	}
	h.URL = url
	s.pkg.Set(opc.RelsPartName(s.main), opc.MarshalRelationships(s.mainRels))
	return nil
}
