package model

import "fmt"

// WarningKind classifies a non-fatal issue.
type WarningKind int

const (
	// FidelityGap means an element with unmodeled content was regenerated
	// from its typed fields, so the written markup may differ from the
	// original beyond the edit.
	FidelityGap WarningKind = iota
)

func (k WarningKind) String() string {
	if k == FidelityGap {
		return "fidelity gap"
	}
	return "unknown"
}

// Warning is a non-fatal issue met while writing a document.
type Warning struct {
	Kind    WarningKind
	Node    NodeID
	Part    string
	Element string
	Message string
}

func (w Warning) String() string {
	if w.Element != "" {
		return fmt.Sprintf("%s: %s <%s> (node %d): %s", w.Kind, w.Part, w.Element, w.Node, w.Message)
	}
	return fmt.Sprintf("%s: %s (node %d): %s", w.Kind, w.Part, w.Node, w.Message)
}
