package model

import "errors"

var (
	// ErrNoNode is returned for identifiers that do not name a live node.
	ErrNoNode = errors.New("no such node")
	// ErrRootType is returned when a second Document node is requested.
	ErrRootType = errors.New("only the root may be a Document node")
	// ErrPlacement is returned when a node cannot be placed where requested.
	ErrPlacement = errors.New("invalid placement")
	// ErrHeadingLevel is returned for heading levels outside 1-9.
	ErrHeadingLevel = errors.New("heading level must be between 1 and 9")
	// ErrOpaque is returned when editing the text of a node kept verbatim.
	ErrOpaque = errors.New("node is kept verbatim and cannot be edited")
	// ErrNoControl is returned when a content control wraps nothing in the
	// document.
	ErrNoControl = errors.New("content control not found")
	// ErrControlValue is returned for values a content control cannot take.
	ErrControlValue = errors.New("invalid content control value")
)
