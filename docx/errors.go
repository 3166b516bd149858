package docx

import (
	"errors"
	"fmt"

	"github.com/tsawler/doctree/model"
)

var (
	// ErrNotWordprocessing is returned for packages whose main part is not a
	// Word document or template.
	ErrNotWordprocessing = errors.New("not a wordprocessing package")
	// ErrNoBody is returned when the main part has no w:body.
	ErrNoBody = errors.New("main part has no body")
	// ErrFidelityGap is returned by strict writes that had to regenerate
	// partially modeled markup.
	ErrFidelityGap = errors.New("fidelity gap")
)

// ParseError reports a package that cannot be turned into a tree. No tree is
// returned alongside it.
type ParseError struct {
	Part string
	Op   string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("parse error in %s during %s: %v", e.Part, e.Op, e.Err)
	}
	return fmt.Sprintf("parse error during %s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StructuralError reports a tree that cannot be written: spans that do not
// fit the table grid, or references to media, hyperlinks or custom XML the
// package does not hold.
type StructuralError struct {
	Node   model.NodeID
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Node != 0 {
		return fmt.Sprintf("structural error at node %d: %s", e.Node, e.Reason)
	}
	return fmt.Sprintf("structural error: %s", e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsStructuralError reports whether err is or wraps a StructuralError.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

func structural(id model.NodeID, format string, args ...any) error {
	return &StructuralError{Node: id, Reason: fmt.Sprintf(format, args...)}
}
