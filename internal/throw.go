package internal

import (
	"fmt"

	"github.com/osuushi/areamesh/area"
	"github.com/pkg/errors"
)

// Threading errors up and down the tracing, bridging and clipping loops would
// add a ton of complexity to the code. Instead, we use panics, and the entry
// points recover to convert to an error.

type ErrorKind int

const (
	// The sector doesn't exist or has nothing to triangulate.
	InvalidArgs ErrorKind = iota + 1
	// A loop of linedefs doesn't close.
	LoneEdges
	// A vertex is used by more than two of the sector's linedefs.
	VertexesReused
	// A hole has nothing to its right to connect to.
	NoBridge
	// Ear clipping ran out of ears.
	NoEars
	// The outer polygon has fewer than three vertices left after cleaning.
	Degenerate
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgs:
		return "invalid arguments"
	case LoneEdges:
		return "lone edges"
	case VertexesReused:
		return "vertexes reused"
	case NoBridge:
		return "no bridge"
	case NoEars:
		return "no ears"
	case Degenerate:
		return "degenerate"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

type TriangulateError struct {
	Kind ErrorKind
	// Linedefs where the problem was found, when there is one.
	Linedefs []area.LinedefID
	err      error
}

func (e *TriangulateError) Error() string {
	return e.err.Error()
}

func (e *TriangulateError) Unwrap() error {
	return e.err
}

// Panic with a TriangulateError.
func fatalf(kind ErrorKind, format string, args ...interface{}) {
	throw(kind, nil, format, args...)
}

func throw(kind ErrorKind, linedefs []area.LinedefID, format string, args ...interface{}) {
	panic(&TriangulateError{
		Kind:     kind,
		Linedefs: linedefs,
		err:      errors.Errorf(format, args...),
	})
}

func HandleTriangulatePanicRecover(r interface{}) error {
	if r != nil {
		if triangulateError, ok := r.(*TriangulateError); ok {
			return triangulateError
		}
		panic(r)
	}
	return nil
}
