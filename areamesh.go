// Triangulation of the sectors of a 2D area map.
//
// A map is a planar graph of vertices and linedefs, each linedef having a
// sector on either side. This package turns each sector, which may be
// non-convex and may contain holes, into triangles made only of the map's own
// vertices, and keeps them up to date as the map is edited. The map itself
// lives in the area package.
package areamesh

import (
	"fmt"

	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/internal"
)

type ErrorKind = internal.ErrorKind

const (
	InvalidArgs    = internal.InvalidArgs
	LoneEdges      = internal.LoneEdges
	VertexesReused = internal.VertexesReused
	NoBridge       = internal.NoBridge
	NoEars         = internal.NoEars
	Degenerate     = internal.Degenerate
)

// TriangulationError says why a sector could not be triangulated. Such a
// sector is left without triangles.
type TriangulationError struct {
	Sector area.SectorID
	Kind   ErrorKind
	// Linedefs where the problem was found, if the problem has a place.
	Linedefs []area.LinedefID
	Err      error
}

func (e *TriangulationError) Error() string {
	return fmt.Sprintf("sector %d: %s: %v", e.Sector, e.Kind, e.Err)
}

func (e *TriangulationError) Unwrap() error {
	return e.Err
}

type Result struct {
	Sector    area.SectorID
	Triangles []area.Triangle
	// Stray linedefs of the sector that were left out.
	LoneEdges []area.LinedefID
}

// TriangulateSector computes a sector's triangles without storing them. The
// map is not modified. On failure the result has no triangles but still lists
// lone edges, and the error is a *TriangulationError.
func TriangulateSector(m *area.Map, s area.SectorID, checkVertexReuse bool) (Result, error) {
	result := Result{Sector: s}
	raw, err := internal.Triangulate(m, s, internal.Options{CheckVertexReuse: checkVertexReuse})
	result.LoneEdges = raw.LoneEdges
	if err != nil {
		triangulateError := err.(*internal.TriangulateError)
		return result, &TriangulationError{
			Sector:   s,
			Kind:     triangulateError.Kind,
			Linedefs: triangulateError.Linedefs,
			Err:      triangulateError.Unwrap(),
		}
	}
	result.Triangles = make([]area.Triangle, len(raw.Triangles))
	for i, t := range raw.Triangles {
		result.Triangles[i] = t.ForSector(s)
	}
	return result, nil
}
