package internal

import (
	"github.com/osuushi/areamesh/area"
)

type Options struct {
	// Fail sectors where a vertex is used by more than two of their
	// linedefs, instead of tracing through them.
	CheckVertexReuse bool
}

type Result struct {
	Triangles []*Triangle
	// Stray linedefs dropped while tracing. These are reported even when
	// triangulation fails.
	LoneEdges []area.LinedefID
	// Vertex counts after cleaning, before bridging.
	OuterVertices int
	HoleVertices  []int
}

// Triangulate runs the whole pipeline for one sector: trace its polygons,
// clean them, bridge the holes into the outer polygon and clip ears. A failure
// anywhere discards the triangles; it never returns a partial set.
func Triangulate(m *area.Map, s area.SectorID, opts Options) (result Result, err error) {
	extraction := &Extraction{}
	defer func() {
		result.LoneEdges = extraction.LoneEdges
		if err = HandleTriangulatePanicRecover(recover()); err != nil {
			result.Triangles = nil
		}
	}()

	newTracer(m, s, extraction).run(opts.CheckVertexReuse)

	outer := extraction.Outer
	outer.Clean()
	if len(outer.Points) < 3 {
		fatalf(Degenerate, "sector %d: outer polygon has %d vertices after cleaning", s, len(outer.Points))
	}
	if !outer.IsCCW() {
		outer = outer.Reverse()
	}
	result.OuterVertices = len(outer.Points)

	var holes PolygonList
	for _, hole := range extraction.Holes {
		hole.Clean()
		if len(hole.Points) < 3 {
			continue
		}
		if !hole.IsCW() {
			hole = hole.Reverse()
		}
		holes = append(holes, hole)
		result.HoleVertices = append(result.HoleVertices, len(hole.Points))
	}

	outer.Cut(holes)
	result.Triangles = EarClip(outer)
	return result, nil
}
