package internal

import (
	"math"
	"sort"

	"github.com/osuushi/areamesh/geometry"
)

// Cut joins every hole into the outer polygon, so the result is one polygon
// that walks around the outside, along a bridge into each hole, around the
// hole and back out along the same bridge. The outer polygon must be
// counterclockwise and the holes clockwise.
//
// Holes are bridged from the rightmost one leftward. A hole whose view to
// the right is blocked by an earlier hole bridges into that hole, since it is
// part of the outer polygon by then.
func (poly *Polygon) Cut(holes PolygonList) {
	type entry struct {
		hole  Polygon
		right *Point
	}
	entries := make([]entry, 0, len(holes))
	for _, hole := range holes {
		if len(hole.Points) == 0 {
			continue
		}
		entries = append(entries, entry{hole, hole.Points[hole.RightmostIndex()]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return isMoreRight(entries[i].right, entries[j].right)
	})
	for _, e := range entries {
		poly.bridge(e.hole)
	}
}

func (poly *Polygon) bridge(hole Polygon) {
	anchorIndex := hole.RightmostIndex()
	anchor := hole.Points[anchorIndex]

	rightmostX := math.Inf(-1)
	for _, p := range poly.Points {
		rightmostX = math.Max(rightmostX, p.X)
	}
	rayWidth := rightmostX - anchor.X
	if rayWidth <= 0 {
		fatalf(NoBridge, "nothing to the right of hole vertex %v", anchor)
	}
	rayEnd := geometry.Point{X: rightmostX, Y: anchor.Y}

	// Find the closest edge the ray crosses, and the closest vertex lying on
	// the ray itself, both as a fraction of the ray.
	n := len(poly.Points)
	closestEdge, closestVertex := -1, -1
	closestEdgeT, closestVertexT := math.Inf(1), math.Inf(1)
	for i, p := range poly.Points {
		if geometry.Equal(p.Y, anchor.Y) && p.X >= anchor.X {
			t := (p.X - anchor.X) / rayWidth
			if t < closestVertexT {
				closestVertex, closestVertexT = i, t
			}
		}
		next := poly.Points[geometry.CircularIndex(i+1, n)]
		if _, t, ok := geometry.SegmentIntersection(p.Point, next.Point, anchor.Point, rayEnd); ok && t < closestEdgeT {
			closestEdge, closestEdgeT = i, t
		}
	}

	// A ray through a vertex also crosses that vertex's edges, at the same
	// distance give or take rounding. The vertex wins those ties.
	var bridge *Point
	switch {
	case closestVertex >= 0 && (closestVertexT-closestEdgeT)*rayWidth <= geometry.Tolerance:
		bridge = poly.Points[closestVertex]
	case closestEdge >= 0:
		bridge = poly.visibleVertex(anchor, closestEdge, closestEdgeT, rayEnd)
	default:
		fatalf(NoBridge, "the ray from hole vertex %v hits nothing", anchor)
	}

	insertion := poly.bridgeInsertionIndex(bridge, anchor)

	spliced := make([]*Point, 0, n+len(hole.Points)+2)
	spliced = append(spliced, poly.Points[:insertion+1]...)
	if anchor == bridge {
		// The hole touches the outer polygon here, so the bridge has no
		// length and needs no duplicates.
		for k := 1; k < len(hole.Points); k++ {
			spliced = append(spliced, hole.Points[geometry.CircularIndex(anchorIndex+k, len(hole.Points))])
		}
		spliced = append(spliced, anchor)
	} else {
		for k := 0; k < len(hole.Points); k++ {
			spliced = append(spliced, hole.Points[geometry.CircularIndex(anchorIndex+k, len(hole.Points))])
		}
		spliced = append(spliced, anchor, bridge)
	}
	spliced = append(spliced, poly.Points[insertion+1:]...)
	poly.Points = spliced
}

// visibleVertex picks the vertex to bridge to when the ray first hits the
// inside of an edge. The edge's rightmost endpoint is visible from the anchor
// unless some other vertex sits inside the triangle between the anchor, the
// crossing and that endpoint. In that case, the vertex closest in angle to the
// ray is visible.
func (poly *Polygon) visibleVertex(anchor *Point, edge int, t float64, rayEnd geometry.Point) *Point {
	a := poly.Points[edge]
	b := poly.Points[geometry.CircularIndex(edge+1, len(poly.Points))]
	candidate := a
	if isMoreRight(b, a) {
		candidate = b
	}
	crossing := anchor.Point.Add(rayEnd.Sub(anchor.Point).Scale(t))
	if crossing.Equal(candidate.Point) {
		// The ray hits the endpoint itself, so nothing can hide it.
		return candidate
	}

	var best *Point
	var bestAngle, bestDistance float64
	for _, p := range poly.Points {
		if p == candidate || p.X <= anchor.X {
			continue
		}
		if !geometry.IsPointInTriangle(p.Point, anchor.Point, crossing, candidate.Point, true) {
			continue
		}
		angle := math.Abs(geometry.Angle(anchor.Point, p.Point))
		distance := geometry.Distance(anchor.Point, p.Point)
		better := best == nil || angle < bestAngle
		if !better && angle == bestAngle {
			better = distance < bestDistance || (distance == bestDistance && p.ID < best.ID)
		}
		if better {
			best, bestAngle, bestDistance = p, angle, distance
		}
	}
	if best == nil {
		return candidate
	}
	return best
}

// bridgeInsertionIndex finds where in the polygon the bridge leaves from. A
// vertex that is already the end of another bridge appears more than once,
// and the bridge must leave from the occurrence whose inside wedge faces the
// anchor.
func (poly *Polygon) bridgeInsertionIndex(bridge, anchor *Point) int {
	var occurrences []int
	for i, p := range poly.Points {
		if p == bridge {
			occurrences = append(occurrences, i)
		}
	}
	if len(occurrences) == 1 {
		return occurrences[0]
	}

	n := len(poly.Points)
	direction := geometry.Angle(bridge.Point, anchor.Point)
	for _, i := range occurrences {
		prev := poly.Points[geometry.CircularIndex(i-1, n)]
		next := poly.Points[geometry.CircularIndex(i+1, n)]
		out := geometry.Angle(bridge.Point, next.Point)
		back := geometry.Angle(bridge.Point, prev.Point)
		// Going counterclockwise from the outgoing edge sweeps the inside of
		// the polygon until the incoming edge.
		if geometry.AngleCCWDiff(out, direction) < geometry.AngleCCWDiff(out, back) {
			return i
		}
	}
	return occurrences[len(occurrences)-1]
}
