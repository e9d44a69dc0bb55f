package internal

// This contains no actual tests. It is just a helper for testing triangulation
// validity.

import (
	"math"
	"testing"

	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to check that a sector's triangulation is valid. The polygons it is
// compared against are the sector's own, traced and cleaned. The rules are:
// 1. The set of points in the triangles must equal the set of polygon points.
// 2. Every polygon edge is an edge of some triangle.
// 3. Every triangle is counterclockwise, with nonzero area.
// 4. The triangle areas add up to the outer area minus the hole areas.
// 5. Sample points are covered by the triangles exactly where the polygons
// cover them.
func AssertValidTriangulation(t *testing.T, m *area.Map, s area.SectorID, triangles []*Triangle) {
	extraction, err := ExtractPolygons(m, s, false)
	require.NoError(t, err)

	polygons := PolygonList{extraction.Outer}
	polygons[0].Clean()
	for _, hole := range extraction.Holes {
		hole.Clean()
		if len(hole.Points) >= 3 {
			polygons = append(polygons, hole)
		}
	}

	polyPoints := make(PointSet)
	for _, poly := range polygons {
		for _, p := range poly.Points {
			polyPoints.Add(p)
		}
	}

	// The tracer hands out one pointer per vertex, and so does the pipeline,
	// but they are different runs. Compare by vertex handle.
	byID := map[area.VertexID]*Point{}
	for p := range polyPoints {
		byID[p.ID] = p
	}
	trianglePoints := make(PointSet)
	for _, tri := range triangles {
		for _, p := range []*Point{tri.A, tri.B, tri.C} {
			own, ok := byID[p.ID]
			require.True(t, ok, "triangle %v uses vertex %d, which is not on the sector's polygons", tri, p.ID)
			trianglePoints.Add(own)
		}
	}
	require.True(t, polyPoints.Equals(trianglePoints), "set of points in the triangles must equal the set of points in the polygons")

	var triangleArea float64
	triangleSegmentSet := make(normalizedSegmentSet)
	for _, tri := range triangles {
		signedArea := tri.SignedArea()
		require.Greater(t, signedArea, 0.0, "clockwise or flat triangle: %s", tri)
		triangleArea += signedArea
		triangleSegmentSet.add(tri.A.ID, tri.B.ID)
		triangleSegmentSet.add(tri.B.ID, tri.C.ID)
		triangleSegmentSet.add(tri.C.ID, tri.A.ID)
	}

	for _, poly := range polygons {
		for i, p1 := range poly.Points {
			p2 := poly.Points[geometry.CircularIndex(i+1, len(poly.Points))]
			require.True(t, triangleSegmentSet.contains(p1.ID, p2.ID), "polygon segment %v-%v is not a triangle edge", p1, p2)
		}
	}

	expectedArea := math.Abs(polygons[0].SignedArea())
	for _, hole := range polygons[1:] {
		expectedArea -= math.Abs(hole.SignedArea())
	}
	require.InDelta(t, expectedArea, triangleArea, 1e-6*math.Max(1, expectedArea), "triangle areas must add up to the polygon area")

	validateTrianglesBySampling(t, triangles, polygons)
}

// Vertex handle pairs, smaller handle first.
type normalizedSegment [2]area.VertexID

func newNormalizedSegment(a, b area.VertexID) normalizedSegment {
	if a < b {
		return normalizedSegment{a, b}
	}
	return normalizedSegment{b, a}
}

type normalizedSegmentSet map[normalizedSegment]struct{}

func (set normalizedSegmentSet) add(a, b area.VertexID) {
	set[newNormalizedSegment(a, b)] = struct{}{}
}

func (set normalizedSegmentSet) contains(a, b area.VertexID) bool {
	_, ok := set[newNormalizedSegment(a, b)]
	return ok
}

// validateTrianglesBySampling walks a grid over the polygons' bounding box and
// checks that each sample is inside exactly one triangle when the polygons
// contain it, and inside none otherwise. The grid is offset by an odd amount
// so that samples stay off the edges of shapes built on round coordinates.
func validateTrianglesBySampling(t *testing.T, triangles []*Triangle, expected PolygonList) {
	var all []geometry.Point
	for _, poly := range expected {
		all = append(all, poly.XY()...)
	}
	bounds := geometry.Bounds(all...)

	// Pad the bounding box by 10%
	xPadding := bounds.X.Length() * 0.1
	yPadding := bounds.Y.Length() * 0.1
	minX, maxX := bounds.X.Lo-xPadding, bounds.X.Hi+xPadding
	minY, maxY := bounds.Y.Lo-yPadding, bounds.Y.Hi+yPadding

	step := math.Max(maxX-minX, maxY-minY) / 50
	jitterX, jitterY := step*math.Sqrt2/7, step*math.Pi/11

	for y := minY + jitterY; y <= maxY; y += step {
		for x := minX + jitterX; x <= maxX; x += step {
			p := geometry.Point{X: x, Y: y}
			covering := 0
			for _, tri := range triangles {
				if geometry.IsPointInTriangle(p, tri.A.Point, tri.B.Point, tri.C.Point, false) {
					covering++
				}
			}
			if expected.ContainsPointByEvenOdd(p) {
				assert.Equal(t, 1, covering, "point %v should be in exactly one triangle", p)
			} else {
				assert.Equal(t, 0, covering, "point %v should not be in any triangle", p)
			}
		}
	}
}
